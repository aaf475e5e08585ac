package discovery

import (
	"errors"
	"net"
	"testing"
)

var localIP = net.IPv4(10, 0, 0, 37)

func TestGenerateNameDeterministic(t *testing.T) {
	if GenerateName(localIP, 3) != GenerateName(localIP, 3) {
		t.Fatal("same address and attempt produced different names")
	}
	if GenerateName(localIP, 0) == GenerateName(localIP, 1) {
		t.Fatal("consecutive attempts produced the same name")
	}
}

func TestGenerateNameCoversAllCombinations(t *testing.T) {
	total := len(adjectives) * len(nouns)
	seen := make(map[string]struct{}, total)
	for attempt := 0; attempt < total; attempt++ {
		seen[GenerateName(localIP, attempt)] = struct{}{}
	}
	if len(seen) != total {
		t.Fatalf("attempts visited %d of %d combinations", len(seen), total)
	}
}

func TestPickNameSkipsCollisions(t *testing.T) {
	d := NewDirectory()
	first := GenerateName(localIP, 0)
	d.Upsert(entry(first, 9))

	name, err := PickName(localIP, d)
	if err != nil {
		t.Fatal(err)
	}
	if name == first {
		t.Fatal("picked a name already advertised")
	}
}

func TestPickNameExhaustion(t *testing.T) {
	d := NewDirectory()
	for attempt := 0; attempt < len(adjectives)*len(nouns); attempt++ {
		d.Upsert(entry(GenerateName(localIP, attempt), 9))
	}
	if _, err := PickName(localIP, d); !errors.Is(err, ErrNameExhausted) {
		t.Fatalf("got %v, want ErrNameExhausted", err)
	}
}
