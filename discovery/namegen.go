package discovery

import (
	"errors"
	"net"
)

// ErrNameExhausted means every generated display name is already advertised
// on this network. Hosting is impossible for this match attempt.
var ErrNameExhausted = errors.New("discovery: no unused display name available")

var adjectives = []string{
	"amber", "brave", "calm", "clever", "eager", "fuzzy", "gentle", "happy",
	"jolly", "lucky", "mellow", "nimble", "proud", "quick", "silent", "witty",
}

var nouns = []string{
	"badger", "crane", "dolphin", "falcon", "gecko", "heron", "ibex", "jackal",
	"koala", "lemur", "marmot", "newt", "otter", "puffin", "raven", "stoat",
}

// GenerateName derives a display name from the peer's address so two peers
// on the same network start from different points in the name space. attempt
// walks the full adjective-noun grid, so attempts 0..255 visit every
// combination exactly once.
func GenerateName(addr net.IP, attempt int) string {
	seed := 0
	if v4 := addr.To4(); v4 != nil {
		seed = int(v4[3])
	}
	i := (seed + attempt) % len(adjectives)
	j := (seed/len(adjectives) + attempt/len(adjectives)) % len(nouns)
	return adjectives[i] + "-" + nouns[j]
}

// PickName returns a generated name not currently present in the directory,
// regenerating with the next attempt on collision. When every combination
// collides it fails with ErrNameExhausted.
func PickName(addr net.IP, dir *Directory) (string, error) {
	for attempt := 0; attempt < len(adjectives)*len(nouns); attempt++ {
		name := GenerateName(addr, attempt)
		if dir == nil || !dir.Has(name) {
			return name, nil
		}
	}
	return "", ErrNameExhausted
}
