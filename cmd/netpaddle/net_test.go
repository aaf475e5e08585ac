package main

import "testing"

func TestLocalIPv4(t *testing.T) {
	ip, err := localIPv4()
	if err != nil {
		t.Skipf("no usable interface: %v", err)
	}
	if ip.To4() == nil {
		t.Fatalf("returned non-IPv4 address %v", ip)
	}
	if ip.IsLoopback() {
		t.Fatalf("returned loopback address %v", ip)
	}
}
