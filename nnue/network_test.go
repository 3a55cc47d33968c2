package nnue

import (
	"bytes"
	"testing"
)

func TestSaveLoadNetworkRoundTrip(t *testing.T) {
	net := NewRandomNetwork(1)
	var buf bytes.Buffer
	if err := net.SaveNetwork(&buf); err != nil {
		t.Fatalf("SaveNetwork: %v", err)
	}

	loaded, err := LoadNetwork(&buf)
	if err != nil {
		t.Fatalf("LoadNetwork: %v", err)
	}
	if loaded.ftWeights != net.ftWeights {
		t.Errorf("feature-transformer weights did not round trip")
	}
	if loaded.b3 != net.b3 {
		t.Errorf("output bias did not round trip: got %d, want %d", loaded.b3, net.b3)
	}
}

func TestLoadNetworkRejectsBadMagic(t *testing.T) {
	if _, err := LoadNetwork(bytes.NewReader([]byte{1, 2, 3, 4})); err == nil {
		t.Errorf("expected an error for a file with a bad magic number")
	}
}

func TestNewRandomNetworkIsDeterministic(t *testing.T) {
	a := NewRandomNetwork(42)
	b := NewRandomNetwork(42)
	if a.ftWeights != b.ftWeights || a.b3 != b.b3 {
		t.Errorf("expected the same seed to produce identical weights")
	}
}

func TestClippedReLUBounds(t *testing.T) {
	if got := clippedReLU(-100, 0); got != 0 {
		t.Errorf("expected negative input clipped to 0, got %d", got)
	}
	if got := clippedReLU(1<<20, 0); got != 127 {
		t.Errorf("expected large input clipped to 127, got %d", got)
	}
	if got := clippedReLU(64, 0); got != 64 {
		t.Errorf("expected mid-range input to pass through unclipped, got %d", got)
	}
}
