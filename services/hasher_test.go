package services

import "testing"

func TestPasswordHasher(t *testing.T) {
	h := testHasher()

	hash, err := h.Hash("battery-staple")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if hash == "battery-staple" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !h.Verify("battery-staple", hash) {
		t.Fatal("expected correct password to verify")
	}
	if h.Verify("wrong-password", hash) {
		t.Fatal("expected wrong password to fail")
	}

	// Salting makes repeated hashes of the same input distinct.
	again, err := h.Hash("battery-staple")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if hash == again {
		t.Fatal("expected distinct hashes for repeated input")
	}
}
