package service

import "testing"

func TestPasswordHasher_Deterministic(t *testing.T) {
	hasher := NewPasswordHasher([]byte("key"))

	first := hasher.Hash("hunter2")
	second := hasher.Hash("hunter2")
	if first != second {
		t.Fatalf("same plaintext and key must produce the same digest: %q vs %q", first, second)
	}
	if first == "hunter2" {
		t.Fatalf("digest must not equal the plaintext")
	}
}

func TestPasswordHasher_KeyDependent(t *testing.T) {
	a := NewPasswordHasher([]byte("key-a")).Hash("hunter2")
	b := NewPasswordHasher([]byte("key-b")).Hash("hunter2")
	if a == b {
		t.Fatalf("different keys must produce different digests")
	}
}

func TestPasswordHasher_Compare(t *testing.T) {
	hasher := NewPasswordHasher([]byte("key"))
	digest := hasher.Hash("hunter2")

	if !hasher.Compare("hunter2", digest) {
		t.Fatalf("correct password must compare true")
	}
	if hasher.Compare("wrong", digest) {
		t.Fatalf("wrong password must compare false")
	}
}
