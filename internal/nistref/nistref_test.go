package nistref

import (
	"bytes"
	"crypto/sha256"
	"testing"
)

func TestHashDFFirstBlock(t *testing.T) {
	in := []byte("input")
	got := HashDF(in, SeedLen)
	if len(got) != SeedLen {
		t.Fatalf("len = %d, want %d", len(got), SeedLen)
	}
	want := sha256.Sum256(append([]byte{1, 0, 0, 0x01, 0xb8}, in...))
	if !bytes.Equal(got[:32], want[:]) {
		t.Fatalf("first block mismatch")
	}
}

func TestGenerateAdvances(t *testing.T) {
	d := Instantiate(bytes.Repeat([]byte{1}, 32), bytes.Repeat([]byte{2}, 16), nil)
	a := d.Generate(64)
	b := d.Generate(64)
	if bytes.Equal(a, b) || d.ReseedCounter != 3 {
		t.Fatalf("state did not advance")
	}
}
