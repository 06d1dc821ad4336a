package checksum

import "testing"

func TestSum(t *testing.T) {
	got := Sum([]byte("hello"))
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got != want {
		t.Errorf("Sum = %q, want %q", got, want)
	}
}

func TestSumDeterministic(t *testing.T) {
	if Sum([]byte("a")) != Sum([]byte("a")) {
		t.Error("same content must produce the same digest")
	}
	if Sum([]byte("a")) == Sum([]byte("b")) {
		t.Error("different content must produce different digests")
	}
}

func TestShard(t *testing.T) {
	if got := Shard("2cf24dba"); got != "2c" {
		t.Errorf("Shard = %q, want %q", got, "2c")
	}
	if got := Shard("a"); got != "00" {
		t.Errorf("Shard on short digest = %q, want fallback %q", got, "00")
	}
}
