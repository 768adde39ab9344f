package password

import "testing"

func TestHashAndMatches(t *testing.T) {
	hash, err := Hash("pw123", 4)
	if err != nil {
		t.Fatalf("Hash() error = %v, want nil", err)
	}
	if hash == "pw123" {
		t.Fatal("Hash() returned the plaintext")
	}

	if !Matches("pw123", hash) {
		t.Error("Matches() = false for the correct password, want true")
	}
	if Matches("wrong", hash) {
		t.Error("Matches() = true for the wrong password, want false")
	}
}

func TestHashInvalidCostFallsBack(t *testing.T) {
	hash, err := Hash("pw123", 99)
	if err != nil {
		t.Fatalf("Hash() error = %v, want nil", err)
	}
	if !Matches("pw123", hash) {
		t.Error("Matches() = false after cost fallback, want true")
	}
}
