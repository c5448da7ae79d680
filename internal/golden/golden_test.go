package golden

import "testing"

func TestDiffEqual(t *testing.T) {
	if d := Diff("a\nb\n", "a\nb\n"); d != "" {
		t.Errorf("Diff of equal strings = %q, want empty", d)
	}
}

func TestDiffMismatch(t *testing.T) {
	d := Diff("color=(1 1 1 1)\n", "color=@4\n")
	if d == "" {
		t.Fatal("Diff of different strings is empty")
	}
}

func TestEqualPasses(t *testing.T) {
	Equal(t, "same", "same")
}
