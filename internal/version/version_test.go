package version

import "testing"

func TestString(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "1.2.3"
	if got, want := String(), "besecure-developer-toolkit v1.2.3"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
