package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestLinePrompt(t *testing.T) {
	var out bytes.Buffer
	p := NewLine(strings.NewReader("  first \nsecond"), &out)

	got, err := p.Prompt("Enter OSSP name")
	if err != nil || got != "first" {
		t.Errorf("Prompt() = %q, %v; want %q, nil", got, err, "first")
	}
	// Last line without newline is still an answer.
	got, err = p.Secret("Enter token")
	if err != nil || got != "second" {
		t.Errorf("Secret() = %q, %v; want %q, nil", got, err, "second")
	}
	if _, err := p.Prompt("again"); !errors.Is(err, ErrNoInput) {
		t.Errorf("Prompt() on exhausted input: got %v, want ErrNoInput", err)
	}

	if !strings.Contains(out.String(), "Enter OSSP name: ") {
		t.Errorf("label not written, output %q", out.String())
	}
}

func TestInt(t *testing.T) {
	var out bytes.Buffer
	p := NewLine(strings.NewReader("abc\n\n42\n"), &out)

	n, err := Int(p, &out, "Enter OSSP id")
	if err != nil {
		t.Fatalf("Int: %v", err)
	}
	if n != 42 {
		t.Errorf("Int() = %d, want 42", n)
	}
	if got := strings.Count(out.String(), "is not a valid integer"); got != 2 {
		t.Errorf("expected 2 invalid integer messages, got %d in %q", got, out.String())
	}
}

func TestNonEmpty(t *testing.T) {
	var out bytes.Buffer
	p := NewLine(strings.NewReader("\n \nv1.0.0\n"), &out)

	v, err := NonEmpty(p, "Enter version")
	if err != nil || v != "v1.0.0" {
		t.Errorf("NonEmpty() = %q, %v; want %q, nil", v, err, "v1.0.0")
	}

	if _, err := NonEmpty(NewLine(strings.NewReader(""), &out), "x"); !errors.Is(err, ErrNoInput) {
		t.Errorf("NonEmpty on empty input: got %v, want ErrNoInput", err)
	}
}
