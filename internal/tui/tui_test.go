package tui

import (
	"bytes"
	"strings"
	"testing"
)

func TestAlert(t *testing.T) {
	var buf bytes.Buffer
	Alert(&buf, "Too many %s", "arguments")

	out := buf.String()
	for _, want := range []string{"Alert!", "Too many arguments"} {
		if !strings.Contains(out, want) {
			t.Errorf("Alert output %q does not contain %q", out, want)
		}
	}
}

func TestAlertValue(t *testing.T) {
	var buf bytes.Buffer
	AlertValue(&buf, "Invalid report", "bogus_kind")

	out := buf.String()
	for _, want := range []string{"Alert!", "Invalid report", "bogus_kind"} {
		if !strings.Contains(out, want) {
			t.Errorf("AlertValue output %q does not contain %q", out, want)
		}
	}
}
