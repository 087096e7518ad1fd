package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPathExists(t *testing.T) {
	dir := t.TempDir()

	ok, err := PathExists(dir)
	if err != nil || !ok {
		t.Errorf("PathExists(%q) = %v, %v; want true, nil", dir, ok, err)
	}

	missing := filepath.Join(dir, "missing")
	ok, err = PathExists(missing)
	if err != nil || ok {
		t.Errorf("PathExists(%q) = %v, %v; want false, nil", missing, ok, err)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")

	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := WriteFileAtomic(path, []byte("new"), 0o600); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Errorf("content = %q, want %q", got, "new")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected temp file to be gone, dir has %d entries", len(entries))
	}
}

func TestJSONRoundTripIndent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "v.json")
	in := map[string]string{"url": "https://example.com/?a=1&b=2"}

	if err := WriteJSON(path, in); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n    \"url\": \"https://example.com/?a=1&b=2\"\n}\n"
	if string(raw) != want {
		t.Errorf("file = %q, want %q", raw, want)
	}

	var out map[string]string
	if err := ReadJSON(path, &out); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if out["url"] != in["url"] {
		t.Errorf("url = %q, want %q", out["url"], in["url"])
	}
}

func TestReadJSONMissing(t *testing.T) {
	var v any
	err := ReadJSON(filepath.Join(t.TempDir(), "nope.json"), &v)
	if !os.IsNotExist(err) {
		t.Errorf("ReadJSON on missing file: got %v, want not-exist error", err)
	}
}

func TestCheckPathElement(t *testing.T) {
	for _, ok := range []string{"fastjson", "1.2.83", "v2.0.0-rc1", "master"} {
		if err := CheckPathElement("name", ok); err != nil {
			t.Errorf("CheckPathElement(%q): %v", ok, err)
		}
	}
	for _, bad := range []string{"../../x", "a/b", `a\b`, "..", "x..y"} {
		if err := CheckPathElement("name", bad); err == nil {
			t.Errorf("CheckPathElement(%q) accepted", bad)
		}
	}
}
