package main

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleManifest = `
tests:
  - name: arithmetic
    script: "+ 2 3"
    result: "5"
  - name: loop-output
    script: |
      set x 0
      while {< $x 3} { puts $x; set x [+ $x 1] }
    output: |
      0
      1
      2
  - name: undefined-variable
    script: "puts $nope"
    error: "no such variable"
`

func TestParseManifest(t *testing.T) {
	m, err := parseManifest([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("parseManifest: %v", err)
	}
	if len(m.Tests) != 3 {
		t.Fatalf("want 3 cases, got %d", len(m.Tests))
	}
	if m.Tests[0].Name != "arithmetic" || m.Tests[0].Result != "5" {
		t.Fatalf("unexpected first case: %+v", m.Tests[0])
	}
}

func TestParseManifestRejectsIncompleteCases(t *testing.T) {
	if _, err := parseManifest([]byte("tests:\n  - script: \"+ 1 1\"\n")); err == nil {
		t.Fatal("want error for case without name")
	}
	if _, err := parseManifest([]byte("tests:\n  - name: empty\n")); err == nil {
		t.Fatal("want error for case without script")
	}
}

func TestRunCase(t *testing.T) {
	m, err := parseManifest([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("parseManifest: %v", err)
	}
	for _, tc := range m.Tests {
		if ok, detail := runCase(tc); !ok {
			t.Fatalf("case %q failed: %s", tc.Name, detail)
		}
	}
}

func TestRunCaseDetectsMismatch(t *testing.T) {
	ok, detail := runCase(testCase{Name: "bad", Script: "+ 1 1", Result: "3"})
	if ok {
		t.Fatal("want mismatch")
	}
	if detail == "" {
		t.Fatal("want a mismatch explanation")
	}
}

func TestCollectManifests(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{
		filepath.Join(dir, "a.test.yaml"),
		filepath.Join(sub, "b.test.yaml"),
		filepath.Join(dir, "ignored.yaml"),
	} {
		if err := os.WriteFile(p, []byte("tests: []\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	files, err := collectManifests(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("want 2 manifests, got %v", files)
	}
}
