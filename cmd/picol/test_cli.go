package main

import (
	"bytes"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/DarthVA28/picol"
)

// testManifest is one *.test.yaml fixture file: a list of named cases, each a
// script plus expectations. A case may check any combination of expected
// stdout, expected final value, and expected error substring; an empty
// `error` means the script must succeed.
type testManifest struct {
	Tests []testCase `yaml:"tests"`
}

type testCase struct {
	Name   string `yaml:"name"`
	Script string `yaml:"script"`
	Output string `yaml:"output"`
	Result string `yaml:"result"`
	Error  string `yaml:"error"`
}

func cmdTest(args []string) int {
	fset := flag.NewFlagSet("test", flag.ContinueOnError)
	verbose := fset.Bool("v", false, "print every case, not just failures")
	if err := fset.Parse(args); err != nil {
		return 2
	}
	root := "."
	if rest := fset.Args(); len(rest) > 0 {
		root = rest[0]
	}

	files, err := collectManifests(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 1
	}
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "%s: no *.test.yaml manifests under %s\n", appName, root)
		return 1
	}

	passed, failed := 0, 0
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
			return 1
		}
		m, err := parseManifest(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s: %v\n", appName, file, err)
			return 1
		}
		for _, tc := range m.Tests {
			ok, detail := runCase(tc)
			if ok {
				passed++
				if *verbose {
					fmt.Printf("ok   %s: %s\n", file, tc.Name)
				}
				continue
			}
			failed++
			fmt.Printf("FAIL %s: %s\n     %s\n", file, tc.Name, detail)
		}
	}

	fmt.Printf("%d passed, %d failed\n", passed, failed)
	if failed > 0 {
		return 1
	}
	return 0
}

func collectManifests(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".test.yaml") {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func parseManifest(data []byte) (*testManifest, error) {
	var m testManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	for i, tc := range m.Tests {
		if tc.Name == "" {
			return nil, fmt.Errorf("case %d: missing name", i)
		}
		if tc.Script == "" {
			return nil, fmt.Errorf("case %q: missing script", tc.Name)
		}
	}
	return &m, nil
}

// runCase evaluates one fixture case in a fresh interpreter with captured
// output and checks it against the case's expectations.
func runCase(tc testCase) (bool, string) {
	var out bytes.Buffer
	ip := picol.New()
	ip.Out = &out

	val, err := ip.Run(tc.Script)

	if tc.Error != "" {
		if err == nil {
			return false, fmt.Sprintf("expected error containing %q, got none", tc.Error)
		}
		if !strings.Contains(err.Error(), tc.Error) {
			return false, fmt.Sprintf("expected error containing %q, got %q", tc.Error, err.Error())
		}
		return true, ""
	}

	if err != nil {
		return false, fmt.Sprintf("unexpected error: %v", err)
	}
	if got := out.String(); got != tc.Output {
		return false, fmt.Sprintf("output mismatch: want %q, got %q", tc.Output, got)
	}
	if tc.Result != "" && val != tc.Result {
		return false, fmt.Sprintf("result mismatch: want %q, got %q", tc.Result, val)
	}
	return true, ""
}
