package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestVersion(t *testing.T) {
	code, out, _ := runCLI(t, "-version")
	if code != 0 || !strings.HasPrefix(out, "wrapedit dev") {
		t.Errorf("code %d, output %q", code, out)
	}
}

func TestBatchPrintsText(t *testing.T) {
	path := writeFile(t, "a.txt", "hello\nworld")
	code, out, errOut := runCLI(t, "-batch", path)
	if code != 0 {
		t.Fatalf("code %d: %s", code, errOut)
	}
	if out != "hello\nworld" {
		t.Errorf("output = %q", out)
	}
}

func TestBatchQuery(t *testing.T) {
	path := writeFile(t, "a.txt", "abcdef")
	code, out, errOut := runCLI(t, "-batch", "-width", "3", "-query", "lines.#.text", path)
	if code != 0 {
		t.Fatalf("code %d: %s", code, errOut)
	}
	if out != `["abc","def"]`+"\n" {
		t.Errorf("output = %q", out)
	}
}

func TestBatchMatch(t *testing.T) {
	path := writeFile(t, "a.txt", "apple\nbanana\navocado")
	code, out, errOut := runCLI(t, "-width", "0", "-match", "a*", path)
	if code != 0 {
		t.Fatalf("code %d: %s", code, errOut)
	}
	if out != "1: apple\n3: avocado\n" {
		t.Errorf("output = %q", out)
	}
}

func TestBatchDump(t *testing.T) {
	path := writeFile(t, "a.txt", "abc")
	code, out, errOut := runCLI(t, "-width", "7", "-dump", path)
	if code != 0 {
		t.Fatalf("code %d: %s", code, errOut)
	}
	if !strings.Contains(out, `"wrapWidth": 7`) || !strings.Contains(out, `"text": "abc"`) {
		t.Errorf("dump = %s", out)
	}
}

func TestBatchScriptAndSave(t *testing.T) {
	path := writeFile(t, "a.txt", "world")
	script := writeFile(t, "edit.lua", `doc.insert("hello ") print(doc.caret())`)
	code, out, errOut := runCLI(t, "-script", script, "-save", path)
	if code != 0 {
		t.Fatalf("code %d: %s", code, errOut)
	}
	if out != "1\t7\n" {
		t.Errorf("script output = %q", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello world" {
		t.Errorf("saved %q", data)
	}
}

func TestBatchScriptError(t *testing.T) {
	script := writeFile(t, "bad.lua", `doc.set_caret(5, 5)`)
	code, _, errOut := runCLI(t, "-script", script)
	if code != 1 || !strings.Contains(errOut, "set_caret") {
		t.Errorf("code %d, stderr %q", code, errOut)
	}
}

func TestFlagErrors(t *testing.T) {
	tests := map[string][]string{
		"two files":      {"-batch", "a", "b"},
		"save scratch":   {"-batch", "-save"},
		"unknown flag":   {"-nope"},
		"bad width type": {"-width", "wide"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			if code, _, _ := runCLI(t, args...); code != 2 {
				t.Errorf("code = %d, want 2", code)
			}
		})
	}
}

func TestInitError(t *testing.T) {
	cfg := writeFile(t, "bad.toml", "[editor\n")
	code, _, errOut := runCLI(t, "-batch", "-config", cfg)
	if code != 1 || !strings.Contains(errOut, "failed to initialize") {
		t.Errorf("code %d, stderr %q", code, errOut)
	}
}
