package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// resetFlags restores every flag to its default between tests.
func resetFlags() {
	verbose = false
	quiet = false
	jsonOut = false
	keySize = 32
	valueSize = 64
	encoding = encUTF8
	createSlots = 64
	createCellar = -1
	getPrevious = ""
	putPrevious = ""
	deletePrevious = ""
	migrateRemoveDrained = false
}

// newTableFile creates a table with the current flags in a temp dir.
func newTableFile(t *testing.T, name string, slots uint64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	createSlots = slots
	if _, err := captureOutput(t, func() error {
		return runCreate(context.Background(), []string{path})
	}); err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	return path
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	// Save original stdout
	origStdout := os.Stdout

	// Create a pipe to capture output
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	// Redirect stdout to pipe
	os.Stdout = w

	// Run function
	fnErr := fn()

	// Close write end and restore stdout
	w.Close()
	os.Stdout = origStdout

	// Read captured output
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	return buf.String(), fnErr
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) map[string]any {
	t.Helper()
	var result map[string]any
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
	}
	return result
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}
