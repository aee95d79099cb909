package discover

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func writeStub(t *testing.T, dir, name string, mode os.FileMode) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"), mode); err != nil {
		t.Fatalf("writing stub %s: %v", name, err)
	}
}

func TestScanFindsKnownPrograms(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("PATH scan test relies on unix permissions")
	}
	dir := t.TempDir()
	writeStub(t, dir, "htop", 0o755)
	writeStub(t, dir, "lazygit", 0o755)
	writeStub(t, dir, "not-a-known-tui", 0o755)
	t.Setenv("PATH", dir)

	found, err := Scan()
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("found %d candidates, want 2: %+v", len(found), found)
	}
	// Sorted by name
	if found[0].Name != "htop" || found[1].Name != "lazygit" {
		t.Errorf("candidates = %s, %s", found[0].Name, found[1].Name)
	}
	if found[0].Description == "" || found[0].Category == "" {
		t.Errorf("registry metadata missing: %+v", found[0])
	}
	if found[0].Path != filepath.Join(dir, "htop") {
		t.Errorf("Path = %q", found[0].Path)
	}
}

func TestScanSkipsNonExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("PATH scan test relies on unix permissions")
	}
	dir := t.TempDir()
	writeStub(t, dir, "htop", 0o644) // Known name but not executable
	t.Setenv("PATH", dir)

	found, err := Scan()
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(found) != 0 {
		t.Errorf("non-executable file matched: %+v", found)
	}
}

func TestScanFirstPathHitWins(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("PATH scan test relies on unix permissions")
	}
	first := t.TempDir()
	second := t.TempDir()
	writeStub(t, first, "htop", 0o755)
	writeStub(t, second, "htop", 0o755)
	t.Setenv("PATH", first+string(os.PathListSeparator)+second)

	found, err := Scan()
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("found %d candidates, want 1", len(found))
	}
	if found[0].Path != filepath.Join(first, "htop") {
		t.Errorf("Path = %q, want the earlier PATH entry", found[0].Path)
	}
}

func TestScanMissingPathDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("PATH scan test relies on unix permissions")
	}
	dir := t.TempDir()
	writeStub(t, dir, "htop", 0o755)
	gone := filepath.Join(dir, "does-not-exist")
	t.Setenv("PATH", gone+string(os.PathListSeparator)+dir)

	found, err := Scan()
	if err != nil {
		t.Fatalf("Scan failed on missing PATH dir: %v", err)
	}
	if len(found) != 1 {
		t.Errorf("found %d candidates, want 1", len(found))
	}
}
