package launch

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hangar/internal/catalog"
)

// emulatorStub behaves like a -e sh -c style terminal: it drops the
// three wrapper args and runs the wrapped shell command itself.
const emulatorStub = "#!/bin/sh\nshift 3\nexec /bin/sh -c \"$1\"\n"

type fakeRecorder struct {
	records []catalog.LaunchRecord
	failErr error
}

func (f *fakeRecorder) RecordLaunch(rec catalog.LaunchRecord) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.records = append(f.records, rec)
	return nil
}

func TestLaunchNoTerminal(t *testing.T) {
	skipOnWindows(t)
	t.Setenv("PATH", t.TempDir())
	rec := &fakeRecorder{}
	l := New(rec)

	out := l.Launch(Target{ID: "t1", Command: "htop"}, Options{})

	if out.Success {
		t.Error("expected failure with no terminal installed")
	}
	if out.Error != "no terminal emulator found" {
		t.Errorf("Error = %q", out.Error)
	}
	if out.ExitCode != nil {
		t.Errorf("ExitCode = %d, want nil", *out.ExitCode)
	}
	if len(rec.records) != 1 {
		t.Fatalf("recorded %d attempts, want 1", len(rec.records))
	}
	r := rec.records[0]
	if r.TUIID != "t1" || r.Success || r.Error != "no terminal emulator found" {
		t.Errorf("record mismatch: %+v", r)
	}
	if r.ExitCode != nil {
		t.Errorf("record ExitCode = %d, want nil", *r.ExitCode)
	}
}

func TestLaunchAttached(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	stubBinary(t, dir, "alacritty", emulatorStub)
	t.Setenv("PATH", dir)

	testCases := []struct {
		name        string
		command     string
		args        []string
		wantSuccess bool
		wantCode    int
	}{
		{"clean exit", "true", nil, true, 0},
		{"non-zero exit captured", "exit", []string{"3"}, false, 3},
		{"exit 1 is a state not an error", "exit", []string{"1"}, false, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := &fakeRecorder{}
			l := New(rec)

			out := l.Launch(
				Target{ID: "t1", Command: tc.command, Args: tc.args},
				Options{Attached: true},
			)

			if out.Success != tc.wantSuccess {
				t.Errorf("Success = %v, want %v", out.Success, tc.wantSuccess)
			}
			if out.ExitCode == nil {
				t.Fatal("ExitCode nil for attached launch that ran")
			}
			if *out.ExitCode != tc.wantCode {
				t.Errorf("ExitCode = %d, want %d", *out.ExitCode, tc.wantCode)
			}
			// Non-zero exit is not a spawn failure
			if out.Error != "" {
				t.Errorf("Error = %q, want empty", out.Error)
			}
			if out.Duration <= 0 {
				t.Error("Duration not measured")
			}
			if len(rec.records) != 1 {
				t.Fatalf("recorded %d attempts, want 1", len(rec.records))
			}
			if rec.records[0].ExitCode == nil || *rec.records[0].ExitCode != tc.wantCode {
				t.Errorf("record ExitCode mismatch: %+v", rec.records[0])
			}
		})
	}
}

func TestLaunchDetached(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	stubBinary(t, dir, "alacritty", emulatorStub)
	t.Setenv("PATH", dir)
	rec := &fakeRecorder{}
	l := New(rec)

	out := l.Launch(Target{ID: "t1", Command: "true"}, Options{})

	if !out.Success {
		t.Errorf("detached spawn failed: %q", out.Error)
	}
	// Exit code is never observed in detached mode
	if out.ExitCode != nil {
		t.Errorf("ExitCode = %d, want nil", *out.ExitCode)
	}
	if out.Error != "" {
		t.Errorf("Error = %q, want empty", out.Error)
	}
	if len(rec.records) != 1 {
		t.Fatalf("recorded %d attempts, want 1", len(rec.records))
	}
	if rec.records[0].ExitCode != nil {
		t.Error("detached record carries an exit code")
	}
}

func TestLaunchSpawnError(t *testing.T) {
	skipOnWindows(t)
	t.Setenv("PATH", t.TempDir())
	rec := &fakeRecorder{}
	l := New(rec)

	// Explicit override skips detection; the binary does not exist, and
	// the unknown ID exercises the fallback wrapper on the way.
	out := l.Launch(
		Target{ID: "t1", Command: "htop"},
		Options{Terminal: "hangar-missing-terminal", Attached: true},
	)

	if out.Success {
		t.Error("expected spawn failure")
	}
	if out.Error == "" {
		t.Error("spawn failure carried no error text")
	}
	if out.ExitCode != nil {
		t.Errorf("ExitCode = %d, want nil", *out.ExitCode)
	}
	if len(rec.records) != 1 {
		t.Fatalf("recorded %d attempts, want 1", len(rec.records))
	}
}

func TestLaunchExplicitTerminalOverride(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	outFile := filepath.Join(t.TempDir(), "picked")
	// Each stub records its own name; detection order would pick alacritty
	stubBinary(t, dir, "alacritty", "#!/bin/sh\necho alacritty > \"$HANGAR_TEST_OUT\"\n")
	stubBinary(t, dir, "xterm", "#!/bin/sh\necho xterm > \"$HANGAR_TEST_OUT\"\n")
	t.Setenv("PATH", dir)
	t.Setenv("HANGAR_TEST_OUT", outFile)
	l := New(&fakeRecorder{})

	out := l.Launch(Target{ID: "t1", Command: "htop"}, Options{Terminal: "xterm", Attached: true})
	if !out.Success {
		t.Fatalf("launch failed: %q", out.Error)
	}

	picked, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("stub wrote nothing: %v", err)
	}
	if got := strings.TrimSpace(string(picked)); got != "xterm" {
		t.Errorf("launched %q, want xterm override", got)
	}
}

func TestLaunchWorkingDir(t *testing.T) {
	skipOnWindows(t)
	binDir := t.TempDir()
	outFile := filepath.Join(t.TempDir(), "cwd")
	stubBinary(t, binDir, "alacritty", "#!/bin/sh\npwd > \"$HANGAR_TEST_OUT\"\n")
	t.Setenv("PATH", binDir)
	t.Setenv("HANGAR_TEST_OUT", outFile)

	targetDir := t.TempDir()
	overrideDir := t.TempDir()

	testCases := []struct {
		name    string
		optsDir string
		want    string
	}{
		{"target working dir", "", targetDir},
		{"options override wins", overrideDir, overrideDir},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l := New(&fakeRecorder{})
			out := l.Launch(
				Target{ID: "t1", Command: "htop", Dir: targetDir},
				Options{Dir: tc.optsDir, Attached: true},
			)
			if !out.Success {
				t.Fatalf("launch failed: %q", out.Error)
			}

			got, err := os.ReadFile(outFile)
			if err != nil {
				t.Fatalf("stub wrote nothing: %v", err)
			}
			gotDir := strings.TrimSpace(string(got))
			want, _ := filepath.EvalSymlinks(tc.want)
			if resolved, err := filepath.EvalSymlinks(gotDir); err == nil {
				gotDir = resolved
			}
			if gotDir != want {
				t.Errorf("child cwd = %q, want %q", gotDir, want)
			}
		})
	}
}

func TestLaunchRecorderFailureKeepsOutcome(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	stubBinary(t, dir, "alacritty", emulatorStub)
	t.Setenv("PATH", dir)
	rec := &fakeRecorder{failErr: errors.New("store unavailable")}
	l := New(rec)

	out := l.Launch(Target{ID: "t1", Command: "true"}, Options{Attached: true})

	// The launch already resolved; a failed recording must not change it
	if !out.Success {
		t.Errorf("recording failure altered outcome: %+v", out)
	}
	if out.Error != "" {
		t.Errorf("recording failure leaked into Error: %q", out.Error)
	}
}

func TestLaunchNilRecorder(t *testing.T) {
	skipOnWindows(t)
	t.Setenv("PATH", t.TempDir())
	l := New(nil)

	out := l.Launch(Target{ID: "t1", Command: "htop"}, Options{})
	if out.Success {
		t.Error("expected no-terminal failure")
	}
}
