package launch

import (
	"log"
	"os"
	"os/exec"
	"syscall"
	"time"

	"hangar/internal/catalog"
	"hangar/internal/debug"
)

// Target is the program to run, a read-only view of a catalog entry.
type Target struct {
	ID      string
	Command string
	Args    []string
	Dir     string
}

// Options configures one launch attempt.
type Options struct {
	Terminal string // Emulator ID override; empty means auto-detect
	Dir      string // Working directory override
	Attached bool   // Wait for the child and observe its exit
}

// Outcome is the result of one attempt. Exactly one Outcome comes out of
// every Launch call; failures are carried in Error, never panicked.
// Success false with an empty Error means the program exited non-zero.
type Outcome struct {
	Success  bool
	ExitCode *int          // nil unless the process ran to completion
	Duration time.Duration // end-to-end, launch request to resolution
	Error    string        // set when spawning itself failed
}

// Recorder persists launch outcomes. *catalog.Store satisfies it.
type Recorder interface {
	RecordLaunch(rec catalog.LaunchRecord) error
}

// Launcher opens targets in terminal windows and records every attempt.
type Launcher struct {
	rec Recorder
}

func New(rec Recorder) *Launcher {
	return &Launcher{rec: rec}
}

// Launch opens the target in a terminal emulator. Attached launches wait
// for the child to exit; detached launches resolve as soon as the child
// is running on its own. Every path, including the no-terminal and
// spawn-error ones, records exactly one history entry and bumps the
// target's launch counter.
func (l *Launcher) Launch(target Target, opts Options) Outcome {
	start := time.Now()

	terminal := opts.Terminal
	if terminal == "" {
		detected, ok := Detect()
		if !ok {
			out := Outcome{Error: "no terminal emulator found", Duration: time.Since(start)}
			l.record(target.ID, start, out)
			return out
		}
		terminal = detected
	}

	argv := BuildArgv(terminal, target.Command, target.Args)
	dir := opts.Dir
	if dir == "" {
		dir = target.Dir
	}
	debug.Log(debug.LAUNCH_ARGV, "argv=%q dir=%q attached=%v", argv, dir, opts.Attached)

	var out Outcome
	if opts.Attached {
		out = runAttached(argv, dir)
	} else {
		out = runDetached(argv, dir)
	}
	out.Duration = time.Since(start)

	l.record(target.ID, start, out)
	return out
}

// record persists the outcome. Store failures are logged and swallowed;
// the outcome already handed to the caller is never altered by them.
func (l *Launcher) record(targetID string, startedAt time.Time, out Outcome) {
	if l.rec == nil {
		return
	}
	rec := catalog.LaunchRecord{
		TUIID:      targetID,
		LaunchedAt: startedAt,
		Success:    out.Success,
		ExitCode:   out.ExitCode,
		DurationMS: out.Duration.Milliseconds(),
		Error:      out.Error,
	}
	if err := l.rec.RecordLaunch(rec); err != nil {
		log.Printf("Store Error recording launch: %v", err)
	}
}

// runAttached spawns argv with inherited standard streams and waits for
// the child to exit. A non-zero exit is a captured state, not an error.
func runAttached(argv []string, dir string) Outcome {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return Outcome{Error: err.Error()}
	}

	code := 0
	if err := cmd.Wait(); err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			// Wait itself failed; the exit state was never observed
			return Outcome{Error: err.Error()}
		}
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			code = status.ExitStatus()
		} else {
			code = exitErr.ExitCode()
		}
	}
	return Outcome{Success: code == 0, ExitCode: &code}
}

// runDetached spawns argv in its own session with discarded standard
// streams, so the child keeps running when this process exits. The exit
// code is never known in this mode.
func runDetached(argv []string, dir string) Outcome {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = dir

	devNull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err == nil {
		defer devNull.Close()
		cmd.Stdin = devNull
		cmd.Stdout = devNull
		cmd.Stderr = devNull
	}

	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return Outcome{Error: err.Error()}
	}
	if err := cmd.Process.Release(); err != nil {
		debug.Log(debug.LAUNCH, "process release: %v", err)
	}
	return Outcome{Success: true}
}
