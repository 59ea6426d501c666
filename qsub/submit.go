package qsub

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// Submitter hands job scripts to the PBS scheduler.
type Submitter struct {
	// Command is the scheduler submit command, qsub on Computerome.
	Command string
	// Throttle is slept after every submission so the scheduler is not flooded.
	Throttle time.Duration
}

// NewSubmitter returns a Submitter using qsub with a one second throttle.
func NewSubmitter() *Submitter {
	return &Submitter{Command: "qsub", Throttle: time.Second}
}

// Submit runs the submit command on the absolute path of fname from the
// directory holding the script. A non-zero exit is returned as reported
// by the scheduler, it is not retried.
func (s *Submitter) Submit(ctx context.Context, fname string) error {
	abs, err := filepath.Abs(fname)
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, s.Command, abs)
	cmd.Dir = filepath.Dir(abs)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err = cmd.Run()
	if s.Throttle > 0 {
		time.Sleep(s.Throttle)
	}
	if err != nil {
		return fmt.Errorf("%s %s: %w", s.Command, abs, err)
	}
	return nil
}
