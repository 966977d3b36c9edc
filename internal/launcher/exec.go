package launcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/LiboWorks/yamlcmd/internal/logger"
)

// ExecConfig holds configuration for the os/exec launcher.
type ExecConfig struct {
	// Dir is the working directory of launched processes (default: current).
	Dir string

	// Env is appended to the inherited environment, as KEY=VALUE entries.
	Env []string

	// Stdin, Stdout and Stderr default to the launcher's own streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Exec launches commands with os/exec and does not wait for them. Each child
// is reaped on its own goroutine; its exit status is only logged at debug
// level.
type Exec struct {
	cfg ExecConfig
}

// NewExec creates a new os/exec launcher.
func NewExec(cfg ExecConfig) *Exec {
	if cfg.Stdin == nil {
		cfg.Stdin = os.Stdin
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}
	return &Exec{cfg: cfg}
}

// Launch implements Launcher. The context only guards the start: a child that
// has been started is not killed when ctx is cancelled.
func (e *Exec) Launch(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		return ErrEmptyCommand
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = e.cfg.Dir
	if len(e.cfg.Env) > 0 {
		cmd.Env = append(os.Environ(), e.cfg.Env...)
	}
	cmd.Stdin = e.cfg.Stdin
	cmd.Stdout = e.cfg.Stdout
	cmd.Stderr = e.cfg.Stderr

	logger.Debug("[DEBUG] Launching: %s\n", Quote(argv))
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch %s: %w", argv[0], err)
	}

	go func() {
		if err := cmd.Wait(); err != nil {
			logger.Debug("[DEBUG] %s (pid %d) exited: %v\n", argv[0], cmd.Process.Pid, err)
		}
	}()
	return nil
}
