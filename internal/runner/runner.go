// Package runner provides the command execution context injected into tool
// handlers. Handlers never spawn processes directly; they receive a
// CommandRunner so tests can substitute a fake.
package runner

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"sync"

	"github.com/xcmcp/xcmcp/internal/logger"
)

// CommandRunner executes a command and returns its combined output.
type CommandRunner interface {
	Run(ctx context.Context, args ...string) (string, error)
}

// DefaultCommandRunner runs commands via os/exec.
type DefaultCommandRunner struct{}

var _ CommandRunner = &DefaultCommandRunner{}

func (d *DefaultCommandRunner) Run(ctx context.Context, args ...string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("no command given")
	}
	logger.Debugf("Running command: %s", strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	out, err := cmd.CombinedOutput()
	logger.Debugf("Command output: %s", string(out))
	return string(out), err
}

var (
	defaultMu     sync.RWMutex
	defaultRunner CommandRunner = &DefaultCommandRunner{}
)

// Default returns the process-wide command runner. Resolved at each call
// site so a runner installed via SetDefault after a handler was wrapped
// still takes effect.
func Default() CommandRunner {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultRunner
}

// SetDefault replaces the process-wide command runner and returns the
// previous one. Test support.
func SetDefault(r CommandRunner) CommandRunner {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	prev := defaultRunner
	defaultRunner = r
	return prev
}

// Call records a single fake invocation.
type Call struct {
	Args []string
}

// FakeCommandRunner returns canned output and records every invocation.
type FakeCommandRunner struct {
	Output string
	ErrStr string
	Calls  []Call
}

var _ CommandRunner = &FakeCommandRunner{}

func (f *FakeCommandRunner) Run(ctx context.Context, args ...string) (string, error) {
	f.Calls = append(f.Calls, Call{Args: args})
	if f.ErrStr != "" {
		return f.Output, errors.New(f.ErrStr)
	}
	return f.Output, nil
}

// LastCall returns the most recent invocation, or nil if none happened.
func (f *FakeCommandRunner) LastCall() *Call {
	if len(f.Calls) == 0 {
		return nil
	}
	return &f.Calls[len(f.Calls)-1]
}
