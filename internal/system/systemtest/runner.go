// Package systemtest provides a recording Runner for tests.
package systemtest

import (
	"context"
	"strings"

	"github.com/spf13/afero"
)

// Call is one recorded command invocation.
type Call struct {
	Name  string
	Args  []string
	Input string
}

// Line renders the call as a single command line.
func (c Call) Line() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// FakeRunner records every invocation and never touches the host.
//
// Behavior is scripted per command line substring: FailWith makes
// matching commands fail, RespondWith supplies Output results.
type FakeRunner struct {
	Calls []Call

	// Fs, when set, receives the file effects of successful sudo
	// tee/mv/install commands so flows can be tested end to end
	// against an in-memory filesystem.
	Fs afero.Fs

	failures  map[string]error
	responses map[string]string
}

func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		failures:  make(map[string]error),
		responses: make(map[string]string),
	}
}

// FailWith makes every command whose line contains pattern return err.
func (f *FakeRunner) FailWith(pattern string, err error) {
	f.failures[pattern] = err
}

// RespondWith makes Output return out for commands containing pattern.
func (f *FakeRunner) RespondWith(pattern, out string) {
	f.responses[pattern] = out
}

func (f *FakeRunner) Run(ctx context.Context, name string, args ...string) error {
	return f.record(Call{Name: name, Args: args})
}

func (f *FakeRunner) RunWithInput(ctx context.Context, input string, name string, args ...string) error {
	return f.record(Call{Name: name, Args: args, Input: input})
}

func (f *FakeRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	call := Call{Name: name, Args: args}
	if err := f.record(call); err != nil {
		return "", err
	}
	for pattern, out := range f.responses {
		if strings.Contains(call.Line(), pattern) {
			return out, nil
		}
	}
	return "", nil
}

func (f *FakeRunner) record(call Call) error {
	f.Calls = append(f.Calls, call)
	for pattern, err := range f.failures {
		if strings.Contains(call.Line(), pattern) {
			return err
		}
	}
	f.applyFileEffect(call)
	return nil
}

// applyFileEffect mirrors the file operations the production flows run
// through sudo onto Fs.
func (f *FakeRunner) applyFileEffect(call Call) {
	if f.Fs == nil || call.Name != "sudo" || len(call.Args) == 0 {
		return
	}

	switch call.Args[0] {
	case "tee":
		if len(call.Args) >= 3 && call.Args[1] == "-a" {
			path := call.Args[2]
			existing, _ := afero.ReadFile(f.Fs, path)
			_ = afero.WriteFile(f.Fs, path, append(existing, []byte(call.Input)...), 0644)
		} else if len(call.Args) >= 2 {
			_ = afero.WriteFile(f.Fs, call.Args[1], []byte(call.Input), 0644)
		}
	case "mv":
		if len(call.Args) >= 3 {
			_ = f.Fs.Rename(call.Args[1], call.Args[2])
		}
	case "install":
		// install -d -m <mode> <path>
		if len(call.Args) >= 2 {
			_ = f.Fs.MkdirAll(call.Args[len(call.Args)-1], 0755)
		}
	}
}

// Ran reports whether any recorded command line contains pattern.
func (f *FakeRunner) Ran(pattern string) bool {
	return f.FindCall(pattern) != nil
}

// FindCall returns the first recorded call whose line contains pattern.
func (f *FakeRunner) FindCall(pattern string) *Call {
	for i := range f.Calls {
		if strings.Contains(f.Calls[i].Line(), pattern) {
			return &f.Calls[i]
		}
	}
	return nil
}

// Lines returns every recorded command line in order.
func (f *FakeRunner) Lines() []string {
	lines := make([]string, len(f.Calls))
	for i, call := range f.Calls {
		lines[i] = call.Line()
	}
	return lines
}
