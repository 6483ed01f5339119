// Package prompt implements the interactive input used by the
// provisioning flows. All parameters are gathered through prompts that
// show their default in brackets; there is no non-interactive mode.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter reads operator input from in and writes questions to out.
//
// The reader and writer are injected so flows can be driven by scripted
// input in tests.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Confirm asks a yes/no question and blocks until the operator answers.
//
// An empty answer selects the default. Unrecognized answers re-ask.
// EOF on input is an error: the flows must never assume an answer.
func (p *Prompter) Confirm(question string, defaultYes bool) (bool, error) {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}

	for {
		fmt.Fprintf(p.out, "%s %s: ", question, hint)

		line, err := p.readLine()
		if err != nil {
			return false, err
		}

		switch strings.ToLower(line) {
		case "":
			return defaultYes, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
	}
}

// Input asks for a free-text value, returning def when the operator
// just presses enter.
func (p *Prompter) Input(question, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", question, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", question)
	}

	line, err := p.readLine()
	if err != nil {
		return "", err
	}
	if line == "" {
		return def, nil
	}
	return line, nil
}

// InputValidated asks for a value and re-asks until validate accepts it.
// The validation error is shown to the operator before re-asking.
func (p *Prompter) InputValidated(question string, validate func(string) error) (string, error) {
	for {
		fmt.Fprintf(p.out, "%s: ", question)

		line, err := p.readLine()
		if err != nil {
			return "", err
		}

		if err := validate(line); err != nil {
			fmt.Fprintf(p.out, "Invalid input: %v\n", err)
			continue
		}
		return line, nil
	}
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			// Final unterminated line still counts as an answer.
			return strings.TrimSpace(line), nil
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
