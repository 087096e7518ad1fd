// Package prompt reads answers from the user. The Line prompter takes its
// answers from any io.Reader so callers can feed canned input in tests.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

// ErrNoInput is returned when the input source is exhausted before an
// answer was given.
var ErrNoInput = errors.New("no input available")

// Prompter asks the user for a single value.
type Prompter interface {
	// Prompt asks for a visible value.
	Prompt(label string) (string, error)
	// Secret asks for a value that must not be echoed.
	Secret(label string) (string, error)
}

// New returns a Terminal prompter if in is a terminal and a Line
// prompter otherwise.
func New(in *os.File, out io.Writer) Prompter {
	if term.IsTerminal(int(in.Fd())) {
		return &Terminal{in: in, out: out}
	}
	return NewLine(in, out)
}

// Line reads newline terminated answers.
type Line struct {
	r *bufio.Reader
	w io.Writer
}

// NewLine creates a Line prompter reading from r and writing labels to w.
func NewLine(r io.Reader, w io.Writer) *Line {
	return &Line{r: bufio.NewReader(r), w: w}
}

// Prompt implements Prompter.
func (l *Line) Prompt(label string) (string, error) {
	fmt.Fprintf(l.w, "%s: ", label)
	line, err := l.r.ReadString('\n')
	if err != nil {
		if err != io.EOF {
			return "", errors.Wrap(err, "read answer")
		}
		if line == "" {
			fmt.Fprintln(l.w)
			return "", ErrNoInput
		}
	}
	return strings.TrimSpace(line), nil
}

// Secret implements Prompter. Line input is never echoed by us, so this
// is the same as Prompt.
func (l *Line) Secret(label string) (string, error) {
	return l.Prompt(label)
}

// Terminal prompts interactively.
type Terminal struct {
	in  *os.File
	out io.Writer
}

// Prompt implements Prompter.
func (t *Terminal) Prompt(label string) (string, error) {
	var value string
	if err := huh.NewInput().Title(label).Value(&value).Run(); err != nil {
		return "", errors.Wrapf(err, "prompt %q", label)
	}
	return strings.TrimSpace(value), nil
}

// Secret implements Prompter.
func (t *Terminal) Secret(label string) (string, error) {
	fmt.Fprintf(t.out, "%s: ", label)
	b, err := term.ReadPassword(int(t.in.Fd()))
	fmt.Fprintln(t.out)
	if err != nil {
		return "", errors.Wrapf(err, "prompt %q", label)
	}
	return strings.TrimSpace(string(b)), nil
}

// Int asks for an integer until one is given.
func Int(p Prompter, w io.Writer, label string) (int, error) {
	for {
		v, err := p.Prompt(label)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(v)
		if err == nil {
			return n, nil
		}
		fmt.Fprintf(w, "Error: '%s' is not a valid integer.\n", v)
	}
}

// NonEmpty asks until a non-empty value is given.
func NonEmpty(p Prompter, label string) (string, error) {
	for {
		v, err := p.Prompt(label)
		if err != nil {
			return "", err
		}
		if v != "" {
			return v, nil
		}
	}
}
