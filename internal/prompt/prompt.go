// Package prompt collects answers from a human at the few interactive points
// of makesnake and snakerun. Core packages depend only on Prompter.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var (
	// ErrNoInput indicates input ended before an answer was given.
	ErrNoInput = errors.New("no input")
	// ErrInvalidChoice indicates a selection outside the offered options.
	ErrInvalidChoice = errors.New("invalid choice")
	// ErrCanceled indicates the user backed out of a selection.
	ErrCanceled = errors.New("selection canceled")
)

// Prompter asks the user questions.
type Prompter interface {
	// Ask returns the trimmed answer to question.
	Ask(ctx context.Context, question string) (string, error)
	// Confirm returns true only when the answer is exactly "yes".
	Confirm(ctx context.Context, question string) (bool, error)
	// Select offers options and returns the chosen index. An empty answer
	// picks def.
	Select(ctx context.Context, title string, options []string, def int) (int, error)
}

// LinePrompter reads answers line by line.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter returns a prompter reading from stdin and writing
// questions to stderr.
func NewLinePrompter() *LinePrompter {
	return NewLinePrompterWithIO(os.Stdin, os.Stderr)
}

// NewLinePrompterWithIO returns a prompter on the given streams.
func NewLinePrompterWithIO(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// Ask prints question and waits for one line. A canceled context abandons
// the pending read.
func (p *LinePrompter) Ask(ctx context.Context, question string) (string, error) {
	fmt.Fprint(p.out, question)

	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		line, err := p.in.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			if errors.Is(err, io.EOF) {
				err = ErrNoInput
			} else {
				err = fmt.Errorf("reading answer: %w", err)
			}
			ch <- result{err: err}
			return
		}
		ch <- result{line: strings.TrimSpace(line)}
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return "", ctx.Err()
	case r := <-ch:
		return r.line, r.err
	}
}

// Confirm asks a yes/NO question. Anything but the literal "yes", including
// end of input, declines.
func (p *LinePrompter) Confirm(ctx context.Context, question string) (bool, error) {
	answer, err := p.Ask(ctx, question+" [yes/NO] ")
	if errors.Is(err, ErrNoInput) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return answer == "yes", nil
}

// Select prints one "[i] option" line per option followed by the prompt.
func (p *LinePrompter) Select(ctx context.Context, title string, options []string, def int) (int, error) {
	if len(options) == 0 {
		return 0, fmt.Errorf("%w: nothing to select", ErrInvalidChoice)
	}
	if title != "" {
		fmt.Fprintln(p.out, title)
	}
	for i, o := range options {
		fmt.Fprintf(p.out, "[%d] %s\n", i, o)
	}

	answer, err := p.Ask(ctx, fmt.Sprintf("\nselect [%d]: ", def))
	if errors.Is(err, ErrNoInput) {
		return def, nil
	}
	if err != nil {
		return 0, err
	}
	return ParseChoice(answer, len(options), def)
}

// ParseChoice converts an answer into an index in [0, n). Empty picks def.
func ParseChoice(answer string, n, def int) (int, error) {
	if answer == "" {
		return def, nil
	}
	i, err := strconv.Atoi(answer)
	if err != nil || i < 0 || i >= n {
		return 0, fmt.Errorf("%w: %q (want 0-%d)", ErrInvalidChoice, answer, n-1)
	}
	return i, nil
}
