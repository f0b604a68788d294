// Package tui provides the interactive terminal picker used when a
// selection is made on a terminal.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/papapumpkin/makesnake/internal/prompt"
)

// Prompter answers Select with the picker and everything else line by line.
type Prompter struct {
	*prompt.LinePrompter
	in  io.Reader
	out io.Writer
}

// NewPrompter returns a prompter whose selections use the picker on the
// given streams.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		LinePrompter: prompt.NewLinePrompterWithIO(in, out),
		in:           in,
		out:          out,
	}
}

// Select runs the picker until a row is chosen. Quitting returns
// prompt.ErrCanceled.
func (p *Prompter) Select(ctx context.Context, title string, options []string, def int) (int, error) {
	if len(options) == 0 {
		return 0, fmt.Errorf("%w: nothing to select", prompt.ErrInvalidChoice)
	}
	items := make([]Item, len(options))
	for i, o := range options {
		items[i] = Item{Label: o}
	}
	return Pick(ctx, NewPicker(title, items, def), p.in, p.out)
}

// Pick runs model and returns the chosen index.
func Pick(ctx context.Context, model PickerModel, in io.Reader, out io.Writer) (int, error) {
	prog := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	final, err := prog.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, fmt.Errorf("picker: %w", err)
	}
	m, ok := final.(PickerModel)
	if !ok || !m.Chosen {
		return 0, prompt.ErrCanceled
	}
	return m.Cursor, nil
}

// IsTerminal reports whether both stdin and stderr are terminals.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stderr.Fd()))
}

// DefaultPrompter returns the picker prompter on a terminal and a plain line
// prompter otherwise.
func DefaultPrompter() prompt.Prompter {
	if IsTerminal() {
		return NewPrompter(os.Stdin, os.Stderr)
	}
	return prompt.NewLinePrompter()
}
