package prompt

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestLinePrompter_Ask(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	p := NewLinePrompterWithIO(strings.NewReader("  rnaseq  \nsecond\n"), &out)

	got, err := p.Ask(context.Background(), "pipeline_name: ")
	if err != nil {
		t.Fatal(err)
	}
	if got != "rnaseq" {
		t.Errorf("Ask() = %q, want %q", got, "rnaseq")
	}
	got, err = p.Ask(context.Background(), "again: ")
	if err != nil {
		t.Fatal(err)
	}
	if got != "second" {
		t.Errorf("second Ask() = %q, want %q", got, "second")
	}
	if !strings.Contains(out.String(), "pipeline_name: ") {
		t.Errorf("question not written, got %q", out.String())
	}
}

func TestLinePrompter_AskNoTrailingNewline(t *testing.T) {
	t.Parallel()
	p := NewLinePrompterWithIO(strings.NewReader("last"), io.Discard)
	got, err := p.Ask(context.Background(), "? ")
	if err != nil {
		t.Fatal(err)
	}
	if got != "last" {
		t.Errorf("Ask() = %q, want %q", got, "last")
	}
}

func TestLinePrompter_AskEOF(t *testing.T) {
	t.Parallel()
	p := NewLinePrompterWithIO(strings.NewReader(""), io.Discard)
	if _, err := p.Ask(context.Background(), "? "); !errors.Is(err, ErrNoInput) {
		t.Errorf("error = %v, want ErrNoInput", err)
	}
}

func TestLinePrompter_AskCanceled(t *testing.T) {
	t.Parallel()

	r, w := io.Pipe()
	defer w.Close()
	p := NewLinePrompterWithIO(r, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Ask(ctx, "? "); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestLinePrompter_Confirm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"yes\n", true},
		{"y\n", false},
		{"YES\n", false},
		{"\n", false},
		{"no\n", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer
			p := NewLinePrompterWithIO(strings.NewReader(tt.input), &out)
			got, err := p.Confirm(context.Background(), "overwrite?")
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if !strings.Contains(out.String(), "overwrite? [yes/NO] ") {
				t.Errorf("unexpected prompt %q", out.String())
			}
		})
	}
}

func TestLinePrompter_Select(t *testing.T) {
	t.Parallel()

	options := []string{"align", "count", "report"}
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr error
	}{
		{name: "explicit", input: "2\n", want: 2},
		{name: "empty picks default", input: "\n", want: 0},
		{name: "eof picks default", input: "", want: 0},
		{name: "out of range", input: "3\n", wantErr: ErrInvalidChoice},
		{name: "not a number", input: "count\n", wantErr: ErrInvalidChoice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer
			p := NewLinePrompterWithIO(strings.NewReader(tt.input), &out)
			got, err := p.Select(context.Background(), "rules:", options, 0)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Select() = %d, want %d", got, tt.want)
			}
			for _, line := range []string{"[0] align", "[1] count", "[2] report", "select [0]: "} {
				if !strings.Contains(out.String(), line) {
					t.Errorf("output missing %q:\n%s", line, out.String())
				}
			}
		})
	}
}

func TestLinePrompter_SelectNoOptions(t *testing.T) {
	t.Parallel()
	p := NewLinePrompterWithIO(strings.NewReader("0\n"), io.Discard)
	if _, err := p.Select(context.Background(), "", nil, 0); !errors.Is(err, ErrInvalidChoice) {
		t.Errorf("error = %v, want ErrInvalidChoice", err)
	}
}
