package annotation

import (
	"bufio"
	"fmt"
	"io"
	"regexp"

	"go.uber.org/zap"
)

const maxLineSize = 1 << 20

var (
	// directive is the complete grammar. The name group is optional so that
	// "# threads: <4>" parses; named keywords are checked separately.
	directive = regexp.MustCompile(`^[^#]*# *(input|output|params|log|threads)(?: +(\S+))?: +<([^<>]+)>`)

	// candidate matches lines that announce a directive up to its opening
	// bracket. A candidate that fails directive is malformed.
	candidate = regexp.MustCompile(`^[^#]*# *(input|output|params|log|threads)\b[^<:]*: *<`)
)

// Parser extracts annotations from script source.
type Parser struct {
	// Strict makes malformed directives fatal instead of skipping them.
	Strict bool
	Logger *zap.Logger
}

// NewParser returns a lenient parser that logs to logger.
func NewParser(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{Logger: logger}
}

// ParseLine parses a single source line. ok is false when the line holds no
// directive. A malformed directive yields a *MalformedError.
func ParseLine(line string) (a Annotation, ok bool, err error) {
	m := directive.FindStringSubmatch(line)
	if m == nil {
		if candidate.MatchString(line) {
			return Annotation{}, false, &MalformedError{Text: line, Reason: "unparsable bracket content"}
		}
		return Annotation{}, false, nil
	}

	kw := Keyword(m[1])
	name := m[2]
	if kw.Named() && name == "" {
		return Annotation{}, false, &MalformedError{Text: line, Reason: fmt.Sprintf("%s directive without a name", kw)}
	}
	if !kw.Named() {
		name = ""
	}

	return Annotation{
		Keyword: kw,
		Name:    name,
		Value:   decodeEscapes(m[3]),
	}, true, nil
}

// Parse extracts the ordered annotations from lines. path is only used in
// error messages and logs.
func (p *Parser) Parse(path string, lines []string) ([]Annotation, error) {
	var out []Annotation
	for i, line := range lines {
		a, ok, err := p.parseLine(path, i+1, line)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// Scan reads r line by line and extracts its annotations.
func (p *Parser) Scan(path string, r io.Reader) ([]Annotation, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var out []Annotation
	n := 0
	for sc.Scan() {
		n++
		a, ok, err := p.parseLine(path, n, sc.Text())
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, a)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return out, nil
}

func (p *Parser) parseLine(path string, n int, line string) (Annotation, bool, error) {
	a, ok, err := ParseLine(line)
	if err != nil {
		me := err.(*MalformedError)
		me.Path, me.Line = path, n
		if p.Strict {
			return Annotation{}, false, me
		}
		p.logger().Debug("skipping malformed annotation",
			zap.String("script", path),
			zap.Int("line", n),
			zap.String("reason", me.Reason))
		return Annotation{}, false, nil
	}
	if ok {
		a.Line = n
	}
	return a, ok, nil
}

func (p *Parser) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}
