package rule

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/papapumpkin/makesnake/internal/annotation"
	"github.com/papapumpkin/makesnake/internal/pathtmpl"
)

// Synthesizer builds one Rule per script.
type Synthesizer struct {
	Tokens   pathtmpl.Tokens
	Resolver *pathtmpl.Resolver
	Parser   *annotation.Parser
	// Strict rejects malformed directives and repeated keyword/name pairs.
	// Otherwise the last occurrence of a repeated pair wins.
	Strict bool
	Logger *zap.Logger
}

// NewSynthesizer returns a Synthesizer wired with a resolver and parser for tokens.
func NewSynthesizer(tokens pathtmpl.Tokens, strict bool, logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	parser := annotation.NewParser(logger)
	parser.Strict = strict
	return &Synthesizer{
		Tokens:   tokens,
		Resolver: pathtmpl.NewResolver(tokens),
		Parser:   parser,
		Strict:   strict,
		Logger:   logger,
	}
}

// SynthesizeAll reads every script and returns their rules in order. Errors
// from all scripts are collected and joined.
func (s *Synthesizer) SynthesizeAll(paths []string) ([]*Rule, error) {
	rules := make([]*Rule, 0, len(paths))
	var errs []error
	for _, p := range paths {
		r, err := s.SynthesizeFile(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		rules = append(rules, r)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return rules, nil
}

// SynthesizeFile opens path, extracts its annotations and builds its rule.
func (s *Synthesizer) SynthesizeFile(path string) (*Rule, error) {
	if _, err := scriptKind(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening script: %w", err)
	}
	defer f.Close()

	anns, err := s.Parser.Scan(path, f)
	if err != nil {
		return nil, err
	}
	return s.Synthesize(path, anns)
}

// Synthesize builds the rule for the script at path from its annotations.
func (s *Synthesizer) Synthesize(path string, anns []annotation.Annotation) (*Rule, error) {
	kind, err := scriptKind(path)
	if err != nil {
		return nil, err
	}

	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	r := &Rule{
		Name:   stem,
		Stem:   stem,
		Source: path,
		Ext:    ext,
	}

	for _, a := range anns {
		if err := s.apply(r, a); err != nil {
			return nil, err
		}
	}

	r.Conda = "envs/" + stem + ".yaml"

	scriptPath := s.Tokens.ScriptDir + "/" + base
	switch kind {
	case DirectiveScript:
		r.Directive = Directive{Kind: DirectiveScript, Command: scriptPath}
	case DirectiveNotebook:
		r.Directive = Directive{Kind: DirectiveNotebook, Command: scriptPath}
		if _, ok := r.Log.Get("notebook"); !ok {
			r.Log.Set("notebook", s.Resolver.Notebook(stem))
		}
	case DirectiveShell:
		r.Directive = Directive{Kind: DirectiveShell, Command: scriptPath + " {input:q} {output:q} {params:q}"}
	}

	s.Logger.Debug("synthesized rule",
		zap.String("script", path),
		zap.String("rule", r.Name),
		zap.Stringer("directive", kind),
		zap.Int("annotations", len(anns)))
	return r, nil
}

// apply merges one annotation into r.
func (s *Synthesizer) apply(r *Rule, a annotation.Annotation) error {
	if a.Keyword == annotation.Threads {
		if r.Threads != "" {
			if err := s.duplicate(r, a); err != nil {
				return err
			}
		}
		r.Threads = a.Value
		return nil
	}

	var (
		section *NamedValues
		value   = a.Value
		err     error
	)
	switch a.Keyword {
	case annotation.Input:
		section = &r.Input
		value, err = s.Resolver.Input(a.Value)
	case annotation.Output:
		section = &r.Output
		value, err = s.Resolver.Output(a.Value)
	case annotation.Log:
		section = &r.Log
		value, err = s.Resolver.Output(a.Value)
	case annotation.Params:
		section = &r.Params
		if strings.ContainsAny(value, "\r\n") {
			s.Logger.Warn("params value contains a line break; it is written verbatim and may not parse as Python",
				zap.String("script", r.Source),
				zap.Int("line", a.Line),
				zap.String("name", a.Name))
		}
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s:%d: %s %s: %w", r.Source, a.Line, a.Keyword, a.Name, err)
	}

	if _, exists := section.Get(a.Name); exists {
		if err := s.duplicate(r, a); err != nil {
			return err
		}
	}
	section.Set(a.Name, value)
	return nil
}

func (s *Synthesizer) duplicate(r *Rule, a annotation.Annotation) error {
	if s.Strict {
		return fmt.Errorf("%s:%d: %w: %s %s", r.Source, a.Line, ErrDuplicateAnnotation, a.Keyword, a.Name)
	}
	s.Logger.Warn("repeated annotation, last value wins",
		zap.String("script", r.Source),
		zap.Int("line", a.Line),
		zap.String("keyword", string(a.Keyword)),
		zap.String("name", a.Name))
	return nil
}

func scriptKind(path string) (DirectiveKind, error) {
	ext := filepath.Ext(path)
	kind, ok := KindForExt(ext)
	if !ok {
		return 0, &UnsupportedScriptError{Path: path, Ext: ext}
	}
	return kind, nil
}
