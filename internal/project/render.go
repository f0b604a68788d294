package project

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	shellquote "github.com/kballard/go-shellquote"
)

//go:embed templates
var embedded embed.FS

// tmplExt marks files rendered with text/template. The suffix is dropped
// from the output name.
const tmplExt = ".tmpl"

// DefaultTemplates returns the bundled project template tree.
func DefaultTemplates() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

var funcs = template.FuncMap{
	"quote": strconv.Quote,
	"join":  strings.Join,
	"shellquote": func(s ...string) string {
		return shellquote.Join(s...)
	},
}

// execute renders one template held in text.
func execute(name, text string, data any) ([]byte, error) {
	t, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// renderPath renders every segment of a slash-separated template path.
func renderPath(p string, data any) (string, error) {
	if !strings.Contains(p, "{{") {
		return p, nil
	}
	out, err := execute(p, p, data)
	if err != nil {
		return "", err
	}
	rendered := string(out)
	if rendered == "" || strings.Contains(rendered, "..") {
		return "", fmt.Errorf("template path %q renders to unusable %q", p, rendered)
	}
	return rendered, nil
}

// renderTree copies the template tree src into dst. Paths are rendered
// against data; *.tmpl files are executed and lose their suffix; other
// files are copied verbatim. Output starting with "#!" is made executable.
func renderTree(src fs.FS, dst string, data any) (int, error) {
	written := 0
	err := fs.WalkDir(src, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == "." {
			return nil
		}

		rel, err := renderPath(p, data)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, filepath.FromSlash(rel))

		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		content, err := fs.ReadFile(src, p)
		if err != nil {
			return fmt.Errorf("reading template %s: %w", p, err)
		}
		if path.Ext(p) == tmplExt {
			if content, err = execute(p, string(content), data); err != nil {
				return err
			}
			target = strings.TrimSuffix(target, tmplExt)
		}

		mode := os.FileMode(0o644)
		if bytes.HasPrefix(content, []byte("#!")) {
			mode = 0o755
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(target, content, mode); err != nil {
			return fmt.Errorf("writing %s: %w", rel, err)
		}
		written++
		return nil
	})
	return written, err
}
