// Package tmpl renders processed documentation through text/template.
//
// Templates see a Values struct:
//
//	# {{ .Manifest.Name }}
//
//	{{ .Summary | trim_prefix "Package example " }}
//
//	{{ .TOC }}
//
//	{{ .Contents }}
//
// When a document names no template, the built-in default is used.
package tmpl

import (
	_ "embed"
	"os"
	"strings"
	"text/template"

	"github.com/agentflare-ai/go-onedoc/internal/errors"
)

// DefaultName is the name the built-in template is registered under.
const DefaultName = "<default>"

//go:embed default.tmpl
var defaultTemplate string

// Manifest describes the Go package a document belongs to.
type Manifest struct {
	Name       string
	ImportPath string
	Module     string
	GoVersion  string
	Dir        string
	// Synopsis is the first sentence of the package doc comment.
	Synopsis string
}

// Values are the data a template is executed with.
type Values struct {
	Manifest Manifest
	// Summary is the first paragraph of the processed inputs.
	Summary string
	// Contents is everything after the summary.
	Contents string
	// FullContents is the whole processed document.
	FullContents string
	// TOC lists the headings of FullContents.
	TOC string
	// API is an index of the package's exported declarations.
	API string
	// Reference documents every exported declaration.
	Reference string
}

// Engine compiles templates once per path.
type Engine struct {
	funcs     template.FuncMap
	templates map[string]*template.Template
}

func New() *Engine {
	return &Engine{
		funcs: template.FuncMap{
			"trim_prefix": TrimPrefix,
			"trim_suffix": TrimSuffix,
		},
		templates: make(map[string]*template.Template),
	}
}

// TrimPrefix removes every leading repetition of prefix from s. The prefix
// comes first so the filter reads naturally in a pipeline:
// {{ .Summary | trim_prefix "Package x " }}.
func TrimPrefix(prefix, s string) string {
	if prefix == "" {
		return s
	}
	for strings.HasPrefix(s, prefix) {
		s = s[len(prefix):]
	}
	return s
}

// TrimSuffix removes every trailing repetition of suffix from s.
func TrimSuffix(suffix, s string) string {
	if suffix == "" {
		return s
	}
	for strings.HasSuffix(s, suffix) {
		s = s[:len(s)-len(suffix)]
	}
	return s
}

// Add compiles src under name, replacing any template already registered
// under it.
func (e *Engine) Add(name, src string) (*template.Template, error) {
	t, err := template.New(name).Funcs(e.funcs).Option("missingkey=error").Parse(src)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindTemplateRender, "failed to parse template").
			WithPath(name).
			Build()
	}
	e.templates[name] = t
	return t, nil
}

// Load returns the template stored at path, compiling it on first use. An
// empty path selects the default template.
func (e *Engine) Load(path string) (*template.Template, error) {
	name := path
	if name == "" {
		name = DefaultName
	}
	if t, ok := e.templates[name]; ok {
		return t, nil
	}
	if path == "" {
		return e.Add(DefaultName, defaultTemplate)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindIO, "failed to read template").
			WithPath(path).
			Build()
	}
	return e.Add(path, string(src))
}

// Render executes the template at path (or the default) with v.
func (e *Engine) Render(path string, v Values) (string, error) {
	t, err := e.Load(path)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := t.Execute(&b, v); err != nil {
		return "", errors.Wrap(err, errors.KindTemplateRender, "failed to render template").
			WithPath(t.Name()).
			Build()
	}
	return b.String(), nil
}
