package main

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/doc"
	"go/format"
	"go/token"
	"io"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"
)

// apiRenderer turns the declarations of a Go package into Markdown for the
// API and Reference template values.
type apiRenderer struct {
	pkg     *doc.Package
	fileset *token.FileSet
}

func newAPIRenderer(pkgInfo *packages.Package, unexported bool) (*apiRenderer, error) {
	mode := doc.Mode(0)
	if unexported {
		mode |= doc.AllDecls | doc.AllMethods
	}
	docPkg, err := doc.NewFromFiles(pkgInfo.Fset, pkgInfo.Syntax, pkgInfo.PkgPath, mode)
	if err != nil {
		return nil, err
	}
	return &apiRenderer{pkg: docPkg, fileset: pkgInfo.Fset}, nil
}

// index writes one bullet per declaration, sorted.
func (r *apiRenderer) index(w io.Writer) {
	var entries []string
	for _, v := range r.pkg.Consts {
		entries = append(entries, bulletLine(r.valueTitle(v), r.summaryText(v.Doc)))
	}
	for _, v := range r.pkg.Vars {
		entries = append(entries, bulletLine(r.valueTitle(v), r.summaryText(v.Doc)))
	}
	for _, f := range r.pkg.Funcs {
		entries = append(entries, bulletLine(r.signature(f.Decl), r.summaryText(f.Doc)))
	}
	for _, t := range r.pkg.Types {
		entries = append(entries, bulletLine("type "+t.Name, r.summaryText(t.Doc)))
	}
	sort.Strings(entries)
	for _, entry := range entries {
		fmt.Fprintln(w, entry)
	}
}

// reference writes a section per declaration. Sections start at level 3 so
// they nest under a template's own "## API" style heading.
func (r *apiRenderer) reference(w io.Writer) {
	r.renderValuesSection(w, "Constants", r.pkg.Consts)
	r.renderValuesSection(w, "Variables", r.pkg.Vars)
	r.renderFuncsSection(w, "Functions", r.pkg.Funcs, "")
	for _, t := range r.pkg.Types {
		r.renderTypeDoc(w, t)
	}
}

func (r *apiRenderer) renderTypeDoc(w io.Writer, t *doc.Type) {
	fmt.Fprintf(w, "### type %s\n\n", t.Name)
	r.writeCodeBlock(w, r.formatNode(t.Decl))
	if doc := r.docMarkdown(t.Doc); doc != "" {
		fmt.Fprintln(w, doc)
		fmt.Fprintln(w)
	}
	for _, v := range append(append([]*doc.Value{}, t.Consts...), t.Vars...) {
		r.renderValueDoc(w, v)
	}
	for _, f := range t.Funcs {
		r.renderFuncDoc(w, f, "")
	}
	for _, m := range t.Methods {
		r.renderFuncDoc(w, m, t.Name)
	}
}

func (r *apiRenderer) renderValuesSection(w io.Writer, title string, values []*doc.Value) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(w, "### %s\n\n", title)
	for _, v := range values {
		r.renderValueDoc(w, v)
	}
}

func (r *apiRenderer) renderValueDoc(w io.Writer, v *doc.Value) {
	fmt.Fprintf(w, "#### %s\n\n", r.valueTitle(v))
	r.writeCodeBlock(w, r.formatNode(v.Decl))
	if doc := r.docMarkdown(v.Doc); doc != "" {
		fmt.Fprintln(w, doc)
		fmt.Fprintln(w)
	}
}

func (r *apiRenderer) renderFuncsSection(w io.Writer, title string, funcs []*doc.Func, receiver string) {
	if len(funcs) == 0 {
		return
	}
	fmt.Fprintf(w, "### %s\n\n", title)
	for _, f := range funcs {
		r.renderFuncDoc(w, f, receiver)
	}
}

func (r *apiRenderer) renderFuncDoc(w io.Writer, f *doc.Func, receiver string) {
	name := f.Name
	if receiver != "" {
		name = receiver + "." + f.Name
	}
	fmt.Fprintf(w, "#### %s\n\n", name)
	r.writeCodeBlock(w, r.signature(f.Decl))
	if doc := r.docMarkdown(f.Doc); doc != "" {
		fmt.Fprintln(w, doc)
		fmt.Fprintln(w)
	}
}

func (r *apiRenderer) writeCodeBlock(w io.Writer, code string) {
	if code == "" {
		return
	}
	fmt.Fprintf(w, "```go\n%s\n```\n\n", strings.TrimSpace(code))
}

func (r *apiRenderer) formatNode(node ast.Node) string {
	if node == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := format.Node(&buf, r.fileset, node); err != nil {
		return ""
	}
	return strings.TrimSpace(buf.String())
}

func (r *apiRenderer) signature(decl *ast.FuncDecl) string {
	if decl == nil || decl.Type == nil {
		return ""
	}
	var buf bytes.Buffer
	buf.WriteString("func ")
	if decl.Recv != nil {
		var recv bytes.Buffer
		_ = format.Node(&recv, r.fileset, decl.Recv)
		buf.WriteString("(")
		buf.WriteString(strings.TrimSpace(recv.String()))
		buf.WriteString(") ")
	}
	buf.WriteString(decl.Name.Name)
	var typ bytes.Buffer
	_ = format.Node(&typ, r.fileset, decl.Type)
	sig := strings.TrimPrefix(typ.String(), "func")
	buf.WriteString(strings.TrimSpace(sig))
	return strings.TrimSpace(buf.String())
}

func (r *apiRenderer) valueTitle(v *doc.Value) string {
	return strings.Join(v.Names, ", ")
}

// docMarkdown converts a doc comment to Markdown through go/doc/comment, so
// headings and code blocks keep their structure.
func (r *apiRenderer) docMarkdown(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	p := r.pkg.Parser()
	pr := r.pkg.Printer()
	pr.HeadingLevel = 5
	return strings.TrimSpace(string(pr.Markdown(p.Parse(text))))
}

func (r *apiRenderer) summaryText(text string) string {
	return r.pkg.Synopsis(text)
}

func bulletLine(signature, summary string) string {
	if summary == "" {
		return fmt.Sprintf("- `%s`", signature)
	}
	return fmt.Sprintf("- `%s` — %s", signature, summary)
}
