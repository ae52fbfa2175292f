package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/tools/go/packages"

	"github.com/agentflare-ai/go-onedoc/internal/config"
	"github.com/agentflare-ai/go-onedoc/internal/errors"
	"github.com/agentflare-ai/go-onedoc/internal/logfields"
	"github.com/agentflare-ai/go-onedoc/internal/pipeline"
	"github.com/agentflare-ai/go-onedoc/internal/source"
	"github.com/agentflare-ai/go-onedoc/internal/tmpl"
)

type options struct {
	check      bool
	pkg        string
	configPath string
	keepGoing  bool
	verbose    bool
	unexported bool
}

type cliApp struct {
	stdout io.Writer
	stderr io.Writer
	opts   options
	logger *slog.Logger
}

// status is the outcome of generating one document.
type status int

const (
	upToDate status = iota
	updated
	outOfDate
)

var (
	upToDateColor  = color.New(color.FgGreen)
	updatedColor   = color.New(color.FgYellow)
	outOfDateColor = color.New(color.FgRed, color.Bold)
)

func run(argv []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(normalizeLegacyArgs(argv))
	return cmd.Execute()
}

func (app *cliApp) execute(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	level := slog.LevelInfo
	if app.opts.verbose {
		level = slog.LevelDebug
	}
	app.logger = slog.New(slog.NewTextHandler(app.stderr, &slog.HandlerOptions{Level: level}))

	pkgInfo, err := resolvePackage(ctx, app.opts.pkg)
	if err != nil {
		return err
	}
	pkgDir := absolutePath(packageDir(pkgInfo))

	cfgPath := app.opts.configPath
	if cfgPath == "" {
		cfgPath = findConfig(pkgDir, moduleDir(pkgInfo))
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if len(cfg.Docs) == 0 {
		def, err := config.DefaultDoc(pkgDir, pkgInfo.GoFiles)
		if err != nil {
			return err
		}
		cfg.Docs = []config.Doc{def}
	} else {
		cfg.Normalize(absolutePath(cfg.Dir()))
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	app.logger.Debug("loaded configuration",
		logfields.File(cfg.Path),
		slog.Int("docs", len(cfg.Docs)),
		slog.String("package", pkgInfo.PkgPath))

	values, err := packageValues(pkgInfo, app.opts.unexported)
	if err != nil {
		return err
	}

	gen := &generator{
		app:       app,
		processor: pipeline.New(cfg.Links, app.logger),
		engine:    tmpl.New(),
		values:    values,
		root:      pkgDir,
	}
	var (
		failures []error
		stale    []string
	)
	for _, doc := range cfg.Docs {
		st, err := gen.generate(doc)
		if err != nil {
			if !app.opts.keepGoing {
				return err
			}
			app.logger.Error("document failed", logfields.Output(doc.Output), logfields.Error(err))
			failures = append(failures, err)
			continue
		}
		if st == outOfDate {
			stale = append(stale, doc.Output)
		}
	}
	if len(failures) > 0 {
		return stderrors.Join(failures...)
	}
	if len(stale) > 0 {
		return errors.Newf(errors.KindOutOfDate, "%d document(s) out of date", len(stale)).
			WithContext("outputs", stale).
			Build()
	}
	return nil
}

// generator renders the configured documents of one run. The processor (and
// with it the link table) is shared by every document.
type generator struct {
	app       *cliApp
	processor *pipeline.Processor
	engine    *tmpl.Engine
	values    tmpl.Values
	root      string
}

func (g *generator) generate(doc config.Doc) (status, error) {
	inputs := make([]source.Document, 0, len(doc.Inputs))
	for _, path := range doc.Inputs {
		in, err := source.Load(path)
		if err != nil {
			return 0, err
		}
		inputs = append(inputs, in)
	}
	g.app.logger.Debug("processing document", logfields.Output(doc.Output), logfields.Inputs(len(inputs)))

	res, err := g.processor.Process(inputs)
	if err != nil {
		return 0, err
	}
	values := g.values
	values.Summary = res.Summary
	values.Contents = res.Contents
	values.FullContents = res.FullContents
	values.TOC = res.TOC
	out, err := g.engine.Render(doc.Template, values)
	if err != nil {
		return 0, err
	}
	if footer := res.Footer; footer != "" {
		out = strings.TrimRight(out, "\n") + footer
	}

	current, err := os.ReadFile(doc.Output)
	if err != nil && !os.IsNotExist(err) {
		return 0, errors.Wrap(err, errors.KindIO, "failed to read existing output").
			WithPath(doc.Output).
			Build()
	}
	name := displayPath(g.root, doc.Output)
	switch {
	case string(current) == out:
		g.report(name, upToDateColor, "is up to date")
		return upToDate, nil
	case g.app.opts.check:
		g.report(name, outOfDateColor, "is out of date")
		return outOfDate, nil
	}
	if err := writeOutput(doc.Output, []byte(out)); err != nil {
		return 0, err
	}
	g.report(name, updatedColor, "was updated")
	return updated, nil
}

func (g *generator) report(name string, c *color.Color, msg string) {
	fmt.Fprintf(g.app.stdout, "%s %s\n", name, c.Sprint(msg))
}

func writeOutput(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, errors.KindIO, "failed to create output directory").
			WithPath(path).
			Build()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, errors.KindIO, "failed to write output").
			WithPath(path).
			Build()
	}
	return nil
}

// packageValues fills the template values derived from the Go package.
func packageValues(pkgInfo *packages.Package, unexported bool) (tmpl.Values, error) {
	api, err := newAPIRenderer(pkgInfo, unexported)
	if err != nil {
		return tmpl.Values{}, errors.Wrap(err, errors.KindInternal, "failed to read package declarations").
			WithPath(pkgInfo.PkgPath).
			Build()
	}
	var index, ref strings.Builder
	api.index(&index)
	api.reference(&ref)

	m := tmpl.Manifest{
		Name:       pkgInfo.Name,
		ImportPath: pkgInfo.PkgPath,
		Dir:        absolutePath(packageDir(pkgInfo)),
		Synopsis:   api.summaryText(api.pkg.Doc),
	}
	if pkgInfo.Module != nil {
		m.Module = pkgInfo.Module.Path
		m.GoVersion = pkgInfo.Module.GoVersion
	}
	return tmpl.Values{
		Manifest:  m,
		API:       strings.TrimRight(index.String(), "\n"),
		Reference: strings.TrimRight(ref.String(), "\n"),
	}, nil
}

// findConfig looks for a config file in the package directory, then in the
// module root.
func findConfig(dirs ...string) string {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if path := config.Find(dir); path != "" {
			return path
		}
	}
	return ""
}

func displayPath(root, path string) string {
	if root == "" {
		return path
	}
	if wd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(wd, path); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return path
}

var legacyLongFlagSet = map[string]struct{}{
	"check":      {},
	"package":    {},
	"config":     {},
	"keep-going": {},
	"verbose":    {},
	"unexported": {},
}

func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}
	modified := false
	converted := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			converted = append(converted, args[i:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || strings.HasPrefix(arg, "--") || len(arg) <= 2 {
			converted = append(converted, arg)
			continue
		}
		name := arg[1:]
		if idx := strings.Index(name, "="); idx > 0 {
			name = name[:idx]
		}
		if _, ok := legacyLongFlagSet[name]; ok {
			converted = append(converted, "-"+arg)
			modified = true
			continue
		}
		converted = append(converted, arg)
	}
	if !modified {
		return args
	}
	return converted
}

const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
	packages.NeedSyntax | packages.NeedModule

// loadPackage loads the package matched by pattern. Directory patterns are
// loaded from inside the directory so packages of other modules work too.
func loadPackage(ctx context.Context, pattern string) (*packages.Package, error) {
	cfg := &packages.Config{Context: ctx, Mode: loadMode}
	if info, err := os.Stat(pattern); err == nil && info.IsDir() {
		cfg.Dir = pattern
		pattern = "."
	}
	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, err
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no Go packages matched %q", pattern)
	}
	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		return nil, fmt.Errorf("%s", pkg.Errors[0])
	}
	if len(pkg.GoFiles) == 0 {
		return nil, fmt.Errorf("package %q has no Go files", pkg.PkgPath)
	}
	return pkg, nil
}

// resolvePackage loads expr as a package pattern, falling back to a package
// of the current module whose name or import path suffix is expr.
func resolvePackage(ctx context.Context, expr string) (*packages.Package, error) {
	if expr == "" {
		expr = "."
	}
	pkg, loadErr := loadPackage(ctx, expr)
	if loadErr == nil {
		return pkg, nil
	}
	tree, err := loadPackageTree(ctx, ".")
	if err == nil {
		if match := matchPackage(tree, expr); match != nil {
			return match, nil
		}
	}
	return nil, errors.Wrap(loadErr, errors.KindConfig, fmt.Sprintf("could not resolve package %q", expr)).Build()
}

func matchPackage(pkgs []*packages.Package, expr string) *packages.Package {
	var matches []*packages.Package
	for _, pkg := range pkgs {
		if pkg.Name == expr || pkg.PkgPath == expr || strings.HasSuffix(pkg.PkgPath, "/"+expr) {
			matches = append(matches, pkg)
		}
	}
	if len(matches) != 1 {
		return nil
	}
	return matches[0]
}

func loadPackageTree(ctx context.Context, root string) ([]*packages.Package, error) {
	cfg := &packages.Config{Context: ctx, Mode: loadMode}
	pkgs, err := packages.Load(cfg, buildPatterns(root)...)
	if err != nil {
		return nil, err
	}
	unique := make(map[string]*packages.Package)
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			continue
		}
		key := pkg.PkgPath
		if key == "" {
			key = packageDir(pkg)
		}
		unique[key] = pkg
	}
	result := make([]*packages.Package, 0, len(unique))
	for _, pkg := range unique {
		result = append(result, pkg)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].PkgPath < result[j].PkgPath
	})
	return result, nil
}

func buildPatterns(root string) []string {
	root = strings.TrimSpace(root)
	if root == "" {
		root = "."
	}
	root = filepath.ToSlash(root)
	if strings.Contains(root, "...") {
		return []string{root}
	}
	return []string{strings.TrimSuffix(root, "/") + "/..."}
}

func absolutePath(dir string) string {
	if dir == "" {
		return ""
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return filepath.Clean(dir)
	}
	return abs
}

func packageDir(pkg *packages.Package) string {
	if len(pkg.GoFiles) > 0 {
		return filepath.Dir(pkg.GoFiles[0])
	}
	if len(pkg.CompiledGoFiles) > 0 {
		return filepath.Dir(pkg.CompiledGoFiles[0])
	}
	return ""
}

func moduleDir(pkg *packages.Package) string {
	if pkg.Module == nil {
		return ""
	}
	return pkg.Module.Dir
}
