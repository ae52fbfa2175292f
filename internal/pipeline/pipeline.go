// Package pipeline runs the fixups over the inputs of one document and
// renders the pieces a template is filled with.
package pipeline

import (
	"log/slog"
	"slices"

	"github.com/agentflare-ai/go-onedoc/internal/errors"
	"github.com/agentflare-ai/go-onedoc/internal/event"
	"github.com/agentflare-ai/go-onedoc/internal/fix"
	"github.com/agentflare-ai/go-onedoc/internal/linktable"
	"github.com/agentflare-ai/go-onedoc/internal/logfields"
	"github.com/agentflare-ai/go-onedoc/internal/markdown"
	"github.com/agentflare-ai/go-onedoc/internal/source"
	"github.com/agentflare-ai/go-onedoc/internal/toc"
)

// Result holds the rendered Markdown of one document.
type Result struct {
	// Summary is the first paragraph, with any blocks before it.
	Summary string
	// Contents is everything after the summary.
	Contents string
	// FullContents is Summary and Contents rendered as one document.
	FullContents string
	// TOC is the table of contents of FullContents.
	TOC string
	// Footer holds the reference definitions of the links this document
	// emitted, to be appended after the template output.
	Footer string
}

// Processor applies the fixups. One Processor is used for a whole run so the
// link table is shared by every document.
type Processor struct {
	links  map[string]string
	table  *linktable.Table
	logger *slog.Logger
}

// New returns a Processor resolving links through links. A nil logger
// discards diagnostics.
func New(links map[string]string, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Processor{
		links:  links,
		table:  linktable.New(),
		logger: logger,
	}
}

// Table returns the link table accumulated so far.
func (p *Processor) Table() *linktable.Table { return p.table }

// Process fixes every input, concatenates them and renders the result.
func (p *Processor) Process(docs []source.Document) (Result, error) {
	var events []event.Event
	for _, doc := range docs {
		es, err := p.Fix(doc)
		if err != nil {
			return Result{}, err
		}
		events = append(events, es...)
	}

	footer := p.table.FooterOf(referenceIDs(events))
	full, err := markdown.Render(events)
	if err != nil {
		return Result{}, errors.Wrap(err, errors.KindOf(err), "failed to render contents").Build()
	}
	head, rest := fix.Summary(events)
	summary, err := markdown.Render(head)
	if err != nil {
		return Result{}, errors.Wrap(err, errors.KindOf(err), "failed to render summary").Build()
	}
	contents, err := markdown.Render(rest)
	if err != nil {
		return Result{}, errors.Wrap(err, errors.KindOf(err), "failed to render contents").Build()
	}
	return Result{
		Summary:      summary,
		Contents:     contents,
		FullContents: full,
		TOC:          toc.Generate(full + footer),
		Footer:       footer,
	}, nil
}

// referenceIDs lists the reference link identifiers used in events.
func referenceIDs(events []event.Event) []string {
	var ids []string
	for _, e := range events {
		if start, ok := e.(event.Start); ok {
			if link, ok := start.Tag.(event.Link); ok && link.Type == event.Reference && !slices.Contains(ids, link.Dest) {
				ids = append(ids, link.Dest)
			}
		}
	}
	return ids
}

// Fix parses one input and applies the fixups for its kind.
func (p *Processor) Fix(doc source.Document) ([]event.Event, error) {
	events, err := fix.Headings(markdown.Parse(doc.Text))
	if err != nil {
		return nil, wrap(err, doc.Path, "failed to fix headings")
	}

	diag := &slogDiagnostics{logger: p.logger, path: doc.Path}
	switch {
	case doc.Kind.IsDocComment():
		lang := fix.Rust
		if doc.Kind == source.GoDoc {
			lang = fix.Go
		}
		if events, err = fix.CodeBlocks(events, lang); err != nil {
			return nil, wrap(err, doc.Path, "failed to fix code blocks")
		}
		if events, err = fix.DocLinks(events, p.links, p.table, diag); err != nil {
			return nil, wrap(err, doc.Path, "failed to fix links")
		}
	case doc.Kind == source.Markdown:
		if events, err = fix.RelLinks(events, p.links, diag); err != nil {
			return nil, wrap(err, doc.Path, "failed to fix relative links")
		}
	default:
		return nil, errors.Newf(errors.KindUnsupportedFileKind, "no fixups for %s input", doc.Kind).
			WithPath(doc.Path).
			Build()
	}
	if err := balanced(events, doc.Path); err != nil {
		return nil, err
	}
	return events, nil
}

// balanced rejects a fixed-up stream whose Start and End events do not pair.
func balanced(events []event.Event, path string) error {
	if err := event.Validate(events); err != nil {
		return errors.Wrap(err, errors.KindMalformedStream, "fixups left an unbalanced stream").
			WithPath(path).
			Build()
	}
	return nil
}

func wrap(err error, path, message string) error {
	return errors.Wrap(err, errors.KindOf(err), message).WithPath(path).Build()
}

// slogDiagnostics logs findings as warnings for one input file.
type slogDiagnostics struct {
	logger *slog.Logger
	path   string
}

func (d *slogDiagnostics) UnresolvedLink(target string) {
	d.logger.Warn("unprocessed link",
		logfields.Link(target),
		logfields.File(d.path),
		logfields.Kind(string(errors.KindUnresolvedLink)))
}
