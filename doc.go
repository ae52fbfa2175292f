// # go-onedoc
//
// `go-onedoc` keeps README files in sync with the documentation that lives in
// source code. It reads doc comments (the package comment of a `.go` file or
// the `//!` module comment of a `.rs` file) and plain Markdown files, fixes
// them up so they read well as a standalone document, and renders the result
// through a `text/template`.
//
// The fixups:
//
//   - every heading moves one level down, so the template owns the `#` title.
//   - code blocks without a language are tagged with the source language, and
//     hidden lines (`# ` prefixed lines in Rust examples) are dropped.
//   - intra-doc links such as [`Event`] become reference links whose
//     definitions are appended at the end of the document.
//   - relative links in Markdown inputs are remapped to absolute URLs.
//   - the first paragraph is split off as the summary.
//
// ## Usage
//
//	go run ./go-onedoc [flags]
//
// Examples:
//
//   - Regenerate the README of the current package:
//
//     go run ./go-onedoc
//
//   - Fail in CI when a generated document is stale:
//
//     go run ./go-onedoc --check
//
//   - Use another package for the manifest and default document:
//
//     go run ./go-onedoc -p ./internal/markdown
//
// ## Configuration
//
// `onedoc.toml` (or `onedoc.yaml`) is looked up in the package directory and
// then in the module root. Paths are relative to the config file:
//
//	[[doc]]
//	input = ["doc.go", "docs/usage.md"]
//	output = "README.md"
//	template = "docs/README.tmpl"
//
//	[links]
//	"Event" = "https://pkg.go.dev/example.com/x#Event"
//	"docs/setup.md" = "https://example.com/setup"
//
// Without a `[[doc]]` entry, the file carrying the package doc comment
// (preferring `doc.go`) is rendered to `README.md` next to it.
//
// ## Templates
//
// Templates see `.Manifest` (`Name`, `ImportPath`, `Module`, `GoVersion`,
// `Dir`, `Synopsis`), `.Summary`, `.Contents`, `.FullContents`, `.TOC`, and
// the package's exported declarations as `.API` (an index) and `.Reference`
// (full sections). `trim_prefix` and `trim_suffix` strip a literal repeatedly:
//
//	{{ .Summary | trim_prefix "Package example " }}
//
// ## Supported Flags
//
//   - `--check`: compare instead of writing; exit with status 3 when a
//     document is out of date.
//   - `-p`, `--package`: the package supplying the manifest (default `.`).
//   - `--config FILE`: use `FILE` instead of looking one up.
//   - `--keep-going`: process the remaining documents after a failure and
//     report every failure at the end.
//   - `-u`, `--unexported`: include unexported declarations in `.API` and
//     `.Reference`.
//   - `-v`, `--verbose`: debug logging on stderr.
//
// Long flags are also accepted with a single dash (`-check`).
//
// ## Shell Completion
//
//	go run ./go-onedoc completion bash        # bash
//	go run ./go-onedoc completion zsh         # zsh
//	go run ./go-onedoc completion fish | source
//	go run ./go-onedoc completion powershell | Out-String | Invoke-Expression
//
// ## CLI Docs
//
//	go run ./go-onedoc gen-docs ./docs/cli
//
// Every command becomes its own Markdown file under the provided directory.
package main
