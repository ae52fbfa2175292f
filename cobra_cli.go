package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	cobradoc "github.com/spf13/cobra/doc"
)

const rootLongDesc = `
go-onedoc builds README-style Markdown documents from doc comments and Markdown files.

Each document listed in onedoc.toml (or onedoc.yaml) concatenates its inputs (.go package
comments, .rs module comments, .md files), fixes headings, code blocks and links, and renders
the result through a text/template. Without a config file, the package doc comment of the
selected package becomes its README.md.

  • --check compares the generated documents with the files on disk without writing (for CI)
  • Shell completion generation for bash, zsh, fish, and PowerShell
  • A gen-docs helper that can emit Markdown reference docs for the CLI itself
`

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	app := &cliApp{stdout: stdout, stderr: stderr}
	cmd := &cobra.Command{
		Use:           "go-onedoc [flags]",
		Short:         "Generate README Markdown from doc comments",
		Long:          strings.TrimSpace(rootLongDesc),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.DisableAutoGenTag = true
	cmd.Version = Version
	cmd.SetOut(stdout)
	cmd.SetErr(io.Discard)
	cmd.CompletionOptions.DisableDefaultCmd = true

	flags := cmd.Flags()
	flags.BoolVar(&app.opts.check, "check", false, "report documents that are out of date instead of writing them")
	flags.StringVarP(&app.opts.pkg, "package", "p", "", "package supplying the manifest and default document (default \".\")")
	flags.StringVar(&app.opts.configPath, "config", "", "config file (default: onedoc.toml or onedoc.yaml in the package or module root)")
	flags.BoolVar(&app.opts.keepGoing, "keep-going", false, "continue with the remaining documents after a failure")
	flags.BoolVarP(&app.opts.verbose, "verbose", "v", false, "log debug details to stderr")
	flags.BoolVarP(&app.opts.unexported, "unexported", "u", false, "include unexported declarations in the API and Reference values")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return app.execute(cmd.Context())
	}

	cmd.AddCommand(newCompletionCmd(cmd))
	cmd.AddCommand(newDocsCmd(cmd))
	return cmd
}

func newCompletionCmd(root *cobra.Command) *cobra.Command {
	const (
		longDesc = `Generate shell completion scripts for go-onedoc.

The output should be evaluated by your shell. For example:

  # bash
  go-onedoc completion bash > /usr/local/etc/bash_completion.d/go-onedoc

  # zsh
  go-onedoc completion zsh > "${fpath[1]}/_go-onedoc"

  # fish
  go-onedoc completion fish | source

  # PowerShell
  go-onedoc completion powershell | Out-String | Invoke-Expression
`
	)
	cmd := &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 "Generate shell completion scripts",
		Long:                  longDesc,
		Args:                  cobra.ExactValidArgs(1),
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return root.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return root.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return root.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return root.GenPowerShellCompletion(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell %q", args[0])
		}
	}
	return cmd
}

func newDocsCmd(root *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen-docs [directory]",
		Short: "Generate Markdown reference docs for the CLI",
		Long: strings.TrimSpace(`
Write a Markdown file per command (suitable for publishing CLI docs).

Example:

  go-onedoc gen-docs ./docs/cli
`),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		target := args[0]
		if target == "" {
			return fmt.Errorf("target directory is required")
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return err
		}
		return cobradoc.GenMarkdownTree(root, target)
	}
	return cmd
}
