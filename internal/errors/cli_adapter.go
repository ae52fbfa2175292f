package errors

import (
	stderrors "errors"
	"strings"
)

// ExitCodeFor maps err to the process exit code used by the CLI.
func ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	switch {
	case IsKind(err, KindConfig), IsKind(err, KindUnsupportedFileKind):
		return 7
	case IsKind(err, KindOutOfDate):
		return 3
	case IsKind(err, KindMalformedStream), IsKind(err, KindHeadingLevelOverflow), IsKind(err, KindTemplateRender):
		return 11
	case IsKind(err, KindIO):
		return 5
	default:
		return 1
	}
}

// FormatError renders err for the terminal, one line per joined error.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	var joined interface{ Unwrap() []error }
	if stderrors.As(err, &joined) {
		var lines []string
		for _, inner := range joined.Unwrap() {
			if inner != nil {
				lines = append(lines, FormatError(inner))
			}
		}
		return strings.Join(lines, "\n")
	}
	if e, ok := As(err); ok {
		return "[" + string(e.kind) + "] " + err.Error()
	}
	return err.Error()
}
