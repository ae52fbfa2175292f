package logfields

import "log/slog"

// Canonical log field names.
const (
	KeyFile   = "file"
	KeyOutput = "output"
	KeyLink   = "link"
	KeyKind   = "kind"
	KeyInputs = "inputs"
	KeyError  = "error"
)

func File(path string) slog.Attr   { return slog.String(KeyFile, path) }
func Output(path string) slog.Attr { return slog.String(KeyOutput, path) }
func Link(target string) slog.Attr { return slog.String(KeyLink, target) }
func Kind(kind string) slog.Attr   { return slog.String(KeyKind, kind) }
func Inputs(n int) slog.Attr       { return slog.Int(KeyInputs, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
