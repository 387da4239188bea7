package generate

import (
	"context"
	"fmt"
	"go/token"
	"io"
	"log/slog"

	"github.com/jinzhu/inflection"

	"github.com/cmmoran/equalgen/internal/engine"
)

// Report prints every diagnostic to w as "file:line:col: severity: message"
// and logs it on l.
func Report(w io.Writer, l *slog.Logger, fset *token.FileSet, diags engine.Diagnostics) {
	for _, d := range diags {
		if w != nil {
			_, _ = fmt.Fprintln(w, d.Format(fset))
		}
		pos := fset.Position(d.Pos)
		ll := l.With("file", pos.Filename, "line", pos.Line, "column", pos.Column, "code", d.Code)
		if d.Fix != nil {
			ll = ll.With("fix", d.Fix.Message)
		}
		ll.Log(context.Background(), level(d.Severity), d.Message)
	}
}

func level(s engine.Severity) slog.Level {
	switch s {
	case engine.SeverityError:
		return slog.LevelError
	case engine.SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// Count renders n with noun, pluralised when n is not one.
func Count(n int, noun string) string {
	if n != 1 {
		noun = inflection.Plural(noun)
	}
	return fmt.Sprintf("%d %s", n, noun)
}
