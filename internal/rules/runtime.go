package rules

import (
	"context"
	"fmt"
	"strings"

	"nbcheck/internal/diag"
)

// The runtime rules surface side-channel output captured while the notebook
// loaded: a well-formed notebook definition produces no output at import
// time, so anything on stdout/stderr or in the log usually points at code
// running outside a cell function.

// ParseStdout reports stdout output captured during notebook loading.
type ParseStdout struct{}

func (ParseStdout) Meta() Meta {
	return Meta{
		Code:     diag.CodeParseStdout,
		Name:     diag.NameParseStdout,
		Severity: diag.SevRuntime,
		Fixable:  diag.FixableNo,
	}
}

func (p ParseStdout) Check(ctx context.Context, rctx *Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if out := rctx.Stdout(); out != "" {
		rctx.AddDiagnostic(p.Meta().newDiagnostic(
			fmt.Sprintf("loading the notebook produced output on stdout: %s", excerpt(out))))
	}
	return nil
}

// ParseStderr reports stderr output captured during notebook loading.
type ParseStderr struct{}

func (ParseStderr) Meta() Meta {
	return Meta{
		Code:     diag.CodeParseStderr,
		Name:     diag.NameParseStderr,
		Severity: diag.SevRuntime,
		Fixable:  diag.FixableNo,
	}
}

func (p ParseStderr) Check(ctx context.Context, rctx *Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if out := rctx.Stderr(); out != "" {
		rctx.AddDiagnostic(p.Meta().newDiagnostic(
			fmt.Sprintf("loading the notebook produced output on stderr: %s", excerpt(out))))
	}
	return nil
}

// ParseLog reports warning-or-worse log records captured during notebook
// loading, one diagnostic per record.
type ParseLog struct{}

func (ParseLog) Meta() Meta {
	return Meta{
		Code:     diag.CodeParseLog,
		Name:     diag.NameParseLog,
		Severity: diag.SevRuntime,
		Fixable:  diag.FixableNo,
	}
}

func (p ParseLog) Check(ctx context.Context, rctx *Context) error {
	for _, rec := range rctx.Logs() {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch strings.ToLower(rec.Level) {
		case "warning", "warn", "error", "critical":
		default:
			continue
		}
		rctx.AddDiagnostic(p.Meta().newDiagnostic(
			fmt.Sprintf("loading the notebook logged a %s: %s", strings.ToLower(rec.Level), excerpt(rec.Message))))
	}
	return nil
}

// excerpt trims captured output to its first line, capped at 120 bytes.
func excerpt(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 120 {
		s = s[:120] + "..."
	}
	return s
}
