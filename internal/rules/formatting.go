package rules

import (
	"context"
	"fmt"

	"nbcheck/internal/diag"
)

// fixableViolationKinds is the explicit allow-list of parser violation kinds
// the formatter can rewrite automatically. Everything else is reported as
// formatting-severity but not auto-fixable.
var fixableViolationKinds = map[string]struct{}{
	"unexpected-statement-cell": {},
	"empty-cell":                {},
	"stale-cell-name":           {},
}

// GeneralFormatting surfaces the structural violations the parser emitted
// while loading the notebook.
type GeneralFormatting struct{}

func (GeneralFormatting) Meta() Meta {
	return Meta{
		Code:     diag.CodeGeneralFormatting,
		Name:     diag.NameGeneralFormatting,
		Severity: diag.SevFormatting,
		Fixable:  diag.FixableNo,
	}
}

func (f GeneralFormatting) Check(ctx context.Context, rctx *Context) error {
	for _, v := range rctx.Notebook().Violations {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := v.Description
		if msg == "" {
			msg = fmt.Sprintf("notebook structure violation: %s", v.Kind)
		}
		d := f.Meta().newDiagnostic(msg).WithLocation(v.Line, v.Col)
		if _, ok := fixableViolationKinds[v.Kind]; ok {
			d.Fixable = diag.FixableYes
		}
		rctx.AddDiagnostic(d)
	}
	return nil
}
