package rules

import (
	"context"
	"fmt"

	"nbcheck/internal/diag"
)

// UnparsableCells reports every cell whose code failed to parse.
type UnparsableCells struct{}

func (UnparsableCells) Meta() Meta {
	return Meta{
		Code:     diag.CodeUnparsableCells,
		Name:     diag.NameUnparsableCells,
		Severity: diag.SevBreaking,
		Fixable:  diag.FixableNo,
	}
}

func (u UnparsableCells) Check(ctx context.Context, rctx *Context) error {
	nb := rctx.Notebook()
	for i := range nb.Cells {
		if err := ctx.Err(); err != nil {
			return err
		}
		cell := &nb.Cells[i]
		if !cell.Unparsable {
			continue
		}
		msg := fmt.Sprintf("cell %q contains code that fails to parse", cell.Name)
		if cell.Name == "" {
			msg = fmt.Sprintf("cell at line %d contains code that fails to parse", cell.Line)
		}
		rctx.AddDiagnostic(u.Meta().newDiagnostic(msg).WithLocation(cell.Line, cell.Col))
	}
	return nil
}
