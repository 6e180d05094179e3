package normalize

import schemaforge "github.com/schemaforge/schemaforge"

// Diag accumulates warnings for callers that prefer polling over a callback.
// Its Warn method satisfies Options.Warn directly:
//
//	d := normalize.NewDiag()
//	res, err := normalize.Normalize(ctx, doc, normalize.Options{Warn: d.Warn})
//	for _, w := range d.Warnings() { ... }
type Diag struct {
	warns []schemaforge.Issue
}

func NewDiag() *Diag { return &Diag{} }

func (d *Diag) Warn(is schemaforge.Issue) { d.warns = append(d.warns, is) }

// Warnings returns the accumulated warnings in arrival order.
func (d *Diag) Warnings() []schemaforge.Issue {
	return append([]schemaforge.Issue(nil), d.warns...)
}
