// Package normalize orchestrates the conversion pipeline: raw tree in,
// canonical type graph out. It wires the builder, the reference resolver, the
// composition resolver and the pattern-map detector in their fixed order and
// aggregates every diagnostic into one Issues value.
package normalize

import (
	"context"

	schemaforge "github.com/schemaforge/schemaforge"
	"github.com/schemaforge/schemaforge/compose"
	"github.com/schemaforge/schemaforge/patternmap"
	"github.com/schemaforge/schemaforge/rawtree"
	"github.com/schemaforge/schemaforge/registry"
	"github.com/schemaforge/schemaforge/resolve"
	"github.com/schemaforge/schemaforge/typegraph"
)

// AmbiguityStrategy selects what happens when an exclusive union carries no
// detectable discriminator.
type AmbiguityStrategy int

const (
	// AmbiguityWarn degrades the construct to a plain union and records a
	// warning. This is the default.
	AmbiguityWarn AmbiguityStrategy = iota
	// AmbiguityFail promotes the ambiguous-union warning to fatal class, for
	// pipelines that require every exclusive union to stay discriminated.
	AmbiguityFail
)

// Options controls one normalization run.
type Options struct {
	// Namespace is the default namespace for declarations that do not declare
	// their own. Empty means the default (unnamed) namespace.
	Namespace string
	// External fetches documents referenced as "<location>#<fullname>". Nil
	// leaves external references as warning-class unresolved placeholders.
	External resolve.ExternalResolver
	// Warn receives composition warnings (notably ambiguous-union degradation)
	// as they are found, in addition to their inclusion in Result.Issues. Nil
	// is fine; see Diag for an accumulator implementation.
	Warn compose.WarnFunc
	// Ambiguity selects the treatment of undiscriminated exclusive unions.
	Ambiguity AmbiguityStrategy
}

// Result is the outcome of one run. The graph is usable even when Issues
// carries fatal entries: failed branches hold unresolved placeholders.
type Result struct {
	Registry *registry.Registry
	Root     *typegraph.TypeNode
	// Order lists every named type in a deterministic before-use emission
	// order; Deferred lists the cycle-closing edges an emitter must forward-
	// declare.
	Order    []*typegraph.TypeNode
	Deferred []resolve.DeferredEdge
	Issues   schemaforge.Issues
}

// Normalize runs the full pipeline over a decoded raw tree. The returned error
// is the Issues value itself when any fatal-class issue was collected, nil
// otherwise; warnings alone never fail the run.
func Normalize(ctx context.Context, doc any, opts Options) (*Result, error) {
	reg := registry.New()
	b := &builder{reg: reg}

	root := b.build(doc, opts.Namespace, "", schemaforge.Root())

	res := resolve.New(reg, opts.External, documentBuilder(b))
	root, _ = res.Resolve(ctx, root)

	comp := compose.New(opts.Warn)
	composed, _ := comp.RunAll(append([]*typegraph.TypeNode{root}, reg.All()...)...)
	root = composed[0]

	rewritten := patternmap.RewriteAll(append([]*typegraph.TypeNode{root}, reg.All()...)...)
	root = rewritten[0]

	order, deferred := resolve.EmissionOrder(reg)

	var issues schemaforge.Issues
	issues = append(issues, b.issues...)
	issues = append(issues, res.Issues()...)
	issues = append(issues, comp.Issues()...)
	if opts.Ambiguity == AmbiguityFail {
		for i := range issues {
			if issues[i].Code == schemaforge.CodeAmbiguousUnion {
				issues[i].Severity = schemaforge.SeverityFatal
			}
		}
	}

	out := &Result{Registry: reg, Root: root, Order: order, Deferred: deferred, Issues: issues}
	if issues.HasFatal() {
		return out, issues
	}
	return out, nil
}

// NormalizeJSON decodes a JSON document and normalizes it.
func NormalizeJSON(ctx context.Context, data []byte, opts Options) (*Result, error) {
	doc, err := rawtree.DecodeJSON(data)
	if err != nil {
		return nil, parseIssue(err)
	}
	return Normalize(ctx, doc, opts)
}

// NormalizeYAML decodes a YAML document and normalizes it.
func NormalizeYAML(ctx context.Context, data []byte, opts Options) (*Result, error) {
	doc, err := rawtree.DecodeYAML(data)
	if err != nil {
		return nil, parseIssue(err)
	}
	return Normalize(ctx, doc, opts)
}

// documentBuilder adapts the raw-tree builder for externally fetched
// documents: the shared registry accumulates their named types under the
// location-derived namespace. JSON is tried first, then YAML.
func documentBuilder(b *builder) resolve.DocumentBuilder {
	return func(ctx context.Context, data []byte, namespace string) (*typegraph.TypeNode, error) {
		doc, err := rawtree.DecodeJSON(data)
		if err != nil {
			doc, err = rawtree.DecodeYAML(data)
		}
		if err != nil {
			return nil, err
		}
		root := b.build(doc, namespace, "", schemaforge.Root())
		return root, nil
	}
}

func parseIssue(err error) schemaforge.Issues {
	return schemaforge.Issues{{
		Path:     "/",
		Code:     schemaforge.CodeParseError,
		Message:  err.Error(),
		Cause:    err,
		Severity: schemaforge.SeverityFatal,
	}}
}
