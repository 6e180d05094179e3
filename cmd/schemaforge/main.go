// Command schemaforge normalizes a schema document into canonical form and
// prints its fingerprint.
//
// Usage:
//
//	schemaforge -in schema.json [-yaml] [-fp rabin64|md5|sha256] [-verbose]
//
// The canonical form is written to stdout; diagnostics go to stderr. The exit
// code is non-zero when fatal issues were found.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	schemaforge "github.com/schemaforge/schemaforge"
	"github.com/schemaforge/schemaforge/canonical"
	"github.com/schemaforge/schemaforge/i18n"
	"github.com/schemaforge/schemaforge/normalize"
	"github.com/schemaforge/schemaforge/typegraph"
)

var (
	warnColor  = color.New(color.FgYellow)
	fatalColor = color.New(color.FgRed, color.Bold)
)

func main() {
	var (
		in      = flag.String("in", "", "input schema document (required)")
		asYAML  = flag.Bool("yaml", false, "parse the input as YAML instead of JSON")
		fp      = flag.String("fp", "rabin64", "fingerprint algorithm: rabin64, md5 or sha256")
		ns      = flag.String("ns", "", "default namespace for unqualified declarations")
		lang    = flag.String("lang", "en", "diagnostic language: en or ja")
		verbose = flag.Bool("verbose", false, "dump the normalized type graph to stderr")
	)
	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "schemaforge: -in is required")
		flag.Usage()
		os.Exit(2)
	}
	i18n.SetLanguage(*lang)

	os.Exit(run(*in, *asYAML, canonical.Algorithm(*fp), *ns, *verbose))
}

func run(in string, asYAML bool, alg canonical.Algorithm, ns string, verbose bool) int {
	data, err := os.ReadFile(in)
	if err != nil {
		fatalColor.Fprintln(os.Stderr, err)
		return 1
	}

	opts := normalize.Options{
		Namespace: ns,
		External:  fileResolver{base: filepath.Dir(in)},
	}
	ctx := context.Background()

	var res *normalize.Result
	if asYAML {
		res, err = normalize.NormalizeYAML(ctx, data, opts)
	} else {
		res, err = normalize.NormalizeJSON(ctx, data, opts)
	}
	if res != nil {
		report(res.Issues)
	}
	if err != nil {
		return 1
	}

	if verbose {
		fmt.Fprintln(os.Stderr, typegraph.Dump(res.Root))
	}

	cf, err := canonical.Format(res.Root)
	if err != nil {
		fatalColor.Fprintln(os.Stderr, err)
		return 1
	}
	sum, err := canonical.Fingerprint(alg, cf)
	if err != nil {
		fatalColor.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(string(cf))
	fmt.Printf("%s:%s\n", alg, hex.EncodeToString(sum))
	return 0
}

func report(issues schemaforge.Issues) {
	for _, is := range issues {
		c := warnColor
		if is.Severity == schemaforge.SeverityFatal {
			c = fatalColor
		}
		c.Fprintf(os.Stderr, "%s %s: %s\n", is.Severity, is.Path, is.Message)
		if is.Hint != "" {
			fmt.Fprintf(os.Stderr, "  %s\n", is.Hint)
		}
	}
}

// fileResolver fetches external references relative to the input document's
// directory. Absolute paths and path escapes outside the base are rejected.
type fileResolver struct{ base string }

func (r fileResolver) Resolve(_ context.Context, location string) ([]byte, error) {
	if filepath.IsAbs(location) || strings.Contains(location, "..") {
		return nil, fmt.Errorf("external location %q escapes the document directory", location)
	}
	return os.ReadFile(filepath.Join(r.base, location))
}
