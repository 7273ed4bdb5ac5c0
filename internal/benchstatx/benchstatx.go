// Package benchstatx wraps golang.org/x/perf/benchstat with the narrow slice
// of its API that cmd/byteview-bench needs: comparing a baseline run of the
// byteview benchmarks against a candidate run and rendering a text table.
package benchstatx

import (
	"io"

	"golang.org/x/perf/benchstat"
)

// Comparison holds two labeled sets of `go test -bench -benchmem` output,
// ready to be rendered into a statistical comparison table.
type Comparison struct {
	c benchstat.Collection
}

// NewComparison returns an empty Comparison using benchstat's default
// confidence level.
func NewComparison() *Comparison {
	return &Comparison{
		c: benchstat.Collection{
			Alpha:      0.05,
			AddGeoMean: true,
		},
	}
}

// AddConfig attaches one labeled benchmark run (raw `go test -bench` output)
// to the comparison, e.g. AddConfig("baseline", oldOutput) followed by
// AddConfig("candidate", newOutput).
func (cmp *Comparison) AddConfig(label string, benchOutput []byte) error {
	return cmp.c.AddConfig(label, benchOutput)
}

// WriteText renders the comparison tables as benchstat's standard
// fixed-width text report.
func (cmp *Comparison) WriteText(w io.Writer) {
	tables := cmp.c.Tables()
	benchstat.FormatText(w, tables)
}
