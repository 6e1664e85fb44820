//
// Copyright (c) 2025-2026 Markku Rossi
//
// All rights reserved.
//

// Package timing collects per-phase benchmark measurements. A Report
// records the wall time of consecutive protocol phases together with
// the triples each phase consumed and the ring words it moved over
// the wire, and renders them as a table followed by a transport byte
// summary.
package timing

import (
	"fmt"
	"io"
	"time"

	"github.com/markkurossi/tabulate"

	"github.com/markkurossi/beaver/p2p"
)

// Report collects benchmark phases. Phases are delimited by the
// Phase calls: each call closes the phase that started at the
// previous boundary.
type Report struct {
	start  time.Time
	mark   time.Time
	phases []*Phase
}

// Phase records one benchmark phase.
type Phase struct {
	Label   string
	Elapsed time.Duration
	Triples int
	Words   int
}

// NewReport creates a new benchmark report. The first phase starts
// now.
func NewReport() *Report {
	now := time.Now()
	return &Report{
		start: now,
		mark:  now,
	}
}

// Phase closes the current phase. The phase consumed triples Beaver
// triples and exchanged words ring words with the peer; either count
// can be zero for local phases.
func (r *Report) Phase(label string, triples, words int) {
	now := time.Now()
	r.phases = append(r.phases, &Phase{
		Label:   label,
		Elapsed: now.Sub(r.mark),
		Triples: triples,
		Words:   words,
	})
	r.mark = now
}

// Print renders the report. The transport statistics provide the
// byte and flush counts of the summary line.
func (r *Report) Print(w io.Writer, stats p2p.IOStats) {
	if len(r.phases) == 0 {
		return
	}
	total := r.mark.Sub(r.start)

	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Phase").SetAlign(tabulate.ML)
	tab.Header("Time").SetAlign(tabulate.MR)
	tab.Header("%").SetAlign(tabulate.MR)
	tab.Header("Triples").SetAlign(tabulate.MR)
	tab.Header("Words").SetAlign(tabulate.MR)

	for _, phase := range r.phases {
		row := tab.Row()
		row.Column(phase.Label)
		row.Column(phase.Elapsed.String())
		row.Column(fmt.Sprintf("%.2f%%",
			float64(phase.Elapsed)/float64(total)*100))
		row.Column(count(phase.Triples))
		row.Column(count(phase.Words))
	}
	row := tab.Row()
	row.Column("Total").SetFormat(tabulate.FmtBold)
	row.Column(total.String()).SetFormat(tabulate.FmtBold)
	row.Column("")
	row.Column("")
	row.Column("")
	tab.Print(w)

	fmt.Fprintf(w, "sent %s, received %s in %d flushes\n",
		Bytes(stats.Sent.Load()), Bytes(stats.Recvd.Load()),
		stats.Flushed.Load())
}

func count(n int) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%d", n)
}

// Bytes formats a byte count in human-readable units.
type Bytes uint64

func (b Bytes) String() string {
	if b < 1000 {
		return fmt.Sprintf("%dB", uint64(b))
	}
	val := float64(b)
	var unit string
	for _, unit = range []string{"kB", "MB", "GB", "TB"} {
		val /= 1000
		if val < 1000 {
			break
		}
	}
	return fmt.Sprintf("%.1f%s", val, unit)
}
