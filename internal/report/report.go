package report

import (
	"fmt"
	"io"
	"time"

	"github.com/alexanderjulianmartinez/adswatch/internal/drift"
	"github.com/alexanderjulianmartinez/adswatch/internal/source"
)

const timeLayout = "2006-01-02 15:04:05Z07:00"

// Header is printed before the database is contacted.
const Header = "Checking ADS table contents..."

// Render writes the human-readable summary of res.
func Render(w io.Writer, res *source.InspectionResult) error {
	p := &printer{w: w}

	p.linef("Active nullifiers: %d", res.ActiveNullifiers)
	if res.ActiveNullifiers > 0 {
		p.linef("Recent nullifiers:")
		for _, n := range res.RecentNullifiers {
			p.linef("   Value: %s, Tree Index: %d, Created: %s", n.Value, n.TreeIndex, stamp(n.CreatedAt))
		}
	}

	p.linef("ADS state commits: %d", res.StateCommits)
	if res.StateCommits > 0 {
		p.linef("Recent ADS commits:")
		for _, c := range res.RecentCommits {
			p.linef("   Batch ID: %d, Created: %s", c.BatchID, stamp(c.CreatedAt))
		}
	}

	if ts := res.TreeState; ts != nil {
		p.linef("Tree state: %d nullifiers, next index: %d, updated: %s",
			ts.TotalNullifiers, ts.NextAvailableIndex, stamp(ts.UpdatedAt))
	} else {
		p.linef("No default tree state found")
	}

	p.linef("Recent batches:")
	for _, b := range res.RecentBatches {
		p.linef("   Batch %d: %d txns, status: %s, created: %s",
			b.ID, b.TransactionCount, b.ProofStatus, stamp(b.CreatedAt))
	}
	return p.err
}

// RenderIssues writes the consistency section. Nothing is written for an
// empty report.
func RenderIssues(w io.Writer, rep *drift.Report) error {
	if rep == nil || len(rep.Issues) == 0 {
		return nil
	}
	p := &printer{w: w}
	p.linef("Consistency:")
	for _, iss := range rep.Issues {
		p.linef("   [%s] %s: %s (%s)", iss.Severity, iss.Table, iss.Message, iss.Detail)
	}
	return p.err
}

// RenderError writes the failure lines shown when inspection aborts.
func RenderError(w io.Writer, err error, target string) error {
	p := &printer{w: w}
	p.linef("Error connecting to database: %v", err)
	p.linef("Make sure DATABASE_URL is set correctly: %s", target)
	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) linef(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}

func stamp(t time.Time) string {
	return t.Format(timeLayout)
}
