package drift

import (
	"fmt"

	"github.com/alexanderjulianmartinez/adswatch/internal/source"
	"github.com/alexanderjulianmartinez/adswatch/pkg/types"
)

type Issue struct {
	Kind     string
	Table    string
	Severity string
	Message  string
	Detail   string
}

type Report struct {
	Issues []Issue
}

func (r *Report) add(kind, table, detail string) {
	r.Issues = append(r.Issues, Issue{
		Kind:     kind,
		Table:    table,
		Severity: SeverityForCheck(kind),
		Message:  MessageForCheck(kind),
		Detail:   detail,
	})
}

// Validate cross-checks the tables of one inspection. It never fails; an
// empty report means the tables agree.
func Validate(res *source.InspectionResult) *Report {
	report := &Report{}

	if ts := res.TreeState; ts != nil {
		if ts.TotalNullifiers != res.ActiveNullifiers {
			report.add("tree_count_mismatch", "tree_state",
				fmt.Sprintf("tree=%d active=%d", ts.TotalNullifiers, res.ActiveNullifiers))
		}
		if ts.NextAvailableIndex < ts.TotalNullifiers {
			report.add("index_behind_total", "tree_state",
				fmt.Sprintf("next=%d total=%d", ts.NextAvailableIndex, ts.TotalNullifiers))
		}
	} else if res.ActiveNullifiers > 0 {
		report.add("tree_state_missing", "tree_state", fmt.Sprintf("active=%d", res.ActiveNullifiers))
	}

	for _, b := range res.RecentBatches {
		if b.ProofStatus == types.ProofStatusFailed {
			report.add("batch_failed", "proof_batches", fmt.Sprintf("batch=%d", b.ID))
		}
	}
	return report
}

// Highest returns the most severe level in the report, or "" when empty.
func (r *Report) Highest() string {
	rank := map[string]int{SeverityInfo: 1, SeverityWarn: 2, SeverityBlock: 3}
	highest := ""
	for _, iss := range r.Issues {
		if rank[iss.Severity] > rank[highest] {
			highest = iss.Severity
		}
	}
	return highest
}
