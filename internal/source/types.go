package source

import "github.com/alexanderjulianmartinez/adswatch/pkg/types"

// InspectionResult is a read-only snapshot of the ADS tables.
type InspectionResult struct {
	ActiveNullifiers int64
	RecentNullifiers []types.Nullifier

	StateCommits  int64
	RecentCommits []types.StateCommit

	// TreeState is nil when no row exists for the inspected tree id.
	TreeState *types.TreeState

	RecentBatches []types.ProofBatch
}
