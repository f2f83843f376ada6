package sqldb

import (
	"context"

	"github.com/alexanderjulianmartinez/adswatch/internal/source"
)

// Inspect runs the fixed query sequence. Detail queries for nullifiers and
// commits are skipped when their count is zero.
func (i *Inspector) Inspect(ctx context.Context) (*source.InspectionResult, error) {
	res := &source.InspectionResult{}
	var err error

	if res.ActiveNullifiers, err = i.CountActiveNullifiers(ctx); err != nil {
		return nil, err
	}
	if res.ActiveNullifiers > 0 {
		if res.RecentNullifiers, err = i.FetchRecentNullifiers(ctx); err != nil {
			return nil, err
		}
	}

	if res.StateCommits, err = i.CountStateCommits(ctx); err != nil {
		return nil, err
	}
	if res.StateCommits > 0 {
		if res.RecentCommits, err = i.FetchRecentCommits(ctx); err != nil {
			return nil, err
		}
	}

	if res.TreeState, err = i.FetchTreeState(ctx); err != nil {
		return nil, err
	}

	if res.RecentBatches, err = i.FetchRecentBatches(ctx); err != nil {
		return nil, err
	}
	return res, nil
}
