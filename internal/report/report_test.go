package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alexanderjulianmartinez/adswatch/internal/drift"
	"github.com/alexanderjulianmartinez/adswatch/internal/source"
	"github.com/alexanderjulianmartinez/adswatch/pkg/types"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestRender_Populated(t *testing.T) {
	res := &source.InspectionResult{
		ActiveNullifiers: 5,
		RecentNullifiers: []types.Nullifier{{Value: "1004", TreeIndex: 5, CreatedAt: t0}},
		StateCommits:     2,
		RecentCommits:    []types.StateCommit{{BatchID: 2, CreatedAt: t0}},
		TreeState:        &types.TreeState{TreeID: "default", TotalNullifiers: 5, NextAvailableIndex: 5, UpdatedAt: t0},
		RecentBatches:    []types.ProofBatch{{ID: 4, TransactionCount: 40, ProofStatus: "proven", CreatedAt: t0}},
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, res))

	want := strings.Join([]string{
		"Active nullifiers: 5",
		"Recent nullifiers:",
		"   Value: 1004, Tree Index: 5, Created: 2024-01-01 00:00:00Z",
		"ADS state commits: 2",
		"Recent ADS commits:",
		"   Batch ID: 2, Created: 2024-01-01 00:00:00Z",
		"Tree state: 5 nullifiers, next index: 5, updated: 2024-01-01 00:00:00Z",
		"Recent batches:",
		"   Batch 4: 40 txns, status: proven, created: 2024-01-01 00:00:00Z",
		"",
	}, "\n")
	require.Equal(t, want, buf.String())
}

func TestRender_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, &source.InspectionResult{}))

	want := "Active nullifiers: 0\nADS state commits: 0\nNo default tree state found\nRecent batches:\n"
	require.Equal(t, want, buf.String())
}

func TestRenderIssues(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderIssues(&buf, &drift.Report{}))
	require.Empty(t, buf.String())

	rep := drift.Validate(&source.InspectionResult{
		ActiveNullifiers: 4,
		TreeState:        &types.TreeState{TotalNullifiers: 5, NextAvailableIndex: 5},
	})
	require.NoError(t, RenderIssues(&buf, rep))
	require.Equal(t, "Consistency:\n   [WARN] tree_state: tree state total differs from active nullifier count (tree=5 active=4)\n", buf.String())
}

func TestRenderError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderError(&buf, errors.New("boom"), "postgres://postgres@localhost:5432/postgres"))
	require.Contains(t, buf.String(), "Error connecting to database: boom")
	require.Contains(t, buf.String(), "postgres://postgres@localhost:5432/postgres")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestRender_WriteError(t *testing.T) {
	require.Error(t, Render(failingWriter{}, &source.InspectionResult{}))
}
