package types

import "time"

// Proof batch statuses written by the batch processor.
const (
	ProofStatusPending = "pending"
	ProofStatusProven  = "proven"
	ProofStatusFailed  = "failed"
)

type Nullifier struct {
	Value     string
	TreeIndex int64
	CreatedAt time.Time
}

type StateCommit struct {
	BatchID   int64
	CreatedAt time.Time
}

type TreeState struct {
	TreeID             string
	TotalNullifiers    int64
	NextAvailableIndex int64
	UpdatedAt          time.Time
}

type ProofBatch struct {
	ID               int64
	TransactionCount int64
	ProofStatus      string
	CreatedAt        time.Time
}
