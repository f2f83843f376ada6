package drift

// Centralized severity and message helpers for consistency checks.
// Rules:
// - BLOCK when the tree can no longer accept inserts safely
// - WARN for state that disagrees between tables
// - INFO for notable but expected state

const (
	SeverityInfo  = "INFO"
	SeverityWarn  = "WARN"
	SeverityBlock = "BLOCK"
)

// Check kinds supported:
// "tree_count_mismatch", "index_behind_total", "batch_failed", "tree_state_missing"
func SeverityForCheck(kind string) string {
	switch kind {
	case "index_behind_total":
		return SeverityBlock
	case "tree_count_mismatch", "batch_failed":
		return SeverityWarn
	default:
		return SeverityInfo
	}
}

// MessageForCheck returns a concise message for the given check kind.
func MessageForCheck(kind string) string {
	switch kind {
	case "tree_count_mismatch":
		return "tree state total differs from active nullifier count"
	case "index_behind_total":
		return "next available index is behind total nullifiers"
	case "batch_failed":
		return "proof generation failed"
	case "tree_state_missing":
		return "active nullifiers exist but tree state is missing"
	default:
		return ""
	}
}
