package inventory

// LifecycleStage describes how strongly a document currently holds
// stock. Documents map their own status to a stage, and the ledger
// moves positions between stages with per-item deltas.
type LifecycleStage string

const (
	// StageNone holds no stock: nothing reserved, nothing consumed
	StageNone LifecycleStage = "NONE"
	// StageReserved holds stock softly: reserved against the position,
	// still on hand
	StageReserved LifecycleStage = "RESERVED"
	// StageConsumed holds stock hard: deducted from lots and positions
	StageConsumed LifecycleStage = "CONSUMED"
)

// IsValid returns true if the stage is valid
func (s LifecycleStage) IsValid() bool {
	switch s {
	case StageNone, StageReserved, StageConsumed:
		return true
	}
	return false
}
