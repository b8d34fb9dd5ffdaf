package dsar

// CanTransition reports whether a request may move from one status to another.
// Re-applying the current status is always an idempotent no-op. Requests move
// freely among pending, in_progress and rejected; completed is reachable from
// any of pending/in_progress and is terminal once entered. A rejected request
// may be reopened but never completed directly.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	switch from {
	case StatusCompleted:
		return false
	case StatusRejected:
		return to == StatusPending || to == StatusInProgress
	default:
		return true
	}
}
