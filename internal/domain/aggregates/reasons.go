package aggregates

// Forbidden reasons surfaced to clients.
const (
	ReasonForbidden       = "forbidden"
	ReasonLessonLocked    = "lesson_locked"
	ReasonBlockLocked     = "block_locked"
	ReasonBlockTestLocked = "block_test_locked"
	ReasonNotPaid         = "not_paid"
)
