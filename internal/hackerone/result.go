package hackerone

// Outcome tags what happened to one remote call.
type Outcome int

const (
	Ok Outcome = iota
	// SoftFailed calls degrade the summary but don't stop the sync.
	SoftFailed
	// HardFailed calls abort the sync.
	HardFailed
)

func (o Outcome) String() string {
	switch o {
	case Ok:
		return "ok"
	case SoftFailed:
		return "soft_failed"
	case HardFailed:
		return "hard_failed"
	default:
		return "unknown"
	}
}

// Result is the tagged outcome of one call. Value is only meaningful when
// Outcome is Ok; Reason is set otherwise.
type Result[T any] struct {
	Outcome Outcome
	Value   T
	Reason  error
}

// Call runs fn and tags its outcome. A failing required call is
// HardFailed, a failing optional one SoftFailed.
func Call[T any](required bool, fn func() (T, error)) Result[T] {
	v, err := fn()
	switch {
	case err == nil:
		return Result[T]{Outcome: Ok, Value: v}
	case required:
		return Result[T]{Outcome: HardFailed, Reason: err}
	default:
		return Result[T]{Outcome: SoftFailed, Reason: err}
	}
}
