package pipeline

import "github.com/vitln/modlate/internal/batch"

// UnitState is the lifecycle of one localization unit inside a job.
type UnitState int

const (
	StatePending UnitState = iota
	StateCollecting
	StateTranslating
	StateApplying
	StateDone
	StateCancelled
)

func (s UnitState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateCollecting:
		return "collecting"
	case StateTranslating:
		return "translating"
	case StateApplying:
		return "applying"
	case StateDone:
		return "done"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// PercentNA is reported when an overall percentage is not applicable.
const PercentNA = -1

// Progress is delivered to the caller after every batch and at unit state
// transitions. The callback may run on a worker goroutine and is assumed
// non-blocking.
type Progress struct {
	Percent    int // 0–100 overall, or PercentNA
	Processed  int // strings processed so far in the current unit
	Total      int // total strings in the current unit
	Unit       string
	State      UnitState
	Stats      *batch.Stats
	ErrorClass string
}

// Callback consumes progress events. Nil callbacks are allowed.
type Callback func(Progress)

// OverallPercent computes the weighted job percentage from per-phase file
// counters: processed lang files map onto 0–50 and processed book files
// onto 50–100. A phase with no files counts as complete, matching the
// skip-empty-unit-type policy.
func OverallPercent(langDone, langTotal, bookDone, bookTotal int) int {
	half := func(done, total int) int {
		if total <= 0 {
			return 50
		}
		if done > total {
			done = total
		}
		return 50 * done / total
	}
	return half(langDone, langTotal) + half(bookDone, bookTotal)
}
