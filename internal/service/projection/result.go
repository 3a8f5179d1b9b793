package projection

// Outcome classifies what Apply did with an event.
type Outcome string

const (
	// OutcomeApplied means the read models were updated.
	OutcomeApplied Outcome = "applied"
	// OutcomeSkipped means the event was valid but had no resolvable target.
	// A later event may still create the linkage.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeUnprojected means the event type is not projected by this deployment.
	OutcomeUnprojected Outcome = "unprojected"
	// OutcomeFailed means the payload was invalid or storage failed.
	OutcomeFailed Outcome = "failed"
)

// Result is the outcome of projecting a single event. Failures are carried
// in Err rather than returned, so one bad event never aborts its batch.
type Result struct {
	Outcome Outcome
	Reason  string
	Err     error
}

// OK reports whether the projection completed without error.
func (r Result) OK() bool {
	return r.Outcome != OutcomeFailed
}

func applied() Result { return Result{Outcome: OutcomeApplied} }

func skipped(reason string) Result { return Result{Outcome: OutcomeSkipped, Reason: reason} }

func failed(err error) Result { return Result{Outcome: OutcomeFailed, Reason: err.Error(), Err: err} }
