package domain

// Step is the current position in the checkout flow.
type Step string

const (
	StepReview    Step = "REVIEW"
	StepAddress   Step = "ADDRESS"
	StepPayment   Step = "PAYMENT"
	StepSubmitted Step = "SUBMITTED"
)

var stepTransitions = map[Step][]Step{
	StepReview:  {StepAddress},
	StepAddress: {StepReview, StepPayment},
	StepPayment: {StepAddress, StepSubmitted},
}

// CanTransitionTo reports whether the flow may move from one step to another.
// SUBMITTED has no outgoing transitions; a new checkout starts a fresh draft.
func CanTransitionTo(from, to Step) bool {
	for _, next := range stepTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s Step) IsTerminal() bool {
	return s == StepSubmitted
}

// String representation (for logging)
func (s Step) String() string {
	return string(s)
}
