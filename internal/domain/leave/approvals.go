package leave

import "fmt"

// Stage is a step in the sign-off chain. Keeping it a closed type means an
// unmapped stage string is an error at the boundary instead of a silent
// default approval level.
type Stage string

const (
	StageReliever   Stage = "reliever_pending"
	StageSupervisor Stage = "supervisor_pending"
	StageHR         Stage = "hr_pending"
)

const (
	DecisionApproved = "approved"
	DecisionRejected = "rejected"
)

func ParseStage(value string) (Stage, error) {
	switch Stage(value) {
	case StageReliever, StageSupervisor, StageHR:
		return Stage(value), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStage, value)
	}
}

// Level maps a stage to its approval level in the audit trail.
func (s Stage) Level() int {
	switch s {
	case StageReliever:
		return 1
	case StageSupervisor:
		return 2
	case StageHR:
		return 3
	default:
		return 0
	}
}

// Next returns the stage that follows s, or false when s is the final one.
func (s Stage) Next() (Stage, bool) {
	switch s {
	case StageReliever:
		return StageSupervisor, true
	case StageSupervisor:
		return StageHR, true
	default:
		return "", false
	}
}

func ParseDecision(value string) (string, error) {
	switch value {
	case DecisionApproved, DecisionRejected:
		return value, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDecision, value)
	}
}
