package guard

// State is a stage of the per-turn validation machine. A candidate answer
// moves Drafted -> SchemaChecked -> GroundingChecked and ends in Accepted or
// RejectedFinal, detouring through Repairing while attempts remain. No state
// survives the turn.
type State int

const (
	StateDrafted State = iota + 1
	StateSchemaChecked
	StateGroundingChecked
	StateRepairing
	StateAccepted
	StateRejectedFinal
)

func (s State) String() string {
	switch s {
	case StateDrafted:
		return "drafted"
	case StateSchemaChecked:
		return "schema_checked"
	case StateGroundingChecked:
		return "grounding_checked"
	case StateRepairing:
		return "repairing"
	case StateAccepted:
		return "accepted"
	case StateRejectedFinal:
		return "rejected_final"
	default:
		return "unknown"
	}
}

// Reason explains a rejection. ReasonNone accompanies accepted verdicts.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonSchemaViolation
	ReasonUngroundedClaim
	ReasonRepairExhausted
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonSchemaViolation:
		return "schema_violation"
	case ReasonUngroundedClaim:
		return "ungrounded_claim"
	case ReasonRepairExhausted:
		return "repair_exhausted"
	default:
		return "unknown"
	}
}
