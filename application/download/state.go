package download

// State is a step of a download run
type State int

const (
	StateIdle State = iota
	StateProbing
	StateAwaitingConfirmation
	StateFetching
	StatePostProcessing
	StateLogging
	StateRetrying
	StateDone
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:                 "Idle",
	StateProbing:              "Probing",
	StateAwaitingConfirmation: "AwaitingConfirmation",
	StateFetching:             "Fetching",
	StatePostProcessing:       "PostProcessing",
	StateLogging:              "Logging",
	StateRetrying:             "Retrying",
	StateDone:                 "Done",
	StateFailed:               "Failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "Unknown"
}
