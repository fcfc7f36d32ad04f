package conversation

// State identifies where a session stands in the dialogue.
type State int

const (
	StateIdle State = iota
	StateAwaitingPrompt
	StateAwaitingEnhancementChoice
	StateAwaitingReferenceDecision
	StateAwaitingReferenceUpload
	StateGenerating
	StateAwaitingIteration
)

var stateNames = map[State]string{
	StateIdle:                      "idle",
	StateAwaitingPrompt:            "awaiting_prompt",
	StateAwaitingEnhancementChoice: "awaiting_enhancement_choice",
	StateAwaitingReferenceDecision: "awaiting_reference_decision",
	StateAwaitingReferenceUpload:   "awaiting_reference_upload",
	StateGenerating:                "generating",
	StateAwaitingIteration:         "awaiting_iteration",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// States lists every dialogue state.
func States() []State {
	return []State{
		StateIdle,
		StateAwaitingPrompt,
		StateAwaitingEnhancementChoice,
		StateAwaitingReferenceDecision,
		StateAwaitingReferenceUpload,
		StateGenerating,
		StateAwaitingIteration,
	}
}
