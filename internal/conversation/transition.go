package conversation

// Action tells the controller which side effect follows an accepted event.
// The transition function decides, the controller executes.
type Action int

const (
	ActionNone Action = iota
	ActionWelcome
	ActionEnhance
	ActionEnhanceAgain
	ActionOfferChoice
	ActionOfferChoiceAgain
	ActionFallBackToOriginal
	ActionAskReference
	ActionAskUpload
	ActionGenerate
	ActionDeliver
	ActionReportFailure
	ActionAskNewPrompt
	ActionFinish
	ActionReset
	ActionBusy
)

var actionNames = map[Action]string{
	ActionNone:               "none",
	ActionWelcome:            "welcome",
	ActionEnhance:            "enhance",
	ActionEnhanceAgain:       "enhance_again",
	ActionOfferChoice:        "offer_choice",
	ActionOfferChoiceAgain:   "offer_choice_again",
	ActionFallBackToOriginal: "fall_back_to_original",
	ActionAskReference:       "ask_reference",
	ActionAskUpload:          "ask_upload",
	ActionGenerate:           "generate",
	ActionDeliver:            "deliver",
	ActionReportFailure:      "report_failure",
	ActionAskNewPrompt:       "ask_new_prompt",
	ActionFinish:             "finish",
	ActionReset:              "reset",
	ActionBusy:               "busy",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// Next is the pure transition function: given where a session stands and
// what just happened, it returns the next state and the side effect the
// controller owes. ok is false when the event does not fit the state; the
// session must then stay exactly as it is and the user gets re-prompted.
func Next(s State, ev Event) (State, Action, bool) {
	// The two commands behave the same from almost everywhere. Start wipes
	// the slate and asks for a prompt; cancel drops back to idle. The one
	// exception is a generation in flight, which cannot be abandoned
	// half-way through an upstream call.
	switch ev.(type) {
	case Start:
		if s == StateGenerating {
			return StateGenerating, ActionBusy, true
		}
		return StateAwaitingPrompt, ActionWelcome, true
	case Cancel:
		return StateIdle, ActionReset, true
	}

	switch s {
	case StateIdle:
		// Nothing but the start command wakes an idle session.

	case StateAwaitingPrompt:
		switch ev.(type) {
		case TextInput:
			return StateAwaitingPrompt, ActionEnhance, true
		case EnhanceSucceeded:
			return StateAwaitingEnhancementChoice, ActionOfferChoice, true
		case EnhanceFailed:
			return StateAwaitingReferenceDecision, ActionFallBackToOriginal, true
		}

	case StateAwaitingEnhancementChoice:
		switch e := ev.(type) {
		case Selection:
			switch e.Option {
			case OptionUseEnhanced, OptionUseOriginal:
				return StateAwaitingReferenceDecision, ActionAskReference, true
			case OptionEnhanceAgain:
				return StateAwaitingEnhancementChoice, ActionEnhanceAgain, true
			}
		case EnhanceSucceeded:
			return StateAwaitingEnhancementChoice, ActionOfferChoice, true
		case EnhanceFailed:
			// A failed re-enhancement keeps the previous candidate on offer.
			return StateAwaitingEnhancementChoice, ActionOfferChoiceAgain, true
		}

	case StateAwaitingReferenceDecision:
		if e, ok := ev.(Selection); ok {
			switch e.Option {
			case OptionAttachReference:
				return StateAwaitingReferenceUpload, ActionAskUpload, true
			case OptionSkipReference:
				return StateGenerating, ActionGenerate, true
			}
		}

	case StateAwaitingReferenceUpload:
		if _, ok := ev.(PhotoInput); ok {
			return StateGenerating, ActionGenerate, true
		}

	case StateGenerating:
		switch ev.(type) {
		case GenerateSucceeded:
			return StateAwaitingIteration, ActionDeliver, true
		case GenerateFailed:
			// Prompt and reference survive so the user can retry, swap the
			// reference, or walk away.
			return StateAwaitingReferenceDecision, ActionReportFailure, true
		case TextInput, PhotoInput, Selection:
			return StateGenerating, ActionBusy, true
		}

	case StateAwaitingIteration:
		if e, ok := ev.(Selection); ok {
			switch e.Option {
			case OptionRegenerate:
				return StateGenerating, ActionGenerate, true
			case OptionEditPrompt:
				return StateAwaitingPrompt, ActionAskNewPrompt, true
			case OptionFinish:
				return StateIdle, ActionFinish, true
			}
		}
	}

	return s, ActionNone, false
}
