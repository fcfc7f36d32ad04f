package conversation

// Event is one input to the dialogue: something the user did, or the
// outcome of an upstream call the controller ran on the session's behalf.
// The set is sealed; Next rejects anything else by construction.
type Event interface {
	isEvent()
	Name() string
}

// Start is the start command.
type Start struct{}

// Cancel is the cancel command.
type Cancel struct{}

// TextInput is a plain text message.
type TextInput struct {
	Content string
}

// PhotoInput is an uploaded image acceptable as a generation reference.
type PhotoInput struct {
	Reference Reference
}

// Selection is a menu choice, whether pressed as an inline button or typed
// as its number.
type Selection struct {
	Option Option
}

// EnhanceSucceeded reports a completed prompt enhancement.
type EnhanceSucceeded struct {
	Enhanced string
}

// EnhanceFailed reports that prompt enhancement did not produce a result.
type EnhanceFailed struct{}

// GenerateSucceeded reports a completed generation.
type GenerateSucceeded struct {
	Result Result
}

// GenerateFailed reports that a generation did not produce an image.
type GenerateFailed struct{}

func (Start) isEvent()             {}
func (Cancel) isEvent()            {}
func (TextInput) isEvent()         {}
func (PhotoInput) isEvent()        {}
func (Selection) isEvent()         {}
func (EnhanceSucceeded) isEvent()  {}
func (EnhanceFailed) isEvent()     {}
func (GenerateSucceeded) isEvent() {}
func (GenerateFailed) isEvent()    {}

func (Start) Name() string             { return "start" }
func (Cancel) Name() string            { return "cancel" }
func (TextInput) Name() string         { return "text" }
func (PhotoInput) Name() string        { return "photo" }
func (e Selection) Name() string       { return "selection:" + string(e.Option) }
func (EnhanceSucceeded) Name() string  { return "enhance_succeeded" }
func (EnhanceFailed) Name() string     { return "enhance_failed" }
func (GenerateSucceeded) Name() string { return "generate_succeeded" }
func (GenerateFailed) Name() string    { return "generate_failed" }

// Option enumerates the menu choices. The values double as callback data on
// inline keyboard buttons.
type Option string

const (
	OptionUseEnhanced     Option = "use_enhanced"
	OptionUseOriginal     Option = "use_original"
	OptionEnhanceAgain    Option = "enhance_again"
	OptionAttachReference Option = "attach_reference"
	OptionSkipReference   Option = "skip_reference"
	OptionRegenerate      Option = "regenerate"
	OptionEditPrompt      Option = "edit_prompt"
	OptionFinish          Option = "finish"
)

var knownOptions = map[Option]bool{
	OptionUseEnhanced:     true,
	OptionUseOriginal:     true,
	OptionEnhanceAgain:    true,
	OptionAttachReference: true,
	OptionSkipReference:   true,
	OptionRegenerate:      true,
	OptionEditPrompt:      true,
	OptionFinish:          true,
}

// ParseOption maps raw callback data onto a known Option.
func ParseOption(data string) (Option, bool) {
	opt := Option(data)
	return opt, knownOptions[opt]
}
