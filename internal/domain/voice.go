package domain

const (
	// DefaultConversationID is used when the caller has no prior identity with
	// the dialog service.
	DefaultConversationID = "DEFAULT"

	// DefaultIntent is reported whenever no meaningful intent was recognized.
	DefaultIntent = "no-understand"
)

// InputKind tells which variant of ConversationRequest is populated.
type InputKind int

const (
	InputText InputKind = iota + 1
	InputAudio
)

func (k InputKind) String() string {
	switch k {
	case InputText:
		return "text"
	case InputAudio:
		return "audio"
	default:
		return "unknown"
	}
}

// OutputKind is fixed by the endpoint that was invoked.
type OutputKind string

const (
	OutputText  OutputKind = "text"
	OutputAudio OutputKind = "audio"
)

// ConversationRequest is the validated input of one conversation turn.
// Exactly one of Text / Audio is meaningful, as told by Kind.
type ConversationRequest struct {
	Kind     InputKind
	Text     string
	Audio    []byte
	Language string
	UserID   string
}

// ConversationID returns the id forwarded to the dialog service.
func (r *ConversationRequest) ConversationID() string {
	if r.UserID == "" {
		return DefaultConversationID
	}
	return r.UserID
}

// Envelope accumulates the user-facing result of a conversation turn.
type Envelope struct {
	Input         *string       `json:"input,omitempty"`
	STTConfidence *float64      `json:"stt_confidence,omitempty"`
	NLP           *DialogResult `json:"nlp,omitempty"`
	Message       string        `json:"message"`
	Intent        string        `json:"intent"`
}

// SetInput records the recognized or submitted text verbatim.
func (e *Envelope) SetInput(text string) {
	e.Input = &text
}

// Recognition is the outcome of a speech-to-text call. A transcript that could
// not be produced is a normal outcome, not an error.
type Recognition struct {
	Status     RecognitionStatus `json:"-"`
	Transcript string            `json:"text"`
	Confidence float64           `json:"confidence"`
	Detail     string            `json:"-"`
}

type RecognitionStatus int

const (
	Recognized RecognitionStatus = iota + 1
	NotUnderstood
	MalformedAudio
)

func (s RecognitionStatus) String() string {
	switch s {
	case Recognized:
		return "recognized"
	case NotUnderstood:
		return "not_understood"
	case MalformedAudio:
		return "malformed_audio"
	default:
		return "unknown"
	}
}
