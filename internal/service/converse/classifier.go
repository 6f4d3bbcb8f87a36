package converse

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"

	"github.com/seu-repo/converse-gateway/internal/domain"
)

// Form and JSON field names.
const (
	FieldText     = "text"
	FieldAudio    = "audio"
	FieldLanguage = "language"
	FieldUserID   = "user_id"

	HeaderContentType = "Content-Type"
)

const (
	MediaTypeMultipart = "multipart/form-data"
	MediaTypeJSON      = "application/json"
)

// RawRequest is the transport-neutral view of an incoming request. Handlers
// fill Form and Files for multipart bodies and Body for everything else.
type RawRequest struct {
	ContentType string
	Body        []byte
	Form        map[string]string
	Files       map[string][]byte
	// Unreadable lists file parts that were sent but could not be read.
	Unreadable []string
}

// Classifier turns a RawRequest into a validated ConversationRequest.
// Validation is batched: every missing field is reported in one pass.
type Classifier struct {
	kinds []domain.InputKind
}

// NewClassifier accepts the given input kinds. With no arguments both text
// and audio inputs are accepted.
func NewClassifier(kinds ...domain.InputKind) *Classifier {
	if len(kinds) == 0 {
		kinds = []domain.InputKind{domain.InputAudio, domain.InputText}
	}
	return &Classifier{kinds: kinds}
}

// SupportedFormats returns the accepted Content-Type prefixes in the order
// they are reported to clients.
func (c *Classifier) SupportedFormats() []string {
	formats := make([]string, 0, len(c.kinds))
	for _, kind := range c.kinds {
		formats = append(formats, mediaTypeFor(kind))
	}
	return formats
}

func mediaTypeFor(kind domain.InputKind) string {
	if kind == domain.InputAudio {
		return MediaTypeMultipart
	}
	return MediaTypeJSON
}

// Classify validates raw. On failure the returned request is nil and the
// error list is never empty.
func (c *Classifier) Classify(raw *RawRequest) (*domain.ConversationRequest, []domain.APIError) {
	if raw.ContentType == "" {
		return nil, []domain.APIError{domain.MissingHeader(HeaderContentType)}
	}

	for _, kind := range c.kinds {
		if !strings.HasPrefix(raw.ContentType, mediaTypeFor(kind)) {
			continue
		}
		if kind == domain.InputAudio {
			return classifyAudio(raw)
		}
		return classifyText(raw)
	}

	return nil, []domain.APIError{domain.BadHeader(HeaderContentType, c.SupportedFormats()...)}
}

func classifyAudio(raw *RawRequest) (*domain.ConversationRequest, []domain.APIError) {
	var errs []domain.APIError

	audio, hasAudio := raw.Files[FieldAudio]
	if !hasAudio && !slices.Contains(raw.Unreadable, FieldAudio) {
		errs = append(errs, domain.MissingParameter(FieldAudio))
	}
	language, hasLanguage := raw.Form[FieldLanguage]
	if !hasLanguage {
		errs = append(errs, domain.MissingParameter(FieldLanguage))
	}
	for _, name := range raw.Unreadable {
		errs = append(errs, domain.BadParameter(name))
	}
	if len(errs) > 0 {
		return nil, errs
	}

	return &domain.ConversationRequest{
		Kind:     domain.InputAudio,
		Audio:    audio,
		Language: language,
		UserID:   raw.Form[FieldUserID],
	}, nil
}

func classifyText(raw *RawRequest) (*domain.ConversationRequest, []domain.APIError) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw.Body, &fields); err != nil || fields == nil {
		return nil, []domain.APIError{domain.BadParameterDetail("body", "A JSON object is expected.")}
	}

	var errs []domain.APIError
	text, err := stringField(fields, FieldText)
	if err != nil {
		errs = append(errs, *err)
	}
	language, err := stringField(fields, FieldLanguage)
	if err != nil {
		errs = append(errs, *err)
	}
	userID, err := optionalStringField(fields, FieldUserID)
	if err != nil {
		errs = append(errs, *err)
	}
	if len(errs) > 0 {
		return nil, errs
	}

	return &domain.ConversationRequest{
		Kind:     domain.InputText,
		Text:     text,
		Language: language,
		UserID:   userID,
	}, nil
}

func stringField(fields map[string]json.RawMessage, name string) (string, *domain.APIError) {
	raw, ok := fields[name]
	if !ok {
		apiErr := domain.MissingParameter(name)
		return "", &apiErr
	}
	return decodeString(raw, name)
}

func optionalStringField(fields map[string]json.RawMessage, name string) (string, *domain.APIError) {
	raw, ok := fields[name]
	if !ok || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	return decodeString(raw, name)
}

func decodeString(raw json.RawMessage, name string) (string, *domain.APIError) {
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		apiErr := domain.BadParameterDetail(name, "A string is expected.")
		return "", &apiErr
	}
	return value, nil
}
