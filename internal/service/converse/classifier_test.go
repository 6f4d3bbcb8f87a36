package converse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seu-repo/converse-gateway/internal/domain"
)

func TestClassify_MissingContentType(t *testing.T) {
	_, errs := NewClassifier().Classify(&RawRequest{Body: []byte(`{"text":"hi","language":"en-US"}`)})

	require.Len(t, errs, 1)
	assert.Equal(t, domain.CodeMissingHeader, errs[0].Code)
	assert.Equal(t, "Content-Type header is missing.", errs[0].Msg)
}

func TestClassify_UnsupportedContentType(t *testing.T) {
	_, errs := NewClassifier().Classify(&RawRequest{ContentType: "text/plain"})

	require.Len(t, errs, 1)
	assert.Equal(t, domain.CodeBadHeader, errs[0].Code)
	assert.Equal(t, "Content-Type header is not correct. Valid values are multipart/form-data, application/json", errs[0].Msg)
}

func TestClassify_TextOnlyRejectsMultipart(t *testing.T) {
	_, errs := NewClassifier(domain.InputText).Classify(&RawRequest{ContentType: "multipart/form-data; boundary=x"})

	require.Len(t, errs, 1)
	assert.Equal(t, "Content-Type header is not correct. Valid values are application/json", errs[0].Msg)
}

func TestClassify_AudioAccumulatesMissingFields(t *testing.T) {
	_, errs := NewClassifier().Classify(&RawRequest{ContentType: "multipart/form-data; boundary=abc"})

	assert.Equal(t, []domain.APIError{
		domain.MissingParameter("audio"),
		domain.MissingParameter("language"),
	}, errs)
}

func TestClassify_TextAccumulatesMissingFields(t *testing.T) {
	_, errs := NewClassifier().Classify(&RawRequest{ContentType: "application/json", Body: []byte(`{}`)})

	assert.Equal(t, []domain.APIError{
		domain.MissingParameter("text"),
		domain.MissingParameter("language"),
	}, errs)
}

func TestClassify_Audio(t *testing.T) {
	req, errs := NewClassifier().Classify(&RawRequest{
		ContentType: "multipart/form-data; boundary=abc",
		Form:        map[string]string{"language": "fr-FR", "user_id": "u-1"},
		Files:       map[string][]byte{"audio": []byte("RIFF")},
	})

	require.Empty(t, errs)
	assert.Equal(t, domain.InputAudio, req.Kind)
	assert.Equal(t, []byte("RIFF"), req.Audio)
	assert.Equal(t, "fr-FR", req.Language)
	assert.Equal(t, "u-1", req.ConversationID())
}

func TestClassify_UnreadableAudio(t *testing.T) {
	_, errs := NewClassifier().Classify(&RawRequest{
		ContentType: "multipart/form-data; boundary=abc",
		Form:        map[string]string{"language": "fr-FR"},
		Unreadable:  []string{"audio"},
	})

	assert.Equal(t, []domain.APIError{domain.BadParameter("audio")}, errs)
}

func TestClassify_TextWithCharset(t *testing.T) {
	req, errs := NewClassifier().Classify(&RawRequest{
		ContentType: "application/json; charset=utf-8",
		Body:        []byte(`{"text":"  Quel temps fait-il ?","language":"fr-FR","user_id":null}`),
	})

	require.Empty(t, errs)
	assert.Equal(t, domain.InputText, req.Kind)
	assert.Equal(t, "  Quel temps fait-il ?", req.Text)
	assert.Equal(t, domain.DefaultConversationID, req.ConversationID())
}

func TestClassify_InvalidJSON(t *testing.T) {
	_, errs := NewClassifier().Classify(&RawRequest{ContentType: "application/json", Body: []byte(`not json`)})

	require.Len(t, errs, 1)
	assert.Equal(t, domain.CodeBadParameter, errs[0].Code)
}

func TestClassify_NonStringField(t *testing.T) {
	_, errs := NewClassifier().Classify(&RawRequest{
		ContentType: "application/json",
		Body:        []byte(`{"text":42}`),
	})

	require.Len(t, errs, 2)
	assert.Equal(t, domain.CodeBadParameter, errs[0].Code)
	assert.Equal(t, domain.MissingParameter("language"), errs[1])
}
