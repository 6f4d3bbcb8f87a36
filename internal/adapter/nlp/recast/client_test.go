package recast

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/seu-repo/converse-gateway/internal/domain"
	"github.com/seu-repo/converse-gateway/internal/infrastructure/circuitbreaker"
)

const weatherDialog = `{
  "results": {
    "conversation": {"id": "u-1", "language": "fr", "memory": {"weather-location": null}},
    "messages": [{"type": "text", "content": "Je regarde la météo..."}],
    "nlp": {
      "intents": [{"slug": "get-weather", "confidence": 0.99}],
      "entities": {
        "location": [{"formatted": "Paris, France", "lat": 48.856614, "lng": 2.3522219, "raw": "Paris"}],
        "datetime": [{"formatted": "mercredi 01 août 2018 à 13h07m11s (UTC)", "iso": "2018-08-01T13:07:11+00:00", "raw": "maintenant"}],
        "sentiment": [{"value": "neutral"}]
      }
    }
  }
}`

func newTestClient(t *testing.T, token string, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	breakers := circuitbreaker.NewManager(circuitbreaker.DefaultSettings(), zap.NewNop())
	httpClient := circuitbreaker.NewHTTPClient(server.Client(), breakers.Get(APIName), zap.NewNop())
	return NewClient(&Config{BaseURL: server.URL, Token: token}, httpClient, zap.NewNop())
}

func TestConverse_StructuredMessagesAreNotAFailure(t *testing.T) {
	const quickReplies = `{"results": {
		"conversation": {"id": "u-1", "language": "en", "memory": {}},
		"messages": [{"type": "quickReplies", "content": {"title": "Which city?", "buttons": [{"title": "Paris", "value": "Paris"}]}}],
		"nlp": {"intents": [{"slug": "get-weather", "confidence": 0.91, "description": "weather"}], "entities": {}}
	}}`
	client := newTestClient(t, "dev-token", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(quickReplies))
	})

	result, err := client.Converse(context.Background(), "weather please", "u-1", "en")

	require.NoError(t, err)
	assert.Equal(t, "", result.FirstMessage())
	out, err := json.Marshal(result)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"buttons":[{"title":"Paris","value":"Paris"}]`)
	assert.Contains(t, string(out), `"description":"weather"`)
}

func TestConverse_Success(t *testing.T) {
	// Arrange
	client := newTestClient(t, "dev-token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dialog", r.URL.Path)
		assert.Equal(t, "Token dev-token", r.Header.Get("Authorization"))

		var req dialogRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Quel temps fait-il à Paris ?", req.Message.Content)
		assert.Equal(t, "text", req.Message.Type)
		assert.Equal(t, "u-1", req.ConversationID)
		assert.Equal(t, "fr", req.Language)

		w.Write([]byte(weatherDialog))
	})

	// Act
	result, err := client.Converse(context.Background(), "Quel temps fait-il à Paris ?", "u-1", "fr")

	// Assert
	require.NoError(t, err)
	intent, ok := result.TopIntent()
	require.True(t, ok)
	assert.Equal(t, "get-weather", intent.Slug)
	assert.Equal(t, "Je regarde la météo...", result.FirstMessage())
	require.Len(t, result.NLP.Entities.Location, 1)
	assert.Equal(t, 48.856614, result.NLP.Entities.Location[0].Lat)
	assert.Equal(t, "2018-08-01T13:07:11+00:00", result.NLP.Entities.DateTime[0].ISO)
	assert.Contains(t, result.NLP.Entities.Other, "sentiment")
	_, remembered := result.Conversation.MemoryLocation(domain.MemoryWeatherLocation)
	assert.False(t, remembered)
}

func TestConverse_DefaultConversationID(t *testing.T) {
	client := newTestClient(t, "dev-token", func(w http.ResponseWriter, r *http.Request) {
		var req dialogRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, domain.DefaultConversationID, req.ConversationID)
		w.Write([]byte(`{"results":{"messages":[],"nlp":{"intents":[],"entities":{}}}}`))
	})

	result, err := client.Converse(context.Background(), "hmm", "", "en")

	require.NoError(t, err)
	_, ok := result.TopIntent()
	assert.False(t, ok)
}

func TestConverse_MissingToken(t *testing.T) {
	called := false
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) { called = true })

	_, err := client.Converse(context.Background(), "hello", "", "en")

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.False(t, called)
}

func TestConverse_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"message":"Request is invalid"}`, domain.ErrInvalidCredentials},
		{"server error", http.StatusServiceUnavailable, ``, domain.ErrExternalService},
		{"not found", http.StatusNotFound, ``, domain.ErrExternalService},
		{"malformed body", http.StatusOK, `{"results":`, domain.ErrExternalService},
		{"bad entities", http.StatusOK, `{"results":{"nlp":{"entities":{"location":"Paris"}}}}`, domain.ErrExternalService},
		{"no results", http.StatusOK, `{"message":"ok"}`, domain.ErrExternalService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, "dev-token", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.Converse(context.Background(), "hello", "", "en")

			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, APIName, domain.UpstreamAPI(err, ""))
		})
	}
}
