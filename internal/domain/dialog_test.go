package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recastResults = `{
	"conversation": {
		"id": "TEST",
		"language": "fr",
		"memory": {
			"weather-location": {"formatted": "Lyon, France", "lat": 45.764043, "lng": 4.835659, "raw": "Lyon"}
		}
	},
	"messages": [{"content": "Il fait beau", "type": "text"}],
	"nlp": {
		"intents": [{"slug": "get-weather", "confidence": 0.99}],
		"entities": {
			"datetime": [{"formatted": "mercredi 01 août 2018", "iso": "2018-08-01T13:07:11+00:00", "raw": "demain"}],
			"location": [{"formatted": "Paris, France", "lat": 48.856614, "lng": 2.3522219, "raw": "Paris"}],
			"cryptomonnaie": [{"confidence": 0.93, "raw": "ethereum", "value": "ethereum"}],
			"number": [{"scalar": 3, "raw": "trois"}]
		}
	}
}`

func TestDialogResult_TypedEntities(t *testing.T) {
	var result DialogResult
	require.NoError(t, json.Unmarshal([]byte(recastResults), &result))

	intent, ok := result.TopIntent()
	require.True(t, ok)
	assert.Equal(t, "get-weather", intent.Slug)
	assert.Equal(t, "Il fait beau", result.FirstMessage())

	entities := result.NLP.Entities
	require.Len(t, entities.Location, 1)
	assert.Equal(t, "Paris, France", entities.Location[0].Formatted)
	assert.InDelta(t, 48.856614, entities.Location[0].Lat, 1e-9)
	require.Len(t, entities.DateTime, 1)
	assert.Equal(t, "2018-08-01T13:07:11+00:00", entities.DateTime[0].ISO)
	require.Len(t, entities.Cryptomonnaie, 1)
	assert.Equal(t, "ethereum", entities.Cryptomonnaie[0].Value)
	assert.Contains(t, entities.Other, "number")

	loc, ok := result.Conversation.MemoryLocation(MemoryWeatherLocation)
	require.True(t, ok)
	assert.Equal(t, "Lyon, France", loc.Formatted)
}

func TestEntities_UnknownTypesPassThrough(t *testing.T) {
	var result DialogResult
	require.NoError(t, json.Unmarshal([]byte(recastResults), &result))

	out, err := json.Marshal(result.NLP.Entities)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.JSONEq(t, `[{"scalar": 3, "raw": "trois"}]`, string(decoded["number"]))
	assert.Contains(t, decoded, EntityLocation)
	assert.Contains(t, decoded, EntityDateTime)
	assert.Contains(t, decoded, EntityCryptomonnaie)
}

func TestEntities_RejectsMalformedKnownEntity(t *testing.T) {
	var entities Entities
	err := json.Unmarshal([]byte(`{"location": "Paris"}`), &entities)
	assert.Error(t, err)
}

func TestDialogResult_EmptyResult(t *testing.T) {
	var result DialogResult
	require.NoError(t, json.Unmarshal([]byte(`{"conversation": {"id": "DEFAULT"}, "messages": [], "nlp": {"intents": [], "entities": {}}}`), &result))

	_, ok := result.TopIntent()
	assert.False(t, ok)
	assert.Equal(t, "", result.FirstMessage())

	_, ok = result.Conversation.MemoryLocation(MemoryWeatherLocation)
	assert.False(t, ok)
}

func TestLocation_HasCoordinates(t *testing.T) {
	assert.False(t, (&Location{}).HasCoordinates())
	assert.True(t, (&Location{Lat: 0, Lng: 2.35}).HasCoordinates())
}

func TestConversationRequest_ConversationID(t *testing.T) {
	assert.Equal(t, DefaultConversationID, (&ConversationRequest{}).ConversationID())
	assert.Equal(t, "user-42", (&ConversationRequest{UserID: "user-42"}).ConversationID())
}

func TestUpstreamError(t *testing.T) {
	err := NewInvalidCredentialsError("Recast")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
	assert.False(t, errors.Is(err, ErrExternalService))
	assert.Equal(t, "Recast", UpstreamAPI(err, "fallback"))

	err = NewExternalServiceError("IBM", "HTTP code: 500")
	assert.True(t, errors.Is(err, ErrExternalService))
	assert.Contains(t, err.Error(), "HTTP code: 500")

	assert.Equal(t, "fallback", UpstreamAPI(errors.New("boom"), "fallback"))
}

const recastFullResults = `{
	"conversation": {"id": "u-7", "language": "fr", "memory": {}, "skill": "weather", "skill_occurences": 2},
	"messages": [
		{"type": "quickReplies", "content": {"title": "Quelle ville ?", "buttons": [{"title": "Paris", "value": "Paris"}]}},
		{"type": "text", "content": "Voici la météo"}
	],
	"nlp": {
		"uuid": "5b0e5b1b-7d1a-4b7e-9f43-2f1b6e7b6d55",
		"source": "Quel temps fera-t-il demain à Paris ?",
		"intents": [{"slug": "get-weather", "confidence": 0.97, "description": "Asks for the weather forecast"}],
		"act": "wh-query",
		"sentiment": "neutral",
		"entities": {
			"location": [{"formatted": "Paris, France", "lat": 48.856614, "lng": 2.3522219, "raw": "Paris", "confidence": 0.96, "place": "locality", "country": "fr", "type": "locality"}],
			"datetime": [{"formatted": "jeudi 02 août 2018 à 09h00m00s (UTC)", "iso": "2018-08-02T09:00:00+00:00", "raw": "demain", "accuracy": "day", "chronology": "future", "confidence": 0.95}]
		},
		"language": "fr",
		"timestamp": "2018-08-01T13:07:11.123Z",
		"status": 200
	}
}`

func TestDialogResult_RoundTripKeepsEveryField(t *testing.T) {
	// Arrange
	var result DialogResult
	require.NoError(t, json.Unmarshal([]byte(recastFullResults), &result))

	// Act
	out, err := json.Marshal(&result)

	// Assert
	require.NoError(t, err)
	assert.JSONEq(t, recastFullResults, string(out))

	require.Len(t, result.NLP.Entities.Location, 1)
	assert.Equal(t, "Paris, France", result.NLP.Entities.Location[0].Formatted)
	assert.Equal(t, "2018-08-02T09:00:00+00:00", result.NLP.Entities.DateTime[0].ISO)
	intent, ok := result.TopIntent()
	require.True(t, ok)
	assert.Equal(t, "get-weather", intent.Slug)
}

func TestDialogResult_NestedValuesKeepUnknownFields(t *testing.T) {
	var result DialogResult
	require.NoError(t, json.Unmarshal([]byte(recastFullResults), &result))

	location, err := json.Marshal(result.NLP.Entities.Location[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"formatted": "Paris, France", "lat": 48.856614, "lng": 2.3522219, "raw": "Paris", "confidence": 0.96, "place": "locality", "country": "fr", "type": "locality"}`, string(location))

	datetime, err := json.Marshal(result.NLP.Entities.DateTime[0])
	require.NoError(t, err)
	assert.Contains(t, string(datetime), `"chronology":"future"`)

	intent, err := json.Marshal(result.NLP.Intents[0])
	require.NoError(t, err)
	assert.Contains(t, string(intent), `"description":"Asks for the weather forecast"`)
}

func TestDialogMessage_StructuredContent(t *testing.T) {
	var result DialogResult
	require.NoError(t, json.Unmarshal([]byte(recastFullResults), &result))

	require.Len(t, result.Messages, 2)
	assert.Equal(t, "quickReplies", result.Messages[0].Type)
	assert.Empty(t, result.Messages[0].Content)
	assert.Equal(t, "Voici la météo", result.FirstMessage())

	var onlyCard DialogResult
	require.NoError(t, json.Unmarshal([]byte(`{"messages": [{"type": "card", "content": {"title": "Paris"}}], "nlp": {"intents": [], "entities": {}}}`), &onlyCard))
	assert.Equal(t, "", onlyCard.FirstMessage())
}

func TestDialogResult_BuiltInCodeEncodesTypedFields(t *testing.T) {
	result := &DialogResult{
		Messages: []DialogMessage{{Content: "Hello", Type: MessageTypeText}},
		NLP:      NLP{Intents: []Intent{{Slug: "greetings", Confidence: 0.9}}},
	}

	out, err := json.Marshal(result)

	require.NoError(t, err)
	assert.Contains(t, string(out), `"messages":[{"content":"Hello","type":"text"}]`)
	assert.Contains(t, string(out), `"intents":[{"slug":"greetings","confidence":0.9}]`)
}
