package domain

import (
	"encoding/json"
	"fmt"
)

// Entity keys produced by the dialog service that the gateway understands.
const (
	EntityLocation      = "location"
	EntityDateTime      = "datetime"
	EntityCryptomonnaie = "cryptomonnaie"

	MemoryWeatherLocation = "weather-location"
)

// MessageTypeText marks a dialog message whose content is plain text. Other
// types (card, quickReplies, ...) carry structured content.
const MessageTypeText = "text"

// DialogResult is the structured answer of the dialog/NLP service. Every
// type of the model keeps the JSON it was decoded from and encodes back to
// it unchanged, so fields the gateway does not model still reach clients.
type DialogResult struct {
	Conversation Conversation    `json:"conversation"`
	Messages     []DialogMessage `json:"messages"`
	NLP          NLP             `json:"nlp"`

	source json.RawMessage
}

type Conversation struct {
	ID       string                     `json:"id"`
	Language string                     `json:"language"`
	Memory   map[string]json.RawMessage `json:"memory"`

	source json.RawMessage
}

// DialogMessage.Content is only set for text messages.
type DialogMessage struct {
	Content string `json:"content"`
	Type    string `json:"type"`

	source json.RawMessage
}

type NLP struct {
	Intents  []Intent `json:"intents"`
	Entities Entities `json:"entities"`

	source json.RawMessage
}

// Intent is ordered by descending confidence inside NLP.Intents.
type Intent struct {
	Slug       string  `json:"slug"`
	Confidence float64 `json:"confidence"`

	source json.RawMessage
}

// TopIntent returns the recognized intent, if any.
func (r *DialogResult) TopIntent() (Intent, bool) {
	if r == nil || len(r.NLP.Intents) == 0 {
		return Intent{}, false
	}
	return r.NLP.Intents[0], true
}

// FirstMessage returns the first text reply of the dialog, or "" when it
// sent none.
func (r *DialogResult) FirstMessage() string {
	if r == nil {
		return ""
	}
	for _, m := range r.Messages {
		if m.Type == MessageTypeText {
			return m.Content
		}
	}
	return ""
}

// MemoryLocation decodes a location previously stored in conversation memory.
func (c *Conversation) MemoryLocation(key string) (*Location, bool) {
	raw, ok := c.Memory[key]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return nil, false
	}
	var loc Location
	if err := json.Unmarshal(raw, &loc); err != nil {
		return nil, false
	}
	return &loc, true
}

type Location struct {
	Formatted string  `json:"formatted"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Raw       string  `json:"raw,omitempty"`

	source json.RawMessage
}

// HasCoordinates is false when both coordinates are zero.
func (l *Location) HasCoordinates() bool {
	return l.Lat != 0 || l.Lng != 0
}

type DateTime struct {
	Formatted string `json:"formatted,omitempty"`
	ISO       string `json:"iso"`
	Raw       string `json:"raw,omitempty"`

	source json.RawMessage
}

type Cryptomonnaie struct {
	Value      string  `json:"value"`
	Raw        string  `json:"raw,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`

	source json.RawMessage
}

// Entities holds the typed entities the gateway acts upon. Entity types it does
// not know are kept untouched in Other so the dialog result passes through.
type Entities struct {
	Location      []Location
	DateTime      []DateTime
	Cryptomonnaie []Cryptomonnaie
	Other         map[string]json.RawMessage

	source json.RawMessage
}

func (e *Entities) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("entities: %w", err)
	}

	*e = Entities{}
	for key, value := range raw {
		var err error
		switch key {
		case EntityLocation:
			err = json.Unmarshal(value, &e.Location)
		case EntityDateTime:
			err = json.Unmarshal(value, &e.DateTime)
		case EntityCryptomonnaie:
			err = json.Unmarshal(value, &e.Cryptomonnaie)
		default:
			if e.Other == nil {
				e.Other = make(map[string]json.RawMessage)
			}
			e.Other[key] = value
		}
		if err != nil {
			return fmt.Errorf("entities: %s: %w", key, err)
		}
	}
	e.source = keepSource(data)
	return nil
}

func (e Entities) MarshalJSON() ([]byte, error) {
	if e.source != nil {
		return e.source, nil
	}
	out := make(map[string]any, len(e.Other)+3)
	for key, value := range e.Other {
		out[key] = value
	}
	if len(e.Location) > 0 {
		out[EntityLocation] = e.Location
	}
	if len(e.DateTime) > 0 {
		out[EntityDateTime] = e.DateTime
	}
	if len(e.Cryptomonnaie) > 0 {
		out[EntityCryptomonnaie] = e.Cryptomonnaie
	}
	return json.Marshal(out)
}

// Auxiliary data returned by the special-intent services.

type Weather struct {
	Summary             string  `json:"summary"`
	Temperature         float64 `json:"temperature"`
	PrecipProbability   float64 `json:"precipProbability"`
	ApparentTemperature float64 `json:"apparentTemperature,omitempty"`
	CloudCover          float64 `json:"cloudCover,omitempty"`
	Humidity            float64 `json:"humidity,omitempty"`
	PrecipIntensity     float64 `json:"precipIntensity,omitempty"`
	Time                int64   `json:"time,omitempty"`
}

type CryptoQuote struct {
	Value     float64 `json:"value"`
	Evolution float64 `json:"evolution"`
}

type News struct {
	Message string `json:"message"`
}
