package ports

import (
	"context"
	"time"

	"github.com/seu-repo/converse-gateway/internal/domain"
)

// SpeechToText transcribes raw audio. An utterance that could not be
// understood or audio the engine rejects are reported through
// domain.Recognition.Status, not as errors.
type SpeechToText interface {
	Recognize(ctx context.Context, audio []byte, language string) (*domain.Recognition, error)
}

// Dialog forwards a user utterance to the dialog/NLP service.
// language is the simplified two-letter code.
type Dialog interface {
	Converse(ctx context.Context, text, conversationID, language string) (*domain.DialogResult, error)
}

// TextToSpeech synthesizes a message as WAV audio.
type TextToSpeech interface {
	Synthesize(ctx context.Context, message, language string) ([]byte, error)
}

type WeatherService interface {
	Forecast(ctx context.Context, lat, lng float64, at time.Time, language string) (*domain.Weather, error)
}

// CryptoService reports found=false for unknown currencies instead of an error.
type CryptoService interface {
	Quote(ctx context.Context, name string) (quote *domain.CryptoQuote, found bool, err error)
}

type NewsService interface {
	Headline(ctx context.Context) (*domain.News, error)
}

// TimezoneLocator resolves the local time zone of a coordinate.
type TimezoneLocator interface {
	Locate(lat, lng float64) (*time.Location, error)
}
