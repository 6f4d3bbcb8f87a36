package mocks

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/seu-repo/converse-gateway/internal/domain"
)

// MockSpeechToText is a mock implementation of ports.SpeechToText
type MockSpeechToText struct {
	RecognizeFunc func(ctx context.Context, audio []byte, language string) (*domain.Recognition, error)
	calls         atomic.Int32
}

func (m *MockSpeechToText) Recognize(ctx context.Context, audio []byte, language string) (*domain.Recognition, error) {
	m.calls.Add(1)
	if m.RecognizeFunc != nil {
		return m.RecognizeFunc(ctx, audio, language)
	}
	return &domain.Recognition{Status: domain.Recognized, Transcript: "", Confidence: 1}, nil
}

func (m *MockSpeechToText) Calls() int { return int(m.calls.Load()) }

// MockDialog is a mock implementation of ports.Dialog
type MockDialog struct {
	ConverseFunc func(ctx context.Context, text, conversationID, language string) (*domain.DialogResult, error)
	calls        atomic.Int32
}

func (m *MockDialog) Converse(ctx context.Context, text, conversationID, language string) (*domain.DialogResult, error) {
	m.calls.Add(1)
	if m.ConverseFunc != nil {
		return m.ConverseFunc(ctx, text, conversationID, language)
	}
	return &domain.DialogResult{}, nil
}

func (m *MockDialog) Calls() int { return int(m.calls.Load()) }

// MockTextToSpeech is a mock implementation of ports.TextToSpeech
type MockTextToSpeech struct {
	SynthesizeFunc func(ctx context.Context, message, language string) ([]byte, error)
	calls          atomic.Int32
}

func (m *MockTextToSpeech) Synthesize(ctx context.Context, message, language string) ([]byte, error) {
	m.calls.Add(1)
	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, message, language)
	}
	return []byte("RIFF"), nil
}

func (m *MockTextToSpeech) Calls() int { return int(m.calls.Load()) }

// MockWeatherService is a mock implementation of ports.WeatherService
type MockWeatherService struct {
	ForecastFunc func(ctx context.Context, lat, lng float64, at time.Time, language string) (*domain.Weather, error)
	calls        atomic.Int32
}

func (m *MockWeatherService) Forecast(ctx context.Context, lat, lng float64, at time.Time, language string) (*domain.Weather, error) {
	m.calls.Add(1)
	if m.ForecastFunc != nil {
		return m.ForecastFunc(ctx, lat, lng, at, language)
	}
	return &domain.Weather{}, nil
}

func (m *MockWeatherService) Calls() int { return int(m.calls.Load()) }

// MockCryptoService is a mock implementation of ports.CryptoService
type MockCryptoService struct {
	QuoteFunc func(ctx context.Context, name string) (*domain.CryptoQuote, bool, error)
	calls     atomic.Int32
}

func (m *MockCryptoService) Quote(ctx context.Context, name string) (*domain.CryptoQuote, bool, error) {
	m.calls.Add(1)
	if m.QuoteFunc != nil {
		return m.QuoteFunc(ctx, name)
	}
	return nil, false, nil
}

func (m *MockCryptoService) Calls() int { return int(m.calls.Load()) }

// MockNewsService is a mock implementation of ports.NewsService
type MockNewsService struct {
	HeadlineFunc func(ctx context.Context) (*domain.News, error)
	calls        atomic.Int32
}

func (m *MockNewsService) Headline(ctx context.Context) (*domain.News, error) {
	m.calls.Add(1)
	if m.HeadlineFunc != nil {
		return m.HeadlineFunc(ctx)
	}
	return &domain.News{}, nil
}

func (m *MockNewsService) Calls() int { return int(m.calls.Load()) }

// MockTimezoneLocator is a mock implementation of ports.TimezoneLocator
type MockTimezoneLocator struct {
	LocateFunc func(lat, lng float64) (*time.Location, error)
}

func (m *MockTimezoneLocator) Locate(lat, lng float64) (*time.Location, error) {
	if m.LocateFunc != nil {
		return m.LocateFunc(lat, lng)
	}
	return time.UTC, nil
}
