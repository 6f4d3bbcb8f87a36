package google

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/seu-repo/converse-gateway/internal/domain"
	"github.com/seu-repo/converse-gateway/internal/infrastructure/circuitbreaker"
)

// APIName identifies Google Speech in errors and metrics.
const APIName = "Google"

const maxResponseBytes = 1 << 20

// Config holds Google Speech client configuration
type Config struct {
	BaseURL string
	APIKey  string
}

// DefaultConfig returns default Google Speech configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL: "https://speech.googleapis.com",
	}
}

// Client transcribes LINEAR16 audio with the Speech-to-Text REST API.
type Client struct {
	http   circuitbreaker.Doer
	config *Config
	log    *zap.Logger
}

func NewClient(config *Config, httpClient circuitbreaker.Doer, log *zap.Logger) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	return &Client{
		http:   httpClient,
		config: config,
		log:    log,
	}
}

type recognizeRequest struct {
	Config recognitionConfig `json:"config"`
	Audio  recognitionAudio  `json:"audio"`
}

type recognitionConfig struct {
	Encoding     string `json:"encoding"`
	LanguageCode string `json:"languageCode"`
}

type recognitionAudio struct {
	Content []byte `json:"content"`
}

type recognizeResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternatives"`
	} `json:"results"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Recognize sends the audio for synchronous recognition. Audio the engine
// rejects yields MalformedAudio and an empty result yields NotUnderstood.
func (c *Client) Recognize(ctx context.Context, audio []byte, language string) (*domain.Recognition, error) {
	if c.config.APIKey == "" {
		return nil, domain.NewInvalidCredentialsError(APIName)
	}

	payload, err := json.Marshal(recognizeRequest{
		Config: recognitionConfig{Encoding: "LINEAR16", LanguageCode: language},
		Audio:  recognitionAudio{Content: audio},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode recognize request: %w", err)
	}

	url := strings.TrimRight(c.config.BaseURL, "/") + "/v1/speech:recognize"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.config.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, domain.NewExternalServiceError(APIName, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, domain.NewExternalServiceError(APIName, err.Error())
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return parseRecognition(body), nil
	case http.StatusBadRequest:
		var apiErr errorResponse
		_ = json.Unmarshal(body, &apiErr)
		c.log.Info("Audio rejected by Google Speech", zap.String("message", apiErr.Error.Message))
		return &domain.Recognition{Status: domain.MalformedAudio, Detail: apiErr.Error.Message}, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, domain.NewInvalidCredentialsError(APIName)
	default:
		return nil, domain.NewExternalServiceError(APIName, fmt.Sprintf("HTTP %d", resp.StatusCode))
	}
}

func parseRecognition(body []byte) *domain.Recognition {
	var parsed recognizeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return &domain.Recognition{Status: domain.NotUnderstood, Detail: "unreadable response"}
	}
	if len(parsed.Results) == 0 || len(parsed.Results[0].Alternatives) == 0 {
		return &domain.Recognition{Status: domain.NotUnderstood, Detail: "no results"}
	}

	best := parsed.Results[0].Alternatives[0]
	return &domain.Recognition{
		Status:     domain.Recognized,
		Transcript: best.Transcript,
		Confidence: math.Round(best.Confidence*10000) / 10000,
	}
}
