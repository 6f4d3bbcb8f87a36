package ibm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/seu-repo/converse-gateway/internal/domain"
	"github.com/seu-repo/converse-gateway/internal/infrastructure/circuitbreaker"
)

// APIName identifies IBM Watson Text to Speech in errors and metrics.
const APIName = "IBM"

// DefaultVoice is used for languages without a dedicated voice.
const DefaultVoice = "en-US_AllisonV3Voice"

const maxAudioBytes = 32 << 20

var voices = map[string]string{
	"fr-FR": "fr-FR_ReneeV3Voice",
	"en-US": "en-US_AllisonV3Voice",
	"en-GB": "en-GB_KateV3Voice",
}

// VoiceFor returns the synthesis voice for a language tag.
func VoiceFor(language string) string {
	if voice, ok := voices[language]; ok {
		return voice
	}
	return DefaultVoice
}

// Config holds IBM Watson credentials
type Config struct {
	URL      string
	Username string
	Password string
}

// Client synthesizes WAV audio with IBM Watson Text to Speech.
type Client struct {
	http   circuitbreaker.Doer
	config *Config
	log    *zap.Logger
}

func NewClient(config *Config, httpClient circuitbreaker.Doer, log *zap.Logger) *Client {
	return &Client{
		http:   httpClient,
		config: config,
		log:    log,
	}
}

// Synthesize returns the WAV rendition of message. language is the full tag.
func (c *Client) Synthesize(ctx context.Context, message, language string) ([]byte, error) {
	if c.config.Username == "" || c.config.Password == "" {
		return nil, domain.NewInvalidCredentialsError(APIName)
	}

	payload, err := json.Marshal(map[string]string{"text": message})
	if err != nil {
		return nil, fmt.Errorf("failed to encode synthesize request: %w", err)
	}

	endpoint := strings.TrimRight(c.config.URL, "/") + "/v1/synthesize?voice=" + url.QueryEscape(VoiceFor(language))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/wav")
	req.SetBasicAuth(c.config.Username, c.config.Password)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, domain.NewExternalServiceError(APIName, err.Error())
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, domain.NewInvalidCredentialsError(APIName)
	default:
		return nil, domain.NewExternalServiceError(APIName, fmt.Sprintf("HTTP %d", resp.StatusCode))
	}

	audio, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioBytes))
	if err != nil {
		return nil, domain.NewExternalServiceError(APIName, err.Error())
	}

	c.log.Debug("Speech synthesized", zap.String("voice", VoiceFor(language)), zap.Int("bytes", len(audio)))
	return audio, nil
}
