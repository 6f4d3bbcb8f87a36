package recast

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/seu-repo/converse-gateway/internal/domain"
	"github.com/seu-repo/converse-gateway/internal/infrastructure/circuitbreaker"
)

// APIName identifies Recast in errors and metrics.
const APIName = "Recast"

const maxResponseBytes = 1 << 20

// Config holds Recast client configuration
type Config struct {
	BaseURL string
	Token   string
}

// DefaultConfig returns default Recast configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL: "https://api.recast.ai/build/v1",
	}
}

// Client talks to the Recast dialog endpoint.
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

type dialogRequest struct {
	Message        dialogMessage `json:"message"`
	ConversationID string        `json:"conversation_id"`
	Language       string        `json:"language,omitempty"`
}

type dialogMessage struct {
	Content string `json:"content"`
	Type    string `json:"type"`
}

type dialogResponse struct {
	Results *domain.DialogResult `json:"results"`
}

// Converse sends one utterance to the dialog service. The response is
// validated here so callers only ever see typed entities.
func (c *Client) Converse(ctx context.Context, text, conversationID, language string) (*domain.DialogResult, error) {
	if c.config.Token == "" {
		return nil, domain.NewInvalidCredentialsError(APIName)
	}
	if conversationID == "" {
		conversationID = domain.DefaultConversationID
	}

	payload, err := json.Marshal(dialogRequest{
		Message:        dialogMessage{Content: text, Type: "text"},
		ConversationID: conversationID,
		Language:       language,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode dialog request: %w", err)
	}

	url := strings.TrimRight(c.config.BaseURL, "/") + "/dialog"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+c.config.Token)

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

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, domain.NewExternalServiceError(APIName, err.Error())
	}

	var parsed dialogResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, domain.NewExternalServiceError(APIName, "malformed dialog response: "+err.Error())
	}
	if parsed.Results == nil {
		return nil, domain.NewExternalServiceError(APIName, "dialog response without results")
	}

	c.log.Debug("Dialog answered",
		zap.String("conversation_id", conversationID),
		zap.Int("intents", len(parsed.Results.NLP.Intents)),
		zap.Int("messages", len(parsed.Results.Messages)),
	)
	return parsed.Results, nil
}
