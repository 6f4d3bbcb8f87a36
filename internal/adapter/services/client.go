package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/seu-repo/converse-gateway/internal/domain"
	"github.com/seu-repo/converse-gateway/internal/infrastructure/circuitbreaker"
)

// API names reported in errors. BreakerName groups the three endpoints,
// which share one host.
const (
	BreakerName    = "API Services"
	WeatherAPIName = "API Services - Weather"
	CryptoAPIName  = "API Services - Cryptonews"
	NewsAPIName    = "API Services - News"
)

const maxResponseBytes = 1 << 20

// Client calls the weather, crypto and news endpoints of the data services.
type Client struct {
	http    circuitbreaker.Doer
	baseURL string
	log     *zap.Logger
}

func NewClient(baseURL string, httpClient circuitbreaker.Doer, log *zap.Logger) *Client {
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}
}

type weatherRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Time      int64   `json:"time"`
	Language  string  `json:"language"`
}

// Forecast returns the weather at a point and instant.
func (c *Client) Forecast(ctx context.Context, lat, lng float64, at time.Time, language string) (*domain.Weather, error) {
	payload, err := json.Marshal(weatherRequest{Latitude: lat, Longitude: lng, Time: at.Unix(), Language: language})
	if err != nil {
		return nil, fmt.Errorf("failed to encode weather request: %w", err)
	}

	status, body, err := c.do(ctx, http.MethodPost, "/api/weather/", payload, WeatherAPIName)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, statusError(WeatherAPIName, status, body)
	}

	var weather domain.Weather
	if err := json.Unmarshal(body, &weather); err != nil {
		return nil, domain.NewExternalServiceError(WeatherAPIName, "malformed response: "+err.Error())
	}
	return &weather, nil
}

// Quote returns the price of a cryptocurrency. An unknown currency is
// reported with found=false.
func (c *Client) Quote(ctx context.Context, name string) (*domain.CryptoQuote, bool, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/api/crypto/"+url.PathEscape(name), nil, CryptoAPIName)
	if err != nil {
		return nil, false, err
	}

	switch status {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, false, nil
	default:
		return nil, false, statusError(CryptoAPIName, status, body)
	}

	var quote domain.CryptoQuote
	if err := json.Unmarshal(body, &quote); err != nil {
		return nil, false, domain.NewExternalServiceError(CryptoAPIName, "malformed response: "+err.Error())
	}
	return &quote, true, nil
}

// Headline returns the latest news message.
func (c *Client) Headline(ctx context.Context) (*domain.News, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/api/news", nil, NewsAPIName)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, statusError(NewsAPIName, status, body)
	}

	var news domain.News
	if err := json.Unmarshal(body, &news); err != nil {
		return nil, domain.NewExternalServiceError(NewsAPIName, "malformed response: "+err.Error())
	}
	return &news, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, api string) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, domain.NewExternalServiceError(api, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, domain.NewExternalServiceError(api, err.Error())
	}

	c.log.Debug("Data service answered",
		zap.String("api", api),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)
	return resp.StatusCode, body, nil
}

// maxErrorDetail caps the response body quoted in an upstream error.
const maxErrorDetail = 256

func statusError(api string, status int, body []byte) error {
	detail := string(body)
	if len(detail) > maxErrorDetail {
		cut := maxErrorDetail
		for cut > 0 && !utf8.RuneStart(detail[cut]) {
			cut--
		}
		detail = detail[:cut]
	}
	return domain.NewExternalServiceError(api, fmt.Sprintf("HTTP code: %d, details: %s", status, detail))
}
