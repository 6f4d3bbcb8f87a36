package converse

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/converse-gateway/internal/domain"
	"github.com/seu-repo/converse-gateway/internal/observability/telemetry"
	"github.com/seu-repo/converse-gateway/internal/ports"
)

// Intents fulfilled by the gateway itself.
const (
	IntentWeather = "get-weather"
	IntentCrypto  = "cryptonews"
	IntentNews    = "news"
)

var weatherDateLayouts = map[string]string{
	"fr": "02/01/2006 à 15h04",
	"en": "02/01/2006 at 15h04",
}

// Resolver overrides the dialog reply for intents backed by a data service.
type Resolver struct {
	weather ports.WeatherService
	crypto  ports.CryptoService
	news    ports.NewsService
	zones   ports.TimezoneLocator
	now     func() time.Time
	logger  *zap.Logger
}

func NewResolver(
	weather ports.WeatherService,
	crypto ports.CryptoService,
	news ports.NewsService,
	zones ports.TimezoneLocator,
	logger *zap.Logger,
) *Resolver {
	return &Resolver{
		weather: weather,
		crypto:  crypto,
		news:    news,
		zones:   zones,
		now:     time.Now,
		logger:  logger,
	}
}

// Resolve returns the message replacing the dialog reply. ok is false when
// the intent is not special or lacks the entities it needs. language is the
// simplified language code.
func (r *Resolver) Resolve(ctx context.Context, intent string, result *domain.DialogResult, language string) (message string, ok bool, err error) {
	var outcome string
	switch intent {
	case IntentWeather:
		message, outcome, err = r.resolveWeather(ctx, result, language)
	case IntentCrypto:
		message, outcome, err = r.resolveCrypto(ctx, result, language)
	case IntentNews:
		message, outcome, err = r.resolveNews(ctx)
	default:
		return "", false, nil
	}

	if err != nil {
		outcome = "error"
	}
	telemetry.SpecialIntentsTotal.WithLabelValues(intent, outcome).Inc()

	if err != nil {
		return "", false, err
	}
	return message, outcome != "skipped", nil
}

func (r *Resolver) resolveWeather(ctx context.Context, result *domain.DialogResult, language string) (string, string, error) {
	location := weatherLocation(result)
	if location == nil {
		return "", "skipped", nil
	}
	if !location.HasCoordinates() {
		return domain.LocalizedMessage(language, domain.MessageNoWeather), "no_weather", nil
	}

	at := r.now()
	if dates := result.NLP.Entities.DateTime; len(dates) > 0 && dates[0].ISO != "" {
		parsed, err := time.Parse(time.RFC3339, dates[0].ISO)
		if err != nil {
			return "", "", fmt.Errorf("parse datetime entity %q: %w", dates[0].ISO, err)
		}
		at = parsed
	}

	r.logger.Debug("Fetching weather",
		zap.Float64("lat", location.Lat),
		zap.Float64("lng", location.Lng),
		zap.Time("at", at),
		zap.String("language", language),
	)

	weather, err := r.weather.Forecast(ctx, location.Lat, location.Lng, at, language)
	if err != nil {
		return "", "", err
	}

	zone, err := r.zones.Locate(location.Lat, location.Lng)
	if err != nil {
		r.logger.Warn("Failed to resolve timezone, using UTC",
			zap.Float64("lat", location.Lat),
			zap.Float64("lng", location.Lng),
			zap.Error(err),
		)
		zone = time.UTC
	}

	moment := at
	if weather.Time != 0 {
		moment = time.Unix(weather.Time, 0)
	}

	return formatWeather(language, location.Formatted, moment.In(zone), weather), "override", nil
}

// weatherLocation prefers the location named in the utterance over the one
// remembered by the dialog service.
func weatherLocation(result *domain.DialogResult) *domain.Location {
	if locations := result.NLP.Entities.Location; len(locations) > 0 {
		return &locations[0]
	}
	if location, ok := result.Conversation.MemoryLocation(domain.MemoryWeatherLocation); ok {
		return location
	}
	return nil
}

func formatWeather(language, place string, local time.Time, w *domain.Weather) string {
	temperature := strconv.FormatFloat(w.Temperature, 'f', -1, 64)
	precipitation := strconv.FormatFloat(w.PrecipProbability, 'f', -1, 64)

	if language == "fr" {
		return fmt.Sprintf("La météo pour %s le %s: %s avec une température de %s °C et une probabilité de précipitation de %s%%",
			place, local.Format(weatherDateLayouts["fr"]), w.Summary, temperature, precipitation)
	}
	return fmt.Sprintf("The weather for %s at %s: %s with a temperature of %s °C and a probability of precipitation of %s%%",
		place, local.Format(weatherDateLayouts["en"]), w.Summary, temperature, precipitation)
}

func (r *Resolver) resolveCrypto(ctx context.Context, result *domain.DialogResult, language string) (string, string, error) {
	currencies := result.NLP.Entities.Cryptomonnaie
	if len(currencies) == 0 || currencies[0].Value == "" {
		return "", "skipped", nil
	}
	name := currencies[0].Value

	quote, found, err := r.crypto.Quote(ctx, name)
	if err != nil {
		return "", "", err
	}
	if !found {
		return domain.LocalizedMessage(language, domain.MessageResourceNotFound), "not_found", nil
	}

	if language == "fr" {
		return fmt.Sprintf("La cryptomonnaie %s vaut actuellement %.2f € et a évolué de %.2f %% depuis les dernières 24h.",
			name, quote.Value, quote.Evolution), "override", nil
	}
	return fmt.Sprintf("The cryptocurrency %s is currently at %.2f € and changed by %.2f %% during the last 24 hours.",
		name, quote.Value, quote.Evolution), "override", nil
}

func (r *Resolver) resolveNews(ctx context.Context) (string, string, error) {
	news, err := r.news.Headline(ctx)
	if err != nil {
		return "", "", err
	}
	return news.Message, "override", nil
}
