package converse

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/seu-repo/converse-gateway/internal/domain"
	"github.com/seu-repo/converse-gateway/internal/observability/telemetry"
	"github.com/seu-repo/converse-gateway/internal/ports"
)

// API names reported when an adapter error does not carry its own.
const (
	apiSpeech   = "Google"
	apiDialog   = "Recast"
	apiSpeak    = "IBM"
	apiServices = "API Services"
)

// MalformedAudioDetail describes the audio the speech engine accepts.
const MalformedAudioDetail = "Audio must be a LINEAR16 WAV file (16-bit signed PCM, mono, 8000 to 48000 Hz) of at most one minute."

// Result is the transport-neutral response of one operation. Audio is set
// only for successful audio output, with Envelope as its side channel.
type Result struct {
	Status   int
	Body     any
	Audio    []byte
	Envelope *domain.Envelope
}

func failure(status int, errs ...domain.APIError) *Result {
	return &Result{Status: status, Body: domain.ErrorResponse{Errors: errs}}
}

// Service runs the conversation pipeline and the single-stage operations
// built on the same adapters.
type Service struct {
	stt      ports.SpeechToText
	dialog   ports.Dialog
	tts      ports.TextToSpeech
	resolver *Resolver

	conversations *Classifier
	audioOnly     *Classifier
	textOnly      *Classifier

	tracer trace.Tracer
	logger *zap.Logger
}

func NewService(
	stt ports.SpeechToText,
	dialog ports.Dialog,
	tts ports.TextToSpeech,
	resolver *Resolver,
	logger *zap.Logger,
) *Service {
	return &Service{
		stt:           stt,
		dialog:        dialog,
		tts:           tts,
		resolver:      resolver,
		conversations: NewClassifier(),
		audioOnly:     NewClassifier(domain.InputAudio),
		textOnly:      NewClassifier(domain.InputText),
		tracer:        telemetry.Tracer(),
		logger:        logger,
	}
}

// Converse runs one conversation turn. want is fixed by the endpoint that
// was invoked.
func (s *Service) Converse(ctx context.Context, raw *RawRequest, want domain.OutputKind) *Result {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "converse", trace.WithAttributes(attribute.String("output", string(want))))
	defer span.End()

	inputKind := "invalid"
	result := s.converse(ctx, raw, want, &inputKind)

	span.SetAttributes(attribute.String("input", inputKind), attribute.Int("status", result.Status))
	if result.Status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(result.Status))
	}
	telemetry.ConverseRequestsTotal.WithLabelValues(inputKind, string(want), strconv.Itoa(result.Status)).Inc()
	telemetry.ConverseLatency.WithLabelValues(inputKind, string(want)).Observe(time.Since(start).Seconds())

	return result
}

func (s *Service) converse(ctx context.Context, raw *RawRequest, want domain.OutputKind, inputKind *string) *Result {
	req, errs := s.conversations.Classify(raw)
	if len(errs) > 0 {
		return failure(http.StatusBadRequest, errs...)
	}
	*inputKind = req.Kind.String()

	if apiErr, ok := checkLanguage(req.Language); !ok {
		return failure(http.StatusBadRequest, apiErr)
	}
	language := domain.SimplifiedLanguage(req.Language)

	envelope := &domain.Envelope{}
	skipDialog := false
	text := req.Text

	if req.Kind == domain.InputAudio {
		recognition, err := s.recognize(ctx, req)
		if err != nil {
			s.logger.Error("Speech recognition failed", zap.Error(err))
			return failure(http.StatusServiceUnavailable, domain.ExternalAPI(domain.UpstreamAPI(err, apiSpeech)))
		}

		switch recognition.Status {
		case domain.Recognized:
			text = recognition.Transcript
			envelope.SetInput(text)
			confidence := recognition.Confidence
			envelope.STTConfidence = &confidence
		case domain.MalformedAudio:
			s.logger.Info("Audio rejected by speech engine", zap.String("detail", recognition.Detail))
			return failure(http.StatusBadRequest, domain.BadParameterDetail(FieldAudio, MalformedAudioDetail))
		default:
			s.logger.Info("Speech not understood, skipping dialog", zap.String("detail", recognition.Detail))
			envelope.Intent = domain.DefaultIntent
			envelope.Message = domain.LocalizedMessage(language, domain.MessageNotHeard)
			skipDialog = true
		}
	} else {
		envelope.SetInput(text)
	}

	if !skipDialog {
		dialogResult, err := s.converseDialog(ctx, text, req.ConversationID(), language)
		if err != nil {
			return upstreamFailure(s.logger, "Dialog stage failed", err, apiDialog, domain.CodeNLPError)
		}
		envelope.NLP = dialogResult

		intent, ok := dialogResult.TopIntent()
		if !ok {
			envelope.Intent = domain.DefaultIntent
			envelope.Message = domain.LocalizedMessage(language, domain.MessageNotUnderstand)
		} else {
			envelope.Intent = intent.Slug
			envelope.Message = dialogResult.FirstMessage()
		}
		telemetry.IntentsTotal.WithLabelValues(envelope.Intent).Inc()

		message, override, err := s.resolve(ctx, envelope.Intent, dialogResult, language)
		if err != nil {
			return upstreamFailure(s.logger, "Special intent resolution failed", err, apiServices, domain.CodeServicesError)
		}
		if override {
			envelope.Message = message
		}
	}

	switch want {
	case domain.OutputText:
		return &Result{Status: http.StatusOK, Body: envelope}
	case domain.OutputAudio:
		audio, err := s.synthesize(ctx, envelope.Message, req.Language)
		if err != nil {
			return upstreamFailure(s.logger, "Speech synthesis failed", err, apiSpeak, domain.CodeTTSError)
		}
		return &Result{Status: http.StatusOK, Audio: audio, Envelope: envelope}
	default:
		s.logger.Error("Unknown output format requested", zap.String("output", string(want)))
		return failure(http.StatusInternalServerError, domain.Internal(domain.CodeInvalidOutput))
	}
}

// Recognize transcribes an uploaded audio file.
func (s *Service) Recognize(ctx context.Context, raw *RawRequest) *Result {
	req, errs := s.audioOnly.Classify(raw)
	if len(errs) > 0 {
		return failure(http.StatusBadRequest, errs...)
	}
	if apiErr, ok := checkLanguage(req.Language); !ok {
		return failure(http.StatusBadRequest, apiErr)
	}

	recognition, err := s.recognize(ctx, req)
	if err != nil {
		s.logger.Error("Speech recognition failed", zap.Error(err))
		return failure(http.StatusServiceUnavailable, domain.ExternalAPI(domain.UpstreamAPI(err, apiSpeech)))
	}

	switch recognition.Status {
	case domain.Recognized:
		return &Result{Status: http.StatusOK, Body: recognition}
	case domain.MalformedAudio:
		return failure(http.StatusBadRequest, domain.BadParameterDetail(FieldAudio, MalformedAudioDetail))
	default:
		return failure(http.StatusInternalServerError, domain.RecognitionFailed())
	}
}

// Speak synthesizes the submitted text.
func (s *Service) Speak(ctx context.Context, raw *RawRequest) *Result {
	req, errs := s.textOnly.Classify(raw)
	if len(errs) > 0 {
		return failure(http.StatusBadRequest, errs...)
	}
	if apiErr, ok := checkLanguage(req.Language); !ok {
		return failure(http.StatusBadRequest, apiErr)
	}

	audio, err := s.synthesize(ctx, req.Text, req.Language)
	if err != nil {
		return upstreamFailure(s.logger, "Speech synthesis failed", err, apiSpeak, domain.CodeTTSError)
	}
	return &Result{Status: http.StatusOK, Audio: audio}
}

// Answer forwards the submitted text to the dialog service and returns its
// result untouched.
func (s *Service) Answer(ctx context.Context, raw *RawRequest) *Result {
	req, errs := s.textOnly.Classify(raw)
	if len(errs) > 0 {
		return failure(http.StatusBadRequest, errs...)
	}
	if apiErr, ok := checkLanguage(req.Language); !ok {
		return failure(http.StatusBadRequest, apiErr)
	}

	result, err := s.converseDialog(ctx, req.Text, req.ConversationID(), domain.SimplifiedLanguage(req.Language))
	if err != nil {
		return upstreamFailure(s.logger, "Dialog request failed", err, apiDialog, domain.CodeNLPError)
	}
	return &Result{Status: http.StatusOK, Body: result}
}

func checkLanguage(tag string) (domain.APIError, bool) {
	if domain.IsSupportedLanguage(tag) {
		return domain.APIError{}, true
	}
	return domain.BadParameter(FieldLanguage, domain.SupportedLanguages...), false
}

// upstreamFailure maps an adapter error to a terminal response. Only
// credential and service failures are reported by name; anything else is
// an opaque 500 tagged with code.
func upstreamFailure(logger *zap.Logger, msg string, err error, api, code string) *Result {
	logger.Error(msg, zap.Error(err))

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return failure(http.StatusUnauthorized, domain.InvalidCredentials(domain.UpstreamAPI(err, api)))
	case errors.Is(err, domain.ErrExternalService):
		return failure(http.StatusServiceUnavailable, domain.ExternalAPI(domain.UpstreamAPI(err, api)))
	default:
		return failure(http.StatusInternalServerError, domain.Internal(code))
	}
}

// Stage wrappers: one span and one latency sample per external call.

func (s *Service) recognize(ctx context.Context, req *domain.ConversationRequest) (*domain.Recognition, error) {
	ctx, span := s.startStage(ctx, "stt", attribute.String("language", req.Language), attribute.Int("audio.bytes", len(req.Audio)))
	defer span.End()
	defer observeStage("stt", time.Now())

	s.logger.Debug("Recognizing speech", zap.String("language", req.Language), zap.Int("bytes", len(req.Audio)))
	recognition, err := s.stt.Recognize(ctx, req.Audio, req.Language)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.String("recognition.status", recognition.Status.String()))
	return recognition, nil
}

func (s *Service) converseDialog(ctx context.Context, text, conversationID, language string) (*domain.DialogResult, error) {
	ctx, span := s.startStage(ctx, "dialog", attribute.String("language", language))
	defer span.End()
	defer observeStage("dialog", time.Now())

	s.logger.Debug("Sending utterance to dialog service",
		zap.String("conversation_id", conversationID),
		zap.String("language", language),
	)
	result, err := s.dialog.Converse(ctx, text, conversationID, language)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	return result, nil
}

func (s *Service) resolve(ctx context.Context, intent string, result *domain.DialogResult, language string) (string, bool, error) {
	ctx, span := s.startStage(ctx, "special_intent", attribute.String("intent", intent))
	defer span.End()
	defer observeStage("special_intent", time.Now())

	message, ok, err := s.resolver.Resolve(ctx, intent, result, language)
	if err != nil {
		recordError(span, err)
		return "", false, err
	}
	span.SetAttributes(attribute.Bool("override", ok))
	return message, ok, nil
}

func (s *Service) synthesize(ctx context.Context, message, language string) ([]byte, error) {
	ctx, span := s.startStage(ctx, "tts", attribute.String("language", language))
	defer span.End()
	defer observeStage("tts", time.Now())

	s.logger.Debug("Synthesizing speech", zap.String("language", language), zap.Int("chars", len(message)))
	audio, err := s.tts.Synthesize(ctx, message, language)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	return audio, nil
}

func (s *Service) startStage(ctx context.Context, stage string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "converse."+stage, trace.WithAttributes(attrs...))
}

func observeStage(stage string, start time.Time) {
	telemetry.StageLatency.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
