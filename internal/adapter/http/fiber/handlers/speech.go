package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/converse-gateway/internal/service/converse"
)

// SpeechHandler exposes each external stage on its own.
type SpeechHandler struct {
	service *converse.Service
	log     *zap.Logger
}

func NewSpeechHandler(service *converse.Service, log *zap.Logger) *SpeechHandler {
	return &SpeechHandler{
		service: service,
		log:     log,
	}
}

func (h *SpeechHandler) Recognize(c *fiber.Ctx) error {
	return respond(c, h.service.Recognize(c.UserContext(), rawRequest(c, h.log)), h.log)
}

func (h *SpeechHandler) Speak(c *fiber.Ctx) error {
	return respond(c, h.service.Speak(c.UserContext(), rawRequest(c, h.log)), h.log)
}

func (h *SpeechHandler) Answer(c *fiber.Ctx) error {
	return respond(c, h.service.Answer(c.UserContext(), rawRequest(c, h.log)), h.log)
}
