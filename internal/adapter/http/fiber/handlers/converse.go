package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/converse-gateway/internal/domain"
	"github.com/seu-repo/converse-gateway/internal/service/converse"
)

type ConverseHandler struct {
	service *converse.Service
	log     *zap.Logger
}

func NewConverseHandler(service *converse.Service, log *zap.Logger) *ConverseHandler {
	return &ConverseHandler{
		service: service,
		log:     log,
	}
}

// Text answers a text or audio turn with the JSON envelope.
func (h *ConverseHandler) Text(c *fiber.Ctx) error {
	return h.handle(c, domain.OutputText)
}

// Audio answers a text or audio turn with synthesized speech.
func (h *ConverseHandler) Audio(c *fiber.Ctx) error {
	return h.handle(c, domain.OutputAudio)
}

func (h *ConverseHandler) handle(c *fiber.Ctx, want domain.OutputKind) error {
	result := h.service.Converse(c.UserContext(), rawRequest(c, h.log), want)
	return respond(c, result, h.log)
}
