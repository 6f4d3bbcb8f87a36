package handlers

import "github.com/gofiber/fiber/v2"

// RegisterRoutes mounts the conversation and single-stage endpoints under /api.
func RegisterRoutes(app *fiber.App, converseHandler *ConverseHandler, speechHandler *SpeechHandler) {
	api := app.Group("/api")

	api.Post("/converse/text", converseHandler.Text)
	api.Post("/converse/audio", converseHandler.Audio)

	api.Post("/stt/recognize", speechHandler.Recognize)
	api.Post("/tts/speak", speechHandler.Speak)
	api.Post("/nlp/answer", speechHandler.Answer)
}
