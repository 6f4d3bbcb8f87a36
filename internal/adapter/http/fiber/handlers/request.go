package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/converse-gateway/internal/service/converse"
)

// Response headers carrying the envelope next to an audio body. JSON is the
// name older clients read.
const (
	HeaderResultJSON = "X-Result-JSON"
	HeaderLegacyJSON = "JSON"

	ContentTypeWAV = "audio/wav"
)

// rawRequest copies what the classifier needs out of the fasthttp request.
// Multipart bodies that fail to parse leave Form empty so the classifier
// reports the missing parts.
func rawRequest(c *fiber.Ctx, log *zap.Logger) *converse.RawRequest {
	raw := &converse.RawRequest{ContentType: strings.Clone(c.Get(fiber.HeaderContentType))}

	if !strings.HasPrefix(raw.ContentType, converse.MediaTypeMultipart) {
		raw.Body = append([]byte(nil), c.Body()...)
		return raw
	}

	form, err := c.MultipartForm()
	if err != nil {
		log.Debug("Unreadable multipart body", zap.Error(err))
		return raw
	}

	raw.Form = make(map[string]string, len(form.Value))
	for name, values := range form.Value {
		if len(values) > 0 {
			raw.Form[name] = values[0]
		}
	}

	raw.Files = make(map[string][]byte, len(form.File))
	for name, headers := range form.File {
		if len(headers) == 0 {
			continue
		}
		data, err := readPart(headers[0])
		if err != nil {
			log.Warn("Failed to read uploaded file", zap.String("part", name), zap.Error(err))
			raw.Unreadable = append(raw.Unreadable, name)
			continue
		}
		raw.Files[name] = data
	}
	return raw
}

func readPart(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

// respond writes a service result. Audio results are sent as WAV with the
// envelope, when present, serialized into the result headers.
func respond(c *fiber.Ctx, result *converse.Result, log *zap.Logger) error {
	if result.Audio == nil {
		return c.Status(result.Status).JSON(result.Body)
	}

	if result.Envelope != nil {
		data, err := json.Marshal(result.Envelope)
		if err != nil {
			log.Error("Failed to encode result envelope", zap.Error(err))
			return err
		}
		header := asciiJSON(data)
		c.Set(HeaderResultJSON, header)
		c.Set(HeaderLegacyJSON, header)
	}

	c.Set(fiber.HeaderContentType, ContentTypeWAV)
	return c.Status(result.Status).Send(result.Audio)
}

// asciiJSON escapes every rune above 0x7E of an encoded JSON document as
// \uXXXX (surrogate pairs above the BMP) so it survives as a header value.
// Non-ASCII runes only occur inside JSON strings, where the escape is valid.
func asciiJSON(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		data = data[size:]
		switch {
		case r < 0x7F:
			b.WriteByte(byte(r))
		case r > 0xFFFF:
			r -= 0x10000
			fmt.Fprintf(&b, "\\u%04x\\u%04x", 0xD800+(r>>10), 0xDC00+(r&0x3FF))
		default:
			fmt.Fprintf(&b, "\\u%04x", r)
		}
	}
	return b.String()
}
