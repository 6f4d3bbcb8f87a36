package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Upstream failure kinds. Adapters wrap one of these in an *UpstreamError.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrExternalService    = errors.New("external service error")
)

// UpstreamError reports a failed call to an external service.
type UpstreamError struct {
	API    string
	Err    error
	Detail string
}

func (e *UpstreamError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.API, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.API, e.Err, e.Detail)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func NewInvalidCredentialsError(api string) error {
	return &UpstreamError{API: api, Err: ErrInvalidCredentials}
}

func NewExternalServiceError(api, detail string) error {
	return &UpstreamError{API: api, Err: ErrExternalService, Detail: detail}
}

// UpstreamAPI returns the external API name carried by err, or fallback.
func UpstreamAPI(err error, fallback string) string {
	var ue *UpstreamError
	if errors.As(err, &ue) && ue.API != "" {
		return ue.API
	}
	return fallback
}

// Error codes reported to clients.
const (
	CodeMissingParameter   = "missing_parameter"
	CodeBadParameter       = "bad_parameter"
	CodeMissingHeader      = "missing_header"
	CodeBadHeader          = "bad_header"
	CodeInvalidCredentials = "invalid_credentials"
	CodeExternalAPI        = "external_api_error"
	CodeRecognitionFailed  = "recognition_failed"
	CodeAPIError           = "api_error"
	CodeNLPError           = "nlp_error"
	CodeServicesError      = "services_error"
	CodeTTSError           = "tts_error"
	CodeInvalidOutput      = "invalid_output_format_requested"
)

// APIError is one entry of an error response.
type APIError struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

func (e APIError) Error() string {
	return e.Code + ": " + e.Msg
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Errors []APIError `json:"errors"`
}

func MissingParameter(parameter string) APIError {
	return APIError{Code: CodeMissingParameter, Msg: parameter + " is missing."}
}

func BadParameter(parameter string, validValues ...string) APIError {
	msg := parameter + " is not correct."
	if len(validValues) > 0 {
		msg += " Valid values are " + strings.Join(validValues, ", ")
	}
	return APIError{Code: CodeBadParameter, Msg: msg}
}

// BadParameterDetail reports a bad parameter with a free-form explanation.
func BadParameterDetail(parameter, detail string) APIError {
	return APIError{Code: CodeBadParameter, Msg: parameter + " is not correct. " + detail}
}

func MissingHeader(header string) APIError {
	return APIError{Code: CodeMissingHeader, Msg: header + " header is missing."}
}

func BadHeader(header string, validValues ...string) APIError {
	msg := header + " header is not correct."
	if len(validValues) > 0 {
		msg += " Valid values are " + strings.Join(validValues, ", ")
	}
	return APIError{Code: CodeBadHeader, Msg: msg}
}

func InvalidCredentials(api string) APIError {
	return APIError{Code: CodeInvalidCredentials, Msg: api + " credentials are invalid."}
}

func ExternalAPI(api string) APIError {
	return APIError{Code: CodeExternalAPI, Msg: api + " API is not working properly."}
}

func RecognitionFailed() APIError {
	return APIError{Code: CodeRecognitionFailed, Msg: "API failed to transcript voice from your input file."}
}

// Internal never carries the underlying error text.
func Internal(code string) APIError {
	if code == "" {
		code = CodeAPIError
	}
	return APIError{Code: code, Msg: "Unexpected error"}
}
