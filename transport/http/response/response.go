package response

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"travel/shared/constant"
	"travel/shared/failure"
	"travel/shared/logger"
)

type Data[T any] struct {
	Data T `json:"data"`
}

// Error is the failure envelope. Field is set for validation errors bound to one request field.
type Error struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

type Message struct {
	Message string `json:"message"`
}

func WithMessage(writer http.ResponseWriter, code int, message string) {
	write(writer, code, Message{Message: message})
}

func WithJSON(writer http.ResponseWriter, code int, payload any) {
	write(writer, code, Data[any]{Data: payload})
}

// WithError renders err with the status from failure.GetCode. Server errors are logged
// and answered with a generic message so internals never reach the client.
func WithError(writer http.ResponseWriter, err error) {
	code := failure.GetCode(err)

	if code >= http.StatusInternalServerError {
		log.Error().Err(err).Int("status", code).Msg("request failed")
		write(writer, code, Error{Error: constant.ResponseErrorInternal})

		return
	}

	payload := Error{Error: err.Error()}
	if validation, ok := failure.AsValidation(err); ok {
		payload.Field = validation.Field
	}

	write(writer, code, payload)
}

func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func write(writer http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)
		writer.WriteHeader(http.StatusInternalServerError)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err = writer.Write(body); err != nil {
		logger.ErrorWithStack(err)
	}
}
