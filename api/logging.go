package api

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/RussianNLP/RuBLiMP/logger"
)

var defaultLogger = logger.NewLogger("API")

type endpointLoggerFields struct {
	Method string `json:"method"`
	Url    string `json:"url"`
}

const RequestInfoFieldsKey = "request_info"

func makeRequestLogger(request *http.Request, tid string) zerolog.Logger {
	fields := endpointLoggerFields{
		Method: request.Method,
		Url:    request.URL.String(),
	}
	return defaultLogger.
		With().
		Str("tid", tid).
		Interface(RequestInfoFieldsKey, fields).
		Logger()
}
