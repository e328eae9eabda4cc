package router

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jiaming2012/options-symbol-finder/src/models"
)

type errorResponse struct {
	Type string `json:"type"`
	Msg  string `json:"message"`
}

func NewErrorResponse(errType string, message string) *errorResponse {
	return &errorResponse{
		Type: errType,
		Msg:  message,
	}
}

func setResponse(response interface{}, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		return fmt.Errorf("setResponse: encode: %w", err)
	}

	return nil
}

func setErrorResponse(errType string, statusCode int, err error, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := NewErrorResponse(errType, err.Error())
	if encodeErr := json.NewEncoder(w).Encode(resp); encodeErr != nil {
		return encodeErr
	}

	return nil
}

func statusCodeFor(kind models.FailureKind) int {
	switch kind {
	case models.FailureKindNoQualifyingExpiration, models.FailureKindNotFound, models.FailureKindEmptyChain:
		return http.StatusNotFound
	case models.FailureKindAuth:
		return http.StatusUnauthorized
	case models.FailureKindTransport:
		return http.StatusBadGateway
	case models.FailureKindInvalidArgument:
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}
