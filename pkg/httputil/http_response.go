package httputil

import (
	"net/http"

	"github.com/bytedance/sonic"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	// Set when the failure came from storage and the same request may succeed later.
	Retryable bool `json:"retryable,omitempty"`
}

func WriteErrorResponse(w http.ResponseWriter, statusCode int, message string, details error) {
	writeError(w, ErrorResponse{Code: statusCode, Message: message}, details)
}

// WriteRetryableError reports an internal failure the client is expected to retry.
func WriteRetryableError(w http.ResponseWriter, message string) {
	writeError(w, ErrorResponse{
		Code:      http.StatusInternalServerError,
		Message:   message + ", please retry later",
		Retryable: true,
	}, nil)
}

func writeError(w http.ResponseWriter, resp ErrorResponse, details error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Code)
	if details != nil {
		resp.Details = details.Error()
	}
	sonic.ConfigFastest.NewEncoder(w).Encode(resp)
}

func WriteJSONResponse(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if body != nil {
		sonic.ConfigDefault.NewEncoder(w).Encode(body)
	}
}
