package httpx

import (
	"encoding/json"
	"net/http"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// ActionResult is the success/failure + message shape returned by posting
// mutations so the caller can surface it to the user.
type ActionResult struct {
	Status  string `json:"status"` // "success" or "error"
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			// best-effort error response; avoid writing partial JSON
			http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		// nothing we can do at this point
		_ = err
	}
}

func JSONError(w http.ResponseWriter, status int, msg string, details any) {
	JSON(w, status, ErrorResponse{Error: msg, Details: details})
}

// Success writes an ActionResult with status "success".
func Success(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ActionResult{Status: "success", Message: message})
}

// Failure writes an ActionResult with status "error".
func Failure(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ActionResult{Status: "error", Message: message})
}
