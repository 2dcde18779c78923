package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

const allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"

// UpdateResponse is the body returned after a successful update
type UpdateResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// headers returns the headers sent with every response
func (h *CollectionHandler) headers() map[string]string {
	return map[string]string{
		"Content-Type":                 "application/json",
		"Access-Control-Allow-Origin":  h.allowOrigin,
		"Access-Control-Allow-Methods": allowedMethods,
		"Access-Control-Allow-Headers": "Content-Type",
	}
}

// respond builds a response with a pre-encoded body
func (h *CollectionHandler) respond(status int, body string) events.APIGatewayV2HTTPResponse {
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    h.headers(),
		Body:       body,
	}
}

// respondJSON encodes v as the response body. An encoding failure becomes
// a 500 response.
func (h *CollectionHandler) respondJSON(status int, v any) events.APIGatewayV2HTTPResponse {
	body, err := encodeJSON(v)
	if err != nil {
		h.logger.WithError(err).Error("Failed to encode response body")
		return h.respondError(http.StatusInternalServerError, "Internal server error", err.Error())
	}
	return h.respond(status, body)
}

// respondError builds an ErrorResponse body
func (h *CollectionHandler) respondError(status int, summary, message string) events.APIGatewayV2HTTPResponse {
	body, err := encodeJSON(ErrorResponse{Error: summary, Message: message})
	if err != nil {
		// ErrorResponse only holds strings
		body = `{"error":"Internal server error"}`
	}
	return h.respond(status, body)
}

// respondFailure classifies err and builds the matching error response
func (h *CollectionHandler) respondFailure(summary string, err error) events.APIGatewayV2HTTPResponse {
	status := statusForError(err)
	return h.respondError(status, summaryForStatus(status, summary), err.Error())
}

func encodeJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}
