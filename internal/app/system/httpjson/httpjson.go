// internal/app/system/httpjson/httpjson.go

// Package httpjson writes the API's JSON response envelope. Every
// endpoint answers {success, statusCode, data}, with errors carried as
// data.error, so clients have one shape to parse.
package httpjson

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// ErrEmptyBody is returned by Decode when the request has no payload.
var ErrEmptyBody = errors.New("payload is required")

// Envelope is the wire shape of every API response.
type Envelope struct {
	Success    bool `json:"success"`
	StatusCode int  `json:"statusCode"`
	Data       any  `json:"data,omitempty"`
}

// Write sends a success envelope with the given status and data.
func Write(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{
		Success:    status < 400,
		StatusCode: status,
		Data:       data,
	})
}

// Error sends a failure envelope with data.error set to msg. The message
// is the only detail exposed to the client; internal causes belong in
// the server log.
func Error(w http.ResponseWriter, status int, msg string) {
	Write(w, status, map[string]string{"error": msg})
}

// Decode parses the JSON request body into dst, rejecting empty bodies
// and unknown fields.
func Decode(r *http.Request, dst any) error {
	if r.Body == nil {
		return ErrEmptyBody
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return err
	}
	return nil
}
