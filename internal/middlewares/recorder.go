package middlewares

import (
	"bytes"
	"log"
	"net/http"
)

// responseRecorder buffers the status and body of the response,
// so HandleErrors can swap an error body for the rich error page.
type responseRecorder struct {
	http.ResponseWriter
	body   *bytes.Buffer
	status int
}

func NewResponseRecorder(w http.ResponseWriter) *responseRecorder {
	return &responseRecorder{
		ResponseWriter: w,
		body:           new(bytes.Buffer),
		status:         http.StatusOK,
	}
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.status = statusCode
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	return r.body.Write(b)
}

// flush writes the buffered status and body to the client
func (r *responseRecorder) flush() {
	r.ResponseWriter.WriteHeader(r.status)
	if r.body.Len() == 0 {
		return
	}

	if _, err := r.ResponseWriter.Write(r.body.Bytes()); err != nil {
		log.Printf("Error writing response body: %v", err)
	}
}

// statusWriter remembers the status code written by the next handlers
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(statusCode int) {
	sw.status = statusCode
	sw.ResponseWriter.WriteHeader(statusCode)
}

// Unwrap lets http.ResponseController reach the underlying writer
func (sw *statusWriter) Unwrap() http.ResponseWriter {
	return sw.ResponseWriter
}
