package httputil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/matzehuels/infinicanvas/pkg/errors"
)

// MaxBodySize bounds request bodies read by DecodeJSON.
const MaxBodySize = 1 << 20

// ErrorBody is the JSON form of a failed request.
type ErrorBody struct {
	Code  errors.Code `json:"code"`
	Error string      `json:"error"`
}

// StatusFor maps an error to an HTTP status by its code.
func StatusFor(err error) int {
	switch {
	case errors.IsInvalid(err):
		return http.StatusBadRequest
	case errors.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes err as an ErrorBody. Errors without a code are reported
// as INTERNAL_ERROR.
func WriteError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	WriteJSON(w, StatusFor(err), ErrorBody{Code: code, Error: errors.Detail(err)})
}

// DecodeJSON decodes one JSON value from r into v. An empty body leaves v
// unchanged. Unknown fields and oversized bodies are INVALID_INPUT errors.
func DecodeJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(io.LimitReader(r, MaxBodySize+1))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if err == io.EOF {
			return nil
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	if dec.More() {
		return errors.New(errors.ErrCodeInvalidInput, "request body holds more than one JSON value")
	}
	return nil
}

// ReadError converts a non-2xx response into a coded error. Bodies that are
// not an ErrorBody are reported with a code chosen from the status.
func ReadError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	var body ErrorBody
	if err := json.Unmarshal(data, &body); err == nil && body.Code != "" {
		return errors.New(body.Code, "%s", body.Error)
	}
	code := errors.ErrCodeInternal
	switch {
	case resp.StatusCode == http.StatusNotFound:
		code = errors.ErrCodeNotFound
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		code = errors.ErrCodeInvalidInput
	}
	return errors.New(code, "%s", fmt.Sprintf("%s: %s", resp.Status, data))
}
