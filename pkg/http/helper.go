package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"

	apperrors "courtbook/pkg/errors"
)

// DecodeJSON reads a single JSON object from the request body and rejects
// unknown fields.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return apperrors.New(apperrors.CodeBadRequest, "request body too large", http.StatusRequestEntityTooLarge)
		case errors.Is(err, io.EOF):
			return apperrors.InvalidInput("request body is empty")
		default:
			return apperrors.InvalidInput(fmt.Sprintf("invalid JSON body: %v", err))
		}
	}
	if dec.More() {
		return apperrors.InvalidInput("request body must contain a single JSON object")
	}
	return nil
}

// QueryFloat parses an optional numeric query parameter. NaN and infinities
// are rejected.
func QueryFloat(r *http.Request, key string) (float64, bool, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, apperrors.InvalidInput(fmt.Sprintf("invalid %s parameter: %s", key, s))
	}
	return v, true, nil
}
