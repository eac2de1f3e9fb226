package binder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultMaxJSONSize is the maximum accepted JSON body size (1 MB).
const DefaultMaxJSONSize = 1 << 20

// JSON creates a strict JSON body binder: unknown fields, trailing data and
// bodies larger than DefaultMaxJSONSize are rejected.
func JSON() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		contentType := r.Header.Get("Content-Type")
		if contentType == "" {
			return fmt.Errorf("%w: expected application/json", ErrMissingContentType)
		}

		mediaType, _, _ := strings.Cut(contentType, ";")
		mediaType = strings.TrimSpace(mediaType)
		if mediaType != "application/json" {
			return fmt.Errorf("%w: got %s, expected application/json", ErrUnsupportedMediaType, mediaType)
		}

		decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, DefaultMaxJSONSize))
		decoder.DisallowUnknownFields()

		if err := decoder.Decode(v); err != nil {
			var tooLarge *http.MaxBytesError
			switch {
			case errors.As(err, &tooLarge):
				return fmt.Errorf("%w: request body too large (max %d bytes)", ErrFailedToParseJSON, DefaultMaxJSONSize)
			case errors.Is(err, io.EOF):
				return fmt.Errorf("%w: empty body", ErrFailedToParseJSON)
			default:
				return fmt.Errorf("%w: %v", ErrFailedToParseJSON, err)
			}
		}

		if decoder.More() {
			return fmt.Errorf("%w: unexpected data after JSON object", ErrFailedToParseJSON)
		}
		return nil
	}
}
