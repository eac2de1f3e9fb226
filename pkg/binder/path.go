package binder

import (
	"fmt"
	"net/http"
)

// Path creates a path parameter binder that reads values through extractor,
// typically chi.URLParam:
//
//	type ReadRequest struct {
//		ID string `path:"id"`
//	}
//
//	r.Post("/notifications/{id}/read", handler.Wrap(markRead,
//		handler.WithBinders(binder.Path(chi.URLParam)),
//	))
func Path(extractor func(r *http.Request, key string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if extractor == nil {
			return fmt.Errorf("%w: extractor function is nil", ErrFailedToParsePath)
		}
		return bindFields(v, "path", func(name string) []string {
			if val := extractor(r, name); val != "" {
				return []string{val}
			}
			return nil
		}, ErrFailedToParsePath)
	}
}
