package binder

import "net/http"

// Query creates a query string binder.
//
// Struct tags select parameter names:
//   - `query:"name"` binds parameter "name"
//   - `query:"-"` skips the field
//
// Untagged exported fields bind to their lowercased name. Basic types,
// time.Time (RFC 3339), slices (repeated or comma-separated values) and
// pointers for optional values are supported.
//
//	type ListRequest struct {
//		Unread bool       `query:"unread"`
//		Limit  int        `query:"limit"`
//		Types  []string   `query:"type"`
//		Since  *time.Time `query:"since"`
//	}
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		return bindToStruct(v, "query", r.URL.Query(), ErrFailedToParseQuery)
	}
}
