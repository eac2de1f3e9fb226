// Package binder populates request structs from HTTP requests.
//
// Each binder handles one source and only looks at its own struct tag:
// JSON decodes the body strictly, Query reads `query` tags from the URL
// and Path reads `path` tags through a router-specific extractor. Binders
// are composed with handler.WithBinders:
//
//	type UpdatePreferencesRequest struct {
//		UserID             string `path:"userID" json:"-"`
//		EmailNotifications *bool  `json:"email_notifications"`
//	}
//
//	handler.Wrap(update, handler.WithBinders(binder.JSON(), binder.Path(chi.URLParam)))
//
// Binding failures wrap ErrFailedToParseJSON, ErrFailedToParseQuery or
// ErrFailedToParsePath; content type problems wrap ErrMissingContentType or
// ErrUnsupportedMediaType.
package binder
