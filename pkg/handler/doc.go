// Package handler provides typed HTTP handlers for JSON APIs.
//
// A HandlerFunc receives a request value that binders have already populated
// from the path, query string and body, and returns a Response. Wrap turns it
// into a standard http.HandlerFunc usable with any router:
//
//	type ListRequest struct {
//		UserID string `path:"userID"`
//		Unread bool   `query:"unread"`
//		Limit  int    `query:"limit"`
//	}
//
//	list := handler.HandlerFunc[ListRequest](func(ctx handler.Context, req ListRequest) handler.Response {
//		items, err := svc.List(ctx, req.UserID, req.Unread, req.Limit)
//		if err != nil {
//			return handler.JSONError(err)
//		}
//		return handler.JSON(items)
//	})
//
//	r.Get("/users/{userID}/notifications", handler.Wrap(list,
//		handler.WithBinders(binder.Path(chi.URLParam), binder.Query()),
//		handler.WithErrorHandler(handler.NewErrorHandler(log)),
//	))
//
// Every JSON body uses the JSONResponse envelope with a data, meta or error
// member. Errors are mapped to status codes through HTTPError; binder errors
// become 400 or 415, and anything else is reported as a 500 without leaking
// its message.
//
// SSE upgrades a request to a Server-Sent Events stream and pushes datastar
// signal patches to the client.
package handler
