// Package logger builds *slog.Logger instances for mentorkit services.
//
// New takes functional options for format, level, static attributes and
// context extractors. Extractors run on every record, so request-scoped values
// such as a request id show up without threading them through call sites.
//
//	log := logger.New(
//	    logger.WithEnvironment("production", "notifyd"),
//	    logger.WithContextValue("request_id", requestIDKey{}),
//	)
//	log.InfoContext(ctx, "notification stored",
//	    logger.NotificationID(id),
//	    logger.UserID(userID),
//	)
//
// Attribute helpers (Error, UserID, NotificationID, Channel...) keep key names
// consistent across packages. Error and UserID return an empty attribute for
// zero values, so callers can pass them unconditionally.
package logger
