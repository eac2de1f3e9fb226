package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrymomot/mentorkit/pkg/handler"
	"github.com/dmitrymomot/mentorkit/pkg/logger"
	"github.com/dmitrymomot/mentorkit/pkg/notifications"
)

type idRequest struct {
	ID string `path:"id"`
}

type userRequest struct {
	UserID string `path:"userID"`
}

type listRequest struct {
	UserID string               `path:"userID" query:"-"`
	Unread bool                 `query:"unread"`
	Types  []notifications.Type `query:"type"`
	Since  *time.Time           `query:"since"`
	Limit  int                  `query:"limit"`
	Offset int                  `query:"offset"`
}

// send dispatches an arbitrary request. A preferences failure still answers
// 201: the record is stored and delivered in-app, and the report tells the
// client that the other channels were not attempted.
func (a *API) send(ctx handler.Context, req notifications.Request) handler.Response {
	report, err := a.svc.Send(ctx, req)
	if err != nil {
		if report == nil {
			return a.fail(ctx, err)
		}
		a.logger.WarnContext(ctx, "notification stored without external delivery",
			logger.NotificationID(report.NotificationID),
			logger.Error(err),
		)
		return handler.JSON(report,
			handler.WithJSONStatus(http.StatusCreated),
			handler.WithJSONMeta(map[string]any{"warning": "preferences unavailable; only in-app delivery was performed"}),
		)
	}
	return handler.JSON(report, handler.WithJSONStatus(http.StatusCreated))
}

func (a *API) get(ctx handler.Context, req idRequest) handler.Response {
	rec, err := a.svc.Get(ctx, req.ID)
	if err != nil {
		return a.fail(ctx, err)
	}
	return handler.JSON(rec)
}

func (a *API) markAsRead(ctx handler.Context, req idRequest) handler.Response {
	ok, err := a.svc.MarkAsRead(ctx, req.ID)
	if err != nil {
		return a.fail(ctx, err)
	}
	if !ok {
		return a.fail(ctx, notifications.ErrNotificationNotFound)
	}
	rec, err := a.svc.Get(ctx, req.ID)
	if err != nil {
		return a.fail(ctx, err)
	}
	return handler.JSON(rec)
}

func (a *API) deleteExpired(ctx handler.Context, _ struct{}) handler.Response {
	n, err := a.svc.DeleteExpired(ctx)
	if err != nil {
		return a.fail(ctx, err)
	}
	return handler.JSON(map[string]int{"deleted": n})
}

func (a *API) list(ctx handler.Context, req listRequest) handler.Response {
	if req.Limit < 0 || req.Offset < 0 {
		return handler.JSONError(handler.ErrBadRequest.Wrap(errInvalidPage))
	}
	limit := req.Limit
	if limit == 0 {
		limit = DefaultListLimit
	}
	limit = min(limit, MaxListLimit)

	records, err := a.svc.List(ctx, req.UserID, notifications.ListOptions{
		Limit:      limit,
		Offset:     req.Offset,
		OnlyUnread: req.Unread,
		Types:      req.Types,
		Since:      req.Since,
	})
	if err != nil {
		return a.fail(ctx, err)
	}
	if records == nil {
		records = []notifications.Record{}
	}
	return handler.JSON(records, handler.WithJSONMeta(map[string]any{
		"count":  len(records),
		"limit":  limit,
		"offset": req.Offset,
	}))
}

func (a *API) unreadCount(ctx handler.Context, req userRequest) handler.Response {
	n, err := a.svc.CountUnread(ctx, req.UserID)
	if err != nil {
		return a.fail(ctx, err)
	}
	return handler.JSON(map[string]int{"unread": n})
}

func (a *API) markAllAsRead(ctx handler.Context, req userRequest) handler.Response {
	n, err := a.svc.MarkAllAsRead(ctx, req.UserID)
	if err != nil {
		return a.fail(ctx, err)
	}
	return handler.JSON(map[string]int{"updated": n})
}
