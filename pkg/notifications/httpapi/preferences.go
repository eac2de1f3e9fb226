package httpapi

import (
	"github.com/dmitrymomot/mentorkit/pkg/handler"
	"github.com/dmitrymomot/mentorkit/pkg/notifications"
)

type updatePreferencesRequest struct {
	UserID string `path:"userID" json:"-"`
	notifications.Preferences
}

func (a *API) preferences(ctx handler.Context, req userRequest) handler.Response {
	p, err := a.svc.Preferences(ctx, req.UserID)
	if err != nil {
		return a.fail(ctx, err)
	}
	return handler.JSON(p)
}

// updatePreferences replaces the stored preferences. The owner always comes
// from the path; a user_id in the body is ignored.
func (a *API) updatePreferences(ctx handler.Context, req updatePreferencesRequest) handler.Response {
	p := req.Preferences
	p.UserID = req.UserID
	if err := a.svc.UpdatePreferences(ctx, p); err != nil {
		return a.fail(ctx, err)
	}

	updated, err := a.svc.Preferences(ctx, req.UserID)
	if err != nil {
		return a.fail(ctx, err)
	}
	return handler.JSON(updated)
}
