package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/shopadmin/internal/client/api"
	"github.com/dmitrijs2005/shopadmin/internal/client/models"
)

// ProfileUpdate is the editable part of the admin profile.
type ProfileUpdate struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// SessionUpdater merges a changed profile into the persisted session.
type SessionUpdater interface {
	Update(ctx context.Context, fn func(u *models.User)) (*models.User, error)
}

type ProfileService interface {
	Get(ctx context.Context, id models.ID) (*models.User, error)
	Update(ctx context.Context, id models.ID, in ProfileUpdate) (*models.User, string, error)
}

type profileService struct {
	api     Doer
	session SessionUpdater
}

func NewProfileService(api Doer, s SessionUpdater) ProfileService {
	return &profileService{api: api, session: s}
}

func (p *profileService) Get(ctx context.Context, id models.ID) (*models.User, error) {
	var user models.User
	req := api.Request{Method: http.MethodGet, Path: "/" + api.PathEscape("get-single-user", id.String()), Auth: true}
	if _, err := p.api.Do(ctx, req, &user); err != nil {
		return nil, fmt.Errorf("profile error: %w", err)
	}
	return &user, nil
}

// Update sends the new name and phone and merges the server's copy of the
// user into the session. The token is never taken from the response.
func (p *profileService) Update(ctx context.Context, id models.ID, in ProfileUpdate) (*models.User, string, error) {
	var user models.User
	req := api.Request{Method: http.MethodPut, Path: "/" + api.PathEscape("update-user", id.String()), Body: in, Auth: true}
	env, err := p.api.Do(ctx, req, &user)
	if err != nil {
		return nil, "", fmt.Errorf("profile update error: %w", err)
	}

	merged, err := p.session.Update(ctx, func(u *models.User) {
		if user.Name != "" {
			u.Name = user.Name
		} else {
			u.Name = in.Name
		}
		if user.Phone != "" {
			u.Phone = user.Phone
		} else {
			u.Phone = in.Phone
		}
		if user.Email != "" {
			u.Email = user.Email
		}
	})
	if err != nil {
		return nil, "", fmt.Errorf("session update error: %w", err)
	}
	return merged, env.Msg, nil
}
