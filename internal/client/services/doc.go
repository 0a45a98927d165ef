// Package services contains the application services of the admin console:
// authentication, the admin's own profile, and a generic collection resource
// configured per screen with its endpoints.
//
// Services speak to the backend only through the Doer interface (satisfied by
// *api.Client), which keeps them testable with a scripted fake.
package services

import (
	"context"

	"github.com/dmitrijs2005/shopadmin/internal/client/api"
)

// Doer is the request surface of api.Client used by services.
type Doer interface {
	Do(ctx context.Context, req api.Request, out any) (*api.Envelope, error)
}
