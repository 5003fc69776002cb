package api

import (
	"context"

	"github.com/Brightboard-Labs/brightboard/backend/errs"
	"github.com/Brightboard-Labs/brightboard/backend/models"
)

type keyType string

const userKey keyType = "user"

// ctxWithUser adds the authenticated user to the context
func ctxWithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// ctxGetUser retrieves the authenticated user from the context
func ctxGetUser(ctx context.Context) (*models.User, error) {
	value := ctx.Value(userKey)
	if value == nil {
		return nil, errs.Unauthorized()
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil, errs.Unauthorized()
	}
	return user, nil
}
