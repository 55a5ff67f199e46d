package chat

import (
	"context"

	"github.com/sohbetapp/sohbet-server/internal/models"
	"github.com/sohbetapp/sohbet-server/internal/store"
)

// UserDirectory lists registered users. Search filtering and self-exclusion
// stay in the client; this layer returns the full set.
type UserDirectory struct {
	users store.UserStore
}

func NewUserDirectory(users store.UserStore) *UserDirectory {
	return &UserDirectory{users: users}
}

func (d *UserDirectory) ListAll(ctx context.Context) ([]models.User, error) {
	return d.users.ListUsers(ctx)
}

func (d *UserDirectory) GetByID(ctx context.Context, id string) (*models.User, error) {
	return d.users.GetUser(ctx, id)
}
