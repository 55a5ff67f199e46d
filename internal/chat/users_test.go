package chat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sohbetapp/sohbet-server/internal/models"
	"github.com/sohbetapp/sohbet-server/internal/store"
	"github.com/sohbetapp/sohbet-server/internal/store/memory"
)

func TestUserDirectory(t *testing.T) {
	st := memory.NewStore()
	d := NewUserDirectory(st)
	ctx := context.Background()

	for _, u := range []models.User{
		{ID: "u1", DisplayName: "Ahmet", Email: "ahmet@test.com", CreatedAt: time.Now().UTC()},
		{ID: "u2", DisplayName: "Mehmet", Email: "mehmet@test.com", CreatedAt: time.Now().UTC()},
	} {
		u := u
		require.NoError(t, st.InsertUser(ctx, &u))
	}

	all, err := d.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	got, err := d.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ahmet", got.DisplayName)

	_, err = d.GetByID(ctx, "u404")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
