package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mijozbot/internal/storage"
)

// fakeUsersRepo mimics the registry's first-write-wins contract in memory.
type fakeUsersRepo struct {
	users map[int64]storage.User
	order []int64
	err   error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{users: make(map[int64]storage.User)}
}

func (r *fakeUsersRepo) Insert(_ context.Context, u storage.User) error {
	if r.err != nil {
		return r.err
	}
	if _, exists := r.users[u.UserID]; exists {
		return nil
	}
	r.users[u.UserID] = u
	r.order = append(r.order, u.UserID)
	return nil
}

func (r *fakeUsersRepo) GetByID(_ context.Context, id int64) (storage.User, error) {
	if r.err != nil {
		return storage.User{}, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return storage.User{}, storage.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUsersRepo) ListAll(_ context.Context) ([]storage.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]storage.User, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.users[id])
	}
	return out, nil
}

func TestRegisterFirstWriteWins(t *testing.T) {
	repo := newFakeUsersRepo()
	svc := NewUsers(repo)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, 10, "alice", "Alice"))
	require.NoError(t, svc.Register(ctx, 10, "renamed", "Someone Else"))

	u, err := svc.GetUserByTelegramID(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "Alice", u.Name)
}

func TestGetUserByTelegramIDNotFound(t *testing.T) {
	svc := NewUsers(newFakeUsersRepo())

	_, err := svc.GetUserByTelegramID(context.Background(), 404)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestRegisterPropagatesRepoError(t *testing.T) {
	repo := newFakeUsersRepo()
	repo.err = errors.New("connection reset")
	svc := NewUsers(repo)

	err := svc.Register(context.Background(), 1, "u", "n")
	assert.Error(t, err)
}

func TestListAll(t *testing.T) {
	repo := newFakeUsersRepo()
	svc := NewUsers(repo)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, 1, "a", "A"))
	require.NoError(t, svc.Register(ctx, 2, "b", "B"))

	users, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, int64(1), users[0].UserID)
	assert.Equal(t, int64(2), users[1].UserID)
}
