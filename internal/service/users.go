package service

import (
	"context"
	"log/slog"
	"time"

	"mijozbot/core/logger"
	"mijozbot/internal/storage"
)

// UsersRepository is the storage surface the users service depends on.
type UsersRepository interface {
	Insert(ctx context.Context, u storage.User) error
	GetByID(ctx context.Context, id int64) (storage.User, error)
	ListAll(ctx context.Context) ([]storage.User, error)
}

// Users implements registry operations on top of the repository.
type Users struct {
	repo UsersRepository
}

// NewUsers constructs the users service.
func NewUsers(repo UsersRepository) *Users {
	return &Users{repo: repo}
}

// Register stores a user if not yet known. Idempotent: the stored profile is
// never overwritten by later registrations.
func (s *Users) Register(ctx context.Context, id int64, username, name string) error {
	start := time.Now()
	err := s.repo.Insert(ctx, storage.User{UserID: id, Username: username, Name: name})
	if err != nil {
		logger.Error(ctx, "service.users", "user.register",
			slog.String("status", "fail"),
			slog.Int64("user_id", id),
			slog.String("err", err.Error()),
		)
		return err
	}
	logger.Debug(ctx, "service.users", "user.register",
		slog.String("status", "ok"),
		slog.Int64("user_id", id),
		slog.Duration("duration", logger.Took(start)),
	)
	return nil
}

// GetUserByTelegramID returns the registered profile for a Telegram user id.
func (s *Users) GetUserByTelegramID(ctx context.Context, id int64) (storage.User, error) {
	return s.repo.GetByID(ctx, id)
}

// ListAll returns every registered user ordered by id.
func (s *Users) ListAll(ctx context.Context) ([]storage.User, error) {
	start := time.Now()
	users, err := s.repo.ListAll(ctx)
	if err != nil {
		logger.Error(ctx, "service.users", "user.list",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
		return nil, err
	}
	logger.Debug(ctx, "service.users", "user.list",
		slog.String("status", "ok"),
		slog.Int("count", len(users)),
		slog.Duration("duration", logger.Took(start)),
	)
	return users, nil
}
