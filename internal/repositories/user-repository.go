package repositories

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"glpi-dashboard/internal/entities"
	apperrors "glpi-dashboard/pkg/errors"
)

type UserRepositoryInterface interface {
	FindUserByEmail(ctx context.Context, email string) (*entities.User, error)
	FindUserByID(ctx context.Context, id uint64) (*entities.User, error)
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func (r *UserRepository) findUser(ctx context.Context, cond sq.Sqlizer) (*entities.User, error) {
	query, args, err := sq.Select("id", "fio", "email", "password", "role", "created_at", "updated_at").
		From("users").
		Where(cond).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var u entities.User
	err = r.storage.QueryRow(ctx, query, args...).
		Scan(&u.ID, &u.Fio, &u.Email, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		r.logger.Error("ошибка поиска пользователя", zap.Error(err))
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findUser(ctx, sq.Eq{"email": email})
}

func (r *UserRepository) FindUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	return r.findUser(ctx, sq.Eq{"id": id})
}
