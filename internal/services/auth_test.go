package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"glpi-dashboard/internal/dto"
	"glpi-dashboard/internal/entities"
	apperrors "glpi-dashboard/pkg/errors"
	"glpi-dashboard/pkg/service"
	"glpi-dashboard/pkg/utils"
)

type fakeUserRepo struct {
	users map[string]*entities.User
}

func (f *fakeUserRepo) FindUserByEmail(_ context.Context, email string) (*entities.User, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserRepo) FindUserByID(_ context.Context, id uint64) (*entities.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func TestAuthService_Login(t *testing.T) {
	hash, err := utils.HashPassword("правильный-пароль")
	require.NoError(t, err)

	repo := &fakeUserRepo{users: map[string]*entities.User{
		"admin@example.com": {ID: 1, Fio: "Иванов И.И.", Email: "admin@example.com", Password: hash, Role: "admin"},
	}}
	jwtSvc := service.NewJWTService("test-secret", time.Hour, 24*time.Hour)
	svc := NewAuthService(repo, jwtSvc, zap.NewNop())

	t.Run("Успешный вход возвращает пару токенов", func(t *testing.T) {
		resp, err := svc.Login(context.Background(), dto.LoginDTO{Email: "admin@example.com", Password: "правильный-пароль"})
		require.NoError(t, err)

		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Equal(t, "Иванов И.И.", resp.Fio)
		assert.Equal(t, "admin", resp.Role)

		claims, err := jwtSvc.ValidateToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), claims.UserID)
		assert.False(t, claims.IsRefreshToken)
	})

	t.Run("Неизвестный email и неверный пароль неразличимы", func(t *testing.T) {
		_, errNoUser := svc.Login(context.Background(), dto.LoginDTO{Email: "нет@example.com", Password: "x"})
		_, errBadPass := svc.Login(context.Background(), dto.LoginDTO{Email: "admin@example.com", Password: "не тот"})

		assert.ErrorIs(t, errNoUser, apperrors.ErrInvalidCredentials)
		assert.ErrorIs(t, errBadPass, apperrors.ErrInvalidCredentials)
	})
}
