package services

import (
	"context"

	"go.uber.org/zap"

	"glpi-dashboard/internal/dto"
	"glpi-dashboard/internal/repositories"
	apperrors "glpi-dashboard/pkg/errors"
	"glpi-dashboard/pkg/service"
	"glpi-dashboard/pkg/utils"
)

type AuthService struct {
	userRepo repositories.UserRepositoryInterface
	jwtSvc   service.JWTService
	logger   *zap.Logger
}

func NewAuthService(userRepo repositories.UserRepositoryInterface, jwtSvc service.JWTService, logger *zap.Logger) *AuthService {
	return &AuthService{userRepo: userRepo, jwtSvc: jwtSvc, logger: logger}
}

// Login не различает «нет такого пользователя» и «неверный пароль» —
// наружу в обоих случаях уходит одна и та же ошибка.
func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.LoginResponseDTO, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, payload.Email)
	if err != nil {
		s.logger.Warn("попытка входа с неизвестным email", zap.String("email", payload.Email))
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := utils.ComparePasswords(user.Password, payload.Password); err != nil {
		s.logger.Warn("неверный пароль", zap.Uint64("user_id", user.ID))
		return nil, apperrors.ErrInvalidCredentials
	}

	accessToken, refreshToken, err := s.jwtSvc.GenerateTokens(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponseDTO{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Fio:          user.Fio,
		Role:         user.Role,
	}, nil
}
