package services

import (
	"errors"

	"salonhub_backend/internal/auth"
	"salonhub_backend/internal/email"
	"salonhub_backend/internal/logger"
	"salonhub_backend/internal/models"
	"salonhub_backend/internal/repositories"
	"salonhub_backend/internal/services/dto"
	"salonhub_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AuthService interface {
	Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
}

type authService struct {
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
	referralSvc ReferralService
	emailSvc    email.Provider
}

func NewAuthService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	referralSvc ReferralService,
	emailSvc email.Provider,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		referralSvc: referralSvc,
		emailSvc:    emailSvc,
	}
}

func (s *authService) Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	role := models.UserRoleClient
	if req.Role != "" {
		role = models.UserRole(req.Role)
	}
	if role == models.UserRoleAdmin {
		return nil, apperrors.NewForbiddenError("Cannot self-register as admin")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         role,
	}
	profile := &models.Profile{}

	err = db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.userRepo.FindByEmail(tx, req.Email); err == nil {
			return repositories.ErrUserAlreadyExists
		} else if !errors.Is(err, repositories.ErrUserNotFound) {
			return err
		}
		if err := s.userRepo.Create(tx, user); err != nil {
			return err
		}
		profile.UserID = user.ID
		return s.profileRepo.Create(tx, profile)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrAlreadyExists(err, "user")
		}
		return nil, apperrors.ErrPersistence(err, "auth")
	}

	// Реферальная привязка не должна ломать регистрацию: аккаунт уже
	// создан, неудача просто не устанавливает связь.
	if req.ReferralCode != "" {
		if linked := s.referralSvc.ProcessReferral(db, req.ReferralCode, profile.ID); !linked {
			logger.Info("signup referral not linked",
				"user_id", user.ID, "code", req.ReferralCode)
		}
	}

	// Welcome-письмо тоже best-effort
	if err := s.emailSvc.SendWelcome(user.Email, user.Name); err != nil {
		logger.Warn("welcome email not sent", "user_id", user.ID, "error", err.Error())
	}

	return s.buildAuthResponse(user)
}

func (s *authService) Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.ErrPersistence(err, "auth")
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if user.Status != models.UserStatusActive {
		return nil, apperrors.NewForbiddenError("Account is suspended")
	}

	return s.buildAuthResponse(user)
}

func (s *authService) buildAuthResponse(user *models.User) (*dto.AuthResponse, error) {
	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{
		Token: token,
		Role:  user.Role,
		User: &dto.UserResponse{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		},
	}, nil
}
