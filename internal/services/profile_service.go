package services

import (
	"errors"

	"salonhub_backend/internal/models"
	"salonhub_backend/internal/repositories"
	"salonhub_backend/internal/services/dto"
	"salonhub_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ProfileService interface {
	GetMyProfile(db *gorm.DB, userID string) (*dto.ProfileResponse, error)
	UpdateProfile(db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
}

type profileService struct {
	profileRepo repositories.ProfileRepository
}

func NewProfileService(profileRepo repositories.ProfileRepository) ProfileService {
	return &profileService{profileRepo: profileRepo}
}

func (s *profileService) GetMyProfile(db *gorm.DB, userID string) (*dto.ProfileResponse, error) {
	profile, err := s.profileRepo.FindByUserID(db, userID)
	if err != nil {
		return nil, handleProfileError(err)
	}
	return buildProfileResponse(profile)
}

func (s *profileService) UpdateProfile(db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	profile, err := s.profileRepo.FindByUserID(db, userID)
	if err != nil {
		return nil, handleProfileError(err)
	}

	if req.AvatarURL != nil {
		profile.AvatarURL = *req.AvatarURL
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.Location != nil {
		profile.Location = *req.Location
	}
	if req.Specialty != nil {
		profile.Specialty = *req.Specialty
	}

	if err := s.profileRepo.Update(db, profile); err != nil {
		return nil, apperrors.ErrPersistence(err, "profile")
	}
	return buildProfileResponse(profile)
}

func handleProfileError(err error) error {
	if errors.Is(err, repositories.ErrProfileNotFound) {
		return apperrors.ErrNotFound(err, "profile")
	}
	return apperrors.ErrPersistence(err, "profile")
}

func buildProfileResponse(profile *models.Profile) (*dto.ProfileResponse, error) {
	badges, err := profile.GetBadges()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.ProfileResponse{
		ID:        profile.ID,
		UserID:    profile.UserID,
		AvatarURL: profile.AvatarURL,
		Bio:       profile.Bio,
		Location:  profile.Location,
		Specialty: profile.Specialty,
		Badges:    badges,
		Credits:   profile.Credits,
		Referred:  profile.ReferredBy != nil,
		CreatedAt: profile.CreatedAt,
	}, nil
}
