package services

import (
	"fmt"

	"salonhub_backend/internal/logger"
	"salonhub_backend/internal/models"
	"salonhub_backend/internal/repositories"
	"salonhub_backend/internal/services/dto"

	"gorm.io/gorm"
)

// Каталог наград. Имя награды - ключ идемпотентности: повторная выдача
// отсекается проверкой членства в списке профиля.
const (
	BadgeProfilePro       = "Profile Pro"
	BadgePolishedPresence = "Polished Presence"
	BadgeInvited          = "Invited"

	CreditsProfilePro       = 3
	CreditsPolishedPresence = 5
	CreditsReferralBonus    = 5
)

var badgeCatalog = map[string]models.Badge{
	BadgeProfilePro: {
		Name:        BadgeProfilePro,
		Description: "Added a profile photo",
		Icon:        "📸",
	},
	BadgePolishedPresence: {
		Name:        BadgePolishedPresence,
		Description: "Filled in bio, location and specialty",
		Icon:        "✨",
	},
	BadgeInvited: {
		Name:        BadgeInvited,
		Description: "Joined through a referral",
		Icon:        "🤝",
	},
}

type RewardService interface {
	// ReconcileRewards сверяет профиль с правилами наград и выдает то, что
	// еще не выдано. Безопасен при любом числе вызовов: условия считаются
	// от текущего состояния, бонус за реферал защищен условной записью,
	// кредиты начисляются атомарным инкрементом. Ошибки хранилища глотаются:
	// сверка наград никогда не блокирует основное действие пользователя.
	ReconcileRewards(db *gorm.DB, profileID string) *dto.RewardSummary

	// ReconcileRewardsForUser - то же самое по id пользователя
	ReconcileRewardsForUser(db *gorm.DB, userID string) *dto.RewardSummary
}

type rewardService struct {
	profileRepo     repositories.ProfileRepository
	notificationSvc NotificationService
}

func NewRewardService(
	profileRepo repositories.ProfileRepository,
	notificationSvc NotificationService,
) RewardService {
	return &rewardService{
		profileRepo:     profileRepo,
		notificationSvc: notificationSvc,
	}
}

func (s *rewardService) ReconcileRewardsForUser(db *gorm.DB, userID string) *dto.RewardSummary {
	profile, err := s.profileRepo.FindByUserID(db, userID)
	if err != nil {
		logger.Warn("reward reconciliation skipped: profile lookup failed",
			"user_id", userID, "error", err.Error())
		return &dto.RewardSummary{}
	}
	return s.ReconcileRewards(db, profile.ID)
}

func (s *rewardService) ReconcileRewards(db *gorm.DB, profileID string) *dto.RewardSummary {
	empty := &dto.RewardSummary{}

	profile, err := s.profileRepo.FindByID(db, profileID)
	if err != nil {
		logger.Warn("reward reconciliation skipped: profile load failed",
			"profile_id", profileID, "error", err.Error())
		return empty
	}

	var badgesToAdd []models.Badge
	creditsToAdd := 0

	// 1. Аватар загружен
	if profile.AvatarURL != "" && !profile.HasBadge(BadgeProfilePro) {
		badgesToAdd = append(badgesToAdd, badgeCatalog[BadgeProfilePro])
		creditsToAdd += CreditsProfilePro
	}

	// 2. Bio, location и specialty заполнены
	if profile.HasCompleteDetails() && !profile.HasBadge(BadgePolishedPresence) {
		badgesToAdd = append(badgesToAdd, badgeCatalog[BadgePolishedPresence])
		creditsToAdd += CreditsPolishedPresence
	}

	// 3. Бонус за регистрацию по приглашению. Флаг claimed переворачивается
	// отдельной условной записью ДО общей: если общая запись упадет,
	// бонус не будет выдан повторно при следующей сверке.
	if profile.ReferredBy != nil && !profile.ReferralRewardClaimed {
		claimed, err := s.profileRepo.ClaimReferralReward(db, profileID)
		if err != nil {
			logger.Warn("referral reward claim failed",
				"profile_id", profileID, "error", err.Error())
		} else if claimed {
			creditsToAdd += CreditsReferralBonus
			if !profile.HasBadge(BadgeInvited) {
				badgesToAdd = append(badgesToAdd, badgeCatalog[BadgeInvited])
			}
		}
	}

	if len(badgesToAdd) == 0 && creditsToAdd == 0 {
		return empty
	}

	var newBadgesJSON = profile.Badges
	if len(badgesToAdd) > 0 {
		existing, err := profile.GetBadges()
		if err != nil {
			logger.Warn("reward reconciliation skipped: malformed badge list",
				"profile_id", profileID, "error", err.Error())
			return empty
		}
		combined := append(existing, badgesToAdd...)
		if err := profile.SetBadges(combined); err != nil {
			logger.Warn("reward reconciliation skipped: badge encoding failed",
				"profile_id", profileID, "error", err.Error())
			return empty
		}
		newBadgesJSON = profile.Badges
	}

	if err := s.profileRepo.ApplyRewards(db, profileID, newBadgesJSON, creditsToAdd); err != nil {
		logger.Warn("reward write failed, nothing granted this cycle",
			"profile_id", profileID, "error", err.Error())
		return empty
	}

	message := composeRewardMessage(creditsToAdd, len(badgesToAdd))

	if err := s.notificationSvc.NotifyReward(db, profile.UserID, message, creditsToAdd, len(badgesToAdd)); err != nil {
		logger.Warn("reward notification not delivered",
			"profile_id", profileID, "error", err.Error())
	}

	return &dto.RewardSummary{
		BadgesGranted:  badgesToAdd,
		CreditsGranted: creditsToAdd,
		Message:        message,
		Visible:        true,
	}
}

func composeRewardMessage(credits, badgeCount int) string {
	switch {
	case credits > 0 && badgeCount > 0:
		return fmt.Sprintf("You earned %d credits and %s!", credits, pluralBadges(badgeCount))
	case credits > 0:
		return fmt.Sprintf("You earned %d credits!", credits)
	case badgeCount > 0:
		return fmt.Sprintf("You earned %s!", pluralBadges(badgeCount))
	default:
		return ""
	}
}

func pluralBadges(n int) string {
	if n == 1 {
		return "1 badge"
	}
	return fmt.Sprintf("%d badges", n)
}
