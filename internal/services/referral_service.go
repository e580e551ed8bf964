package services

import (
	"crypto/rand"
	"errors"
	"math/big"

	"salonhub_backend/internal/logger"
	"salonhub_backend/internal/repositories"
	"salonhub_backend/pkg/apperrors"

	"gorm.io/gorm"
)

var (
	ErrAlreadyReferred = errors.New("profile already has a referrer")
	ErrSelfReferral    = errors.New("cannot use your own referral code")
)

const referralCodeCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

type ReferralService interface {
	// EnsureReferralCode возвращает код профиля, при необходимости генерируя
	// и сохраняя новый. Идемпотентен: уже назначенный код не меняется.
	EnsureReferralCode(db *gorm.DB, profileID string) (string, error)

	// EnsureReferralCodeForUser - то же самое по id пользователя
	EnsureReferralCodeForUser(db *gorm.DB, userID string) (string, error)

	// ProcessReferral связывает новый профиль с владельцем кода. Вызывается
	// один раз при регистрации; любая ошибка логируется и не прерывает
	// регистрацию - возвращается false.
	ProcessReferral(db *gorm.DB, code, newProfileID string) bool
}

type referralService struct {
	profileRepo repositories.ProfileRepository
	codePrefix  string
	codeLength  int
	maxAttempts int
}

func NewReferralService(
	profileRepo repositories.ProfileRepository,
	codePrefix string,
	codeLength int,
	maxAttempts int,
) ReferralService {
	return &referralService{
		profileRepo: profileRepo,
		codePrefix:  codePrefix,
		codeLength:  codeLength,
		maxAttempts: maxAttempts,
	}
}

func (s *referralService) EnsureReferralCode(db *gorm.DB, profileID string) (string, error) {
	profile, err := s.profileRepo.FindByID(db, profileID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return "", apperrors.ErrNotFound(err, "referral")
		}
		return "", apperrors.ErrPersistence(err, "referral")
	}
	if profile.ReferralCode != nil {
		return *profile.ReferralCode, nil
	}

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		candidate, err := s.generateCandidate()
		if err != nil {
			return "", apperrors.InternalError(err)
		}

		// Предварительная проверка занятости; уникальный индекс страхует
		// гонку между проверкой и записью.
		if _, err := s.profileRepo.FindByReferralCode(db, candidate); err == nil {
			continue
		} else if !errors.Is(err, repositories.ErrProfileNotFound) {
			return "", apperrors.ErrPersistence(err, "referral")
		}

		err = s.profileRepo.AssignReferralCode(db, profileID, candidate)
		if err == nil {
			return candidate, nil
		}
		if errors.Is(err, repositories.ErrReferralCodeTaken) {
			continue
		}
		if errors.Is(err, repositories.ErrProfileNotFound) {
			// Условная запись не прошла: параллельный вызов успел назначить
			// код этому профилю. Перечитываем и отдаем его.
			refreshed, rerr := s.profileRepo.FindByID(db, profileID)
			if rerr == nil && refreshed.ReferralCode != nil {
				return *refreshed.ReferralCode, nil
			}
			return "", apperrors.ErrConditionFailed("referral", "Referral code assignment lost a race")
		}
		return "", apperrors.ErrPersistence(err, "referral")
	}

	return "", apperrors.ErrCodeGenerationExhausted
}

func (s *referralService) EnsureReferralCodeForUser(db *gorm.DB, userID string) (string, error) {
	profile, err := s.profileRepo.FindByUserID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return "", apperrors.ErrNotFound(err, "referral")
		}
		return "", apperrors.ErrPersistence(err, "referral")
	}
	return s.EnsureReferralCode(db, profile.ID)
}

func (s *referralService) ProcessReferral(db *gorm.DB, code, newProfileID string) bool {
	if code == "" || newProfileID == "" {
		return false
	}

	// Поиск владельца кода, проверка, что профиль еще не приглашен, и
	// привязка выполняются одной транзакцией с блокировкой строки владельца:
	// конкурентные регистрации по одному коду не гонятся между собой.
	err := db.Transaction(func(tx *gorm.DB) error {
		return s.linkReferral(tx, code, newProfileID)
	})
	if err != nil {
		logger.Warn("referral link not established",
			"code", code,
			"profile_id", newProfileID,
			"error", err.Error(),
		)
		return false
	}
	return true
}

func (s *referralService) linkReferral(tx *gorm.DB, code, newProfileID string) error {
	referrer, err := s.profileRepo.FindByReferralCodeForUpdate(tx, code)
	if err != nil {
		return err
	}
	if referrer.ID == newProfileID {
		return ErrSelfReferral
	}

	newProfile, err := s.profileRepo.FindByID(tx, newProfileID)
	if err != nil {
		return err
	}
	if newProfile.ReferredBy != nil {
		return ErrAlreadyReferred
	}

	// Начисление бонуса здесь не выполняется: учет наград
	// централизован в RewardService.
	return s.profileRepo.LinkReferrer(tx, newProfileID, referrer.ID)
}

func (s *referralService) generateCandidate() (string, error) {
	suffix := make([]byte, s.codeLength)
	max := big.NewInt(int64(len(referralCodeCharset)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		suffix[i] = referralCodeCharset[n.Int64()]
	}
	return s.codePrefix + string(suffix), nil
}
