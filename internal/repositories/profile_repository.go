package repositories

import (
	"errors"

	"salonhub_backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrProfileNotFound      = errors.New("profile not found")
	ErrProfileAlreadyExists = errors.New("profile already exists for this user")
	ErrReferralCodeTaken    = errors.New("referral code already taken")
)

type ProfileRepository interface {
	Create(db *gorm.DB, profile *models.Profile) error
	FindByID(db *gorm.DB, id string) (*models.Profile, error)
	FindByUserID(db *gorm.DB, userID string) (*models.Profile, error)
	Update(db *gorm.DB, profile *models.Profile) error

	// Referral operations
	FindByReferralCode(db *gorm.DB, code string) (*models.Profile, error)
	FindByReferralCodeForUpdate(db *gorm.DB, code string) (*models.Profile, error)
	AssignReferralCode(db *gorm.DB, profileID, code string) error
	LinkReferrer(db *gorm.DB, profileID, referrerID string) error

	// Reward operations
	ClaimReferralReward(db *gorm.DB, profileID string) (bool, error)
	ApplyRewards(db *gorm.DB, profileID string, badges datatypes.JSON, credits int) error
}

type ProfileRepositoryImpl struct{}

func NewProfileRepository() ProfileRepository {
	return &ProfileRepositoryImpl{}
}

func (r *ProfileRepositoryImpl) Create(db *gorm.DB, profile *models.Profile) error {
	var existing models.Profile
	if err := db.Where("user_id = ?", profile.UserID).First(&existing).Error; err == nil {
		return ErrProfileAlreadyExists
	}
	return db.Create(profile).Error
}

func (r *ProfileRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Profile, error) {
	var profile models.Profile
	err := db.First(&profile, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) FindByUserID(db *gorm.DB, userID string) (*models.Profile, error) {
	var profile models.Profile
	err := db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) Update(db *gorm.DB, profile *models.Profile) error {
	return db.Save(profile).Error
}

// ---------------- Referral operations ----------------

func (r *ProfileRepositoryImpl) FindByReferralCode(db *gorm.DB, code string) (*models.Profile, error) {
	var profile models.Profile
	err := db.Where("referral_code = ?", code).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// FindByReferralCodeForUpdate блокирует строку владельца кода до конца
// транзакции (SELECT ... FOR UPDATE). Вызывать только внутри db.Transaction.
func (r *ProfileRepositoryImpl) FindByReferralCodeForUpdate(db *gorm.DB, code string) (*models.Profile, error) {
	var profile models.Profile
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("referral_code = ?", code).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// AssignReferralCode записывает код только если он еще не назначен.
// Уникальный индекс по referral_code отсекает гонку двух одинаковых
// кандидатов между проверкой и записью.
func (r *ProfileRepositoryImpl) AssignReferralCode(db *gorm.DB, profileID, code string) error {
	result := db.Model(&models.Profile{}).
		Where("id = ? AND referral_code IS NULL", profileID).
		Update("referral_code", code)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrReferralCodeTaken
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepositoryImpl) LinkReferrer(db *gorm.DB, profileID, referrerID string) error {
	result := db.Model(&models.Profile{}).
		Where("id = ? AND referred_by IS NULL", profileID).
		Update("referred_by", referrerID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// ---------------- Reward operations ----------------

// ClaimReferralReward атомарно переводит referral_reward_claimed из false в
// true. Возвращает true только тому вызову, который реально перевернул флаг:
// конкурирующая сверка наград бонус не задвоит.
func (r *ProfileRepositoryImpl) ClaimReferralReward(db *gorm.DB, profileID string) (bool, error) {
	result := db.Model(&models.Profile{}).
		Where("id = ? AND referred_by IS NOT NULL AND referral_reward_claimed = ?", profileID, false).
		Update("referral_reward_claimed", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ApplyRewards - одна комбинированная запись: новый список наград целиком
// плюс атомарный инкремент кредитов (credits = credits + ?).
func (r *ProfileRepositoryImpl) ApplyRewards(db *gorm.DB, profileID string, badges datatypes.JSON, credits int) error {
	updates := map[string]interface{}{}
	if badges != nil {
		updates["badges"] = badges
	}
	if credits > 0 {
		updates["credits"] = gorm.Expr("credits + ?", credits)
	}
	if len(updates) == 0 {
		return nil
	}

	result := db.Model(&models.Profile{}).
		Where("id = ?", profileID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}
