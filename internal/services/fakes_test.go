package services

import (
	"fmt"
	"sync"
	"time"

	"salonhub_backend/internal/models"
	"salonhub_backend/internal/repositories"
	"salonhub_backend/internal/services/dto"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// In-memory репозитории для unit-тестов сервисов. Условные записи
// повторяют SQL-семантику реальных реализаций (WHERE + RowsAffected),
// мьютекс делает их атомарными для конкурентных сценариев.

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*models.Profile
	seq      int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*models.Profile)}
}

func (f *fakeProfileRepo) add(p *models.Profile) *models.Profile {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == "" {
		f.seq++
		p.ID = fmt.Sprintf("profile-%d", f.seq)
	}
	f.profiles[p.ID] = p
	return p
}

func (f *fakeProfileRepo) Create(db *gorm.DB, profile *models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.profiles {
		if p.UserID == profile.UserID {
			return repositories.ErrProfileAlreadyExists
		}
	}
	if profile.ID == "" {
		f.seq++
		profile.ID = fmt.Sprintf("profile-%d", f.seq)
	}
	f.profiles[profile.ID] = profile
	return nil
}

func (f *fakeProfileRepo) FindByID(db *gorm.DB, id string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[id]
	if !ok {
		return nil, repositories.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfileRepo) FindByUserID(db *gorm.DB, userID string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.profiles {
		if p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repositories.ErrProfileNotFound
}

func (f *fakeProfileRepo) Update(db *gorm.DB, profile *models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.profiles[profile.ID]; !ok {
		return repositories.ErrProfileNotFound
	}
	cp := *profile
	f.profiles[profile.ID] = &cp
	return nil
}

func (f *fakeProfileRepo) FindByReferralCode(db *gorm.DB, code string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.findByCodeLocked(code)
}

func (f *fakeProfileRepo) FindByReferralCodeForUpdate(db *gorm.DB, code string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.findByCodeLocked(code)
}

func (f *fakeProfileRepo) findByCodeLocked(code string) (*models.Profile, error) {
	for _, p := range f.profiles {
		if p.ReferralCode != nil && *p.ReferralCode == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repositories.ErrProfileNotFound
}

func (f *fakeProfileRepo) AssignReferralCode(db *gorm.DB, profileID, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.profiles {
		if p.ReferralCode != nil && *p.ReferralCode == code {
			return repositories.ErrReferralCodeTaken
		}
	}
	p, ok := f.profiles[profileID]
	if !ok || p.ReferralCode != nil {
		return repositories.ErrProfileNotFound
	}
	p.ReferralCode = &code
	return nil
}

func (f *fakeProfileRepo) LinkReferrer(db *gorm.DB, profileID, referrerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[profileID]
	if !ok || p.ReferredBy != nil {
		return repositories.ErrProfileNotFound
	}
	p.ReferredBy = &referrerID
	return nil
}

func (f *fakeProfileRepo) ClaimReferralReward(db *gorm.DB, profileID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[profileID]
	if !ok || p.ReferredBy == nil || p.ReferralRewardClaimed {
		return false, nil
	}
	p.ReferralRewardClaimed = true
	return true, nil
}

func (f *fakeProfileRepo) ApplyRewards(db *gorm.DB, profileID string, badges datatypes.JSON, credits int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[profileID]
	if !ok {
		return repositories.ErrProfileNotFound
	}
	if badges != nil {
		p.Badges = badges
	}
	p.Credits += credits
	return nil
}

// collidingProfileRepo считает любой кандидат кода занятым. Нужен для
// проверки исчерпания бюджета попыток генерации.
type collidingProfileRepo struct {
	fakeProfileRepo
	attempts int
}

func (f *collidingProfileRepo) FindByReferralCode(db *gorm.DB, code string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts++
	return &models.Profile{}, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
	seq   int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) add(u *models.User) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == "" {
		f.seq++
		u.ID = fmt.Sprintf("user-%d", f.seq)
	}
	f.users[u.ID] = u
	return u
}

func (f *fakeUserRepo) Create(db *gorm.DB, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return repositories.ErrUserAlreadyExists
		}
	}
	if user.ID == "" {
		f.seq++
		user.ID = fmt.Sprintf("user-%d", f.seq)
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByID(db *gorm.DB, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) UpdateStatus(db *gorm.DB, userID string, status models.UserStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.Status = status
	return nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
	seq      int
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (f *fakeBookingRepo) add(b *models.Booking) *models.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b.ID == "" {
		f.seq++
		b.ID = fmt.Sprintf("booking-%d", f.seq)
	}
	f.bookings[b.ID] = b
	return b
}

func (f *fakeBookingRepo) Create(db *gorm.DB, booking *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	booking.ID = fmt.Sprintf("booking-%d", f.seq)
	booking.CreatedAt = time.Now()
	f.bookings[booking.ID] = booking
	return nil
}

func (f *fakeBookingRepo) FindByID(db *gorm.DB, id string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, repositories.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingRepo) ListForUser(db *gorm.DB, userID string, limit, offset int) ([]models.Booking, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []models.Booking
	for _, b := range f.bookings {
		if b.SenderID == userID || b.RecipientID == userID {
			all = append(all, *b)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (f *fakeBookingRepo) UpdateStatusFrom(db *gorm.DB, id string, from, to models.BookingStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	return true, nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications map[string]*models.Notification
	seq           int
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: make(map[string]*models.Notification)}
}

func (f *fakeNotificationRepo) Create(db *gorm.DB, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	n.ID = fmt.Sprintf("notification-%d", f.seq)
	n.CreatedAt = time.Now()
	f.notifications[n.ID] = n
	return nil
}

func (f *fakeNotificationRepo) FindByID(db *gorm.DB, id string) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notifications[id]
	if !ok {
		return nil, repositories.ErrNotificationNotFound
	}
	cp := *n
	return &cp, nil
}

func (f *fakeNotificationRepo) FindForUser(db *gorm.DB, userID string, limit, offset int) ([]models.Notification, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []models.Notification
	for _, n := range f.notifications {
		if n.UserID == userID {
			all = append(all, *n)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (f *fakeNotificationRepo) CountUnread(db *gorm.DB, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, n := range f.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkAsRead(db *gorm.DB, userID, notificationID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notifications[notificationID]
	if !ok || n.UserID != userID {
		return repositories.ErrNotificationNotFound
	}
	now := time.Now()
	n.IsRead = true
	n.ReadAt = &now
	return nil
}

func (f *fakeNotificationRepo) MarkAllAsRead(db *gorm.DB, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for _, n := range f.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			n.ReadAt = &now
		}
	}
	return nil
}

func (f *fakeNotificationRepo) MarkTypeAsRead(db *gorm.DB, userID, notificationType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for _, n := range f.notifications {
		if n.UserID == userID && n.Type == notificationType && !n.IsRead {
			n.IsRead = true
			n.ReadAt = &now
		}
	}
	return nil
}

func (f *fakeNotificationRepo) DeleteReadOlderThan(db *gorm.DB, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for id, n := range f.notifications {
		if n.IsRead && n.CreatedAt.Before(cutoff) {
			delete(f.notifications, id)
			deleted++
		}
	}
	return deleted, nil
}

// recordingNotificationService фиксирует вызовы фабричных методов,
// остальное не используется в unit-тестах.
type recordingNotificationService struct {
	mu            sync.Mutex
	rewardCalls   []string
	bookingCalls  []string
	statusUpdates []models.BookingStatus
}

func (r *recordingNotificationService) GetUserNotifications(db *gorm.DB, userID string, page, pageSize int) (*dto.NotificationListResponse, error) {
	return nil, nil
}

func (r *recordingNotificationService) MarkAsRead(db *gorm.DB, userID, notificationID string) error {
	return nil
}

func (r *recordingNotificationService) MarkAllAsRead(db *gorm.DB, userID string) error { return nil }

func (r *recordingNotificationService) GetUnreadCount(db *gorm.DB, userID string) (int64, error) {
	return 0, nil
}

func (r *recordingNotificationService) NotifyReward(db *gorm.DB, userID, message string, credits, badgeCount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rewardCalls = append(r.rewardCalls, message)
	return nil
}

func (r *recordingNotificationService) NotifyBookingRequested(db *gorm.DB, recipientID, bookingID, senderName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookingCalls = append(r.bookingCalls, bookingID)
	return nil
}

func (r *recordingNotificationService) NotifyBookingStatus(db *gorm.DB, userID, bookingID string, status models.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statusUpdates = append(r.statusUpdates, status)
	return nil
}

func (r *recordingNotificationService) DismissRewardToasts(db *gorm.DB, userID string) error {
	return nil
}
