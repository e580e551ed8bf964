package services

import (
	"strings"
	"sync"
	"testing"

	"salonhub_backend/internal/models"
	"salonhub_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReferralService(repo *fakeProfileRepo) ReferralService {
	return NewReferralService(repo, "salon-", 6, 10)
}

func TestReferralService_EnsureReferralCode(t *testing.T) {
	t.Parallel()

	t.Run("generates prefixed lowercase code", func(t *testing.T) {
		profileRepo := newFakeProfileRepo()
		svc := newReferralService(profileRepo)
		p := profileRepo.add(&models.Profile{UserID: "u1"})

		code, err := svc.EnsureReferralCode(nil, p.ID)
		require.NoError(t, err)

		require.True(t, strings.HasPrefix(code, "salon-"))
		suffix := strings.TrimPrefix(code, "salon-")
		assert.Len(t, suffix, 6)
		for _, r := range suffix {
			assert.Contains(t, referralCodeCharset, string(r))
		}

		stored, err := profileRepo.FindByID(nil, p.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.ReferralCode)
		assert.Equal(t, code, *stored.ReferralCode)
	})

	t.Run("idempotent: second call returns the same code", func(t *testing.T) {
		profileRepo := newFakeProfileRepo()
		svc := newReferralService(profileRepo)
		p := profileRepo.add(&models.Profile{UserID: "u1"})

		first, err := svc.EnsureReferralCode(nil, p.ID)
		require.NoError(t, err)
		second, err := svc.EnsureReferralCode(nil, p.ID)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("unknown profile", func(t *testing.T) {
		profileRepo := newFakeProfileRepo()
		svc := newReferralService(profileRepo)

		_, err := svc.EnsureReferralCode(nil, "missing")
		require.Error(t, err)

		var appErr *apperrors.AppError
		require.True(t, apperrors.As(err, &appErr))
		assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
	})

	t.Run("lookup by user id", func(t *testing.T) {
		profileRepo := newFakeProfileRepo()
		svc := newReferralService(profileRepo)
		profileRepo.add(&models.Profile{UserID: "u1"})

		code, err := svc.EnsureReferralCodeForUser(nil, "u1")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(code, "salon-"))
	})

	// Каждый кандидат считается занятым: после исчерпания бюджета попыток
	// сервис сдается с типизированной ошибкой, а не крутится вечно.
	t.Run("gives up after the attempt budget", func(t *testing.T) {
		repo := &collidingProfileRepo{}
		repo.profiles = make(map[string]*models.Profile)
		svc := NewReferralService(repo, "salon-", 6, 10)
		p := repo.add(&models.Profile{UserID: "u1"})

		_, err := svc.EnsureReferralCode(nil, p.ID)
		require.Error(t, err)

		var appErr *apperrors.AppError
		require.True(t, apperrors.As(err, &appErr))
		assert.Equal(t, apperrors.CodeGenerationExhausted, appErr.Code)
		assert.Equal(t, 10, repo.attempts)
	})
}

func TestReferralService_ConcurrentEnsure(t *testing.T) {
	t.Parallel()

	profileRepo := newFakeProfileRepo()
	svc := newReferralService(profileRepo)
	p := profileRepo.add(&models.Profile{UserID: "u1"})

	const workers = 8
	var wg sync.WaitGroup
	codes := make(chan string, workers)
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			code, err := svc.EnsureReferralCode(nil, p.ID)
			if err != nil {
				errs <- err
				return
			}
			codes <- code
		}()
	}
	wg.Wait()
	close(codes)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	// Все конкуренты должны сойтись на одном и том же коде
	unique := map[string]struct{}{}
	for code := range codes {
		unique[code] = struct{}{}
	}
	assert.Len(t, unique, 1)
}

func TestReferralService_LinkReferral(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) (*fakeProfileRepo, *referralService, *models.Profile, *models.Profile) {
		profileRepo := newFakeProfileRepo()
		svc := newReferralService(profileRepo).(*referralService)

		code := "salon-owner1"
		owner := profileRepo.add(&models.Profile{UserID: "stylist", ReferralCode: &code})
		invited := profileRepo.add(&models.Profile{UserID: "invited"})
		return profileRepo, svc, owner, invited
	}

	t.Run("links invited profile to the code owner", func(t *testing.T) {
		profileRepo, svc, owner, invited := setup(t)

		err := svc.linkReferral(nil, "salon-owner1", invited.ID)
		require.NoError(t, err)

		stored, err := profileRepo.FindByID(nil, invited.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.ReferredBy)
		assert.Equal(t, owner.ID, *stored.ReferredBy)

		// Бонус начисляет RewardService, не сам линк
		assert.False(t, stored.ReferralRewardClaimed)
		assert.Zero(t, stored.Credits)
	})

	t.Run("unknown code", func(t *testing.T) {
		_, svc, _, invited := setup(t)
		err := svc.linkReferral(nil, "salon-nope99", invited.ID)
		assert.Error(t, err)
	})

	t.Run("own code is rejected", func(t *testing.T) {
		_, svc, owner, _ := setup(t)
		err := svc.linkReferral(nil, "salon-owner1", owner.ID)
		assert.ErrorIs(t, err, ErrSelfReferral)
	})

	t.Run("already referred profile keeps its first referrer", func(t *testing.T) {
		profileRepo, svc, owner, invited := setup(t)
		otherCode := "salon-other2"
		profileRepo.add(&models.Profile{UserID: "other", ReferralCode: &otherCode})

		require.NoError(t, svc.linkReferral(nil, "salon-owner1", invited.ID))
		err := svc.linkReferral(nil, "salon-other2", invited.ID)
		assert.ErrorIs(t, err, ErrAlreadyReferred)

		stored, err := profileRepo.FindByID(nil, invited.ID)
		require.NoError(t, err)
		assert.Equal(t, owner.ID, *stored.ReferredBy)
	})
}
