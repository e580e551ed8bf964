package services

import (
	"sync"
	"testing"

	"salonhub_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRewardFixture() (*fakeProfileRepo, *recordingNotificationService, RewardService) {
	profileRepo := newFakeProfileRepo()
	notifications := &recordingNotificationService{}
	svc := NewRewardService(profileRepo, notifications)
	return profileRepo, notifications, svc
}

func TestRewardService_Reconcile(t *testing.T) {
	t.Parallel()

	t.Run("empty profile earns nothing", func(t *testing.T) {
		profileRepo, notifications, svc := newRewardFixture()
		p := profileRepo.add(&models.Profile{UserID: "u1"})

		summary := svc.ReconcileRewards(nil, p.ID)

		assert.False(t, summary.Visible)
		assert.Empty(t, summary.BadgesGranted)
		assert.Zero(t, summary.CreditsGranted)
		assert.Empty(t, summary.Message)
		assert.Empty(t, notifications.rewardCalls)
	})

	t.Run("avatar grants Profile Pro and 3 credits", func(t *testing.T) {
		profileRepo, _, svc := newRewardFixture()
		p := profileRepo.add(&models.Profile{
			UserID:    "u1",
			AvatarURL: "https://cdn.example.com/a.png",
			Credits:   10,
		})

		summary := svc.ReconcileRewards(nil, p.ID)

		require.True(t, summary.Visible)
		require.Len(t, summary.BadgesGranted, 1)
		assert.Equal(t, BadgeProfilePro, summary.BadgesGranted[0].Name)
		assert.Equal(t, 3, summary.CreditsGranted)
		assert.Equal(t, "You earned 3 credits and 1 badge!", summary.Message)

		stored, err := profileRepo.FindByID(nil, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 13, stored.Credits)
		assert.True(t, stored.HasBadge(BadgeProfilePro))
	})

	t.Run("avatar and complete details grant both badges at once", func(t *testing.T) {
		profileRepo, notifications, svc := newRewardFixture()
		p := profileRepo.add(&models.Profile{
			UserID:    "u1",
			AvatarURL: "https://cdn.example.com/a.png",
			Bio:       "Colorist",
			Location:  "Almaty",
			Specialty: "balayage",
		})

		summary := svc.ReconcileRewards(nil, p.ID)

		require.True(t, summary.Visible)
		assert.Len(t, summary.BadgesGranted, 2)
		assert.Equal(t, 8, summary.CreditsGranted)
		assert.Equal(t, "You earned 8 credits and 2 badges!", summary.Message)
		assert.Equal(t, []string{"You earned 8 credits and 2 badges!"}, notifications.rewardCalls)
	})

	t.Run("second reconcile is a no-op", func(t *testing.T) {
		profileRepo, notifications, svc := newRewardFixture()
		p := profileRepo.add(&models.Profile{
			UserID:    "u1",
			AvatarURL: "https://cdn.example.com/a.png",
			Bio:       "Colorist",
			Location:  "Almaty",
			Specialty: "balayage",
		})

		first := svc.ReconcileRewards(nil, p.ID)
		second := svc.ReconcileRewards(nil, p.ID)

		assert.True(t, first.Visible)
		assert.False(t, second.Visible)
		assert.Zero(t, second.CreditsGranted)

		stored, err := profileRepo.FindByID(nil, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 8, stored.Credits)

		badges, err := stored.GetBadges()
		require.NoError(t, err)
		assert.Len(t, badges, 2)

		// Уведомление только за первый цикл
		assert.Len(t, notifications.rewardCalls, 1)
	})

	t.Run("referral bonus is granted once", func(t *testing.T) {
		profileRepo, _, svc := newRewardFixture()
		referrer := profileRepo.add(&models.Profile{UserID: "stylist"})
		p := profileRepo.add(&models.Profile{
			UserID:     "invited",
			ReferredBy: &referrer.ID,
		})

		summary := svc.ReconcileRewards(nil, p.ID)

		require.True(t, summary.Visible)
		require.Len(t, summary.BadgesGranted, 1)
		assert.Equal(t, BadgeInvited, summary.BadgesGranted[0].Name)
		assert.Equal(t, CreditsReferralBonus, summary.CreditsGranted)

		again := svc.ReconcileRewards(nil, p.ID)
		assert.False(t, again.Visible)

		stored, err := profileRepo.FindByID(nil, p.ID)
		require.NoError(t, err)
		assert.Equal(t, CreditsReferralBonus, stored.Credits)
		assert.True(t, stored.ReferralRewardClaimed)
	})

	t.Run("unknown profile yields empty summary", func(t *testing.T) {
		_, _, svc := newRewardFixture()

		summary := svc.ReconcileRewards(nil, "missing")

		assert.False(t, summary.Visible)
		assert.Zero(t, summary.CreditsGranted)
	})
}

// Конкурентные сверки не должны задваивать бонус за приглашение:
// флаг claimed переворачивается условной записью ровно один раз.
func TestRewardService_ConcurrentReferralClaim(t *testing.T) {
	t.Parallel()

	profileRepo, _, svc := newRewardFixture()
	referrer := profileRepo.add(&models.Profile{UserID: "stylist"})
	p := profileRepo.add(&models.Profile{
		UserID:     "invited",
		ReferredBy: &referrer.ID,
	})

	const workers = 16
	var wg sync.WaitGroup
	granted := make(chan int, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			summary := svc.ReconcileRewards(nil, p.ID)
			granted <- summary.CreditsGranted
		}()
	}
	wg.Wait()
	close(granted)

	totalGranted := 0
	winners := 0
	for credits := range granted {
		totalGranted += credits
		if credits > 0 {
			winners++
		}
	}

	assert.Equal(t, 1, winners, "exactly one reconcile must win the claim")
	assert.Equal(t, CreditsReferralBonus, totalGranted)

	stored, err := profileRepo.FindByID(nil, p.ID)
	require.NoError(t, err)
	assert.Equal(t, CreditsReferralBonus, stored.Credits)
}

func TestComposeRewardMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "You earned 3 credits and 1 badge!", composeRewardMessage(3, 1))
	assert.Equal(t, "You earned 8 credits and 2 badges!", composeRewardMessage(8, 2))
	assert.Equal(t, "You earned 5 credits!", composeRewardMessage(5, 0))
	assert.Equal(t, "", composeRewardMessage(0, 0))
}

func TestRewardService_ReconcileForUser(t *testing.T) {
	t.Parallel()

	profileRepo, _, svc := newRewardFixture()
	p := profileRepo.add(&models.Profile{
		UserID:    "u1",
		AvatarURL: "https://cdn.example.com/a.png",
	})

	summary := svc.ReconcileRewardsForUser(nil, "u1")
	require.True(t, summary.Visible)
	assert.Equal(t, CreditsProfilePro, summary.CreditsGranted)

	stored, err := profileRepo.FindByID(nil, p.ID)
	require.NoError(t, err)
	assert.Equal(t, CreditsProfilePro, stored.Credits)
}
