package handlers

import (
	"net/http"

	"salonhub_backend/internal/middleware"
	"salonhub_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type RewardHandler struct {
	*BaseHandler
	rewardService       services.RewardService
	notificationService services.NotificationService
}

func NewRewardHandler(
	base *BaseHandler,
	rewardService services.RewardService,
	notificationService services.NotificationService,
) *RewardHandler {
	return &RewardHandler{
		BaseHandler:         base,
		rewardService:       rewardService,
		notificationService: notificationService,
	}
}

func (h *RewardHandler) RegisterRoutes(r *gin.RouterGroup) {
	rewards := r.Group("/rewards")
	rewards.Use(middleware.AuthMiddleware())
	{
		rewards.POST("/reconcile", h.Reconcile)
		rewards.POST("/dismiss", h.Dismiss)
	}
}

// Reconcile сверяет профиль с правилами наград. Клиент дергает эндпоинт
// при загрузке профиля; повторные вызовы безопасны и ничего не задваивают.
func (h *RewardHandler) Reconcile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	summary := h.rewardService.ReconcileRewardsForUser(h.GetDB(c), userID)
	c.JSON(http.StatusOK, summary)
}

// Dismiss гасит всплывающее сообщение о наградах
func (h *RewardHandler) Dismiss(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.notificationService.DismissRewardToasts(h.GetDB(c), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reward notifications dismissed"})
}
