package handlers

import (
	"net/http"

	"salonhub_backend/internal/middleware"
	"salonhub_backend/internal/services"
	"salonhub_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ReferralHandler struct {
	*BaseHandler
	referralService services.ReferralService
}

func NewReferralHandler(base *BaseHandler, referralService services.ReferralService) *ReferralHandler {
	return &ReferralHandler{
		BaseHandler:     base,
		referralService: referralService,
	}
}

func (h *ReferralHandler) RegisterRoutes(r *gin.RouterGroup) {
	referrals := r.Group("/referrals")
	referrals.Use(middleware.AuthMiddleware())
	{
		referrals.GET("/code", h.GetReferralCode)
		referrals.POST("/code", h.GetReferralCode)
	}
}

// GetReferralCode возвращает реферальный код текущего пользователя,
// при первом обращении генерируя его.
func (h *ReferralHandler) GetReferralCode(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	code, err := h.referralService.EnsureReferralCodeForUser(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ReferralCodeResponse{Code: code})
}
