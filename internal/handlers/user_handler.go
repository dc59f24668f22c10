package handlers

import (
	"net/http"

	"parimarket/internal/models"
	"parimarket/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserHandler struct {
	db             *gorm.DB
	stats          *services.StatsService
	initialBalance int64
}

func NewUserHandler(db *gorm.DB, initialBalance int64) *UserHandler {
	return &UserHandler{
		db:             db,
		stats:          services.NewStatsService(),
		initialBalance: initialBalance,
	}
}

// CreateUser registers a user with the configured starting balance
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req struct {
		DisplayName string  `json:"display_name" binding:"required"`
		AvatarURL   *string `json:"avatar_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := models.User{
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
		Balance:     h.initialBalance,
	}
	if err := h.db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    user,
	})
}

// GetStats returns the user's wagering rollup
func (h *UserHandler) GetStats(c *gin.Context) {
	userID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	stats, err := h.stats.Get(h.db, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}

// GetLedger returns the user's balance movements, newest first
func (h *UserHandler) GetLedger(c *gin.Context) {
	userID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var entries []models.LedgerTransaction
	if err := h.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(100).
		Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ledger"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    entries,
		"count":   len(entries),
	})
}
