package handlers

import (
	"errors"
	"net/http"
	"time"

	"parimarket/internal/models"
	"parimarket/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MarketHandler struct {
	db         *gorm.DB
	settlement *services.SettlementService
}

func NewMarketHandler(db *gorm.DB, settlement *services.SettlementService) *MarketHandler {
	return &MarketHandler{db: db, settlement: settlement}
}

// GetMarkets returns markets with optional status filtering
func (h *MarketHandler) GetMarkets(c *gin.Context) {
	resolved := c.DefaultQuery("resolved", "false")

	var markets []models.Market
	query := h.db.Where("resolved = ?", resolved == "true")

	if err := query.Preload("Options").Order("expires_at ASC").Find(&markets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch markets"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    markets,
		"count":   len(markets),
	})
}

// GetMarketByID returns a specific market with its options
func (h *MarketHandler) GetMarketByID(c *gin.Context) {
	marketID := c.Param("id")

	var market models.Market
	if err := h.db.Where("id = ?", marketID).Preload("Options").First(&market).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Market not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch market"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    market,
	})
}

// CreateMarket creates a new market with its options
func (h *MarketHandler) CreateMarket(c *gin.Context) {
	var req struct {
		Question  string    `json:"question" binding:"required"`
		Kind      string    `json:"kind"`
		Threshold *string   `json:"threshold"`
		ExpiresAt time.Time `json:"expires_at" binding:"required"`
		Options   []string  `json:"options" binding:"required,min=2"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	kind := req.Kind
	if kind == "" {
		kind = models.MarketKindBinary
	}
	switch kind {
	case models.MarketKindBinary, models.MarketKindMultiple, models.MarketKindOverUnder:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid market kind"})
		return
	}

	market := models.Market{
		Question:  req.Question,
		Kind:      kind,
		ExpiresAt: req.ExpiresAt,
	}

	if req.Threshold != nil {
		threshold, err := decimal.NewFromString(*req.Threshold)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid threshold"})
			return
		}
		market.Threshold = &threshold
	} else if kind == models.MarketKindOverUnder {
		c.JSON(http.StatusBadRequest, gin.H{"error": "OVER_UNDER markets require a threshold"})
		return
	}

	options := make([]models.Option, len(req.Options))
	for i, label := range req.Options {
		options[i] = models.Option{Label: label, Odds: decimal.NewFromInt(1)}
	}
	market.Options = options

	if err := h.db.Create(&market).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create market"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    market,
	})
}

// ResolveMarket resolves a market with its winning option and settles all
// dependent wagers
func (h *MarketHandler) ResolveMarket(c *gin.Context) {
	marketID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		WinningOptionID uint `json:"winning_option_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	market, err := h.settlement.ResolveMarket(c.Request.Context(), marketID, req.WinningOptionID)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    market,
	})
}
