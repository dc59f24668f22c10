package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"parimarket/internal/models"
	"parimarket/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type WagerHandler struct {
	wagers *services.WagerService
}

func NewWagerHandler(wagers *services.WagerService) *WagerHandler {
	return &WagerHandler{wagers: wagers}
}

// PlaceBet places a single-leg wager
func (h *WagerHandler) PlaceBet(c *gin.Context) {
	var req services.PlaceBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bet, err := h.wagers.PlaceBet(c.Request.Context(), &req)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    bet,
	})
}

// PlaceParlay places a multi-leg wager
func (h *WagerHandler) PlaceParlay(c *gin.Context) {
	var req services.PlaceParlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	parlay, err := h.wagers.PlaceParlay(c.Request.Context(), &req)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    parlay,
	})
}

// errorStatus maps service error kinds to HTTP statuses.
func errorStatus(err error) int {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrOptionNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrMarketClosed), errors.Is(err, models.ErrAlreadyResolved):
		return http.StatusConflict
	case errors.Is(err, models.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// parseUintParam reads an unsigned integer path parameter, writing the 400
// response itself on failure.
func parseUintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(v), true
}
