package api

import (
	"net/http"
	"strconv"

	"erp-service/internal/service"
	"erp-service/internal/store"

	"github.com/gin-gonic/gin"
)

func (h *Handler) applyMovement(c *gin.Context) {
	var req service.ApplyMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	movement, err := h.stockLedger.ApplyMovement(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, movement)
}

func (h *Handler) listMovements(c *gin.Context) {
	productID, ok := parseOptionalID(c, "product_id")
	if !ok {
		return
	}
	from, ok := parseOptionalTime(c, "from")
	if !ok {
		return
	}
	to, ok := parseOptionalTime(c, "to")
	if !ok {
		return
	}

	movements, err := h.stockLedger.ListMovements(c.Request.Context(), service.MovementQuery{
		ProductID: productID,
		Direction: c.Query("direction"),
		From:      from,
		To:        to,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, movements)
}

func (h *Handler) listTransactions(c *gin.Context) {
	from, ok := parseOptionalTime(c, "from")
	if !ok {
		return
	}
	to, ok := parseOptionalTime(c, "to")
	if !ok {
		return
	}

	txns, err := h.store.ListTransactions(c.Request.Context(), store.TransactionFilter{
		Direction: c.Query("direction"),
		Module:    c.Query("module"),
		From:      from,
		To:        to,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txns)
}

func (h *Handler) dashboardStats(c *gin.Context) {
	stats, err := h.dashboard.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) salesHistory(c *gin.Context) {
	days := 0
	if val := c.Query("days"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid days"})
			return
		}
		days = parsed
	}

	buckets, err := h.dashboard.SalesHistory(c.Request.Context(), days, c.Query("period"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"period": c.DefaultQuery("period", "day"),
		"data":   buckets,
	})
}
