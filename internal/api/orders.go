package api

import (
	"net/http"

	"erp-service/internal/service"

	"github.com/gin-gonic/gin"
)

// Sales

func (h *Handler) createSale(c *gin.Context) {
	var req service.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	sale, lines, err := h.orders.CreateSale(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"sale": sale, "lines": lines})
}

func (h *Handler) listSales(c *gin.Context) {
	clientID, ok := parseOptionalID(c, "client_id")
	if !ok {
		return
	}
	sales, err := h.orders.ListSales(c.Request.Context(), c.Query("status"), clientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sales)
}

func (h *Handler) getSale(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	sale, lines, err := h.orders.GetSale(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sale": sale, "lines": lines})
}

func (h *Handler) updateSalePayment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req service.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	sale, err := h.orders.UpdateSalePayment(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

// Purchases

func (h *Handler) createPurchase(c *gin.Context) {
	var req service.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	purchase, lines, err := h.orders.CreatePurchase(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"purchase": purchase, "lines": lines})
}

func (h *Handler) listPurchases(c *gin.Context) {
	supplierID, ok := parseOptionalID(c, "supplier_id")
	if !ok {
		return
	}
	purchases, err := h.orders.ListPurchases(c.Request.Context(), c.Query("status"), supplierID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, purchases)
}

func (h *Handler) getPurchase(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	purchase, lines, err := h.orders.GetPurchase(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchase": purchase, "lines": lines})
}

func (h *Handler) updatePurchasePayment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req service.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	purchase, err := h.orders.UpdatePurchasePayment(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, purchase)
}
