package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"erp-service/internal/auth"
	"erp-service/internal/errs"
	"erp-service/internal/service"
	"erp-service/internal/store"
	"erp-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	store       *store.Store
	orders      *service.OrderService
	stockLedger *service.StockLedger
	payroll     *service.PayrollService
	dashboard   *service.DashboardService
	authService *service.AuthService
	issuer      *auth.TokenIssuer
}

// NewHandler creates a new HTTP handler
func NewHandler(
	store *store.Store,
	orders *service.OrderService,
	stockLedger *service.StockLedger,
	payroll *service.PayrollService,
	dashboard *service.DashboardService,
	authService *service.AuthService,
	issuer *auth.TokenIssuer,
) *Handler {
	return &Handler{
		store:       store,
		orders:      orders,
		stockLedger: stockLedger,
		payroll:     payroll,
		dashboard:   dashboard,
		authService: authService,
		issuer:      issuer,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/auth/token", h.exchangeToken)

	v1 := router.Group("/api/v1")
	v1.Use(h.authenticate())
	{
		catalog := v1.Group("")
		{
			catalog.GET("/categories", h.requireOp(auth.OpCatalogRead), h.listCategories)
			catalog.POST("/categories", h.requireOp(auth.OpCatalogWrite), h.createCategory)
			catalog.PUT("/categories/:id", h.requireOp(auth.OpCatalogWrite), h.updateCategory)
			catalog.DELETE("/categories/:id", h.requireOp(auth.OpCatalogWrite), h.deleteCategory)

			catalog.GET("/products", h.requireOp(auth.OpCatalogRead), h.listProducts)
			catalog.GET("/products/:id", h.requireOp(auth.OpCatalogRead), h.getProduct)
			catalog.POST("/products", h.requireOp(auth.OpCatalogWrite), h.createProduct)
			catalog.PUT("/products/:id", h.requireOp(auth.OpCatalogWrite), h.updateProduct)
			catalog.DELETE("/products/:id", h.requireOp(auth.OpCatalogWrite), h.deleteProduct)

			catalog.GET("/clients", h.requireOp(auth.OpCatalogRead), h.listClients)
			catalog.POST("/clients", h.requireOp(auth.OpCatalogWrite), h.createClient)
			catalog.PUT("/clients/:id", h.requireOp(auth.OpCatalogWrite), h.updateClient)
			catalog.DELETE("/clients/:id", h.requireOp(auth.OpCatalogWrite), h.deleteClient)

			catalog.GET("/suppliers", h.requireOp(auth.OpCatalogRead), h.listSuppliers)
			catalog.POST("/suppliers", h.requireOp(auth.OpCatalogWrite), h.createSupplier)
			catalog.PUT("/suppliers/:id", h.requireOp(auth.OpCatalogWrite), h.updateSupplier)
			catalog.DELETE("/suppliers/:id", h.requireOp(auth.OpCatalogWrite), h.deleteSupplier)
		}

		v1.POST("/sales", h.requireOp(auth.OpSalesWrite), h.createSale)
		v1.GET("/sales", h.requireOp(auth.OpSalesRead), h.listSales)
		v1.GET("/sales/:id", h.requireOp(auth.OpSalesRead), h.getSale)
		v1.PUT("/sales/:id/payment", h.requireOp(auth.OpSalesWrite), h.updateSalePayment)

		v1.POST("/purchases", h.requireOp(auth.OpPurchasesWrite), h.createPurchase)
		v1.GET("/purchases", h.requireOp(auth.OpPurchasesRead), h.listPurchases)
		v1.GET("/purchases/:id", h.requireOp(auth.OpPurchasesRead), h.getPurchase)
		v1.PUT("/purchases/:id/payment", h.requireOp(auth.OpPurchasesWrite), h.updatePurchasePayment)

		v1.POST("/stock/movements", h.requireOp(auth.OpStockWrite), h.applyMovement)
		v1.GET("/stock/movements", h.requireOp(auth.OpStockRead), h.listMovements)

		v1.GET("/transactions", h.requireOp(auth.OpLedgerRead), h.listTransactions)

		v1.GET("/employees", h.requireOp(auth.OpHRRead), h.listEmployees)
		v1.POST("/employees", h.requireOp(auth.OpHRWrite), h.createEmployee)
		v1.PUT("/employees/:id", h.requireOp(auth.OpHRWrite), h.updateEmployee)
		v1.DELETE("/employees/:id", h.requireOp(auth.OpHRWrite), h.deleteEmployee)

		v1.GET("/salaries", h.requireOp(auth.OpHRRead), h.listSalaries)
		v1.POST("/salaries", h.requireOp(auth.OpHRWrite), h.createSalary)

		v1.GET("/dashboard/stats", h.requireOp(auth.OpDashboardRead), h.dashboardStats)
		v1.GET("/dashboard/sales-history", h.requireOp(auth.OpDashboardRead), h.salesHistory)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// exchangeToken bridges an external identity token to a local JWT
func (h *Handler) exchangeToken(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	resp, err := h.authService.Exchange(c.Request.Context(), req.Token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid identity token"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// authenticate parses the local bearer token and attaches the caller
// identity to the request context
func (h *Handler) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := h.issuer.Parse(strings.TrimSpace(header[len("Bearer "):]))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		identity := &auth.Identity{Subject: claims.Subject, Role: claims.Role}
		c.Set("role", claims.Role)
		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}

// requireOp evaluates the capability policy for the operation
func (h *Handler) requireOp(op string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if !auth.Allow(role, op) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "operation not permitted"})
			return
		}
		c.Next()
	}
}

// respondError maps service errors to HTTP statuses
func respondError(c *gin.Context, err error) {
	switch {
	case errs.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errs.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errs.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "details": err.Error()})
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func parseOptionalID(c *gin.Context, name string) (*int64, bool) {
	val := c.Query(name)
	if val == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return nil, false
	}
	return &id, true
}

func parseOptionalTime(c *gin.Context, name string) (*time.Time, bool) {
	val := c.Query(name)
	if val == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be RFC3339"})
		return nil, false
	}
	return &t, true
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
