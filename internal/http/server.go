// Package http exposes the ledger over a JSON REST API.
package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"

	"family-ledger-go/internal/config"
	"family-ledger-go/internal/service"
	"family-ledger-go/internal/storage"
)

type Server struct {
	cfg           *config.Config
	store         storage.Store
	ledger        *service.Ledger
	expenseSchema *gojsonschema.Schema
}

func NewServer(cfg *config.Config, store storage.Store, ledger *service.Ledger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors(cfg))
	r.Use(requestLogger())

	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(expenseSchemaJSON))
	if err != nil {
		panic(err)
	}

	s := &Server{cfg: cfg, store: store, ledger: ledger, expenseSchema: schema}

	r.POST("/api/login", s.login)
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	api := r.Group("/api")
	api.Use(s.authMiddleware())
	{
		api.GET("/users", s.listUsers)
		api.POST("/users", s.createUser)
		api.PUT("/users/:id", s.updateUser)
		api.DELETE("/users/:id", s.deleteUser)

		api.GET("/companies", s.listCompanies)
		api.POST("/companies", s.createCompany)
		api.PUT("/companies/:id", s.updateCompany)
		api.DELETE("/companies/:id", s.deleteCompany)

		api.GET("/products", s.listProducts)
		api.GET("/products/barcode/:barcode", s.getProductByBarcode)
		api.POST("/products", s.createProduct)
		api.PUT("/products/:id", s.updateProduct)
		api.DELETE("/products/:id", s.deleteProduct)

		api.GET("/incomes", s.listIncomes)
		api.POST("/incomes", s.createIncome)

		api.GET("/expenses", s.listExpenses)
		api.GET("/expenses/detailed", s.listExpensesDetailed)
		api.GET("/expenses/installments", s.listInstallments)
		api.POST("/expenses", s.createExpense)
		api.PATCH("/expenses/:id/pay", s.payInstallment)

		api.GET("/reports/summary", s.reportSummary)
		api.GET("/reports/transactions", s.reportTransactions)
	}

	return r
}

// respondError maps domain errors onto HTTP statuses: unknown ids are 404,
// rejected input 400, unique collisions 409, anything else 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, storage.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		slog.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}

func cors(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", cfg.AllowOrigins)
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, PUT, PATCH, DELETE, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()

		slog.Info("request completed",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds())
	}
}
