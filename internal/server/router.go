package server

import (
	"net/http"
	"time"

	"github.com/crmdesk/crmdesk/internal/domain/entity"
	"github.com/crmdesk/crmdesk/internal/repository"
	"github.com/crmdesk/crmdesk/pkg/database"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires every collection handler onto a gin engine
func NewRouter(db *database.DB, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))
	router.Use(corsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "crmdesk",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	docRepo := repository.NewDocumentRepository(db, logger)
	api := router.Group("/api/v1")

	NewDocumentHandler(docRepo, entity.KindEstimate, logger).Register(api, "/estimates")
	NewDocumentHandler(docRepo, entity.KindInvoice, logger).Register(api, "/invoices")
	NewDocumentHandler(docRepo, entity.KindProposal, logger).Register(api, "/proposals")
	NewDocumentHandler(docRepo, entity.KindOrder, logger).Register(api, "/orders")

	NewBankAccountHandler(repository.NewBankAccountRepository(db, logger), logger).Register(api)
	NewPackageHandler(repository.NewPackageRepository(db, logger), logger).Register(api)
	NewTaskHandler(repository.NewTaskRepository(db, logger), logger).Register(api)
	NewClientHandler(repository.NewClientRepository(db, logger), logger).Register(api)
	NewProjectHandler(repository.NewProjectRepository(db, logger), logger).Register(api)
	NewCatalogItemHandler(repository.NewCatalogItemRepository(db, logger), logger).Register(api)

	return router
}

func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("Request handled",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
