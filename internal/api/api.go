// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/wkassem/makhzan/backend-go/internal/api/handlers"
	"github.com/wkassem/makhzan/backend-go/internal/api/middleware"
	"github.com/wkassem/makhzan/backend-go/internal/service"
	"github.com/wkassem/makhzan/backend-go/internal/storage"
)

type Services struct {
	ReportService  *service.ReportService
	ProductService *service.ProductService
	ExportDir      string
	ExportUploads  storage.ObjectStorage
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Logger(),
		middleware.Recovery(),
	)

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.ReportService != nil && services.ProductService != nil {
			reportHandler := handlers.NewReportHandler(
				services.ReportService,
				services.ProductService,
				services.ExportDir,
				services.ExportUploads,
			)
			reportGroup := apiGroup.Group("/reports")
			{
				reportGroup.GET("/movements", reportHandler.GetMovements)
				reportGroup.GET("/movements/export", reportHandler.ExportMovements)
				reportGroup.GET("/turnover", reportHandler.GetTurnoverBreakdown)
			}
		}

		if services.ProductService != nil {
			productHandler := handlers.NewProductHandler(services.ProductService)
			productGroup := apiGroup.Group("/products")
			{
				productGroup.GET("", productHandler.GetProducts)
				productGroup.GET("/low_stock", productHandler.GetLowStock)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
