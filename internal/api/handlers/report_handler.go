// backend-go/internal/api/handlers/report_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/wkassem/makhzan/backend-go/internal/domain"
	"github.com/wkassem/makhzan/backend-go/internal/export"
	"github.com/wkassem/makhzan/backend-go/internal/service"
	"github.com/wkassem/makhzan/backend-go/internal/storage"
)

type ReportHandler struct {
	reports   *service.ReportService
	products  *service.ProductService
	exportDir string
	uploads   storage.ObjectStorage
}

func NewReportHandler(reports *service.ReportService, products *service.ProductService, exportDir string, uploads storage.ObjectStorage) *ReportHandler {
	return &ReportHandler{
		reports:   reports,
		products:  products,
		exportDir: exportDir,
		uploads:   uploads,
	}
}

// parseFilter reads the report criteria from query parameters. List-valued
// params accept both repeated keys and comma-separated values.
func (h *ReportHandler) parseFilter(c *gin.Context) domain.MovementFilter {
	filter := domain.MovementFilter{}

	if period := strings.TrimSpace(c.Query("period")); period != "" {
		filter.Period = strings.ToLower(period)
	}

	parseDate := func(param string) *time.Time {
		value := strings.TrimSpace(c.Query(param))
		if value == "" {
			return nil
		}
		if t, err := time.Parse("2006-01-02", value); err == nil {
			return &t
		}
		if t, err := time.Parse(time.RFC3339, value); err == nil {
			return &t
		}
		return nil
	}

	filter.StartDate = parseDate("start_date")
	filter.EndDate = parseDate("end_date")

	parseList := func(param string) []string {
		raw := c.QueryArray(param)
		if len(raw) == 0 {
			if single := strings.TrimSpace(c.Query(param)); single != "" {
				raw = []string{single}
			}
		}

		seen := make(map[string]struct{})
		var result []string
		for _, v := range raw {
			for _, part := range strings.Split(v, ",") {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				if _, ok := seen[part]; ok {
					continue
				}
				seen[part] = struct{}{}
				result = append(result, part)
			}
		}
		return result
	}

	filter.BranchNames = parseList("branches")
	filter.Statuses = parseList("statuses")
	filter.ProductIDs = parseList("product_ids")
	filter.Categories = parseList("categories")
	filter.Locations = parseList("locations")

	for _, t := range parseList("types") {
		filter.Types = append(filter.Types, domain.MovementType(strings.ToLower(t)))
	}

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		filter.Search = search
	}

	return filter
}

func (h *ReportHandler) GetMovements(c *gin.Context) {
	filter := h.parseFilter(c)
	result, err := h.reports.GetMovementReport(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build movement report", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ExportMovements writes the filtered ledger to an xlsx workbook, optionally
// uploads it to object storage, and streams it back.
func (h *ReportHandler) ExportMovements(c *gin.Context) {
	filter := h.parseFilter(c)
	result, err := h.reports.GetMovementReport(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build movement report", "details": err.Error()})
		return
	}

	filename := fmt.Sprintf("stock-movements-%s.xlsx", time.Now().Format("20060102-150405"))
	path := filepath.Join(h.exportDir, filename)
	if err := export.WriteMovementWorkbook(path, result); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to write export", "details": err.Error()})
		return
	}

	if h.uploads != nil {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := h.uploads.UploadObject(c.Request.Context(), filename, data); err != nil {
				log.Warn().Err(err).Str("file", filename).Msg("export upload failed")
			}
		}
	}

	c.FileAttachment(path, filename)
}

func (h *ReportHandler) GetTurnoverBreakdown(c *gin.Context) {
	buckets, err := h.products.TurnoverBreakdown(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build turnover breakdown", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"buckets": buckets})
}
