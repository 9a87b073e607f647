package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/bagstock/internal/domain/bags"
	"github.com/mamadbah2/bagstock/internal/domain/models"
	"github.com/mamadbah2/bagstock/internal/service/consumption"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ConsumptionHandler exposes the bag consumption report over HTTP.
type ConsumptionHandler struct {
	svc    *consumption.Service
	logger *zap.Logger
}

// NewConsumptionHandler constructs the HTTP handler adapter.
func NewConsumptionHandler(svc *consumption.Service, logger *zap.Logger) *ConsumptionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsumptionHandler{svc: svc, logger: logger}
}

// Report computes the consumption report for ?desde=&hasta= (YYYY-MM-DD, optional).
func (h *ConsumptionHandler) Report(c *gin.Context) {
	result, ok := h.generate(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"desde":   result.Window.From.Format(time.DateOnly),
		"hasta":   result.Window.To.Format(time.DateOnly),
		"reporte": result.Report,
	})
}

// Export returns the same report as an xlsx attachment.
func (h *ConsumptionHandler) Export(c *gin.Context) {
	result, ok := h.generate(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := consumption.WriteWorkbook(&buf, result); err != nil {
		h.logger.Error("failed rendering workbook", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to render workbook"})
		return
	}

	filename := fmt.Sprintf("consumo_%s_%s.xlsx", result.Window.From.Format(time.DateOnly), result.Window.To.Format(time.DateOnly))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *ConsumptionHandler) generate(c *gin.Context) (consumption.Result, bool) {
	loc := h.svc.Location()

	from, err := consumption.ParseDate(c.Query("desde"), loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return consumption.Result{}, false
	}
	to, err := consumption.ParseDate(c.Query("hasta"), loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return consumption.Result{}, false
	}

	result, err := h.svc.Generate(c.Request.Context(), from, to)
	if errors.Is(err, consumption.ErrInvalidWindow) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return consumption.Result{}, false
	}
	if err != nil {
		h.logger.Error("failed generating consumption report", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to load sales data"})
		return consumption.Result{}, false
	}
	return result, true
}

// Compute runs the calculator over rows supplied in the request body.
func (h *ConsumptionHandler) Compute(c *gin.Context) {
	var req models.ComputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid compute payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	c.JSON(http.StatusOK, h.svc.Calculator().Compute(req.Rows))
}

// Catalog lists the SKU decomposition table and the initial stock.
func (h *ConsumptionHandler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"skus":          bags.Catalog(),
		"stock_inicial": h.svc.Calculator().InitialStock(),
	})
}
