package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/bagstock/internal/domain/models"
	"github.com/mamadbah2/bagstock/internal/repository/mongodb"
)

// SalesStore is the persistence surface behind StorageHandler.
type SalesStore interface {
	InsertSaleLines(ctx context.Context, lines []models.SaleLine) error
	LatestSnapshot(ctx context.Context) (models.ConsumptionSnapshot, error)
}

// StorageHandler ingests sale lines and exposes stored report snapshots.
type StorageHandler struct {
	store  SalesStore
	loc    *time.Location
	logger *zap.Logger
}

// NewStorageHandler constructs the HTTP handler adapter. Date-only sale dates
// are read as midnight in loc, the zone report windows are evaluated in.
func NewStorageHandler(store SalesStore, loc *time.Location, logger *zap.Logger) *StorageHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &StorageHandler{store: store, loc: loc, logger: logger}
}

type saleLineRequest struct {
	Date         string `json:"fecha" binding:"required"`
	SKU          string `json:"sku"`
	Name         string `json:"nombre"`
	DocumentType string `json:"tipo_documento" binding:"required"`
	Quantity     int    `json:"cantidad" binding:"min=0"`
}

type importRequest struct {
	Lines []saleLineRequest `json:"lines" binding:"required,dive"`
}

// ImportSales stores a batch of sale lines. Dates accept RFC 3339 or YYYY-MM-DD.
func (h *StorageHandler) ImportSales(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid sales import payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	lines := make([]models.SaleLine, 0, len(req.Lines))
	for i, l := range req.Lines {
		date, err := parseTimestamp(l.Date, h.loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fecha", "line": i})
			return
		}
		lines = append(lines, models.SaleLine{
			Date:         date,
			SKU:          strings.TrimSpace(l.SKU),
			Name:         l.Name,
			DocumentType: models.DocumentType(l.DocumentType),
			Quantity:     l.Quantity,
		})
	}

	if err := h.store.InsertSaleLines(c.Request.Context(), lines); err != nil {
		h.logger.Error("failed importing sale lines", zap.Int("lines", len(lines)), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to store sale lines"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"imported": len(lines)})
}

// LatestSnapshot returns the most recent stored report snapshot.
func (h *StorageHandler) LatestSnapshot(c *gin.Context) {
	snapshot, err := h.store.LatestSnapshot(c.Request.Context())
	if errors.Is(err, mongodb.ErrNoSnapshot) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no snapshot stored yet"})
		return
	}
	if err != nil {
		h.logger.Error("failed loading snapshot", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to load snapshot"})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

func parseTimestamp(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.ParseInLocation(time.DateOnly, value, loc)
}
