// internal/handlers/export.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/tealeg/xlsx/v3"

	redis_a "github.com/orovela/joyeria-be/internal/adapters/redis_adapter"
	"github.com/orovela/joyeria-be/internal/core/domain"
	"github.com/orovela/joyeria-be/internal/core/ports"
)

// ExportParams defines parameters for export operations
type ExportParams struct {
	Material string `json:"material"`
	Sold     *bool  `json:"sold"`
}

// JSONExportResponse represents the JSON export response structure
type JSONExportResponse struct {
	Items    []domain.Item  `json:"items"`
	Metadata ExportMetadata `json:"metadata"`
}

// ExportMetadata contains metadata about the export
type ExportMetadata struct {
	ExportDate time.Time `json:"export_date"`
	TotalItems int       `json:"total_items"`
	Material   string    `json:"material,omitempty"`
	SoldFilter *bool     `json:"sold_filter,omitempty"`
}

// ExportHandler handles export operations
type ExportHandler struct {
	service ports.InventoryService
	cache   ports.CacheRepository
	logger  *slog.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(service ports.InventoryService, cache ports.CacheRepository, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		service: service,
		cache:   cache,
		logger:  logger.With(slog.String("handler", "export")),
	}
}

// ExportExcel handles GET /api/v1/export/excel
func (h *ExportHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := h.parseExportParams(r)

	h.logger.InfoContext(ctx, "starting Excel export",
		slog.String("material", params.Material))

	items, err := h.collectItems(ctx, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to collect items for export",
			slog.String("error", err.Error()))
		h.respondError(w, statusForError(err), "Failed to retrieve data")
		return
	}

	excelData, err := h.generateExcelFile(items)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate Excel file",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to generate Excel file")
		return
	}

	filename := fmt.Sprintf("inventory_export_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(excelData)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if _, err := w.Write(excelData); err != nil {
		h.logger.ErrorContext(ctx, "failed to write Excel response",
			slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(ctx, "Excel export completed",
		slog.Int("total_rows", len(items)),
		slog.String("filename", filename))
}

// ExportJSON handles GET /api/v1/export/json
func (h *ExportHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := h.parseExportParams(r)

	cacheKey := redis_a.BuildKey(redis_a.PrefixExport, "json", h.cacheKeyFromParams(params))
	var cachedData []byte
	if err := h.cache.Get(ctx, cacheKey, &cachedData); err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "HIT")
		w.Header().Set("Content-Length", strconv.Itoa(len(cachedData)))

		if _, err := w.Write(cachedData); err != nil {
			h.logger.ErrorContext(ctx, "failed to write cached JSON response",
				slog.String("error", err.Error()))
		}
		return
	}

	items, err := h.collectItems(ctx, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to collect items for export",
			slog.String("error", err.Error()))
		h.respondError(w, statusForError(err), "Failed to retrieve data")
		return
	}

	response := JSONExportResponse{
		Items: items,
		Metadata: ExportMetadata{
			ExportDate: time.Now().UTC(),
			TotalItems: len(items),
			Material:   params.Material,
			SoldFilter: params.Sold,
		},
	}

	responseData, err := json.Marshal(response)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to marshal JSON export",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to generate JSON")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	w.Header().Set("Content-Length", strconv.Itoa(len(responseData)))

	if _, err := w.Write(responseData); err != nil {
		h.logger.ErrorContext(ctx, "failed to write JSON response",
			slog.String("error", err.Error()))
		return
	}

	// Cache the result off the request path.
	go func() {
		cacheCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := h.cache.SetWithTTL(cacheCtx, cacheKey, responseData, 5*time.Minute); err != nil {
			h.logger.WarnContext(cacheCtx, "failed to cache JSON export",
				slog.String("error", err.Error()))
		}
	}()

	h.logger.InfoContext(ctx, "JSON export completed",
		slog.Int("total_rows", len(items)))
}

// Helper methods

func (h *ExportHandler) parseExportParams(r *http.Request) *ExportParams {
	params := &ExportParams{
		Material: r.URL.Query().Get("material"),
	}

	if soldStr := r.URL.Query().Get("sold"); soldStr != "" {
		if sold, err := strconv.ParseBool(soldStr); err == nil {
			params.Sold = &sold
		}
	}

	return params
}

// collectItems assembles the export rows from the synchronized snapshot,
// refreshing it first when the service has never synced.
func (h *ExportHandler) collectItems(ctx context.Context, params *ExportParams) ([]domain.Item, error) {
	if h.service.LastUpdated().IsZero() {
		if err := h.service.Fetch(ctx); err != nil {
			return nil, err
		}
	}

	var items []domain.Item
	if params.Material != "" {
		var err error
		items, err = h.service.ItemsByMaterial(ctx, domain.MaterialType(params.Material))
		if err != nil {
			return nil, err
		}
	} else {
		items = h.service.Items()
	}

	if params.Sold == nil {
		return items, nil
	}

	filtered := make([]domain.Item, 0, len(items))
	for _, item := range items {
		if item.Sold == *params.Sold {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

var excelHeaders = []string{
	"ID", "Name", "Entry Date", "Material", "Unit Weight (g)", "Quantity",
	"Total Weight (g)", "Purchase Price", "Sold", "Sale Date", "Sale Price",
	"Description",
}

// generateExcelFile creates an Excel file in memory from the items
func (h *ExportHandler) generateExcelFile(items []domain.Item) ([]byte, error) {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet("Inventory")
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, header := range excelHeaders {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}

	for _, item := range items {
		row := sheet.AddRow()
		for _, value := range itemToExcelRow(&item) {
			cell := row.AddCell()
			cell.Value = value
		}
	}

	for i := range excelHeaders {
		sheet.SetColWidth(i, i, 18)
	}

	var buffer bytes.Buffer
	if err := file.Write(&buffer); err != nil {
		return nil, fmt.Errorf("failed to write Excel file to buffer: %w", err)
	}

	return buffer.Bytes(), nil
}

func itemToExcelRow(item *domain.Item) []string {
	saleDate := ""
	if item.SaleDate != nil {
		saleDate = item.SaleDate.Format("2006-01-02")
	}
	salePrice := ""
	if item.SalePrice != nil {
		salePrice = item.SalePrice.StringFixed(2)
	}
	sold := "No"
	if item.Sold {
		sold = "Yes"
	}

	return []string{
		item.ID.String(),
		item.Name,
		item.EntryDate.Format("2006-01-02"),
		string(item.Material),
		strconv.FormatFloat(item.UnitWeight, 'f', 2, 64),
		strconv.Itoa(item.Quantity),
		strconv.FormatFloat(item.TotalWeight(), 'f', 2, 64),
		item.PurchasePrice.StringFixed(2),
		sold,
		saleDate,
		salePrice,
		item.Description,
	}
}

func (h *ExportHandler) cacheKeyFromParams(params *ExportParams) string {
	key := "all"
	if params.Material != "" {
		key = params.Material
	}
	if params.Sold != nil {
		key += fmt.Sprintf("_sold_%t", *params.Sold)
	}
	return key
}

func (h *ExportHandler) respondError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := map[string]string{"error": message}
	json.NewEncoder(w).Encode(response)
}
