package transport

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Istemamahmed20445/theo-inventory-management/internal/domain"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/middleware"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/service"
)

// ExcelHandler handles the xlsx import and export endpoints
type ExcelHandler struct {
	importExport service.ImportExportService
	logger       *zap.Logger
}

// NewExcelHandler creates a new ExcelHandler
func NewExcelHandler(importExport service.ImportExportService, logger *zap.Logger) *ExcelHandler {
	return &ExcelHandler{importExport: importExport, logger: logger}
}

// RegisterRoutes registers all spreadsheet routes. Imports require the
// dedicated import capability; exports are report views.
func (h *ExcelHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	importGuard := middleware.RequirePermission(domain.PermExcelImport, h.logger)
	reportGuard := middleware.RequirePermission(domain.PermViewReports, h.logger)

	r.Route("/api/excel", func(r chi.Router) {
		r.Use(authMiddleware)

		r.With(importGuard).Post("/products/import", h.ImportProducts)
		r.With(importGuard).Post("/production/import", h.ImportProduction)
		r.With(reportGuard).Get("/products/export", h.ExportProducts)
		r.With(reportGuard).Get("/production/export", h.ExportProduction)
		r.With(reportGuard).Get("/delivery/export", h.ExportDelivery)
		r.With(reportGuard).Get("/replenishment/export", h.ExportReplenishment)
	})
}

// uploadedWorkbook extracts the "file" part of a multipart upload.
func uploadedWorkbook(r *http.Request) (io.ReadCloser, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, errors.New("invalid multipart form")
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, errors.New("missing workbook file")
	}
	return file, nil
}

// ImportProducts loads products from an uploaded workbook
func (h *ExcelHandler) ImportProducts(w http.ResponseWriter, r *http.Request) {
	file, err := uploadedWorkbook(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer file.Close()

	imported, err := h.importExport.ImportProducts(r.Context(), file, actor(r))
	if err != nil {
		h.logger.Error("Product import failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to import products")
		return
	}

	middleware.RespondWithSuccess(w, "products imported", map[string]int{"imported": imported})
}

// ImportProduction loads production orders from an uploaded workbook
func (h *ExcelHandler) ImportProduction(w http.ResponseWriter, r *http.Request) {
	file, err := uploadedWorkbook(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer file.Close()

	imported, err := h.importExport.ImportProductionOrders(r.Context(), file, actor(r))
	if err != nil {
		h.logger.Error("Production import failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to import production orders")
		return
	}

	middleware.RespondWithSuccess(w, "production orders imported", map[string]int{"imported": imported})
}

// ExportProducts downloads the catalog as xlsx
func (h *ExcelHandler) ExportProducts(w http.ResponseWriter, r *http.Request) {
	data, err := h.importExport.ExportProducts(r.Context())
	if err != nil {
		h.logger.Error("Product export failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to export products")
		return
	}
	sendWorkbook(w, "products.xlsx", data)
}

// ExportProduction downloads production orders, optionally filtered by date
func (h *ExcelHandler) ExportProduction(w http.ResponseWriter, r *http.Request) {
	data, err := h.importExport.ExportProductionOrders(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		if errors.Is(err, service.ErrBadDateFilter) {
			middleware.RespondWithError(w, http.StatusBadRequest, "date filter must be YYYY-MM-DD")
			return
		}
		h.logger.Error("Production export failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to export production orders")
		return
	}
	sendWorkbook(w, "production_orders.xlsx", data)
}

// ExportDelivery downloads the per-customer delivery manifest
func (h *ExcelHandler) ExportDelivery(w http.ResponseWriter, r *http.Request) {
	data, err := h.importExport.ExportDeliveryManifest(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		if errors.Is(err, service.ErrBadDateFilter) {
			middleware.RespondWithError(w, http.StatusBadRequest, "date filter must be YYYY-MM-DD")
			return
		}
		h.logger.Error("Delivery export failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to export delivery manifest")
		return
	}
	sendWorkbook(w, "delivery_manifest.xlsx", data)
}

// ExportReplenishment downloads the sold-variant restock aggregate
func (h *ExcelHandler) ExportReplenishment(w http.ResponseWriter, r *http.Request) {
	data, err := h.importExport.ExportReplenishment(r.Context())
	if err != nil {
		h.logger.Error("Replenishment export failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to export replenishment sheet")
		return
	}
	sendWorkbook(w, "replenishment.xlsx", data)
}
