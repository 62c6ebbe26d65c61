package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vsinha/shiptrack/pkg/application/services/report"
	"github.com/vsinha/shiptrack/pkg/application/services/tracking"
	"github.com/vsinha/shiptrack/pkg/domain/entities"
	"github.com/vsinha/shiptrack/pkg/infrastructure/events"
	"github.com/vsinha/shiptrack/pkg/infrastructure/export"
)

// Handler serves the tracking endpoints
type Handler struct {
	service       *tracking.Service
	builder       *report.Builder
	exportFormat  export.Format
	exportTimeout time.Duration
}

// NewHandler creates a handler over the tracking service. exportFormat is used when
// an export request names none.
func NewHandler(service *tracking.Service, exportFormat export.Format, exportTimeout time.Duration) *Handler {
	return &Handler{
		service:       service,
		builder:       report.NewBuilder(),
		exportFormat:  exportFormat,
		exportTimeout: exportTimeout,
	}
}

// RegisterRoutes mounts the tracking endpoints on r
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.HealthHandler)
	r.Get("/items", h.ListAllItemsHandler)
	r.Get("/items/{kind}", h.ListItemsHandler)
	r.Delete("/items/{itemId}", h.DeleteItemHandler)
	r.Post("/items/{itemId}/purchase-orders", h.AddPurchaseOrderHandler)
	r.Delete("/purchase-orders/{poId}", h.DeletePurchaseOrderHandler)
	r.Post("/purchase-orders/{poId}/components", h.AddComponentHandler)
	r.Patch("/components/{componentId}", h.UpdateComponentHandler)
	r.Delete("/components/{componentId}", h.DeleteComponentHandler)
	r.Get("/export", h.ExportHandler)
	r.Get("/events", h.ListEventsHandler)
}

// HealthHandler reports liveness
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListItemsHandler returns the evaluated items of one kind, sorted by current ship date
func (h *Handler) ListItemsHandler(w http.ResponseWriter, r *http.Request) {
	kind, err := entities.ParseItemKind(chi.URLParam(r, "kind"))
	if err != nil {
		WriteError(w, r, err)
		return
	}

	statuses, err := h.service.ListStatus(r.Context(), kind)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, statuses)
}

// ListAllItemsHandler returns every evaluated item, sorted by current ship date
func (h *Handler) ListAllItemsHandler(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.service.ListAllStatus(r.Context())
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, statuses)
}

// UpdateComponentHandler applies a received flag and/or current ship date change and
// returns the refreshed parent item
func (h *Handler) UpdateComponentHandler(w http.ResponseWriter, r *http.Request) {
	var update entities.ComponentUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		WriteError(w, r, NewValidationError(fmt.Sprintf("invalid component update: %v", err)))
		return
	}

	status, err := h.service.UpdateComponent(r.Context(), chi.URLParam(r, "componentId"), update)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, status)
}

// DeleteItemHandler removes an item and everything under it
func (h *Handler) DeleteItemHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteItem(r.Context(), chi.URLParam(r, "itemId")); err != nil {
		WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type purchaseOrderRequest struct {
	PONumber string `json:"poNumber"`
	Vendor   string `json:"vendor"`
}

// AddPurchaseOrderHandler creates an empty purchase order under an item
func (h *Handler) AddPurchaseOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req purchaseOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, NewValidationError(fmt.Sprintf("invalid purchase order: %v", err)))
		return
	}

	status, err := h.service.AddPurchaseOrder(r.Context(), chi.URLParam(r, "itemId"), req.PONumber, req.Vendor)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, status)
}

// DeletePurchaseOrderHandler removes a purchase order and its components
func (h *Handler) DeletePurchaseOrderHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeletePurchaseOrder(r.Context(), chi.URLParam(r, "poId")); err != nil {
		WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type componentRequest struct {
	Name             string            `json:"name"`
	CatalogNumber    string            `json:"catalogNumber"`
	Quantity         entities.Quantity `json:"quantity"`
	Notes            string            `json:"notes"`
	OriginalShipDate entities.Date     `json:"originalShipDate"`
	CurrentShipDate  entities.Date     `json:"currentShipDate"`
}

// AddComponentHandler creates a component under a purchase order
func (h *Handler) AddComponentHandler(w http.ResponseWriter, r *http.Request) {
	var req componentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, NewValidationError(fmt.Sprintf("invalid component: %v", err)))
		return
	}

	component := &entities.Component{
		Name:             req.Name,
		CatalogNumber:    req.CatalogNumber,
		Quantity:         req.Quantity,
		Notes:            req.Notes,
		OriginalShipDate: req.OriginalShipDate,
		CurrentShipDate:  req.CurrentShipDate,
	}
	if err := h.service.AddComponent(r.Context(), chi.URLParam(r, "poId"), component); err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, component)
}

// DeleteComponentHandler removes a single component
func (h *Handler) DeleteComponentHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteComponent(r.Context(), chi.URLParam(r, "componentId")); err != nil {
		WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportHandler renders the production schedule workbook and sends it as a download.
// The whole file is rendered before any byte is written, so a failure yields one JSON
// error and never a truncated attachment.
func (h *Handler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	format := h.exportFormat
	if q := r.URL.Query().Get("format"); q != "" {
		f, err := export.ParseFormat(q)
		if err != nil {
			WriteError(w, r, NewValidationError(err.Error()))
			return
		}
		format = f
	}

	exporter, err := export.NewExporter(format)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	ctx := r.Context()
	if h.exportTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.exportTimeout)
		defer cancel()
	}

	snapshot, err := h.service.LoadSnapshot(ctx)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	data, err := exporter.Render(ctx, h.builder.Build(snapshot))
	if err != nil {
		WriteError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", exporter.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exporter.FileName()))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ListEventsHandler returns recorded mutations. With ?item= it returns that item's history
// and from is a 1-based version; otherwise from is a zero-based global position.
func (h *Handler) ListEventsHandler(w http.ResponseWriter, r *http.Request) {
	from := 0
	if q := r.URL.Query().Get("from"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			WriteError(w, r, NewValidationError("from must be a non-negative integer"))
			return
		}
		from = n
	}

	var (
		recorded []events.Event
		err      error
	)
	if itemID := r.URL.Query().Get("item"); itemID != "" {
		recorded, err = h.service.ItemHistory(itemID, from)
	} else {
		recorded, err = h.service.Events(from)
	}
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, recorded)
}
