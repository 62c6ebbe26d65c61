package api

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	stdlog "log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vsinha/shiptrack/pkg/application/services/tracking"
	"github.com/vsinha/shiptrack/pkg/config"
	"github.com/vsinha/shiptrack/pkg/domain/entities"
	"github.com/vsinha/shiptrack/pkg/domain/repositories"
	"github.com/vsinha/shiptrack/pkg/infrastructure/events"
	"github.com/vsinha/shiptrack/pkg/infrastructure/export"
	"github.com/vsinha/shiptrack/pkg/infrastructure/repositories/memory"
	testhelpers "github.com/vsinha/shiptrack/pkg/infrastructure/testing"
)

type statusBody struct {
	Item struct {
		ID              string `json:"id"`
		CurrentShipDate string `json:"currentShipDate"`
		PurchaseOrders  []struct {
			ID       string `json:"id"`
			PONumber string `json:"poNumber"`
		} `json:"purchaseOrders"`
	} `json:"item"`
	ShipDateStatus  string `json:"shipDateStatus"`
	ScheduleRisk    bool   `json:"scheduleRisk"`
	ReadyToShip     bool   `json:"readyToShip"`
	ComponentStatus string `json:"componentStatus"`
}

func testConfig() config.Config {
	return config.Config{
		Server: config.ServerConfig{Address: "127.0.0.1:0", Timeout: time.Second},
		Export: config.ExportConfig{Format: "xlsx", Timeout: 10 * time.Second},
	}
}

func newTestServer(t *testing.T, repo repositories.ItemRepository) http.Handler {
	t.Helper()
	return NewServer(testConfig(), tracking.NewService(repo)).Handler()
}

// withURLParams sets chi path parameters on a request for calling handlers directly
func withURLParams(req *http.Request, params map[string]string) *http.Request {
	chiCtx := chi.NewRouteContext()
	for k, v := range params {
		chiCtx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, chiCtx))
}

func do(t *testing.T, h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t, testhelpers.BuildShopFloorTestData()), http.MethodGet, "/api/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListItems(t *testing.T) {
	h := newTestServer(t, testhelpers.BuildShopFloorTestData())

	rec := do(t, h, http.MethodGet, "/api/items/assembled", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []statusBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, testhelpers.SwitchboardID, rows[0].Item.ID)
	assert.Equal(t, "Ahead", rows[0].ShipDateStatus)
	assert.True(t, rows[0].ScheduleRisk)
	assert.False(t, rows[0].ReadyToShip)
	assert.Equal(t, "1/2 Received", rows[0].ComponentStatus)
	assert.Equal(t, testhelpers.ReadySwitchboardID, rows[1].Item.ID)
	assert.True(t, rows[1].ReadyToShip)
}

func TestListItems_UnknownKind(t *testing.T) {
	rec := do(t, newTestServer(t, testhelpers.BuildShopFloorTestData()), http.MethodGet, "/api/items/widgets", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, rec).Code)
}

func TestListAllItems_SortedAcrossKinds(t *testing.T) {
	rec := do(t, newTestServer(t, testhelpers.BuildShopFloorTestData()), http.MethodGet, "/api/items", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []statusBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))

	var ids []string
	for _, row := range rows {
		ids = append(ids, row.Item.ID)
	}
	assert.Equal(t, []string{
		testhelpers.SwitchboardID,
		testhelpers.SpareFusesID,
		testhelpers.MotorControlID,
		testhelpers.ReadySwitchboardID,
	}, ids)
}

func TestAccessRole(t *testing.T) {
	h := newTestServer(t, testhelpers.BuildShopFloorTestData())

	rec := do(t, h, http.MethodGet, "/api/items/misc", "", RoleHeader, "view_access")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "view_access", rec.Header().Get(RoleHeader))

	rec = do(t, h, http.MethodGet, "/api/items/misc", "", RoleHeader, "superuser")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/items/misc", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get(RoleHeader))
}

func TestAccessRole_Context(t *testing.T) {
	var seen entities.Role
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = RoleFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RoleHeader, "admin_access")
	AccessRole(next).ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, entities.AdminAccess, seen)
}

func TestUpdateComponent(t *testing.T) {
	h := newTestServer(t, testhelpers.BuildShopFloorTestData())

	rec := do(t, h, http.MethodPatch, "/api/components/"+testhelpers.MainBreakerID,
		`{"received":true,"currentShipDate":"2024-01-01"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var status statusBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, testhelpers.SwitchboardID, status.Item.ID)
	assert.False(t, status.ScheduleRisk)
	assert.True(t, status.ReadyToShip)
	assert.Equal(t, "2/2 Received", status.ComponentStatus)

	rec = do(t, h, http.MethodGet, "/api/items/assembled", "")
	var rows []statusBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	assert.True(t, rows[0].ReadyToShip, "the change is visible to later reads")
}

func TestUpdateComponent_Errors(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		body   string
		status int
	}{
		{"unknown_component", "nope", `{"received":true}`, http.StatusNotFound},
		{"empty_update", testhelpers.MainBreakerID, `{}`, http.StatusBadRequest},
		{"bad_date", testhelpers.MainBreakerID, `{"currentShipDate":"2024-02-30"}`, http.StatusBadRequest},
		{"malformed_json", testhelpers.MainBreakerID, `{"received":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(t, testhelpers.BuildShopFloorTestData())
			rec := do(t, h, http.MethodPatch, "/api/components/"+tt.id, tt.body)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestDeleteItem(t *testing.T) {
	h := newTestServer(t, testhelpers.BuildShopFloorTestData())

	rec := do(t, h, http.MethodDelete, "/api/items/"+testhelpers.SwitchboardID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/items/"+testhelpers.SwitchboardID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/items/assembled", "")
	var rows []statusBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	assert.Len(t, rows, 1)
}

func TestAddPurchaseOrder(t *testing.T) {
	h := newTestServer(t, testhelpers.BuildShopFloorTestData())

	rec := do(t, h, http.MethodPost, "/api/items/"+testhelpers.MotorControlID+"/purchase-orders",
		`{"poNumber":"PO-7001","vendor":"CED"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var status statusBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	require.Len(t, status.Item.PurchaseOrders, 1)
	assert.Equal(t, "PO-7001", status.Item.PurchaseOrders[0].PONumber)
	assert.NotEmpty(t, status.Item.PurchaseOrders[0].ID)
	assert.False(t, status.ReadyToShip, "a purchase order without components is not ready")

	rec = do(t, h, http.MethodPost, "/api/items/"+testhelpers.MotorControlID+"/purchase-orders", `{"vendor":"CED"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/items/missing/purchase-orders", `{"poNumber":"PO-1"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddAndDeleteComponent(t *testing.T) {
	h := newTestServer(t, testhelpers.BuildShopFloorTestData())

	rec := do(t, h, http.MethodPost, "/api/purchase-orders/"+testhelpers.EmptyPOID+"/components",
		`{"name":"Fuse","quantity":12,"originalShipDate":"2024-01-02","currentShipDate":"2024-01-02"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created entities.Component
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	rec = do(t, h, http.MethodPost, "/api/purchase-orders/"+testhelpers.EmptyPOID+"/components", `{"quantity":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/components/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/purchase-orders/"+testhelpers.EmptyPOID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/purchase-orders/"+testhelpers.EmptyPOID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExport_XLSX(t *testing.T) {
	rec := do(t, newTestServer(t, testhelpers.BuildShopFloorTestData()), http.MethodGet, "/api/export", "")
	require.Equal(t, http.StatusOK, rec.Code)

	disposition := rec.Header().Get("Content-Disposition")
	assert.True(t, strings.HasPrefix(disposition, `attachment; filename="Production_Schedule_`), disposition)
	assert.True(t, strings.HasSuffix(disposition, `.xlsx"`), disposition)

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Overview", "Assembled Units", "Integrated Units", "Misc Items", "Components"}, f.GetSheetList())
}

func TestExport_CSV(t *testing.T) {
	rec := do(t, newTestServer(t, testhelpers.BuildShopFloorTestData()), http.MethodGet, "/api/export?format=csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))

	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	require.NoError(t, err)
	assert.Len(t, zr.File, 5)
}

func TestExport_BadFormat(t *testing.T) {
	rec := do(t, newTestServer(t, testhelpers.BuildShopFloorTestData()), http.MethodGet, "/api/export?format=pdf", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type failingRepository struct {
	*memory.ItemRepository
}

func (f failingRepository) ListItems(ctx context.Context, kind entities.ItemKind) ([]*entities.ProductionItem, error) {
	if kind == entities.KindMisc {
		return nil, errors.New("connection reset")
	}
	return f.ItemRepository.ListItems(ctx, kind)
}

func TestExport_FailureIsSingleJSONError(t *testing.T) {
	rec := do(t, newTestServer(t, failingRepository{testhelpers.BuildShopFloorTestData()}), http.MethodGet, "/api/export", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "INTERNAL_ERROR", decodeError(t, rec).Code)
}

func TestExportHandler_RenderFailure(t *testing.T) {
	h := NewHandler(tracking.NewService(testhelpers.BuildShopFloorTestData()), export.FormatXLSX, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/export", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.ExportHandler(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "EXPORT_FAILED", decodeError(t, rec).Code)
	assert.Empty(t, rec.Header().Get("Content-Disposition"))
}

func TestListItemsHandler_Direct(t *testing.T) {
	h := NewHandler(tracking.NewService(testhelpers.BuildShopFloorTestData()), export.FormatXLSX, 0)

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/api/items/integrated", nil), map[string]string{"kind": "integrated"})
	rec := httptest.NewRecorder()
	h.ListItemsHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var rows []statusBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "No Components", rows[0].ComponentStatus)
	assert.Equal(t, "On Time", rows[0].ShipDateStatus)
}

func TestWriteError_Mapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not_found", repositories.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"invalid_request", tracking.ErrInvalidRequest, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"invalid_date", entities.ErrInvalidDate, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"export_failed", export.ErrExportFailed, http.StatusInternalServerError, "EXPORT_FAILED"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func TestServer_LogsEachRequestOnce(t *testing.T) {
	h := newTestServer(t, testhelpers.BuildShopFloorTestData())

	var structured bytes.Buffer
	previous := log.Logger
	log.Logger = zerolog.New(&structured)
	defer func() { log.Logger = previous }()

	var plain bytes.Buffer
	stdlog.SetOutput(&plain)
	defer stdlog.SetOutput(os.Stderr)

	rec := do(t, h, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Empty(t, plain.String(), "requests are not logged through the standard logger")
	lines := strings.Split(strings.TrimSpace(structured.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"path":"/api/health"`)
	assert.Contains(t, lines[0], `"status":200`)
}

func TestListEvents(t *testing.T) {
	service := tracking.NewService(testhelpers.BuildShopFloorTestData(), tracking.WithEventStore(events.NewInMemoryStore()))
	h := NewServer(testConfig(), service).Handler()

	rec := do(t, h, http.MethodGet, "/api/events", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	do(t, h, http.MethodDelete, "/api/items/"+testhelpers.MotorControlID, "")
	do(t, h, http.MethodDelete, "/api/components/"+testhelpers.BusBarID, "")

	rec = do(t, h, http.MethodGet, "/api/events?from=1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	type eventBody struct {
		Type    string `json:"type"`
		ItemID  string `json:"itemId"`
		Version int    `json:"version"`
	}
	var recorded []eventBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recorded))
	require.Len(t, recorded, 1)
	assert.Equal(t, events.ComponentDeletedEvent, recorded[0].Type)
	assert.Equal(t, testhelpers.SwitchboardID, recorded[0].ItemID)

	rec = do(t, h, http.MethodGet, "/api/events?from=-2", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListEvents_ItemHistory(t *testing.T) {
	service := tracking.NewService(testhelpers.BuildShopFloorTestData(), tracking.WithEventStore(events.NewInMemoryStore()))
	h := NewServer(testConfig(), service).Handler()

	do(t, h, http.MethodPatch, "/api/components/"+testhelpers.MainBreakerID, `{"received":true}`)
	do(t, h, http.MethodDelete, "/api/purchase-orders/"+testhelpers.EmptyPOID, "")
	do(t, h, http.MethodDelete, "/api/components/"+testhelpers.BusBarID, "")

	rec := do(t, h, http.MethodGet, "/api/events?item="+testhelpers.SwitchboardID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var history []struct {
		Type    string `json:"type"`
		ItemID  string `json:"itemId"`
		Version int    `json:"version"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 2)
	assert.Equal(t, events.ComponentUpdatedEvent, history[0].Type)
	assert.Equal(t, 1, history[0].Version)
	assert.Equal(t, events.ComponentDeletedEvent, history[1].Type)
	assert.Equal(t, 2, history[1].Version)

	rec = do(t, h, http.MethodGet, "/api/events?item="+testhelpers.SwitchboardID+"&from=2", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Len(t, history, 1)

	rec = do(t, h, http.MethodGet, "/api/events?item=unknown", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
