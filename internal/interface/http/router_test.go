package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/AlexHuggler/LCI-tracker/internal/domain/dosing"
	"github.com/AlexHuggler/LCI-tracker/internal/domain/lsi"
	"github.com/AlexHuggler/LCI-tracker/internal/domain/pool"
	"github.com/AlexHuggler/LCI-tracker/internal/infra/config"
	apperrors "github.com/AlexHuggler/LCI-tracker/pkg/errors"
)

func TestRouter_Health(t *testing.T) {
	recorder := performRequest(newRouterUnderTest(t, &stubPoolService{}), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.JSONEq(t, `{"status":"ok"}`, recorder.Body.String())
}

func TestRouter_DosingSuccess(t *testing.T) {
	resp := pool.CalculationResponse{
		LSI: lsi.Calculate(7.5, 84, 300, 100, 1000),
		Recommendations: []dosing.Recommendation{{
			ChemicalName: "None",
			ChemicalType: dosing.None,
		}},
		PoolVolumeGallons: 15000,
	}
	svc := &stubPoolService{
		calculateFn: func(ctx context.Context, req pool.CalculateRequest) (pool.CalculationResponse, error) {
			require.Equal(t, 7.5, req.PH)
			require.Nil(t, req.TDS)
			require.NotNil(t, req.PoolVolumeGallons)
			require.Equal(t, 15000.0, *req.PoolVolumeGallons)
			return resp, nil
		},
	}

	body := `{"ph":7.5,"waterTempF":84,"calciumHardness":300,"totalAlkalinity":100,"poolVolumeGallons":15000}`
	recorder := performRequest(newRouterUnderTest(t, svc), http.MethodPost, "/api/v1/dosing", body)
	require.Equal(t, http.StatusOK, recorder.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, "balanced", got["lsi"].(map[string]any)["status"])
	recs := got["recommendations"].([]any)
	require.Len(t, recs, 1)
	require.Equal(t, "none-0", recs[0].(map[string]any)["id"])
}

func TestRouter_LSIReturnsResultOnly(t *testing.T) {
	result := lsi.Calculate(6.8, 70, 150, 60, 1000)
	svc := &stubPoolService{
		calculateFn: func(ctx context.Context, req pool.CalculateRequest) (pool.CalculationResponse, error) {
			return pool.CalculationResponse{LSI: result}, nil
		},
	}

	recorder := performRequest(newRouterUnderTest(t, svc), http.MethodPost, "/api/v1/lsi", `{"ph":6.8,"waterTempF":70,"calciumHardness":150,"totalAlkalinity":60}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var got lsi.Result
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.InDelta(t, result.LSIValue, got.LSIValue, 1e-9)
	require.Equal(t, lsi.Corrosive, got.Status())
}

func TestRouter_InvalidJSON(t *testing.T) {
	recorder := performRequest(newRouterUnderTest(t, &stubPoolService{}), http.MethodPost, "/api/v1/dosing", `{"ph":"seven"}`)
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
	require.NotEmpty(t, errBody["error"]["message"])
}

func TestRouter_DomainErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid input", apperrors.Wrap(apperrors.CodeInvalidInput, "ph must be between 6 and 9", nil), http.StatusBadRequest, "invalid_input"},
		{"not found", apperrors.Wrap(apperrors.CodeNotFound, "pool not found", nil), http.StatusNotFound, "not_found"},
		{"storage", apperrors.Wrap(apperrors.CodeStorage, "failed to load pool", io.ErrUnexpectedEOF), http.StatusInternalServerError, "storage_error"},
		{"unknown", io.ErrClosedPipe, http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubPoolService{
				getPoolFn: func(ctx context.Context, id uuid.UUID) (pool.Pool, error) {
					return pool.Pool{}, tc.err
				},
			}
			recorder := performRequest(newRouterUnderTest(t, svc), http.MethodGet, "/api/v1/pools/"+uuid.NewString(), "")
			require.Equal(t, tc.status, recorder.Code)
			errBody := decodeErrorBody(t, recorder.Body.Bytes())
			require.Equal(t, tc.code, errBody["error"]["code"])
			if tc.code == "invalid_input" {
				require.Equal(t, "ph must be between 6 and 9", errBody["error"]["message"])
			}
		})
	}
}

func TestRouter_InvalidPoolID(t *testing.T) {
	recorder := performRequest(newRouterUnderTest(t, &stubPoolService{}), http.MethodGet, "/api/v1/pools/not-a-uuid/prefill", "")
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	require.Equal(t, "invalid_request", decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])
}

func TestRouter_ListPoolsDayFilter(t *testing.T) {
	var gotDay int
	svc := &stubPoolService{
		listPoolsFn: func(ctx context.Context, req pool.ListPoolsRequest) ([]pool.Pool, error) {
			gotDay = req.DayOfWeek
			return []pool.Pool{{CustomerName: "Nguyen", ServiceDayOfWeek: 3}}, nil
		},
	}
	server := newRouterUnderTest(t, svc)

	recorder := performRequest(server, http.MethodGet, "/api/v1/pools?day=3", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, 3, gotDay)

	var body struct {
		Pools []pool.Pool `json:"pools"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Len(t, body.Pools, 1)

	recorder = performRequest(server, http.MethodGet, "/api/v1/pools?day=tuesday", "")
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRouter_LogServiceCreated(t *testing.T) {
	id := uuid.New()
	svc := &stubPoolService{
		logServiceFn: func(ctx context.Context, poolID uuid.UUID, req pool.LogServiceRequest) (pool.LogServiceResponse, error) {
			require.Equal(t, id, poolID)
			require.Equal(t, "skimmed", req.TechNotes)
			return pool.LogServiceResponse{Event: pool.ServiceEvent{PoolID: poolID, TotalChemicalCost: 12.5}}, nil
		},
	}

	body := `{"ph":7.2,"waterTempF":80,"calciumHardness":250,"totalAlkalinity":90,"techNotes":"skimmed"}`
	recorder := performRequest(newRouterUnderTest(t, svc), http.MethodPost, "/api/v1/pools/"+id.String()+"/events", body)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var got pool.LogServiceResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, 12.5, got.Event.TotalChemicalCost)
}

func TestRouter_ReorderRoute(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	svc := &stubPoolService{
		reorderFn: func(ctx context.Context, req pool.ReorderRouteRequest) ([]pool.Pool, error) {
			require.Equal(t, 2, req.DayOfWeek)
			require.Equal(t, ids, req.PoolIDs)
			return []pool.Pool{{ID: ids[0]}, {ID: ids[1], RouteOrder: 1}}, nil
		},
	}
	body, err := json.Marshal(pool.ReorderRouteRequest{DayOfWeek: 2, PoolIDs: ids})
	require.NoError(t, err)

	recorder := performRequest(newRouterUnderTest(t, svc), http.MethodPut, "/api/v1/pools/route", string(body))
	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestRouter_ProfitQueryDays(t *testing.T) {
	svc := &stubPoolService{
		profitReportFn: func(ctx context.Context, days int) (pool.ProfitReport, error) {
			require.Equal(t, 14, days)
			return pool.ProfitReport{BillingPeriodDays: days, TotalProfit: 42}, nil
		},
	}
	recorder := performRequest(newRouterUnderTest(t, svc), http.MethodGet, "/api/v1/reports/profit?days=14", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var got pool.ProfitReport
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, 42.0, got.TotalProfit)
}

func TestRouter_FormatQuantity(t *testing.T) {
	server := newRouterUnderTest(t, &stubPoolService{})

	recorder := performRequest(server, http.MethodGet, "/api/v1/quantities/format?oz=20", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	var got struct {
		Label string `json:"label"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, "1 lb 4 oz", got.Label)

	recorder = performRequest(server, http.MethodGet, "/api/v1/quantities/format", "")
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRouter_APIToken(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.APIToken = "s3cret"
	server := NewRouter(cfg, NewHandler(&stubPoolService{}, newTestLogger()))

	recorder := performRequest(server, http.MethodGet, "/api/v1/inventory", "")
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
	require.Equal(t, "unauthorized", decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])

	recorder = performRequest(server, http.MethodGet, "/api/v1/inventory", "", "Authorization", "Bearer wrong")
	require.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = performRequest(server, http.MethodGet, "/api/v1/inventory", "", "Authorization", "Bearer s3cret")
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = performRequest(server, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestRouter_RateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 1}
	server := NewRouter(cfg, NewHandler(&stubPoolService{}, newTestLogger()))

	require.Equal(t, http.StatusOK, performRequest(server, http.MethodGet, "/api/v1/inventory", "").Code)
	recorder := performRequest(server, http.MethodGet, "/api/v1/inventory", "")
	require.Equal(t, http.StatusTooManyRequests, recorder.Code)
	require.Equal(t, "rate_limit_exceeded", decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])
}

func TestRouter_CORSPreflight(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.AllowedOrigins = []string{"https://route.example.com"}
	server := NewRouter(cfg, NewHandler(&stubPoolService{}, newTestLogger()))

	recorder := performRequest(server, http.MethodOptions, "/api/v1/inventory", "", "Origin", "https://route.example.com")
	require.Equal(t, http.StatusNoContent, recorder.Code)
	require.Equal(t, "https://route.example.com", recorder.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, recorder.Header().Get("Access-Control-Allow-Methods"), "PUT")
}

func TestRouter_LogsPoolContext(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	id := uuid.New()
	svc := &stubPoolService{
		getPoolFn: func(ctx context.Context, got uuid.UUID) (pool.Pool, error) {
			return pool.Pool{}, apperrors.Wrap(apperrors.CodeNotFound, "pool not found", nil)
		},
	}
	server := NewRouter(testConfig(), NewHandler(svc, logger))

	recorder := performRequest(server, http.MethodGet, "/api/v1/pools/"+id.String(), "")
	require.Equal(t, http.StatusNotFound, recorder.Code)

	var failed, access map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(logs.Bytes()), []byte("\n")) {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(line, &entry))
		switch entry["msg"] {
		case "request failed":
			failed = entry
		case "http request":
			access = entry
		}
	}
	require.NotNil(t, failed)
	require.NotNil(t, access)
	for _, entry := range []map[string]any{failed, access} {
		require.Equal(t, id.String(), entry["pool_id"])
		require.Equal(t, "/api/v1/pools/:id", entry["route"])
	}
	require.Equal(t, "not_found", failed["code"])
	require.EqualValues(t, http.StatusNotFound, access["status"])
}

func performRequest(server *http.Server, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func testConfig() *config.Config {
	return &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
}

func newRouterUnderTest(t *testing.T, svc pool.Service) *http.Server {
	t.Helper()
	return NewRouter(testConfig(), NewHandler(svc, newTestLogger()))
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type stubPoolService struct {
	calculateFn    func(ctx context.Context, req pool.CalculateRequest) (pool.CalculationResponse, error)
	getPoolFn      func(ctx context.Context, id uuid.UUID) (pool.Pool, error)
	listPoolsFn    func(ctx context.Context, req pool.ListPoolsRequest) ([]pool.Pool, error)
	reorderFn      func(ctx context.Context, req pool.ReorderRouteRequest) ([]pool.Pool, error)
	logServiceFn   func(ctx context.Context, id uuid.UUID, req pool.LogServiceRequest) (pool.LogServiceResponse, error)
	profitReportFn func(ctx context.Context, days int) (pool.ProfitReport, error)
}

func (s *stubPoolService) Calculate(ctx context.Context, req pool.CalculateRequest) (pool.CalculationResponse, error) {
	if s.calculateFn != nil {
		return s.calculateFn(ctx, req)
	}
	return pool.CalculationResponse{}, nil
}

func (s *stubPoolService) CreatePool(ctx context.Context, req pool.CreatePoolRequest) (pool.Pool, error) {
	return pool.Pool{ID: uuid.New(), CustomerName: req.CustomerName}, nil
}

func (s *stubPoolService) GetPool(ctx context.Context, id uuid.UUID) (pool.Pool, error) {
	if s.getPoolFn != nil {
		return s.getPoolFn(ctx, id)
	}
	return pool.Pool{ID: id}, nil
}

func (s *stubPoolService) ListPools(ctx context.Context, req pool.ListPoolsRequest) ([]pool.Pool, error) {
	if s.listPoolsFn != nil {
		return s.listPoolsFn(ctx, req)
	}
	return nil, nil
}

func (s *stubPoolService) ReorderRoute(ctx context.Context, req pool.ReorderRouteRequest) ([]pool.Pool, error) {
	if s.reorderFn != nil {
		return s.reorderFn(ctx, req)
	}
	return nil, nil
}

func (s *stubPoolService) UpdateReadings(ctx context.Context, id uuid.UUID, req pool.UpdateReadingsRequest) (pool.Pool, error) {
	return pool.Pool{ID: id, PH: req.PH}, nil
}

func (s *stubPoolService) RecommendForPool(ctx context.Context, id uuid.UUID) (pool.CalculationResponse, error) {
	return pool.CalculationResponse{}, nil
}

func (s *stubPoolService) Prefill(ctx context.Context, id uuid.UUID) (lsi.Reading, error) {
	return lsi.Reading{}, nil
}

func (s *stubPoolService) LogService(ctx context.Context, id uuid.UUID, req pool.LogServiceRequest) (pool.LogServiceResponse, error) {
	if s.logServiceFn != nil {
		return s.logServiceFn(ctx, id, req)
	}
	return pool.LogServiceResponse{}, nil
}

func (s *stubPoolService) Profit(ctx context.Context, id uuid.UUID, days int) (pool.PoolProfit, error) {
	return pool.PoolProfit{PoolID: id, BillingPeriodDays: days}, nil
}

func (s *stubPoolService) ProfitReport(ctx context.Context, days int) (pool.ProfitReport, error) {
	if s.profitReportFn != nil {
		return s.profitReportFn(ctx, days)
	}
	return pool.ProfitReport{}, nil
}

func (s *stubPoolService) Inventory(ctx context.Context) ([]pool.InventoryItem, error) {
	return pool.DefaultCatalog(), nil
}

func (s *stubPoolService) UpsertInventory(ctx context.Context, item pool.InventoryItem) (pool.InventoryItem, error) {
	return item, nil
}

func (s *stubPoolService) SeedInventory(ctx context.Context) error {
	return nil
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}
