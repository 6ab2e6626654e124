package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AlexHuggler/LCI-tracker/internal/domain/dosing"
	"github.com/AlexHuggler/LCI-tracker/internal/domain/pool"
)

// Handler wires the HTTP transport to the pool service.
type Handler struct {
	poolSvc pool.Service
	logger  *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(poolSvc pool.Service, logger *slog.Logger) *Handler {
	return &Handler{
		poolSvc: poolSvc,
		logger:  logger.With("component", "http.handler"),
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CalculateLSI returns the saturation index for a set of readings.
func (h *Handler) CalculateLSI(c *gin.Context) {
	var req pool.CalculateRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.poolSvc.Calculate(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp.LSI)
}

// CalculateDosing returns the index plus the costed dosing plan.
func (h *Handler) CalculateDosing(c *gin.Context) {
	var req pool.CalculateRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.poolSvc.Calculate(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// FormatQuantity renders an ounce amount as a field-friendly label.
func (h *Handler) FormatQuantity(c *gin.Context) {
	oz, err := strconv.ParseFloat(c.Query("oz"), 64)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "oz must be a number", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"oz": oz, "label": dosing.FormatQuantity(oz)})
}

// ListPools lists the route, optionally filtered by ?day=1..7.
func (h *Handler) ListPools(c *gin.Context) {
	day, ok := queryInt(c, "day")
	if !ok {
		return
	}
	pools, err := h.poolSvc.ListPools(c.Request.Context(), pool.ListPoolsRequest{DayOfWeek: day})
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"pools": pools})
}

// CreatePool registers a pool on the route.
func (h *Handler) CreatePool(c *gin.Context) {
	var req pool.CreatePoolRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.poolSvc.CreatePool(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusCreated, p)
}

// ReorderRoute rewrites the stop order for one service day.
func (h *Handler) ReorderRoute(c *gin.Context) {
	var req pool.ReorderRouteRequest
	if !bindJSON(c, &req) {
		return
	}
	pools, err := h.poolSvc.ReorderRoute(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"pools": pools})
}

// GetPool returns one pool with its stored readings.
func (h *Handler) GetPool(c *gin.Context) {
	id, ok := poolID(c)
	if !ok {
		return
	}
	p, err := h.poolSvc.GetPool(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpdateReadings saves calculator readings back to the pool.
func (h *Handler) UpdateReadings(c *gin.Context) {
	id, ok := poolID(c)
	if !ok {
		return
	}
	var req pool.UpdateReadingsRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.poolSvc.UpdateReadings(c.Request.Context(), id, req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, p)
}

// RecommendForPool builds a dosing plan from the pool's stored readings.
func (h *Handler) RecommendForPool(c *gin.Context) {
	id, ok := poolID(c)
	if !ok {
		return
	}
	resp, err := h.poolSvc.RecommendForPool(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Prefill returns the last reading for the quick-log form.
func (h *Handler) Prefill(c *gin.Context) {
	id, ok := poolID(c)
	if !ok {
		return
	}
	reading, err := h.poolSvc.Prefill(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, reading)
}

// LogService records a visit and its costed dosing plan.
func (h *Handler) LogService(c *gin.Context) {
	id, ok := poolID(c)
	if !ok {
		return
	}
	var req pool.LogServiceRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.poolSvc.LogService(c.Request.Context(), id, req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// PoolProfit reports chemical cost against the fee for one pool, over ?days.
func (h *Handler) PoolProfit(c *gin.Context) {
	id, ok := poolID(c)
	if !ok {
		return
	}
	days, ok := queryInt(c, "days")
	if !ok {
		return
	}
	resp, err := h.poolSvc.Profit(c.Request.Context(), id, days)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListInventory lists the products carried on the truck.
func (h *Handler) ListInventory(c *gin.Context) {
	items, err := h.poolSvc.Inventory(c.Request.Context())
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// UpsertInventory creates or replaces an inventory item.
func (h *Handler) UpsertInventory(c *gin.Context) {
	var item pool.InventoryItem
	if !bindJSON(c, &item) {
		return
	}
	saved, err := h.poolSvc.UpsertInventory(c.Request.Context(), item)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, saved)
}

// ProfitReport summarises profit across every pool.
func (h *Handler) ProfitReport(c *gin.Context) {
	days, ok := queryInt(c, "days")
	if !ok {
		return
	}
	report, err := h.poolSvc.ProfitReport(c.Request.Context(), days)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, report)
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return false
	}
	return true
}

func poolID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "pool id must be a UUID", err))
		return uuid.Nil, false
	}
	return id, true
}

// queryInt reads an optional integer query parameter; absent means zero.
func queryInt(c *gin.Context, key string) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", key+" must be an integer", err))
		return 0, false
	}
	return v, true
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
