package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"economy-engine/internal/calendar"
	"economy-engine/internal/engine"
	"economy-engine/internal/settlement"
	"economy-engine/internal/store"
	"economy-engine/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers. The API is the scheduler-facing trigger
// surface plus reporting reads; players never call it directly.
type Handler struct {
	store       *store.Store
	tickEngine  *engine.Engine
	settlements *settlement.Engine
}

// NewHandler creates a new HTTP handler
func NewHandler(st *store.Store, tickEngine *engine.Engine, settlements *settlement.Engine) *Handler {
	return &Handler{
		store:       st,
		tickEngine:  tickEngine,
		settlements: settlements,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/warehouses", h.listWarehouses)
		v1.POST("/warehouses/:id/ticks", h.runTick)
		v1.POST("/warehouses/:id/settlements", h.runSettlement)
		v1.GET("/warehouses/:id/sales-logs", h.getSalesLogs)
		v1.GET("/warehouses/:id/calendar", h.getCalendar)
		v1.GET("/warehouses/:id/ledger", h.getLedger)
		v1.GET("/settlements/:id", h.getSettlement)
		v1.GET("/companies/:id/wallet", h.getWallet)
		v1.GET("/orders/:id/lines", h.getOrderLines)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// listWarehouses returns every warehouse the scheduler should tick
func (h *Handler) listWarehouses(c *gin.Context) {
	warehouses, err := h.store.ListActiveWarehouses(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to list warehouses",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"warehouses": warehouses})
}

type runTickRequest struct {
	Day string `json:"day" binding:"required"`
}

// runTick triggers the Step A + Step B tick for one warehouse and day
func (h *Handler) runTick(c *gin.Context) {
	warehouseID, ok := paramID(c)
	if !ok {
		return
	}

	var req runTickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	day, err := calendar.ParseDayKey(req.Day)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid day",
			"details": err.Error(),
		})
		return
	}

	result, err := h.tickEngine.RunDayTick(c.Request.Context(), warehouseID, day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Tick failed",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

type runSettlementRequest struct {
	PayoutDay string `json:"payout_day" binding:"required"`
}

// runSettlement triggers the settlement build for one warehouse
func (h *Handler) runSettlement(c *gin.Context) {
	warehouseID, ok := paramID(c)
	if !ok {
		return
	}

	var req runSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	payoutDay, err := calendar.ParseDayKey(req.PayoutDay)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid payout day",
			"details": err.Error(),
		})
		return
	}

	result, err := h.settlements.Run(c.Request.Context(), warehouseID, payoutDay)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, settlement.ErrNoPeriodMapping) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{
			"error":   "Settlement failed",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// getSalesLogs returns the audit trail for one warehouse and day
func (h *Handler) getSalesLogs(c *gin.Context) {
	warehouseID, ok := paramID(c)
	if !ok {
		return
	}

	day, err := calendar.ParseDayKey(c.Query("day"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid or missing day query parameter",
			"details": err.Error(),
		})
		return
	}

	logs, err := h.store.GetSalesLogs(c.Request.Context(), warehouseID, day.Time())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load sales logs",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

type windowResponse struct {
	CycleKey string `json:"cycle_key"`
	Label    string `json:"label"`
	Season   string `json:"season"`
	Start    string `json:"start"`
	End      string `json:"end"`
}

func toWindowResponse(w calendar.Window) windowResponse {
	return windowResponse{
		CycleKey: w.CycleKey,
		Label:    w.Label,
		Season:   string(w.Season),
		Start:    w.Start.String(),
		End:      w.End.String(),
	}
}

// getCalendar returns the warehouse's sales and collection windows for a day
func (h *Handler) getCalendar(c *gin.Context) {
	warehouseID, ok := paramID(c)
	if !ok {
		return
	}

	day, err := calendar.ParseDayKey(c.Query("day"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid or missing day query parameter",
			"details": err.Error(),
		})
		return
	}

	wh, err := h.store.GetWarehouseByID(c.Request.Context(), warehouseID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load warehouse",
			"details": err.Error(),
		})
		return
	}
	if wh == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Warehouse not found"})
		return
	}

	hemisphere := calendar.Hemisphere(wh.Hemisphere)
	resp := gin.H{
		"day":              day.String(),
		"week_index":       day.WeekIndex(),
		"open_collections": []windowResponse{},
	}

	if w, found := calendar.CurrentSalesWindow(day, hemisphere); found {
		resp["sales_window"] = toWindowResponse(w)
	}

	open := make([]windowResponse, 0)
	for _, w := range calendar.OpenCollectionWindows(day, hemisphere) {
		open = append(open, toWindowResponse(w))
	}
	resp["open_collections"] = open

	if w, found := calendar.NextCollectionWindow(day, hemisphere); found {
		resp["next_collection"] = toWindowResponse(w)
	}

	c.JSON(http.StatusOK, resp)
}

// getLedger returns recent ledger entries for a warehouse
func (h *Handler) getLedger(c *gin.Context) {
	warehouseID, ok := paramID(c)
	if !ok {
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	entries, err := h.store.LedgerEntriesByWarehouse(c.Request.Context(), warehouseID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load ledger entries",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// getSettlement returns a settlement with its fee decomposition lines
func (h *Handler) getSettlement(c *gin.Context) {
	settlementID, ok := paramID(c)
	if !ok {
		return
	}

	s, lines, err := h.store.GetSettlement(c.Request.Context(), settlementID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load settlement",
			"details": err.Error(),
		})
		return
	}
	if s == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Settlement not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"settlement": s, "lines": lines})
}

// getOrderLines returns the lines of one demand order
func (h *Handler) getOrderLines(c *gin.Context) {
	orderID, ok := paramID(c)
	if !ok {
		return
	}

	lines, err := h.store.OrderLinesByOrderID(c.Request.Context(), orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load order lines",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"lines": lines})
}

// getWallet returns a company's running balance
func (h *Handler) getWallet(c *gin.Context) {
	companyID, ok := paramID(c)
	if !ok {
		return
	}

	wallet, err := h.store.GetWallet(c.Request.Context(), companyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load wallet",
			"details": err.Error(),
		})
		return
	}
	if wallet == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
		return
	}

	c.JSON(http.StatusOK, wallet)
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return 0, false
	}
	return id, true
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
