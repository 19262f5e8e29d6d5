package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/stockpulse/internal/domain/dto"
	"github.com/guttosm/stockpulse/internal/service"
)

// Handler provides the HTTP handlers for screening, updating, and monitoring
// the stock quote store.
//
// Responsibilities:
//   - Validate incoming request bodies and query parameters
//   - Delegate to the service layer
//   - Translate service results into response DTOs with appropriate HTTP
//     status codes
type Handler struct {
	screener service.ScreenerService
	updater  service.UpdateService
	monitor  service.MonitorService
}

// NewHandler constructs a new Handler instance with its service dependencies.
func NewHandler(screener service.ScreenerService, updater service.UpdateService, monitor service.MonitorService) *Handler {
	return &Handler{screener: screener, updater: updater, monitor: monitor}
}

// Screen handles POST /api/v1/screener requests.
//
// Responses:
//   - 200 OK: Returns one ranked page of matching stocks.
//   - 400 Bad Request: Malformed body, unknown comparison field or operator.
//   - 500 Internal Server Error: Store failure or full enrichment failure.
//
// Screen godoc
// @Summary      Screen stocks
// @Description  Enriches a candidate set of symbols, applies filters and field comparisons, and returns one ranked page
// @Tags         screener
// @Accept       json
// @Produce      json
// @Param        request  body      dto.ScreenRequest  true  "Screening criteria"
// @Success      200      {object}  dto.ScreenResponse  "Success"
// @Failure      400      {object}  dto.ErrorResponse   "Bad Request"
// @Failure      500      {object}  dto.ErrorResponse   "Internal Error"
// @Router       /api/v1/screener [post]
func (h *Handler) Screen(c *gin.Context) {
	var req dto.ScreenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid request body", err))
		return
	}

	resp, err := h.screener.Screen(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid screening criteria", err))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to screen stocks", err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Update handles POST /api/v1/update requests.
//
// Responses:
//   - 200 OK: Returns counts of requested, updated, and failed symbols.
//   - 400 Bad Request: Malformed body or unknown update mode.
//   - 500 Internal Server Error: Store failure.
//
// Update godoc
// @Summary      Update stock quotes
// @Description  Refreshes the quote store for explicit symbols, a prioritized delta, or the full tracked universe
// @Tags         update
// @Accept       json
// @Produce      json
// @Param        request  body      dto.UpdateRequest  true  "Update mode and optional symbols"
// @Success      200      {object}  dto.UpdateResponse  "Success"
// @Failure      400      {object}  dto.ErrorResponse   "Bad Request"
// @Failure      500      {object}  dto.ErrorResponse   "Internal Error"
// @Router       /api/v1/update [post]
func (h *Handler) Update(c *gin.Context) {
	var req dto.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid request body", err))
		return
	}

	resp, err := h.updater.Update(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid update request", err))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to update stocks", err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Quote handles GET /api/v1/quote requests.
//
// Query Parameters:
//   - symbol (string, required): Stock symbol (e.g., "AAPL").
//
// Responses:
//   - 200 OK: Returns the resolved quote and its source.
//   - 400 Bad Request: Missing symbol parameter.
//   - 404 Not Found: No provider could resolve a price for the symbol.
//   - 500 Internal Server Error: Store failure.
//
// Quote godoc
// @Summary      Get a single quote
// @Description  Resolves one symbol through the cache-first enrichment pipeline
// @Tags         quote
// @Produce      json
// @Param        symbol  query     string  true  "Stock symbol" example(AAPL)
// @Success      200     {object}  dto.QuoteResponse  "Success"
// @Failure      400     {object}  dto.ErrorResponse  "Bad Request"
// @Failure      404     {object}  dto.ErrorResponse  "Not Found"
// @Failure      500     {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/v1/quote [get]
func (h *Handler) Quote(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Query("symbol")))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("symbol is required", nil))
		return
	}

	resp, err := h.screener.Quote(c.Request.Context(), symbol)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to fetch quote", err))
		return
	}
	if resp == nil {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("no quote found", nil))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Monitor handles GET /api/v1/monitor requests.
//
// Responses:
//   - 200 OK: Returns freshness buckets, coverage, and a market snapshot.
//   - 500 Internal Server Error: Store failure.
//
// Monitor godoc
// @Summary      Monitor data freshness
// @Description  Reports the freshness distribution and coverage of the quote store plus headline movers
// @Tags         monitor
// @Produce      json
// @Success      200  {object}  dto.MonitorResponse  "Success"
// @Failure      500  {object}  dto.ErrorResponse    "Internal Error"
// @Router       /api/v1/monitor [get]
func (h *Handler) Monitor(c *gin.Context) {
	resp, err := h.monitor.Snapshot(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to build monitor snapshot", err))
		return
	}

	c.JSON(http.StatusOK, resp)
}
