package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/insighthq/insight-api/internal/api/response"
	"github.com/insighthq/insight-api/internal/core/ports"
)

type DataHandler struct {
	dataService ports.DataService
}

func NewDataHandler(dataService ports.DataService) *DataHandler {
	return &DataHandler{dataService: dataService}
}

// Combined serves the cached weather + crypto aggregate.
//
// @Summary      Combined weather and crypto data
// @Tags         data
// @Produce      json
// @Security     BearerAuth
// @Param        city      query     string  true   "City name"
// @Param        currency  query     string  true   "CoinGecko currency id"
// @Param        refresh   query     string  false  "Bypass the cache read"  Enums(true, false)
// @Success      200  {object}  response.Envelope
// @Failure      400  {object}  response.Envelope
// @Failure      401  {object}  response.Envelope
// @Failure      429  {object}  response.Envelope
// @Router       /v1/data [get]
func (h *DataHandler) Combined(c echo.Context) error {
	var q dataQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	report, err := h.dataService.Combined(c.Request().Context(), q.City, q.Currency, q.Refresh == "true")
	if err != nil {
		return err
	}

	return response.Success(c, report)
}
