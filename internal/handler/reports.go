package handler

import (
	"net/http"

	"pharmapos/internal/apierror"
	"pharmapos/internal/dto"
	"pharmapos/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc *service.ReportService }

func NewReportsHandler(svc *service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// Dashboard godoc
// @Summary      Live dashboard snapshot
// @Description  Catalog health counters, today's sales and profit, pending work queues and the 30-day sales trend.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.DashboardResponse
// @Router       /v1/reports/dashboard [get]
func (h *ReportsHandler) Dashboard(c *gin.Context) {
	resp, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Could not build dashboard"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PeriodReport godoc
// @Summary      Period sales report
// @Description  Totals, per-day trend and top-5 products over an inclusive date range.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        start_date query string true "YYYY-MM-DD"
// @Param        end_date   query string true "YYYY-MM-DD"
// @Success      200 {object} dto.PeriodReportResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/reports/period [get]
func (h *ReportsHandler) PeriodReport(c *gin.Context) {
	var filter dto.PeriodReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if err := validate.Struct(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("start_date and end_date are required as YYYY-MM-DD"))
		return
	}
	resp, err := h.svc.PeriodReport(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
