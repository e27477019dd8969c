package handler

import (
	"net/http"

	"pharmapos/internal/dto"
	"pharmapos/internal/service"

	"github.com/gin-gonic/gin"
)

type BillingHandler struct{ svc *service.BillingService }

func NewBillingHandler(svc *service.BillingService) *BillingHandler {
	return &BillingHandler{svc: svc}
}

// CreateBill godoc
// @Summary      Commit a sale
// @Description  Creates an invoice atomically: reserves stock for every catalog line, snapshots prices and costs, schedules refill reminders and enqueues the receipt email. Fails as a whole if any line has insufficient stock.
// @Tags         billing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateBillRequest true "Cart contents"
// @Success      201 {object} dto.InvoiceResponse
// @Failure      400 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Router       /v1/bills [post]
func (h *BillingHandler) CreateBill(c *gin.Context) {
	var req dto.CreateBillRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateBill(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
