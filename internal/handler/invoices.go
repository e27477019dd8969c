package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"pharmapos/internal/apierror"
	"pharmapos/internal/dto"
	"pharmapos/internal/repository"
	"pharmapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const invoiceCacheTTL = 4 * time.Hour

// InvoicesHandler serves the read side of committed sales: listing, customer
// history, typeahead search and the public (unauthenticated) invoice view.
type InvoicesHandler struct {
	svc  *service.BillingService
	repo repository.InvoiceRepository
	rdb  *redis.Client
}

func NewInvoicesHandler(svc *service.BillingService, repo repository.InvoiceRepository, rdb *redis.Client) *InvoicesHandler {
	return &InvoicesHandler{svc: svc, repo: repo, rdb: rdb}
}

// List godoc
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        q query string false "Customer name or phone substring"
// @Success      200 {array} dto.InvoiceResponse
// @Router       /v1/invoices [get]
func (h *InvoicesHandler) List(c *gin.Context) {
	var filter dto.InvoiceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	invoices, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Could not list invoices"))
		return
	}
	out := make([]dto.InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		out = append(out, service.ToInvoiceResponse(&invoices[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *InvoicesHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	resp, err := h.svc.GetInvoice(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete removes an invoice and its line items. Stock is NOT restored;
// use a stock adjustment if the goods came back.
func (h *InvoicesHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	if err := h.svc.DeleteInvoice(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	// Drop any cached public view of this invoice.
	_ = h.rdb.Del(c.Request.Context(), "invoice:"+id.String()).Err()
	c.Status(http.StatusNoContent)
}

// SearchCustomers godoc
// @Summary      Typeahead customer search
// @Description  Distinct customers from invoice history grouped by phone, most recent purchaser first.
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        q query string true "Name or phone substring"
// @Success      200 {array} dto.CustomerRef
// @Router       /v1/customers/search [get]
func (h *InvoicesHandler) SearchCustomers(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusOK, []dto.CustomerRef{})
		return
	}
	refs, err := h.repo.SearchCustomers(c.Request.Context(), q, 10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Could not search customers"))
		return
	}
	c.JSON(http.StatusOK, refs)
}

// CustomerHistory returns every invoice for a phone number, newest first.
func (h *InvoicesHandler) CustomerHistory(c *gin.Context) {
	phone := c.Param("phone")
	invoices, err := h.repo.FindByPhone(c.Request.Context(), phone)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Could not load purchase history"))
		return
	}
	out := make([]dto.InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		out = append(out, service.ToInvoiceResponse(&invoices[i]))
	}
	c.JSON(http.StatusOK, out)
}

// PublicView godoc
// @Summary      Public invoice view (no authentication)
// @Description  Read-only invoice lookup for the QR code printed on receipts. Responses are cached in Redis.
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice UUID"
// @Success      200 {object} dto.InvoiceResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/public/invoices/{id} [get]
func (h *InvoicesHandler) PublicView(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	ctx := c.Request.Context()
	cacheKey := "invoice:" + id.String()

	// 1. Try Redis cache
	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var resp dto.InvoiceResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	// 2. Cache miss — query DB
	resp, err := h.svc.GetInvoice(ctx, id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Invoice not found"))
		return
	}

	// 3. Populate cache — best effort, ignore errors
	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, invoiceCacheTTL).Err()
	}

	c.JSON(http.StatusOK, resp)
}
