package handler

// counter.go — the counter-book endpoints: shortages, advance payments and
// purchase invoices. These are thin create/list/flag resources, so the
// handlers talk to the repositories directly.

import (
	"net/http"
	"time"

	"pharmapos/internal/apierror"
	"pharmapos/internal/dto"
	"pharmapos/internal/model"
	"pharmapos/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ─── Shortages ───────────────────────────────────────────────────────────────

type ShortagesHandler struct{ repo repository.ShortageRepository }

func NewShortagesHandler(repo repository.ShortageRepository) *ShortagesHandler {
	return &ShortagesHandler{repo: repo}
}

func (h *ShortagesHandler) Create(c *gin.Context) {
	var req dto.CreateShortageRequest
	if !bindAndValidate(c, &req) {
		return
	}
	s := &model.Shortage{
		ID:            uuid.New(),
		MedicineName:  req.MedicineName,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		RequestedAt:   time.Now(),
		Status:        "Pending",
	}
	if err := h.repo.Create(c.Request.Context(), s); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Could not record shortage"))
		return
	}
	c.JSON(http.StatusCreated, toShortageResponse(s))
}

func (h *ShortagesHandler) ListPending(c *gin.Context) {
	shortages, err := h.repo.ListPending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Could not list shortages"))
		return
	}
	out := make([]dto.ShortageResponse, 0, len(shortages))
	for i := range shortages {
		out = append(out, toShortageResponse(&shortages[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *ShortagesHandler) Resolve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	if err := h.repo.Resolve(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Shortage not found"))
		return
	}
	c.Status(http.StatusNoContent)
}

func toShortageResponse(s *model.Shortage) dto.ShortageResponse {
	return dto.ShortageResponse{
		ID:            s.ID.String(),
		MedicineName:  s.MedicineName,
		CustomerName:  s.CustomerName,
		CustomerPhone: s.CustomerPhone,
		RequestedAt:   s.RequestedAt.Format(time.RFC3339),
		Status:        s.Status,
	}
}

// ─── Advance payments ────────────────────────────────────────────────────────

type AdvancesHandler struct{ repo repository.AdvanceRepository }

func NewAdvancesHandler(repo repository.AdvanceRepository) *AdvancesHandler {
	return &AdvancesHandler{repo: repo}
}

func (h *AdvancesHandler) Create(c *gin.Context) {
	var req dto.CreateAdvanceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if !req.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, apierror.New("Amount must be positive"))
		return
	}
	a := &model.AdvancePayment{
		ID:            uuid.New(),
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Amount:        req.Amount,
		Notes:         req.Notes,
	}
	if err := h.repo.Create(c.Request.Context(), a); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Could not record advance payment"))
		return
	}
	c.JSON(http.StatusCreated, toAdvanceResponse(a))
}

func (h *AdvancesHandler) ListUndelivered(c *gin.Context) {
	advances, err := h.repo.ListUndelivered(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Could not list advance payments"))
		return
	}
	out := make([]dto.AdvanceResponse, 0, len(advances))
	for i := range advances {
		out = append(out, toAdvanceResponse(&advances[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *AdvancesHandler) MarkDelivered(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	if err := h.repo.MarkDelivered(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Advance payment not found"))
		return
	}
	c.Status(http.StatusNoContent)
}

func toAdvanceResponse(a *model.AdvancePayment) dto.AdvanceResponse {
	return dto.AdvanceResponse{
		ID:            a.ID.String(),
		CustomerName:  a.CustomerName,
		CustomerPhone: a.CustomerPhone,
		Amount:        a.Amount,
		Notes:         a.Notes,
		IsDelivered:   a.IsDelivered,
		CreatedAt:     a.CreatedAt.Format(time.RFC3339),
	}
}

// ─── Purchase invoices ───────────────────────────────────────────────────────

type PurchasesHandler struct{ repo repository.PurchaseInvoiceRepository }

func NewPurchasesHandler(repo repository.PurchaseInvoiceRepository) *PurchasesHandler {
	return &PurchasesHandler{repo: repo}
}

func (h *PurchasesHandler) Create(c *gin.Context) {
	var req dto.CreatePurchaseInvoiceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	date, err := time.Parse("2006-01-02", req.InvoiceDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invoice_date must be YYYY-MM-DD"))
		return
	}
	if !req.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, apierror.New("Amount must be positive"))
		return
	}
	p := &model.PurchaseInvoice{
		ID:            uuid.New(),
		AgencyName:    req.AgencyName,
		InvoiceNumber: req.InvoiceNumber,
		InvoiceDate:   date,
		Amount:        req.Amount,
	}
	if err := h.repo.Create(c.Request.Context(), p); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Could not record purchase invoice"))
		return
	}
	c.JSON(http.StatusCreated, toPurchaseResponse(p))
}

func (h *PurchasesHandler) List(c *gin.Context) {
	invoices, err := h.repo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Could not list purchase invoices"))
		return
	}
	out := make([]dto.PurchaseInvoiceResponse, 0, len(invoices))
	for i := range invoices {
		out = append(out, toPurchaseResponse(&invoices[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *PurchasesHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Could not delete purchase invoice"))
		return
	}
	c.Status(http.StatusNoContent)
}

func toPurchaseResponse(p *model.PurchaseInvoice) dto.PurchaseInvoiceResponse {
	return dto.PurchaseInvoiceResponse{
		ID:            p.ID.String(),
		AgencyName:    p.AgencyName,
		InvoiceNumber: p.InvoiceNumber,
		InvoiceDate:   p.InvoiceDate.Format("2006-01-02"),
		Amount:        p.Amount,
	}
}
