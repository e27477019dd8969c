package handler

import (
	"net/http"

	"pharmapos/internal/apierror"
	"pharmapos/internal/dto"
	"pharmapos/internal/middleware"
	"pharmapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MedicinesHandler struct {
	svc       *service.MedicineService
	inventory *service.InventoryService
}

func NewMedicinesHandler(svc *service.MedicineService, inventory *service.InventoryService) *MedicinesHandler {
	return &MedicinesHandler{svc: svc, inventory: inventory}
}

// Create godoc
// @Summary      Add a medicine to the catalog
// @Tags         medicines
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateMedicineRequest true "Medicine details"
// @Success      201 {object} dto.MedicineResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/medicines [post]
func (h *MedicinesHandler) Create(c *gin.Context) {
	var req dto.CreateMedicineRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List catalog medicines
// @Tags         medicines
// @Produce      json
// @Security     BearerAuth
// @Param        q      query string false "Substring name match"
// @Param        filter query string false "low_stock | expired | expiring_soon"
// @Success      200 {array} dto.MedicineResponse
// @Router       /v1/medicines [get]
func (h *MedicinesHandler) List(c *gin.Context) {
	var filter dto.MedicineFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Could not list medicines"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MedicinesHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MedicinesHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	var req dto.UpdateMedicineRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MedicinesHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AdjustStock godoc
// @Summary      Manually correct on-hand stock
// @Tags         medicines
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                 true "Medicine UUID"
// @Param        body body dto.AdjustStockRequest true "Signed delta and reason"
// @Success      200 {object} dto.MedicineResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/medicines/{id}/stock [patch]
func (h *MedicinesHandler) AdjustStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.inventory.AdjustStock(c.Request.Context(), id, req.Delta, req.Reason)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Import godoc
// @Summary      Upload a CSV/XLSX stock file
// @Description  Additive import: existing medicines gain quantity and refresh price fields, new names are created.
// @Tags         medicines
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file formData file true "Stock file (.csv or .xlsx)"
// @Success      200 {object} dto.ImportResult
// @Failure      400 {object} apierror.APIError
// @Router       /v1/medicines/import [post]
func (h *MedicinesHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("A file upload is required"))
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Could not read uploaded file"))
		return
	}
	defer f.Close()

	var userID *uuid.UUID
	if claims := middleware.GetClaims(c); claims != nil {
		if id, err := uuid.Parse(claims.UserID); err == nil {
			userID = &id
		}
	}

	result, err := h.inventory.Import(c.Request.Context(), fileHeader.Filename, f, userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Movements returns recent stock ledger entries, newest first.
func (h *MedicinesHandler) Movements(c *gin.Context) {
	limit := 100
	if v, ok := c.GetQuery("limit"); ok {
		if n, err := parsePositiveInt(v); err == nil {
			limit = n
		}
	}
	movements, err := h.inventory.Movements(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Could not list stock movements"))
		return
	}
	c.JSON(http.StatusOK, movements)
}
