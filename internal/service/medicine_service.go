package service

import (
	"context"
	"errors"
	"time"

	"pharmapos/internal/dto"
	"pharmapos/internal/model"
	"pharmapos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MedicineService is the catalog CRUD surface. Stock quantities are off
// limits here; they move only through InventoryService and billing.
type MedicineService struct {
	medicines repository.MedicineRepository
	now       func() time.Time
}

func NewMedicineService(medicines repository.MedicineRepository) *MedicineService {
	return &MedicineService{medicines: medicines, now: time.Now}
}

func (s *MedicineService) Create(ctx context.Context, req dto.CreateMedicineRequest) (*dto.MedicineResponse, error) {
	if _, err := s.medicines.FindByName(ctx, req.Name); err == nil {
		return nil, ErrDuplicateName
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	med := &model.Medicine{
		ID:         uuid.New(),
		Name:       req.Name,
		Quantity:   req.Quantity,
		FreeQty:    req.FreeQty,
		BatchNo:    req.BatchNo,
		MRP:        req.MRP,
		PTR:        req.PTR,
		GstPercent: req.GstPercent,
		Category:   req.Category,
		Formula:    req.Formula,
	}
	if req.ExpiryDate != "" {
		t, err := time.Parse("2006-01-02", req.ExpiryDate)
		if err != nil {
			return nil, ErrInvalidNumeric
		}
		med.ExpiryDate = &t
	}

	if err := s.medicines.Create(ctx, med); err != nil {
		return nil, err
	}
	resp := toMedicineResponse(med)
	return &resp, nil
}

func (s *MedicineService) Get(ctx context.Context, id uuid.UUID) (*dto.MedicineResponse, error) {
	med, err := s.medicines.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	resp := toMedicineResponse(med)
	return &resp, nil
}

func (s *MedicineService) List(ctx context.Context, filter dto.MedicineFilter) ([]dto.MedicineResponse, error) {
	medicines, err := s.medicines.List(ctx, filter, s.now())
	if err != nil {
		return nil, err
	}
	out := make([]dto.MedicineResponse, 0, len(medicines))
	for i := range medicines {
		out = append(out, toMedicineResponse(&medicines[i]))
	}
	return out, nil
}

// Update applies the allow-listed catalog fields. A nil field means "leave
// unchanged"; quantity cannot be reached from here at all.
func (s *MedicineService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateMedicineRequest) (*dto.MedicineResponse, error) {
	med, err := s.medicines.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Name != nil && *req.Name != med.Name {
		if _, err := s.medicines.FindByName(ctx, *req.Name); err == nil {
			return nil, ErrDuplicateName
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		med.Name = *req.Name
	}
	if req.FreeQty != nil {
		med.FreeQty = *req.FreeQty
	}
	if req.BatchNo != nil {
		med.BatchNo = *req.BatchNo
	}
	if req.ExpiryDate != nil {
		if *req.ExpiryDate == "" {
			med.ExpiryDate = nil
		} else {
			t, err := time.Parse("2006-01-02", *req.ExpiryDate)
			if err != nil {
				return nil, ErrInvalidNumeric
			}
			med.ExpiryDate = &t
		}
	}
	if req.MRP != nil {
		med.MRP = *req.MRP
	}
	if req.PTR != nil {
		med.PTR = *req.PTR
	}
	if req.GstPercent != nil {
		med.GstPercent = *req.GstPercent
	}
	if req.Category != nil {
		med.Category = *req.Category
	}
	if req.Formula != nil {
		med.Formula = *req.Formula
	}

	if err := s.medicines.Update(ctx, med); err != nil {
		return nil, err
	}
	resp := toMedicineResponse(med)
	return &resp, nil
}

// Delete removes a catalog row. Sale history is untouched: invoice items and
// reminders carry name snapshots, not foreign keys.
func (s *MedicineService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.medicines.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.medicines.Delete(ctx, id)
}

func toMedicineResponse(m *model.Medicine) dto.MedicineResponse {
	resp := dto.MedicineResponse{
		ID:         m.ID.String(),
		Name:       m.Name,
		Quantity:   m.Quantity,
		FreeQty:    m.FreeQty,
		BatchNo:    m.BatchNo,
		MRP:        m.MRP,
		PTR:        m.PTR,
		GstPercent: m.GstPercent,
		Category:   m.Category,
		Formula:    m.Formula,
	}
	if m.ExpiryDate != nil {
		d := m.ExpiryDate.Format("2006-01-02")
		resp.ExpiryDate = &d
	}
	return resp
}
