package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ArrobaLab/maipro/internal/domain"
	"github.com/ArrobaLab/maipro/internal/dto"
	"github.com/ArrobaLab/maipro/internal/store"
)

func (m *Marketplace) CreateService(ctx context.Context, userID domain.UserID, req dto.CreateServiceRequest) (*domain.Service, error) {
	if req.Title == "" || req.Description == "" {
		return nil, fmt.Errorf("%w: title and description are required", ErrInvalidRequest)
	}
	if !domain.ValidCategory(req.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidRequest, req.Category)
	}

	prov, err := m.store.Providers().GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: only providers can publish services", ErrForbidden)
		}
		return nil, err
	}

	svcType := req.Type
	if svcType == "" {
		svcType = domain.ServiceTypeBoth
	}
	switch svcType {
	case domain.ServiceTypeResidential, domain.ServiceTypeCommercial, domain.ServiceTypeBoth:
	default:
		return nil, fmt.Errorf("%w: unknown service type %q", ErrInvalidRequest, req.Type)
	}

	pricing := req.PricingType
	if pricing == "" {
		pricing = domain.PricingQuote
	}
	switch pricing {
	case domain.PricingFixed, domain.PricingHourly, domain.PricingQuote:
	default:
		return nil, fmt.Errorf("%w: unknown pricing type %q", ErrInvalidRequest, req.PricingType)
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	svc := &domain.Service{
		ProviderID:  prov.ID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Type:        svcType,
		PricingType: pricing,
		Amount:      req.Amount,
		Currency:    currency,
		IsActive:    true,
	}
	if err := m.store.Services().Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (m *Marketplace) GetService(ctx context.Context, id domain.ServiceID) (*domain.Service, error) {
	svc, err := m.store.Services().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: service", ErrNotFound)
		}
		return nil, err
	}
	return svc, nil
}

func (m *Marketplace) ListServices(ctx context.Context, f store.ServiceFilter) ([]*domain.Service, int64, error) {
	if f.Category != "" && !domain.ValidCategory(f.Category) {
		return nil, 0, fmt.Errorf("%w: unknown category %q", ErrInvalidRequest, f.Category)
	}
	return m.store.Services().List(ctx, f)
}

// UpdateService modifies a service owned by the caller's provider profile.
func (m *Marketplace) UpdateService(ctx context.Context, userID domain.UserID, id domain.ServiceID, req dto.UpdateServiceRequest) (*domain.Service, error) {
	svc, err := m.GetService(ctx, id)
	if err != nil {
		return nil, err
	}
	prov, err := m.store.Providers().GetByUserID(ctx, userID)
	if err != nil || prov.ID != svc.ProviderID {
		return nil, fmt.Errorf("%w: not the owner of this service", ErrForbidden)
	}

	if req.Title != nil {
		svc.Title = *req.Title
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.PricingType != nil {
		svc.PricingType = *req.PricingType
	}
	if req.Amount != nil {
		svc.Amount = *req.Amount
	}
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}
	if err := m.store.Services().Update(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}
