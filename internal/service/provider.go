package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ArrobaLab/maipro/internal/domain"
	"github.com/ArrobaLab/maipro/internal/dto"
	"github.com/ArrobaLab/maipro/internal/store"
)

func (m *Marketplace) CreateProvider(ctx context.Context, userID domain.UserID, req dto.CreateProviderRequest) (*domain.Provider, error) {
	if req.BusinessName == "" || req.Description == "" {
		return nil, fmt.Errorf("%w: businessName and description are required", ErrInvalidRequest)
	}
	for _, s := range req.Specialties {
		if !domain.ValidCategory(s) {
			return nil, fmt.Errorf("%w: unknown specialty %q", ErrInvalidRequest, s)
		}
	}
	if _, err := m.store.Providers().GetByUserID(ctx, userID); err == nil {
		return nil, fmt.Errorf("%w: provider profile already exists", ErrConflict)
	} else if !errors.Is(err, store.ErrRecordNotFound) {
		return nil, err
	}

	radius := req.ServiceRadius
	if radius <= 0 {
		radius = 50
	}
	prov := &domain.Provider{
		UserID:        userID,
		BusinessName:  req.BusinessName,
		Description:   req.Description,
		Specialties:   domain.StringList(req.Specialties),
		ServiceRadius: radius,
		ServiceCities: domain.StringList(req.ServiceCities),
		HourlyRate:    req.HourlyRate,
		MinimumCharge: req.MinimumCharge,
	}
	if err := m.store.Providers().Create(ctx, prov); err != nil {
		return nil, err
	}
	return prov, nil
}

func (m *Marketplace) GetProvider(ctx context.Context, id domain.ProviderID) (*domain.Provider, error) {
	prov, err := m.store.Providers().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: provider", ErrNotFound)
		}
		return nil, err
	}
	return prov, nil
}

func (m *Marketplace) ListProviders(ctx context.Context, f store.ProviderFilter) ([]*domain.Provider, int64, error) {
	if f.Specialty != "" && !domain.ValidCategory(f.Specialty) {
		return nil, 0, fmt.Errorf("%w: unknown specialty %q", ErrInvalidRequest, f.Specialty)
	}
	return m.store.Providers().List(ctx, f)
}

// UpdateProvider modifies the caller's own provider profile.
func (m *Marketplace) UpdateProvider(ctx context.Context, userID domain.UserID, req dto.UpdateProviderRequest) (*domain.Provider, error) {
	prov, err := m.store.Providers().GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: provider profile", ErrNotFound)
		}
		return nil, err
	}
	if req.BusinessName != nil {
		prov.BusinessName = *req.BusinessName
	}
	if req.Description != nil {
		prov.Description = *req.Description
	}
	if req.Specialties != nil {
		for _, s := range req.Specialties {
			if !domain.ValidCategory(s) {
				return nil, fmt.Errorf("%w: unknown specialty %q", ErrInvalidRequest, s)
			}
		}
		prov.Specialties = domain.StringList(req.Specialties)
	}
	if req.ServiceRadius != nil {
		prov.ServiceRadius = *req.ServiceRadius
	}
	if req.ServiceCities != nil {
		prov.ServiceCities = domain.StringList(req.ServiceCities)
	}
	if req.HourlyRate != nil {
		prov.HourlyRate = *req.HourlyRate
	}
	if req.MinimumCharge != nil {
		prov.MinimumCharge = *req.MinimumCharge
	}
	if err := m.store.Providers().Update(ctx, prov); err != nil {
		return nil, err
	}
	return prov, nil
}
