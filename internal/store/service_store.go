package store

import (
	"context"
	"time"

	"github.com/ArrobaLab/maipro/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ServiceStore struct{ db *gorm.DB }

func (s *Store) Services() *ServiceStore { return &ServiceStore{db: s.DB} }

type ServiceFilter struct {
	Category string
	Type     string
	Page     int
	Limit    int
}

func (sv *ServiceStore) Create(ctx context.Context, svc *domain.Service) error {
	now := time.Now().UTC()
	if svc.ID == uuid.Nil {
		svc.ID = uuid.New()
	}
	svc.CreatedAt = now
	svc.UpdatedAt = now
	return sv.db.WithContext(ctx).Create(svc).Error
}

func (sv *ServiceStore) GetByID(ctx context.Context, id domain.ServiceID) (*domain.Service, error) {
	var svc domain.Service
	if err := sv.db.WithContext(ctx).First(&svc, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &svc, nil
}

func (sv *ServiceStore) List(ctx context.Context, f ServiceFilter) ([]*domain.Service, int64, error) {
	q := sv.db.WithContext(ctx).Model(&domain.Service{}).Where("is_active = ?", true)
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Type != "" {
		// "both" matches either explicit type.
		q = q.Where("(type = ? OR type = ?)", f.Type, domain.ServiceTypeBoth)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var svcs []*domain.Service
	if err := q.Order("created_at DESC").
		Limit(pageLimit(f.Limit)).
		Offset(pageOffset(f.Page, f.Limit)).
		Find(&svcs).Error; err != nil {
		return nil, 0, err
	}
	return svcs, total, nil
}

func (sv *ServiceStore) Update(ctx context.Context, svc *domain.Service) error {
	svc.UpdatedAt = time.Now().UTC()
	return sv.db.WithContext(ctx).Save(svc).Error
}
