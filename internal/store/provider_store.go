package store

import (
	"context"
	"time"

	"github.com/ArrobaLab/maipro/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProviderStore struct{ db *gorm.DB }

func (s *Store) Providers() *ProviderStore { return &ProviderStore{db: s.DB} }

// ProviderFilter narrows List; zero values mean "no filter".
type ProviderFilter struct {
	Specialty string
	City      string
	Page      int
	Limit     int
}

func (p *ProviderStore) Create(ctx context.Context, prov *domain.Provider) error {
	now := time.Now().UTC()
	if prov.ID == uuid.Nil {
		prov.ID = uuid.New()
	}
	prov.CreatedAt = now
	prov.UpdatedAt = now
	return p.db.WithContext(ctx).Create(prov).Error
}

func (p *ProviderStore) GetByID(ctx context.Context, id domain.ProviderID) (*domain.Provider, error) {
	var prov domain.Provider
	if err := p.db.WithContext(ctx).First(&prov, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &prov, nil
}

func (p *ProviderStore) GetByUserID(ctx context.Context, userID domain.UserID) (*domain.Provider, error) {
	var prov domain.Provider
	if err := p.db.WithContext(ctx).First(&prov, "user_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &prov, nil
}

func (p *ProviderStore) List(ctx context.Context, f ProviderFilter) ([]*domain.Provider, int64, error) {
	q := p.db.WithContext(ctx).Model(&domain.Provider{})
	// The JSON columns keep the filter portable between postgres and the
	// sqlite test driver, at the cost of a substring match.
	if f.Specialty != "" {
		q = q.Where("specialties LIKE ?", "%\""+f.Specialty+"\"%")
	}
	if f.City != "" {
		q = q.Where("service_cities LIKE ?", "%\""+f.City+"\"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var provs []*domain.Provider
	if err := q.Order("created_at DESC").
		Limit(pageLimit(f.Limit)).
		Offset(pageOffset(f.Page, f.Limit)).
		Find(&provs).Error; err != nil {
		return nil, 0, err
	}
	return provs, total, nil
}

func (p *ProviderStore) Update(ctx context.Context, prov *domain.Provider) error {
	prov.UpdatedAt = time.Now().UTC()
	return p.db.WithContext(ctx).Save(prov).Error
}

func (p *ProviderStore) UpdateRating(ctx context.Context, id domain.ProviderID, average float64, count int) error {
	return p.db.WithContext(ctx).Model(&domain.Provider{}).
		Where("id = ?", id).
		Updates(map[string]any{"rating_average": average, "rating_count": count}).Error
}

func (p *ProviderStore) IncrementCompletedJobs(ctx context.Context, id domain.ProviderID) error {
	return p.db.WithContext(ctx).Model(&domain.Provider{}).
		Where("id = ?", id).
		Update("completed_jobs", gorm.Expr("completed_jobs + 1")).Error
}

// --- pagination helpers shared by the list stores ---

const defaultPageLimit = 10

func pageLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return defaultPageLimit
	}
	return limit
}

func pageOffset(page, limit int) int {
	if page <= 1 {
		return 0
	}
	return (page - 1) * pageLimit(limit)
}
