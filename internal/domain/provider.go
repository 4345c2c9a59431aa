package domain

import "time"

// Specialty categories shared by providers and the service catalog.
const (
	CategoryPlumbing     = "plumbing"
	CategoryElectrical   = "electrical"
	CategoryCarpentry    = "carpentry"
	CategoryPainting     = "painting"
	CategoryRoofing      = "roofing"
	CategoryHVAC         = "hvac"
	CategoryConstruction = "construction"
	CategoryRemodeling   = "remodeling"
	CategoryLandscaping  = "landscaping"
	CategoryCleaning     = "cleaning"
	CategoryOther        = "other"
)

var Categories = []string{
	CategoryPlumbing, CategoryElectrical, CategoryCarpentry, CategoryPainting,
	CategoryRoofing, CategoryHVAC, CategoryConstruction, CategoryRemodeling,
	CategoryLandscaping, CategoryCleaning, CategoryOther,
}

func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

type Provider struct {
	ID            ProviderID `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	UserID        UserID     `gorm:"type:uuid;uniqueIndex:ux_providers_user" db:"user_id" json:"userId"`
	BusinessName  string     `gorm:"type:text;not null" db:"business_name" json:"businessName"`
	Description   string     `gorm:"type:text;not null" db:"description" json:"description"`
	Specialties   StringList `gorm:"type:jsonb" db:"specialties" json:"specialties"`
	ServiceRadius int        `gorm:"not null;default:50" db:"service_radius" json:"serviceRadiusKm"`
	ServiceCities StringList `gorm:"type:jsonb" db:"service_cities" json:"serviceCities"`
	HourlyRate    float64    `db:"hourly_rate" json:"hourlyRate"`
	MinimumCharge float64    `db:"minimum_charge" json:"minimumCharge"`
	Verified      bool       `gorm:"not null;default:false" db:"verified" json:"verified"`
	CompletedJobs int        `gorm:"not null;default:0" db:"completed_jobs" json:"completedJobs"`
	RatingAverage float64    `gorm:"not null;default:0" db:"rating_average" json:"ratingAverage"`
	RatingCount   int        `gorm:"not null;default:0" db:"rating_count" json:"ratingCount"`
	CreatedAt     time.Time  `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `gorm:"not null" db:"updated_at" json:"updatedAt"`
}

func (Provider) TableName() string { return "providers" }
