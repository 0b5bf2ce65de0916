package model

import (
	"time"

	"github.com/geekcommerce/geek-commerce-backend/pkg/util"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Product struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	Name        string            `gorm:"type:varchar(255);not null;index" json:"name"`
	Slug        string            `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Description string            `gorm:"type:text" json:"description"`
	CategoryID  uint              `gorm:"not null;index" json:"category_id"`
	BrandID     *uint             `gorm:"index" json:"brand_id"`
	BaseSpecs   datatypes.JSONMap `json:"base_specs"` // free-form specs shared by all variants
	IsActive    bool              `gorm:"not null;index" json:"is_active"`
	CreatedAt   time.Time         `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`

	Category *Category       `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category,omitempty"`
	Brand    *Brand          `gorm:"foreignKey:BrandID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"brand,omitempty"`
	Variants []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.Slug == "" {
		p.Slug = util.Slugify(p.Name)
	}
	if p.Slug == "" {
		return ErrEmptySlug
	}
	return nil
}

// MasterVariant returns the loaded variant flagged as master, if any.
func (p *Product) MasterVariant() *ProductVariant {
	for i := range p.Variants {
		if p.Variants[i].IsMaster {
			return &p.Variants[i]
		}
	}
	return nil
}
