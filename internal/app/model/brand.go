package model

import (
	"time"

	"github.com/geekcommerce/geek-commerce-backend/pkg/util"
	"gorm.io/gorm"
)

type Brand struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null;index" json:"name"`
	Slug      string    `gorm:"type:varchar(120);uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Brand) TableName() string {
	return "brands"
}

func (b *Brand) BeforeCreate(tx *gorm.DB) error {
	if b.Slug == "" {
		b.Slug = util.Slugify(b.Name)
	}
	if b.Slug == "" {
		return ErrEmptySlug
	}
	return nil
}
