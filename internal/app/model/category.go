package model

import (
	"errors"
	"time"

	"github.com/geekcommerce/geek-commerce-backend/pkg/util"
	"gorm.io/gorm"
)

// ErrEmptySlug is returned when a name has no characters a slug can be built from.
var ErrEmptySlug = errors.New("slug cannot be derived from name")

type Category struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null;index" json:"name"`
	Slug      string    `gorm:"type:varchar(120);uniqueIndex;not null" json:"slug"` // derived from name on create
	ParentID  *uint     `gorm:"index" json:"parent_id"`                             // nil for root categories
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Children []Category `gorm:"foreignKey:ParentID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"children,omitempty"`
}

func (Category) TableName() string {
	return "categories"
}

// BeforeCreate fills the slug from the name when none was given.
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.Slug == "" {
		c.Slug = util.Slugify(c.Name)
	}
	if c.Slug == "" {
		return ErrEmptySlug
	}
	return nil
}

// CategoryNode is one entry of a flattened subtree walk.
type CategoryNode struct {
	Category
	Depth int `json:"depth"`
}
