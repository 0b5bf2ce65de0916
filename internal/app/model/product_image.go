package model

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ProductImage struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	VariantID uint      `gorm:"not null;index" json:"variant_id"`
	Image     string    `gorm:"type:varchar(500);not null" json:"image"` // object storage key
	AltText   string    `gorm:"type:varchar(255)" json:"alt_text"`
	IsMain    bool      `gorm:"not null;default:false" json:"is_main"` // at most one per variant
	URL       string    `gorm:"-" json:"url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (ProductImage) TableName() string {
	return "product_images"
}

// ImageUploadPath builds the storage key for a variant image:
// products/<product-slug>/variants/<variant-slug>/<variant-slug>_<suffix>.<ext>
func ImageUploadPath(productSlug, variantSlug, filename, suffix string) string {
	key := fmt.Sprintf("products/%s/variants/%s/%s_%s", productSlug, variantSlug, variantSlug, suffix)
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if ext == "" {
		return key
	}
	return key + "." + ext
}

// NewImageSuffix returns 8 random hex characters.
func NewImageSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
