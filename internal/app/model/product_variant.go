package model

import (
	"database/sql/driver"
	"time"

	"github.com/geekcommerce/geek-commerce-backend/pkg/util"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// URLList is a list of externally hosted URLs, stored as text[] on Postgres.
type URLList pq.StringArray

func (l URLList) Value() (driver.Value, error) {
	return pq.StringArray(l).Value()
}

func (l *URLList) Scan(src interface{}) error {
	return (*pq.StringArray)(l).Scan(src)
}

func (URLList) GormDataType() string {
	return "text"
}

func (URLList) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

type ProductVariant struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	ProductID   uint              `gorm:"not null;index" json:"product_id"`
	BrandID     *uint             `gorm:"index" json:"brand_id"`
	Name        string            `gorm:"type:varchar(255);not null;index" json:"name"`
	Slug        string            `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	SKU         string            `gorm:"column:sku;type:varchar(64);uniqueIndex;not null" json:"sku"`
	Attributes  datatypes.JSONMap `json:"attributes"`                                 // size, color, edition...
	Price       decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"price"`
	WeightGrams *decimal.Decimal  `gorm:"type:decimal(10,2)" json:"weight_grams,omitempty"`
	IsMaster    bool              `gorm:"not null;default:false;index" json:"is_master"` // at most one per product
	ImageURLs   URLList           `json:"image_urls"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`

	Brand  *Brand         `gorm:"foreignKey:BrandID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"brand,omitempty"`
	Images []ProductImage `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

func (ProductVariant) TableName() string {
	return "product_variants"
}

// NewProductVariant builds a variant with a freshly generated SKU.
func NewProductVariant(productID uint, name string, price decimal.Decimal) *ProductVariant {
	return &ProductVariant{
		ProductID: productID,
		Name:      name,
		Price:     price,
		SKU:       NewSKU(),
	}
}

// NewSKU returns a random stock keeping unit identifier.
func NewSKU() string {
	return uuid.NewString()
}

// VariantSlug derives a variant slug scoped by its product's slug.
func VariantSlug(productSlug, name string) string {
	return util.Slugify(productSlug + " " + name)
}

func (v *ProductVariant) BeforeCreate(tx *gorm.DB) error {
	if v.SKU == "" {
		v.SKU = NewSKU()
	}
	if v.Slug == "" {
		var productSlug string
		if err := tx.Session(&gorm.Session{NewDB: true}).
			Model(&Product{}).
			Select("slug").
			Where("id = ?", v.ProductID).
			Scan(&productSlug).Error; err != nil {
			return err
		}
		v.Slug = VariantSlug(productSlug, v.Name)
	}
	if v.Slug == "" {
		return ErrEmptySlug
	}
	return nil
}
