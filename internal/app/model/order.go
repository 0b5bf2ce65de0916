package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string // order lifecycle stage

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCompleted OrderStatus = "completed"
)

var orderStatusRank = map[OrderStatus]int{
	OrderStatusPending:   0,
	OrderStatusPaid:      1,
	OrderStatusShipped:   2,
	OrderStatusCompleted: 3,
}

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	_, ok := orderStatusRank[s]
	return ok
}

// CanTransitionTo allows forward moves only. Skipping stages is fine, going
// back or staying put is not.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	return orderStatusRank[next] > orderStatusRank[s]
}

// IsPaidStage reports whether an order in this status has been paid for.
func (s OrderStatus) IsPaidStage() bool {
	return s.Valid() && orderStatusRank[s] >= orderStatusRank[OrderStatusPaid]
}

type Order struct {
	ID              uint        `gorm:"primarykey" json:"id"`
	UserID          uint        `gorm:"not null;index" json:"user_id"`
	Status          OrderStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	IsPaid          bool        `gorm:"not null;default:false" json:"is_paid"`
	ShippingAddress string      `gorm:"type:text" json:"shipping_address"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`

	User       *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items"`
}

func (Order) TableName() string {
	return "orders"
}

// Total sums the cost of every item. An order without items totals zero.
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.OrderItems {
		total = total.Add(item.Cost())
	}
	return total
}

// MarshalJSON adds the computed total to the serialized order.
func (o Order) MarshalJSON() ([]byte, error) {
	type orderFields Order
	return json.Marshal(struct {
		orderFields
		Total decimal.Decimal `json:"total"`
	}{
		orderFields: orderFields(o),
		Total:       o.Total(),
	})
}

type OrderItem struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	OrderID       uint            `gorm:"not null;index" json:"order_id"`
	VariantID     *uint           `gorm:"index" json:"variant_id"`                   // nil once the variant is deleted
	VariantName   string          `gorm:"type:varchar(255)" json:"variant_name"`     // snapshot
	SKU           string          `gorm:"column:sku;type:varchar(64)" json:"sku"`    // snapshot
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"` // unit price at purchase time
	Quantity      int             `gorm:"not null" json:"quantity"`
	Customization string          `gorm:"type:text" json:"customization,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`

	Variant *ProductVariant `gorm:"foreignKey:VariantID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"variant,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// Cost is the unit price times the quantity.
func (i OrderItem) Cost() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
