package service

import (
	"testing"

	"github.com/geekcommerce/geek-commerce-backend/internal/app/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	*testServices
	buyer  *model.User
	admin  *model.User
	goku   *model.ProductVariant
	vegeta *model.ProductVariant
}

func setupOrders(t *testing.T) *orderFixture {
	t.Helper()
	s := setupServices(t)
	category := s.category(t, "Figures", nil)
	product := s.product(t, "Dragon Ball", category.ID)
	return &orderFixture{
		testServices: s,
		buyer:        s.user(t, "buyer@example.com", model.RoleUser),
		admin:        s.user(t, "admin@example.com", model.RoleAdmin),
		goku:         s.variant(t, product.ID, "Goku", "10.00"),
		vegeta:       s.variant(t, product.ID, "Vegeta", "5.50"),
	}
}

func (f *orderFixture) order(t *testing.T, items ...OrderItemInput) *model.Order {
	t.Helper()
	order, err := f.orders.CreateOrder(f.buyer.ID, "1 Capsule Corp Road", items)
	require.NoError(t, err)
	return order
}

func TestOrderService_CreateOrder(t *testing.T) {
	f := setupOrders(t)

	order := f.order(t,
		OrderItemInput{VariantID: f.goku.ID, Quantity: 2, Customization: "gift wrap"},
		OrderItemInput{VariantID: f.vegeta.ID, Quantity: 1},
	)

	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.False(t, order.IsPaid)
	require.Len(t, order.OrderItems, 2)
	assert.Equal(t, "Goku", order.OrderItems[0].VariantName)
	assert.Equal(t, f.goku.SKU, order.OrderItems[0].SKU)
	assert.Equal(t, "gift wrap", order.OrderItems[0].Customization)
	assert.True(t, decimal.RequireFromString("25.50").Equal(order.Total()))
}

func TestOrderService_CreateOrder_SnapshotsPrice(t *testing.T) {
	f := setupOrders(t)
	order := f.order(t, OrderItemInput{VariantID: f.goku.ID, Quantity: 3})

	_, err := f.variants.UpdateVariant(f.goku.ID, VariantUpdate{Price: price("99.00")})
	require.NoError(t, err)

	reloaded, err := f.orders.GetOrder(f.buyer.ID, string(model.RoleUser), order.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("30").Equal(reloaded.Total()))
}

func TestOrderService_CreateOrder_Empty(t *testing.T) {
	f := setupOrders(t)
	order := f.order(t)

	assert.Empty(t, order.OrderItems)
	assert.True(t, decimal.Zero.Equal(order.Total()))
}

func TestOrderService_CreateOrder_Invalid(t *testing.T) {
	f := setupOrders(t)

	tests := []struct {
		name    string
		userID  uint
		address string
		items   []OrderItemInput
		wantErr error
	}{
		{"Missing address", f.buyer.ID, " ", nil, ErrInvalidAddress},
		{"Unknown user", 999, "Somewhere", nil, ErrUserNotFound},
		{"Zero quantity", f.buyer.ID, "Somewhere", []OrderItemInput{{VariantID: f.goku.ID}}, ErrInvalidQuantity},
		{"Unknown variant", f.buyer.ID, "Somewhere", []OrderItemInput{{VariantID: f.goku.ID, Quantity: 1}, {VariantID: 999, Quantity: 1}}, ErrVariantNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.orders.CreateOrder(tt.userID, tt.address, tt.items)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// nothing from the failed attempts was written
	var orders, items int64
	f.db.Model(&model.Order{}).Count(&orders)
	f.db.Model(&model.OrderItem{}).Count(&items)
	assert.Zero(t, orders)
	assert.Zero(t, items)
}

func TestOrderService_CreateOrder_InactiveProduct(t *testing.T) {
	f := setupOrders(t)
	inactive := false
	_, err := f.products.UpdateProduct(f.goku.ProductID, ProductUpdate{IsActive: &inactive})
	require.NoError(t, err)

	_, err = f.orders.CreateOrder(f.buyer.ID, "1 Capsule Corp Road", []OrderItemInput{{VariantID: f.goku.ID, Quantity: 1}})
	assert.ErrorIs(t, err, ErrProductUnavailable)
	assert.ErrorIs(t, err, ErrValidation)

	var orders int64
	f.db.Model(&model.Order{}).Count(&orders)
	assert.Zero(t, orders)
}

func TestOrderService_AddOrderItem(t *testing.T) {
	f := setupOrders(t)
	order := f.order(t, OrderItemInput{VariantID: f.goku.ID, Quantity: 1})

	updated, err := f.orders.AddOrderItem(f.buyer.ID, string(model.RoleUser), order.ID, OrderItemInput{VariantID: f.vegeta.ID, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, updated.OrderItems, 2)
	assert.True(t, decimal.RequireFromString("21").Equal(updated.Total()))

	stranger := f.user(t, "stranger@example.com", model.RoleUser)
	_, err = f.orders.AddOrderItem(stranger.ID, string(model.RoleUser), order.ID, OrderItemInput{VariantID: f.goku.ID, Quantity: 1})
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = f.orders.UpdateOrderStatus(order.ID, model.OrderStatusPaid)
	require.NoError(t, err)

	_, err = f.orders.AddOrderItem(f.buyer.ID, string(model.RoleUser), order.ID, OrderItemInput{VariantID: f.goku.ID, Quantity: 1})
	assert.ErrorIs(t, err, ErrOrderNotEditable)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestOrderService_GetOrder_Ownership(t *testing.T) {
	f := setupOrders(t)
	order := f.order(t, OrderItemInput{VariantID: f.goku.ID, Quantity: 1})
	stranger := f.user(t, "stranger@example.com", model.RoleUser)

	_, err := f.orders.GetOrder(stranger.ID, string(model.RoleUser), order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	asAdmin, err := f.orders.GetOrder(f.admin.ID, string(model.RoleAdmin), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, asAdmin.ID)

	mine, err := f.orders.ListUserOrders(f.buyer.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := f.orders.ListUserOrders(stranger.ID)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	f := setupOrders(t)
	order := f.order(t, OrderItemInput{VariantID: f.goku.ID, Quantity: 1})

	paid, err := f.orders.UpdateOrderStatus(order.ID, model.OrderStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPaid, paid.Status)
	assert.True(t, paid.IsPaid)

	_, err = f.orders.UpdateOrderStatus(order.ID, model.OrderStatusPending)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	_, err = f.orders.UpdateOrderStatus(order.ID, model.OrderStatusPaid)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	_, err = f.orders.UpdateOrderStatus(order.ID, model.OrderStatus("refunded"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.ErrorIs(t, err, ErrValidation)

	completed, err := f.orders.UpdateOrderStatus(order.ID, model.OrderStatusCompleted)
	require.NoError(t, err)
	assert.True(t, completed.IsPaid)

	_, err = f.orders.UpdateOrderStatus(999, model.OrderStatusPaid)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	require.Len(t, f.notifier.orders, 2)
	assert.Equal(t, model.OrderStatusPaid, f.notifier.orders[0].Status)
	assert.Equal(t, model.OrderStatusCompleted, f.notifier.orders[1].Status)
}

func TestOrderService_BulkUpdateOrderStatus(t *testing.T) {
	f := setupOrders(t)
	a := f.order(t, OrderItemInput{VariantID: f.goku.ID, Quantity: 1})
	b := f.order(t, OrderItemInput{VariantID: f.vegeta.ID, Quantity: 1})

	updated, err := f.orders.BulkUpdateOrderStatus([]uint{a.ID, b.ID}, model.OrderStatusShipped)
	require.NoError(t, err)
	require.Len(t, updated, 2)
	for _, order := range updated {
		assert.Equal(t, model.OrderStatusShipped, order.Status)
		assert.True(t, order.IsPaid)
	}

	c := f.order(t, OrderItemInput{VariantID: f.goku.ID, Quantity: 1})

	// b cannot go back to paid, so c must stay pending too
	_, err = f.orders.BulkUpdateOrderStatus([]uint{c.ID, b.ID}, model.OrderStatusPaid)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	unchanged, err := f.orders.GetOrder(f.admin.ID, string(model.RoleAdmin), c.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, unchanged.Status)
	assert.False(t, unchanged.IsPaid)

	_, err = f.orders.BulkUpdateOrderStatus(nil, model.OrderStatusPaid)
	assert.ErrorIs(t, err, ErrNoOrderIDs)

	shipped := model.OrderStatusShipped
	list, err := f.orders.ListOrders(&shipped)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	bogus := model.OrderStatus("lost")
	_, err = f.orders.ListOrders(&bogus)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestOrderService_BulkUpdateOrderStatus_RepeatedIDs(t *testing.T) {
	f := setupOrders(t)
	a := f.order(t, OrderItemInput{VariantID: f.goku.ID, Quantity: 1})
	b := f.order(t, OrderItemInput{VariantID: f.vegeta.ID, Quantity: 1})

	updated, err := f.orders.BulkUpdateOrderStatus([]uint{a.ID, b.ID, a.ID}, model.OrderStatusPaid)
	require.NoError(t, err)
	require.Len(t, updated, 2)
	assert.Equal(t, a.ID, updated[0].ID)
	assert.Equal(t, b.ID, updated[1].ID)
	for _, order := range updated {
		assert.Equal(t, model.OrderStatusPaid, order.Status)
	}
	assert.Len(t, f.notifier.orders, 2)
}

func TestOrderService_DeleteOrder(t *testing.T) {
	f := setupOrders(t)
	order := f.order(t, OrderItemInput{VariantID: f.goku.ID, Quantity: 1})

	require.NoError(t, f.orders.DeleteOrder(order.ID))

	var items int64
	f.db.Model(&model.OrderItem{}).Where("order_id = ?", order.ID).Count(&items)
	assert.Zero(t, items)
	assert.ErrorIs(t, f.orders.DeleteOrder(order.ID), ErrOrderNotFound)

	// the catalog is untouched
	_, err := f.variants.GetVariant(f.goku.ID, false)
	assert.NoError(t, err)
}
