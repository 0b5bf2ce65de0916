package service

import (
	"strings"

	"github.com/geekcommerce/geek-commerce-backend/internal/app/model"
	"github.com/geekcommerce/geek-commerce-backend/internal/app/repository"
	apperrors "github.com/geekcommerce/geek-commerce-backend/internal/errors"
	"github.com/geekcommerce/geek-commerce-backend/pkg/logger"
	"gorm.io/gorm"
)

type OrderItemInput struct {
	VariantID     uint
	Quantity      int
	Customization string
}

// OrderNotifier is told about every committed status change.
type OrderNotifier interface {
	NotifyOrderStatus(order *model.Order)
}

type OrderService interface {
	CreateOrder(userID uint, shippingAddress string, items []OrderItemInput) (*model.Order, error)
	AddOrderItem(userID uint, role string, orderID uint, item OrderItemInput) (*model.Order, error)
	GetOrder(userID uint, role string, orderID uint) (*model.Order, error)
	ListUserOrders(userID uint) ([]model.Order, error)
	ListOrders(status *model.OrderStatus) ([]model.Order, error)
	UpdateOrderStatus(orderID uint, status model.OrderStatus) (*model.Order, error)
	BulkUpdateOrderStatus(orderIDs []uint, status model.OrderStatus) ([]model.Order, error)
	DeleteOrder(orderID uint) error
}

type orderService struct {
	db        *gorm.DB
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	notifier  OrderNotifier
}

func NewOrderService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	notifier ...OrderNotifier,
) OrderService {
	var n OrderNotifier
	if len(notifier) > 0 {
		n = notifier[0]
	}
	return &orderService{
		db:        db,
		orderRepo: orderRepo,
		userRepo:  userRepo,
		notifier:  n,
	}
}

func isAdmin(role string) bool {
	return role == string(model.RoleAdmin)
}

// newOrderItem snapshots the variant's name, SKU and current price.
func newOrderItem(tx *gorm.DB, input OrderItemInput) (*model.OrderItem, error) {
	if input.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	var variant model.ProductVariant
	if err := tx.First(&variant, input.VariantID).Error; err != nil {
		if apperrors.IsNotFound(err) {
			return nil, invalidRef(ErrVariantNotFound)
		}
		return nil, err
	}

	var active bool
	if err := tx.Model(&model.Product{}).Select("is_active").
		Where("id = ?", variant.ProductID).Scan(&active).Error; err != nil {
		return nil, err
	}
	if !active {
		return nil, ErrProductUnavailable
	}

	variantID := variant.ID
	return &model.OrderItem{
		VariantID:     &variantID,
		VariantName:   variant.Name,
		SKU:           variant.SKU,
		Price:         variant.Price,
		Quantity:      input.Quantity,
		Customization: strings.TrimSpace(input.Customization),
	}, nil
}

func (s *orderService) CreateOrder(userID uint, shippingAddress string, items []OrderItemInput) (*model.Order, error) {
	shippingAddress = strings.TrimSpace(shippingAddress)
	if shippingAddress == "" {
		return nil, ErrInvalidAddress
	}
	if _, err := s.userRepo.FindByID(userID); err != nil {
		return nil, mapNotFound(err, ErrUserNotFound)
	}

	logger.Info("Creating order", map[string]interface{}{
		"user_id":    userID,
		"item_count": len(items),
	})

	order := &model.Order{
		UserID:          userID,
		Status:          model.OrderStatusPending,
		ShippingAddress: shippingAddress,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, input := range items {
			item, err := newOrderItem(tx, input)
			if err != nil {
				return err
			}
			order.OrderItems = append(order.OrderItems, *item)
		}
		return s.orderRepo.WithTx(tx).Create(order)
	})
	if err != nil {
		logger.Warn("Failed to create order", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, err
	}

	logger.Info("Order created", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  userID,
		"total":    order.Total().String(),
	})
	return s.orderRepo.FindByID(order.ID)
}

// AddOrderItem appends an item to a pending order owned by the caller.
func (s *orderService) AddOrderItem(userID uint, role string, orderID uint, input OrderItemInput) (*model.Order, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		orders := s.orderRepo.WithTx(tx)

		order, err := orders.FindByIDForUpdate(orderID)
		if err != nil {
			return mapNotFound(err, ErrOrderNotFound)
		}
		if order.UserID != userID && !isAdmin(role) {
			return ErrOrderNotFound
		}
		if order.Status != model.OrderStatusPending {
			return ErrOrderNotEditable
		}

		item, err := newOrderItem(tx, input)
		if err != nil {
			return err
		}
		item.OrderID = order.ID
		return orders.AddItem(item)
	})
	if err != nil {
		logger.Warn("Failed to add order item", map[string]interface{}{
			"order_id": orderID,
			"user_id":  userID,
			"error":    err.Error(),
		})
		return nil, err
	}

	logger.Info("Order item added", map[string]interface{}{
		"order_id":   orderID,
		"variant_id": input.VariantID,
		"quantity":   input.Quantity,
	})
	return s.orderRepo.FindByID(orderID)
}

// GetOrder hides other users' orders from non-admins.
func (s *orderService) GetOrder(userID uint, role string, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return nil, mapNotFound(err, ErrOrderNotFound)
	}
	if order.UserID != userID && !isAdmin(role) {
		logger.Warn("Order access denied", map[string]interface{}{
			"order_id": orderID,
			"user_id":  userID,
		})
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) ListUserOrders(userID uint) ([]model.Order, error) {
	return s.orderRepo.FindByUserID(userID)
}

func (s *orderService) ListOrders(status *model.OrderStatus) ([]model.Order, error) {
	if status != nil && !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.orderRepo.FindWithFilter(repository.OrderFilter{Status: status})
}

func transitionOrder(orders repository.OrderRepository, orderID uint, status model.OrderStatus) error {
	order, err := orders.FindByIDForUpdate(orderID)
	if err != nil {
		return mapNotFound(err, ErrOrderNotFound)
	}
	if !order.Status.CanTransitionTo(status) {
		logger.Warn("Rejected order status transition", map[string]interface{}{
			"order_id": orderID,
			"from":     order.Status,
			"to":       status,
		})
		return ErrInvalidStatusTransition
	}
	return orders.UpdateStatus(orderID, status, status.IsPaidStage())
}

func (s *orderService) UpdateOrderStatus(orderID uint, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return transitionOrder(s.orderRepo.WithTx(tx), orderID, status)
	})
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return nil, err
	}

	logger.Info("Order status updated", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
		"is_paid":  order.IsPaid,
	})
	s.notify(order)
	return order, nil
}

// BulkUpdateOrderStatus moves every order to status or none of them.
func (s *orderService) BulkUpdateOrderStatus(orderIDs []uint, status model.OrderStatus) ([]model.Order, error) {
	if len(orderIDs) == 0 {
		return nil, ErrNoOrderIDs
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	orderIDs = uniqueIDs(orderIDs)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		orders := s.orderRepo.WithTx(tx)
		for _, id := range orderIDs {
			if err := transitionOrder(orders, id, status); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Warn("Bulk order status update rolled back", map[string]interface{}{
			"order_count": len(orderIDs),
			"status":      status,
			"error":       err.Error(),
		})
		return nil, err
	}

	updated := make([]model.Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		order, err := s.orderRepo.FindByID(id)
		if err != nil {
			return nil, err
		}
		s.notify(order)
		updated = append(updated, *order)
	}

	logger.Info("Bulk order status update applied", map[string]interface{}{
		"order_count": len(orderIDs),
		"status":      status,
	})
	return updated, nil
}

// uniqueIDs drops repeated ids, keeping first occurrences in order.
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func (s *orderService) DeleteOrder(orderID uint) error {
	if err := s.orderRepo.Delete(orderID); err != nil {
		return mapNotFound(err, ErrOrderNotFound)
	}

	logger.Info("Order deleted", map[string]interface{}{
		"order_id": orderID,
	})
	return nil
}

func (s *orderService) notify(order *model.Order) {
	if s.notifier != nil {
		s.notifier.NotifyOrderStatus(order)
	}
}
