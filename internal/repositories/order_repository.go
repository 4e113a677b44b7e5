package repositories

import (
	"errors"
	"time"

	"mediscan_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderAlreadyVerified = errors.New("order already verified")
)

type OrderRepository interface {
	Create(order *models.Order) error
	FindByOrderID(orderID string) (*models.Order, error)
	// MarkVerified transitions created -> verified exactly once; a second
	// call reports ErrOrderAlreadyVerified.
	MarkVerified(orderID, paymentID string, at time.Time) error
	MarkFailed(orderID string) error
}

type OrderRepositoryImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &OrderRepositoryImpl{db: db}
}

func (r *OrderRepositoryImpl) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

func (r *OrderRepositoryImpl) FindByOrderID(orderID string) (*models.Order, error) {
	var order models.Order
	err := r.db.First(&order, "order_id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepositoryImpl) MarkVerified(orderID, paymentID string, at time.Time) error {
	// Conditional on status so two concurrent callbacks cannot both win
	res := r.db.Model(&models.Order{}).
		Where("order_id = ? AND status = ?", orderID, models.OrderStatusCreated).
		Updates(map[string]interface{}{
			"status":      models.OrderStatusVerified,
			"payment_id":  paymentID,
			"verified_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var order models.Order
		if err := r.db.First(&order, "order_id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if order.Status == models.OrderStatusVerified {
			return ErrOrderAlreadyVerified
		}
		return ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepositoryImpl) MarkFailed(orderID string) error {
	// Verified orders are immutable; only pending ones can fail
	return r.db.Model(&models.Order{}).
		Where("order_id = ? AND status = ?", orderID, models.OrderStatusCreated).
		Update("status", models.OrderStatusFailed).Error
}
