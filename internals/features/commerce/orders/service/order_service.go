package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"ilmhub_backend/internals/features/commerce/orders/model"
	bookModel "ilmhub_backend/internals/features/library/books/model"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrStaleStatus means another writer moved the order first.
	ErrStaleStatus = errors.New("order status changed concurrently")
)

// Payment is what a verified gateway callback reports for a paid order.
type Payment struct {
	Ref     string
	Method  string
	Payload []byte
	// Confirmed marks money the gateway has actually taken. Such a payment
	// also settles a failed or cancelled order that was never paid.
	Confirmed bool
}

type OrderService struct {
	DB       *gorm.DB
	Dispatch Dispatcher
	Now      func() time.Time
}

func NewOrderService(db *gorm.DB, d Dispatcher) *OrderService {
	return &OrderService{DB: db, Dispatch: d, Now: func() time.Time { return time.Now().UTC() }}
}

func (s *OrderService) dispatch(ctx context.Context, eventType string, o model.OrderModel) {
	if s.Dispatch != nil {
		s.Dispatch.Dispatch(ctx, NewEvent(eventType, o))
	}
}

func (s *OrderService) ByTranID(ctx context.Context, tranID string) (model.OrderModel, error) {
	var o model.OrderModel
	err := s.DB.WithContext(ctx).First(&o, "order_tran_id = ?", tranID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return o, ErrOrderNotFound
	}
	return o, err
}

// MarkPaid moves a pending order to paid. Only the caller whose conditional
// update wins gets true; it alone decrements stock and dispatches the event.
func (s *OrderService) MarkPaid(ctx context.Context, tranID string, p Payment) (bool, error) {
	var won, late bool
	var order model.OrderModel
	now := s.Now()

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"order_status":         model.StatusPaid,
			"order_paid_at":        now,
			"order_payment_ref":    p.Ref,
			"order_payment_method": p.Method,
		}
		if len(p.Payload) > 0 {
			updates["order_gateway_payload"] = datatypes.JSON(p.Payload)
		}
		res := tx.Model(&model.OrderModel{}).
			Where("order_tran_id = ? AND order_status = ?", tranID, model.StatusPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 && p.Confirmed {
			res = tx.Model(&model.OrderModel{}).
				Where("order_tran_id = ? AND order_status IN ? AND order_paid_at IS NULL",
					tranID, []model.Status{model.StatusFailed, model.StatusCancelled}).
				Updates(updates)
			if res.Error != nil {
				return res.Error
			}
			late = res.RowsAffected > 0
		}
		if res.RowsAffected == 0 {
			return nil
		}
		won = true

		if err := tx.First(&order, "order_tran_id = ?", tranID).Error; err != nil {
			return err
		}
		stock := tx.Model(&bookModel.BookModel{}).
			Where("book_id = ? AND book_stock >= ?", order.OrderBookID, order.OrderQuantity).
			UpdateColumn("book_stock", gorm.Expr("book_stock - ?", order.OrderQuantity))
		if stock.Error != nil {
			return stock.Error
		}
		if stock.RowsAffected == 0 {
			// the money is taken; staff resolve oversold orders by hand
			log.Printf("[WARN] order %s paid but book %s has less than %d in stock",
				tranID, order.OrderBookID, order.OrderQuantity)
		}
		return nil
	})
	if err != nil || !won {
		return false, err
	}
	if late {
		log.Printf("[WARN] order %s was closed unpaid before payment %s arrived; now paid", tranID, p.Ref)
	}
	s.dispatch(ctx, EventOrderPaid, order)
	return true, nil
}

// MarkUnpaid closes a pending order as failed or cancelled. Same winner rule as MarkPaid.
func (s *OrderService) MarkUnpaid(ctx context.Context, tranID string, to model.Status, payload []byte) (bool, error) {
	if to != model.StatusFailed && to != model.StatusCancelled {
		return false, ErrInvalidTransition
	}
	updates := map[string]any{"order_status": to}
	if len(payload) > 0 {
		updates["order_gateway_payload"] = datatypes.JSON(payload)
	}
	res := s.DB.WithContext(ctx).Model(&model.OrderModel{}).
		Where("order_tran_id = ? AND order_status = ?", tranID, model.StatusPending).
		Updates(updates)
	if res.Error != nil || res.RowsAffected == 0 {
		return false, res.Error
	}
	o, err := s.ByTranID(ctx, tranID)
	if err != nil {
		return true, err
	}
	s.dispatch(ctx, EventOrderFailed, o)
	return true, nil
}

// ChangeStatus is the admin transition. pending→paid goes through MarkPaid so
// stock is handled the same way as a gateway payment.
func (s *OrderService) ChangeStatus(ctx context.Context, o model.OrderModel, to model.Status) (model.OrderModel, error) {
	if !model.CanTransition(o.OrderStatus, to) {
		return o, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, o.OrderStatus, to)
	}

	switch {
	case o.OrderStatus == model.StatusPending && to == model.StatusPaid:
		ok, err := s.MarkPaid(ctx, o.OrderTranID, Payment{Ref: "manual", Method: "manual"})
		if err != nil {
			return o, err
		}
		if !ok {
			return o, ErrStaleStatus
		}
	case o.OrderStatus == model.StatusPending:
		ok, err := s.MarkUnpaid(ctx, o.OrderTranID, to, nil)
		if err != nil {
			return o, err
		}
		if !ok {
			return o, ErrStaleStatus
		}
	default:
		err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&model.OrderModel{}).
				Where("order_id = ? AND order_status = ?", o.OrderID, o.OrderStatus).
				Update("order_status", to)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrStaleStatus
			}
			if to != model.StatusCancelled {
				return nil
			}
			// paid and processing orders already took their copies off the shelf
			return tx.Model(&bookModel.BookModel{}).
				Where("book_id = ?", o.OrderBookID).
				UpdateColumn("book_stock", gorm.Expr("book_stock + ?", o.OrderQuantity)).Error
		})
		if err != nil {
			return o, err
		}
		o.OrderStatus = to
		s.dispatch(ctx, EventOrderStatusChanged, o)
		return o, nil
	}
	return s.ByTranID(ctx, o.OrderTranID)
}
