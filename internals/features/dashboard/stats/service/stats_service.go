package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	orderDTO "ilmhub_backend/internals/features/commerce/orders/dto"
	orderModel "ilmhub_backend/internals/features/commerce/orders/model"
	"ilmhub_backend/internals/features/dashboard/stats/dto"
	masalahModel "ilmhub_backend/internals/features/home/masalah/model"
	questionModel "ilmhub_backend/internals/features/home/questions/model"
	subscriptionModel "ilmhub_backend/internals/features/home/subscriptions/model"
	videoModel "ilmhub_backend/internals/features/home/videos/model"
	institutionModel "ilmhub_backend/internals/features/institutions/institutions/model"
	bookModel "ilmhub_backend/internals/features/library/books/model"
	eventModel "ilmhub_backend/internals/features/programme/events/model"
	userModel "ilmhub_backend/internals/features/users/users/model"
)

const recentOrders = 5

type StatsService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{DB: db, Now: func() time.Time { return time.Now().UTC() }}
}

func (s *StatsService) Compute(ctx context.Context) (dto.DashboardStats, error) {
	db := s.DB.WithContext(ctx)
	now := s.Now()
	out := dto.DashboardStats{OrdersByStatus: map[string]int64{}, GeneratedAt: now}

	counts := []struct {
		name string
		dst  *int64
		q    *gorm.DB
	}{
		{"users", &out.Counts.Users, db.Model(&userModel.UserModel{})},
		{"books", &out.Counts.Books, db.Model(&bookModel.BookModel{})},
		{"videos", &out.Counts.Videos, db.Model(&videoModel.VideoModel{})},
		{"masalah", &out.Counts.Masalah, db.Model(&masalahModel.MasalahModel{})},
		{"institutions", &out.Counts.Institutions, db.Model(&institutionModel.InstitutionModel{})},
		{"subscribers", &out.Counts.Subscribers,
			db.Model(&subscriptionModel.SubscriptionModel{}).Where("subscription_is_active = ?", true)},
		{"pending questions", &out.Counts.PendingQuestions,
			db.Model(&questionModel.QuestionModel{}).Where("question_status = ?", questionModel.StatusPending)},
		{"upcoming events", &out.Counts.UpcomingEvents,
			db.Model(&eventModel.EventModel{}).Where("event_status = ? AND event_start_at > ?", eventModel.StatusUpcoming, now)},
	}
	for _, c := range counts {
		if err := c.q.Count(c.dst).Error; err != nil {
			return out, fmt.Errorf("count %s: %w", c.name, err)
		}
	}

	var byStatus []struct {
		Status string
		Count  int64
	}
	if err := db.Model(&orderModel.OrderModel{}).
		Select("order_status AS status, COUNT(*) AS count").
		Group("order_status").Scan(&byStatus).Error; err != nil {
		return out, fmt.Errorf("orders by status: %w", err)
	}
	for _, r := range byStatus {
		out.OrdersByStatus[r.Status] = r.Count
	}

	// BDT and IDR orders cannot be summed together
	var revenue []struct {
		Currency string
		Revenue  decimal.NullDecimal
	}
	if err := db.Model(&orderModel.OrderModel{}).
		Select("order_currency AS currency, SUM(order_total_amount) AS revenue").
		Where("order_status IN ?", orderModel.RevenueStatuses).
		Group("order_currency").
		Scan(&revenue).Error; err != nil {
		return out, fmt.Errorf("revenue: %w", err)
	}
	out.Revenue = make(map[string]decimal.Decimal, len(revenue))
	for _, r := range revenue {
		if r.Revenue.Valid {
			out.Revenue[r.Currency] = r.Revenue.Decimal
		}
	}

	var recent []orderModel.OrderModel
	if err := db.Order("order_created_at DESC").Limit(recentOrders).Find(&recent).Error; err != nil {
		return out, fmt.Errorf("recent orders: %w", err)
	}
	out.RecentOrders = orderDTO.ToOrderResponseList(recent, nil)
	return out, nil
}
