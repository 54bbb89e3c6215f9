package analyticssvc

import (
	"context"

	"github.com/shopspring/decimal"

	purchaserepo "github.com/Siyemukel/Digital-online-bookstore/repository/purchase"
)

const topBooksLimit = 5

// Summary is the staff dashboard payload.
type Summary struct {
	DailySales   []purchaserepo.DailySale `json:"daily_sales"`
	TopBooks     []purchaserepo.TopBook   `json:"top_books"`
	TotalRevenue decimal.Decimal          `json:"total_revenue"`
}

type Service interface {
	Summary(ctx context.Context) (*Summary, error)
}

type service struct{ purchases purchaserepo.Repo }

func New(purchases purchaserepo.Repo) Service { return &service{purchases: purchases} }

func (s *service) Summary(ctx context.Context) (*Summary, error) {
	daily, err := s.purchases.DailySales(ctx)
	if err != nil {
		return nil, err
	}
	top, err := s.purchases.TopBooks(ctx, topBooksLimit)
	if err != nil {
		return nil, err
	}
	revenue, err := s.purchases.TotalRevenue(ctx)
	if err != nil {
		return nil, err
	}
	return &Summary{DailySales: daily, TopBooks: top, TotalRevenue: revenue}, nil
}
