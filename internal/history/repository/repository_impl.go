package repository

import (
	"context"
	"time"

	"github.com/smallbiznis/opsboard/internal/history/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, entry *domain.Entry) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO history_entries (
			id, kind, entry_date, product_id, revenue, net_profit, leads, orders, delivered,
			ad_spend, cogs, service_fees, extra_fees, shipping_fees,
			expense_category, expense_amount, is_correction, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Kind,
		entry.EntryDate,
		entry.ProductID,
		entry.Revenue,
		entry.NetProfit,
		entry.Leads,
		entry.Orders,
		entry.Delivered,
		entry.AdSpend,
		entry.COGS,
		entry.ServiceFees,
		entry.ExtraFees,
		entry.ShippingFees,
		entry.ExpenseCategory,
		entry.ExpenseAmount,
		entry.IsCorrection,
		entry.CreatedAt,
	).Error
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]domain.Entry, error) {
	var items []domain.Entry
	err := db.WithContext(ctx).
		Model(&domain.Entry{}).
		Order("entry_date DESC, id DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindInRange(ctx context.Context, db *gorm.DB, from, to time.Time) ([]domain.Entry, error) {
	var items []domain.Entry
	err := db.WithContext(ctx).
		Model(&domain.Entry{}).
		Where("entry_date >= ? AND entry_date < ?", from, to).
		Order("entry_date DESC, id DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
