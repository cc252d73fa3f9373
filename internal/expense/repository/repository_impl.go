package repository

import (
	"context"

	"github.com/smallbiznis/opsboard/internal/expense/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, expense *domain.Expense) error {
	return db.WithContext(ctx).Create(expense).Error
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]domain.Expense, error) {
	var items []domain.Expense
	err := db.WithContext(ctx).
		Model(&domain.Expense{}).
		Order("expense_date DESC, id DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
