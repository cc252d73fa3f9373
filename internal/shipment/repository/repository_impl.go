package repository

import (
	"context"
	"errors"

	"github.com/smallbiznis/opsboard/internal/shipment/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, shipment *domain.Shipment) error {
	return db.WithContext(ctx).Create(shipment).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Shipment, error) {
	var shipment domain.Shipment
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&shipment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &shipment, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]domain.Shipment, error) {
	var items []domain.Shipment
	err := db.WithContext(ctx).
		Model(&domain.Shipment{}).
		Order("date_sent DESC, id DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, shipment *domain.Shipment) error {
	return db.WithContext(ctx).
		Model(&domain.Shipment{}).
		Where("id = ?", shipment.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(shipment).Error
}
