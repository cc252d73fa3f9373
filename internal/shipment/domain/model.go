package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Status is informational only; any known status can follow any other.
type Status string

const (
	StatusSourcing  Status = "Sourcing"
	StatusShipped   Status = "Shipped"
	StatusInTransit Status = "In Transit"
	StatusCustoms   Status = "Customs"
	StatusDelivered Status = "Delivered"
)

func (s Status) Valid() bool {
	switch s {
	case StatusSourcing, StatusShipped, StatusInTransit, StatusCustoms, StatusDelivered:
		return true
	}
	return false
}

type Method string

const (
	MethodAir Method = "Air"
	MethodSea Method = "Sea"
)

// Item is one line of a shipment manifest.
type Item struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
}

type Shipment struct {
	ID             snowflake.ID   `json:"id" gorm:"primaryKey"`
	Supplier       string         `json:"supplier" gorm:"type:text;not null"`
	Forwarder      string         `json:"forwarder" gorm:"type:text"`
	Origin         string         `json:"origin" gorm:"type:text"`
	Destination    string         `json:"destination" gorm:"type:text"`
	Method         Method         `json:"method" gorm:"type:text"`
	Status         Status         `json:"status" gorm:"type:text;not null"`
	Items          datatypes.JSON `json:"items" gorm:"type:json"`
	TrackingNumber string         `json:"tracking_number,omitempty" gorm:"type:text"`
	TrackingLink   string         `json:"tracking_link,omitempty" gorm:"type:text"`
	InvoiceLink    string         `json:"invoice_link,omitempty" gorm:"type:text"`
	DateSent       time.Time      `json:"date_sent" gorm:"not null"`
	CreatedAt      time.Time      `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time      `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Shipment) TableName() string { return "shipments" }

var (
	ErrNotFound        = errors.New("not_found")
	ErrInvalidSupplier = errors.New("invalid_supplier")
	ErrInvalidMethod   = errors.New("invalid_method")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrInvalidID       = errors.New("invalid_id")
)

type CreateRequest struct {
	Supplier       string    `json:"supplier"`
	Forwarder      string    `json:"forwarder"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	Method         Method    `json:"method"`
	Status         Status    `json:"status"`
	Items          []Item    `json:"items"`
	TrackingNumber string    `json:"tracking_number"`
	TrackingLink   string    `json:"tracking_link"`
	InvoiceLink    string    `json:"invoice_link"`
	DateSent       time.Time `json:"date_sent"`
}

type Response struct {
	ID             string    `json:"id"`
	Supplier       string    `json:"supplier"`
	Forwarder      string    `json:"forwarder,omitempty"`
	Origin         string    `json:"origin,omitempty"`
	Destination    string    `json:"destination,omitempty"`
	Method         Method    `json:"method,omitempty"`
	Status         Status    `json:"status"`
	Items          []Item    `json:"items"`
	TrackingNumber string    `json:"tracking_number,omitempty"`
	TrackingLink   string    `json:"tracking_link,omitempty"`
	InvoiceLink    string    `json:"invoice_link,omitempty"`
	DateSent       time.Time `json:"date_sent"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context) ([]Response, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Response, error)
}

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, shipment *Shipment) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Shipment, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]Shipment, error)
	Update(ctx context.Context, db *gorm.DB, shipment *Shipment) error
}
