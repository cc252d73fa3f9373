package migration

import (
	expensedomain "github.com/smallbiznis/opsboard/internal/expense/domain"
	historydomain "github.com/smallbiznis/opsboard/internal/history/domain"
	invoicedomain "github.com/smallbiznis/opsboard/internal/invoice/domain"
	productdomain "github.com/smallbiznis/opsboard/internal/product/domain"
	shipmentdomain "github.com/smallbiznis/opsboard/internal/shipment/domain"
	"gorm.io/gorm"
)

// Run migrates every table at startup.
func Run(db *gorm.DB) error {
	return db.AutoMigrate(
		&productdomain.Product{},
		&historydomain.Entry{},
		&expensedomain.Expense{},
		&shipmentdomain.Shipment{},
		&invoicedomain.Invoice{},
	)
}
