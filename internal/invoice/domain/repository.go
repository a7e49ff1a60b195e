package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*Invoice, error)
	// FindByNumber resolves an invoice by its natural key (org, number).
	FindByNumber(ctx context.Context, db *gorm.DB, orgID snowflake.ID, invoiceNumber string) (*Invoice, error)
	Update(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	ListByCustomer(ctx context.Context, db *gorm.DB, customerID snowflake.ID) ([]*Invoice, error)
	// ListByOrg returns the org's invoices restricted to the given statuses;
	// an empty filter returns all of them.
	ListByOrg(ctx context.Context, db *gorm.DB, orgID snowflake.ID, statuses []InvoiceStatus) ([]*Invoice, error)
}
