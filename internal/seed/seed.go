// Package seed bootstraps the default organization and, on demand, a demo
// receivable portfolio for local evaluation.
package seed

import (
	"context"
	"errors"
	"time"

	customerdomain "github.com/arclear/arclear/internal/customer/domain"
	invoicedomain "github.com/arclear/arclear/internal/invoice/domain"
	organizationdomain "github.com/arclear/arclear/internal/organization/domain"
	"github.com/arclear/arclear/internal/scoring"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

const (
	defaultOrgName = "Main"
	defaultOrgSlug = "main"
)

// EnsureDefaultOrg seeds the default organization for startup bootstrap and
// returns its ID. When defaultOrgID is non-zero a fresh install adopts it, so
// the X-Org-Id fallback in config stays stable across environments.
func EnsureDefaultOrg(db *gorm.DB, defaultOrgID int64) (snowflake.ID, error) {
	if db == nil {
		return 0, errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return 0, err
	}

	ctx := context.Background()
	var orgID snowflake.ID
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var org organizationdomain.Organization
		err := tx.WithContext(ctx).
			Where("slug = ?", defaultOrgSlug).
			First(&org).Error
		if err == nil {
			orgID = org.ID
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		id := node.Generate()
		if defaultOrgID != 0 {
			id = snowflake.ID(defaultOrgID)
		}
		now := time.Now().UTC()
		org = organizationdomain.Organization{
			ID:        id,
			Name:      defaultOrgName,
			Slug:      defaultOrgSlug,
			IsDefault: true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.WithContext(ctx).Create(&org).Error; err != nil {
			return err
		}
		orgID = org.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return orgID, nil
}

type demoInvoice struct {
	number     string
	ageDays    int
	overdue    int
	amount     float64
	openAmount float64
	status     invoicedomain.InvoiceStatus
}

type demoCustomer struct {
	name     string
	email    string
	lateRate *float64
	invoices []demoInvoice
}

// SeedDemoPortfolio inserts a small receivable portfolio. It is a no-op when
// the organization already has customers, so restarts never duplicate data.
func SeedDemoPortfolio(db *gorm.DB, orgID snowflake.ID) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	highLateRate := 0.6
	lowLateRate := 0.1
	portfolio := []demoCustomer{
		{
			name:     "Northwind Traders",
			email:    "ap@northwind.example",
			lateRate: &highLateRate,
			invoices: []demoInvoice{
				{number: "DEMO-1001", ageDays: 150, overdue: 120, amount: 48000, openAmount: 48000, status: invoicedomain.InvoiceStatusOpen},
				{number: "DEMO-1002", ageDays: 95, overdue: 65, amount: 12500, openAmount: 6000, status: invoicedomain.InvoiceStatusPartial},
			},
		},
		{
			name:     "Contoso Ltd",
			email:    "billing@contoso.example",
			lateRate: &lowLateRate,
			invoices: []demoInvoice{
				{number: "DEMO-2001", ageDays: 70, overdue: 40, amount: 9800, openAmount: 9800, status: invoicedomain.InvoiceStatusOpen},
				{number: "DEMO-2002", ageDays: 20, overdue: 0, amount: 3200, openAmount: 3200, status: invoicedomain.InvoiceStatusOpen},
			},
		},
		{
			name:  "Fabrikam Inc",
			email: "accounts@fabrikam.example",
			invoices: []demoInvoice{
				{number: "DEMO-3001", ageDays: 45, overdue: 15, amount: 21000, openAmount: 21000, status: invoicedomain.InvoiceStatusOpen},
				{number: "DEMO-3002", ageDays: 120, overdue: 90, amount: 5000, openAmount: 0, status: invoicedomain.InvoiceStatusPaid},
			},
		},
	}

	ctx := context.Background()
	now := time.Now().UTC()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.WithContext(ctx).
			Model(&customerdomain.Customer{}).
			Where("org_id = ?", orgID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		for _, seed := range portfolio {
			if err := seedCustomerTx(ctx, tx, node, orgID, seed, now); err != nil {
				return err
			}
		}
		return nil
	})
}

func seedCustomerTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, orgID snowflake.ID, seed demoCustomer, now time.Time) error {
	customer := customerdomain.Customer{
		ID:                 node.Generate(),
		OrgID:              orgID,
		Name:               seed.name,
		PrimaryEmail:       seed.email,
		HistoricalLateRate: seed.lateRate,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	openCount := 0
	for _, inv := range seed.invoices {
		if inv.status.IsActive() {
			openCount++
		}
	}

	var stats customerdomain.Stats
	for _, inv := range seed.invoices {
		scored := scoring.Score(scoring.Input{
			DaysOverdue:      inv.overdue,
			OpenAmount:       inv.openAmount,
			LateRate:         seed.lateRate,
			OpenInvoiceCount: &openCount,
		})
		invoice := invoicedomain.Invoice{
			ID:            node.Generate(),
			OrgID:         orgID,
			CustomerID:    customer.ID,
			InvoiceNumber: inv.number,
			InvoiceDate:   now.AddDate(0, 0, -inv.ageDays),
			DueDate:       now.AddDate(0, 0, -inv.overdue),
			InvoiceAmount: inv.amount,
			OpenAmount:    inv.openAmount,
			Status:        inv.status,
			DaysOverdue:   inv.overdue,
			AgingBucket:   scored.AgingBucket,
			PriorityScore: scored.PriorityScore,
			RiskTier:      scored.RiskTier,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if inv.status == invoicedomain.InvoiceStatusPaid {
			invoice.DaysOverdue = 0
			invoice.PriorityScore = 0
			invoice.RiskTier = invoicedomain.RiskTierMonitor
		}

		if inv.status.IsActive() {
			stats.OpenInvoiceCount++
			stats.TotalOpenAmount += inv.openAmount
			if inv.overdue > 0 {
				stats.TotalOverdueAmount += inv.openAmount
			}
		}

		if err := tx.WithContext(ctx).Create(&invoice).Error; err != nil {
			return err
		}
	}

	customer.TotalOpenAmount = stats.TotalOpenAmount
	customer.TotalOverdueAmount = stats.TotalOverdueAmount
	customer.OpenInvoiceCount = stats.OpenInvoiceCount
	return tx.WithContext(ctx).Create(&customer).Error
}
