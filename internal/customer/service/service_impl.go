package service

import (
	"context"
	"strings"
	"time"

	"github.com/arclear/arclear/internal/customer/domain"
	invoicedomain "github.com/arclear/arclear/internal/invoice/domain"
	"github.com/arclear/arclear/internal/orgcontext"
	"github.com/arclear/arclear/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Repo        domain.Repository
	InvoiceRepo invoicedomain.Repository
	Matcher     domain.Matcher
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	repo        domain.Repository
	invoiceRepo invoicedomain.Repository
	matcher     domain.Matcher
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("customer.service"),
		genID:       p.GenID,
		repo:        p.Repo,
		invoiceRepo: p.InvoiceRepo,
		matcher:     p.Matcher,
	}
}

func (s *Service) FindOrCreate(ctx context.Context, req domain.FindOrCreateRequest) (domain.Customer, bool, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Customer{}, false, domain.ErrInvalidOrganization
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Customer{}, false, domain.ErrInvalidName
	}

	existing, err := s.matcher.Find(ctx, s.db, s.repo, orgID, name)
	if err != nil {
		return domain.Customer{}, false, err
	}
	if existing != nil {
		return *existing, false, nil
	}

	now := time.Now().UTC()
	customer := domain.Customer{
		ID:                     s.genID.Generate(),
		OrgID:                  orgID,
		Name:                   name,
		PrimaryEmail:           strings.TrimSpace(req.Email),
		PaymentTerms:           req.PaymentTerms,
		HistoricalAvgDaysToPay: req.HistoricalAvgDaysToPay,
		HistoricalLateRate:     req.HistoricalLateRate,
		LastPaymentDate:        req.LastPaymentDate,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	if err := s.repo.Insert(ctx, s.db, &customer); err != nil {
		// Another batch introduced the same name concurrently; the unique
		// index on (org_id, name) makes the loser fall back to the winner.
		if db.IsDuplicateKeyErr(err) {
			winner, findErr := s.repo.FindByName(ctx, s.db, orgID, name)
			if findErr != nil {
				return domain.Customer{}, false, findErr
			}
			if winner != nil {
				return *winner, false, nil
			}
		}
		return domain.Customer{}, false, err
	}

	return customer, true, nil
}

func (s *Service) BackfillEmail(ctx context.Context, customerID snowflake.ID, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}
	return s.repo.BackfillEmail(ctx, s.db, customerID, email)
}

func (s *Service) RecalculateStats(ctx context.Context, customerID snowflake.ID) (domain.Stats, error) {
	invoices, err := s.invoiceRepo.ListByCustomer(ctx, s.db, customerID)
	if err != nil {
		return domain.Stats{}, err
	}

	var stats domain.Stats
	for _, invoice := range invoices {
		if invoice == nil || !invoice.Status.IsActive() {
			continue
		}
		stats.OpenInvoiceCount++
		stats.TotalOpenAmount += invoice.OpenAmount
		if invoice.DaysOverdue > 0 {
			stats.TotalOverdueAmount += invoice.OpenAmount
		}
	}

	if err := s.repo.UpdateStats(ctx, s.db, customerID, stats); err != nil {
		return domain.Stats{}, err
	}
	return stats, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetCustomerRequest) (domain.CustomerDetail, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.CustomerDetail{}, domain.ErrInvalidOrganization
	}

	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.CustomerDetail{}, domain.ErrInvalidID
	}

	customer, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return domain.CustomerDetail{}, err
	}
	if customer == nil {
		return domain.CustomerDetail{}, domain.ErrNotFound
	}

	items, err := s.invoiceRepo.ListByCustomer(ctx, s.db, id)
	if err != nil {
		return domain.CustomerDetail{}, err
	}

	invoices := make([]invoicedomain.Invoice, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		invoices = append(invoices, *item)
	}

	return domain.CustomerDetail{Customer: *customer, Invoices: invoices}, nil
}
