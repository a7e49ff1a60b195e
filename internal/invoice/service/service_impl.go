package service

import (
	"context"
	"strings"

	activitydomain "github.com/arclear/arclear/internal/activity/domain"
	customerdomain "github.com/arclear/arclear/internal/customer/domain"
	"github.com/arclear/arclear/internal/invoice/domain"
	"github.com/arclear/arclear/internal/orgcontext"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Repo         domain.Repository
	CustomerRepo customerdomain.Repository
	CustomerSvc  customerdomain.Service
	ActivitySvc  activitydomain.Service
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	repo         domain.Repository
	customerRepo customerdomain.Repository
	customerSvc  customerdomain.Service
	activitySvc  activitydomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("invoice.service"),
		genID:        p.GenID,
		repo:         p.Repo,
		customerRepo: p.CustomerRepo,
		customerSvc:  p.CustomerSvc,
		activitySvc:  p.ActivitySvc,
	}
}

func (s *Service) ApplyAction(ctx context.Context, req domain.ApplyActionRequest) error {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ErrInvalidOrganization
	}

	id, err := snowflake.ParseString(strings.TrimSpace(req.InvoiceID))
	if err != nil || id == 0 {
		return domain.ErrInvalidID
	}

	invoice, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return err
	}
	if invoice == nil {
		return domain.ErrNotFound
	}

	switch req.Action {
	case domain.ActionMarkPaid:
		err = s.markPaid(ctx, invoice, req.Note)
	case domain.ActionFlagDispute:
		err = s.flagDispute(ctx, invoice, req.Note)
	case domain.ActionAddNote:
		err = s.addNote(ctx, invoice, req.Note)
	default:
		return domain.ErrInvalidAction
	}
	if err != nil {
		return err
	}

	// Aggregates are recomputed in full after every action so they always
	// equal the sum over the customer's current active invoices.
	if _, err := s.customerSvc.RecalculateStats(ctx, invoice.CustomerID); err != nil {
		return err
	}
	return nil
}

// markPaid settles the invoice terminally: a paid invoice never re-accrues
// overdue status, so its score collapses to zero alongside the balance.
func (s *Service) markPaid(ctx context.Context, invoice *domain.Invoice, note string) error {
	invoice.Status = domain.InvoiceStatusPaid
	invoice.OpenAmount = 0
	invoice.DaysOverdue = 0
	invoice.PriorityScore = 0
	invoice.RiskTier = domain.RiskTierMonitor

	if err := s.repo.Update(ctx, s.db, invoice); err != nil {
		return err
	}

	s.log.Info("invoice marked paid",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
	)
	return s.recordActivity(ctx, invoice, activitydomain.ActivityPaymentRecorded, note)
}

// flagDispute freezes the invoice in DISPUTED without recomputing score
// fields; the last pre-dispute score stays visible on the worklist.
func (s *Service) flagDispute(ctx context.Context, invoice *domain.Invoice, note string) error {
	invoice.Status = domain.InvoiceStatusDisputed
	invoice.DisputeFlagged = true

	if err := s.repo.Update(ctx, s.db, invoice); err != nil {
		return err
	}
	if err := s.customerRepo.SetDisputeFlagged(ctx, s.db, invoice.CustomerID, true); err != nil {
		return err
	}

	s.log.Info("invoice flagged disputed",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
	)
	return s.recordActivity(ctx, invoice, activitydomain.ActivityDisputeFlagged, note)
}

func (s *Service) addNote(ctx context.Context, invoice *domain.Invoice, note string) error {
	return s.recordActivity(ctx, invoice, activitydomain.ActivityNoteAdded, note)
}

func (s *Service) recordActivity(ctx context.Context, invoice *domain.Invoice, activityType activitydomain.ActivityType, note string) error {
	metadata := map[string]any{}
	if strings.TrimSpace(note) != "" {
		metadata["note"] = note
	}
	invoiceID := invoice.ID
	return s.activitySvc.Record(ctx, activitydomain.RecordRequest{
		CustomerID: invoice.CustomerID,
		InvoiceID:  &invoiceID,
		Type:       activityType,
		Metadata:   metadata,
	})
}
