package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	activitydomain "github.com/arclear/arclear/internal/activity/domain"
	"github.com/arclear/arclear/internal/clock"
	"github.com/arclear/arclear/internal/config"
	customerdomain "github.com/arclear/arclear/internal/customer/domain"
	"github.com/arclear/arclear/internal/ingest/domain"
	"github.com/arclear/arclear/internal/ingest/parser"
	invoicedomain "github.com/arclear/arclear/internal/invoice/domain"
	"github.com/arclear/arclear/internal/observability/metrics"
	"github.com/arclear/arclear/internal/orgcontext"
	"github.com/arclear/arclear/internal/scoring"
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
	Clock       clock.Clock
	Repo        domain.Repository
	CustomerSvc customerdomain.Service
	InvoiceRepo invoicedomain.Repository
	ActivitySvc activitydomain.Service
	Collections *config.CollectionsConfigHolder
	Metrics     *metrics.IngestMetrics `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        domain.Repository
	customerSvc customerdomain.Service
	invoiceRepo invoicedomain.Repository
	activitySvc activitydomain.Service
	collections *config.CollectionsConfigHolder
	metrics     *metrics.IngestMetrics
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("ingest.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		customerSvc: p.CustomerSvc,
		invoiceRepo: p.InvoiceRepo,
		activitySvc: p.ActivitySvc,
		collections: p.Collections,
		metrics:     p.Metrics,
	}
}

func (s *Service) ProcessBatch(ctx context.Context, req domain.ProcessBatchRequest) (domain.BatchResult, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.BatchResult{}, domain.ErrInvalidOrganization
	}

	now := time.Now().UTC()
	upload := domain.Upload{
		ID:        s.genID.Generate(),
		OrgID:     orgID,
		FileName:  strings.TrimSpace(req.FileName),
		Status:    domain.UploadStatusProcessing,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, s.db, &upload); err != nil {
		return domain.BatchResult{}, err
	}

	parsed, err := parser.ParseInvoiceCSV(req.Content)
	if err != nil {
		s.failUpload(ctx, upload.ID, err.Error())
		return domain.BatchResult{}, err
	}

	if max := s.collections.Get().MaxUploadRows; parsed.TotalRows > max {
		s.failUpload(ctx, upload.ID, fmt.Sprintf("upload exceeds the %d row limit", max))
		return domain.BatchResult{}, domain.ErrTooManyRows
	}

	if !parsed.Success {
		s.failUpload(ctx, upload.ID, fmt.Sprintf("%d validation errors found", len(parsed.Errors)))
		s.log.Info("upload rejected by validation",
			zap.String("upload_id", upload.ID.String()),
			zap.Int("total_rows", parsed.TotalRows),
			zap.Int("error_count", len(parsed.Errors)),
		)
		return domain.BatchResult{
			UploadID:  upload.ID,
			TotalRows: parsed.TotalRows,
			Errors:    parsed.Errors,
		}, nil
	}

	result, err := s.commitRecords(ctx, &upload, parsed.Records)
	if err != nil {
		s.failUpload(ctx, upload.ID, err.Error())
		return domain.BatchResult{}, err
	}
	result.TotalRows = parsed.TotalRows

	if err := s.repo.SetStatus(ctx, s.db, upload.ID, domain.UploadStatusCompleted, nil); err != nil {
		return domain.BatchResult{}, err
	}

	s.metrics.RecordRows(result.ProcessedCount + result.UpdatedCount)
	s.log.Info("upload committed",
		zap.String("upload_id", upload.ID.String()),
		zap.Int("processed", result.ProcessedCount),
		zap.Int("updated", result.UpdatedCount),
	)
	return result, nil
}

// commitRecords reconciles every validated row into storage. All rows in the
// batch are scored against the same reference time so re-running an identical
// file on the same day leaves every score unchanged.
func (s *Service) commitRecords(ctx context.Context, upload *domain.Upload, records []parser.Record) (domain.BatchResult, error) {
	result := domain.BatchResult{Success: true, UploadID: upload.ID}
	referenceTime := s.clock.Now()

	affected := map[snowflake.ID]struct{}{}
	for _, record := range records {
		customer, _, err := s.customerSvc.FindOrCreate(ctx, customerdomain.FindOrCreateRequest{
			Name:                   record.CustomerName,
			Email:                  record.CustomerEmail,
			PaymentTerms:           record.PaymentTerms,
			HistoricalAvgDaysToPay: record.HistoricalAvgDaysToPay,
			HistoricalLateRate:     record.HistoricalLateRate,
			LastPaymentDate:        record.LastPaymentDate,
		})
		if err != nil {
			return domain.BatchResult{}, err
		}

		if record.CustomerEmail != "" && customer.PrimaryEmail == "" {
			if err := s.customerSvc.BackfillEmail(ctx, customer.ID, record.CustomerEmail); err != nil {
				return domain.BatchResult{}, err
			}
		}

		created, err := s.upsertInvoice(ctx, upload.OrgID, customer, record, referenceTime)
		if err != nil {
			return domain.BatchResult{}, err
		}
		if created {
			result.ProcessedCount++
		} else {
			result.UpdatedCount++
		}

		if err := s.activitySvc.Record(ctx, activitydomain.RecordRequest{
			CustomerID: customer.ID,
			Type:       activitydomain.ActivityInvoiceUploaded,
			Metadata: map[string]any{
				"invoice_number": record.InvoiceNumber,
				"upload_id":      upload.ID.String(),
			},
		}); err != nil {
			return domain.BatchResult{}, err
		}

		affected[customer.ID] = struct{}{}
	}

	for customerID := range affected {
		if _, err := s.customerSvc.RecalculateStats(ctx, customerID); err != nil {
			return domain.BatchResult{}, err
		}
	}

	return result, nil
}

// upsertInvoice creates or overwrites the invoice keyed by (org, invoice
// number) and reports whether a new row was created.
func (s *Service) upsertInvoice(ctx context.Context, orgID snowflake.ID, customer customerdomain.Customer, record parser.Record, referenceTime time.Time) (bool, error) {
	daysOverdue := scoring.DaysOverdue(record.DueDate, referenceTime)
	openInvoiceCount := customer.OpenInvoiceCount
	scored := scoring.Score(scoring.Input{
		DaysOverdue:      daysOverdue,
		OpenAmount:       record.OpenAmount,
		LateRate:         customer.HistoricalLateRate,
		OpenInvoiceCount: &openInvoiceCount,
	})

	existing, err := s.invoiceRepo.FindByNumber(ctx, s.db, orgID, record.InvoiceNumber)
	if err != nil {
		return false, err
	}

	if existing == nil {
		now := time.Now().UTC()
		invoice := invoicedomain.Invoice{
			ID:            s.genID.Generate(),
			OrgID:         orgID,
			CustomerID:    customer.ID,
			InvoiceNumber: record.InvoiceNumber,
			InvoiceDate:   record.InvoiceDate,
			DueDate:       record.DueDate,
			InvoiceAmount: record.InvoiceAmount,
			OpenAmount:    record.OpenAmount,
			Status:        record.Status,
			DaysOverdue:   daysOverdue,
			AgingBucket:   scored.AgingBucket,
			PriorityScore: scored.PriorityScore,
			RiskTier:      scored.RiskTier,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		return true, s.invoiceRepo.Insert(ctx, s.db, &invoice)
	}

	existing.InvoiceDate = record.InvoiceDate
	existing.DueDate = record.DueDate
	existing.InvoiceAmount = record.InvoiceAmount
	existing.OpenAmount = record.OpenAmount
	existing.Status = record.Status
	existing.DaysOverdue = daysOverdue
	existing.AgingBucket = scored.AgingBucket
	existing.PriorityScore = scored.PriorityScore
	existing.RiskTier = scored.RiskTier
	return false, s.invoiceRepo.Update(ctx, s.db, existing)
}

func (s *Service) GetUpload(ctx context.Context, req domain.GetUploadRequest) (domain.Upload, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Upload{}, domain.ErrInvalidOrganization
	}

	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.Upload{}, domain.ErrInvalidID
	}

	upload, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return domain.Upload{}, err
	}
	if upload == nil {
		return domain.Upload{}, domain.ErrNotFound
	}
	return *upload, nil
}

func (s *Service) failUpload(ctx context.Context, id snowflake.ID, summary string) {
	s.metrics.RecordBatchFailed()
	if err := s.repo.SetStatus(ctx, s.db, id, domain.UploadStatusFailed, &summary); err != nil {
		s.log.Warn("failed to mark upload failed",
			zap.String("upload_id", id.String()),
			zap.Error(err),
		)
	}
}
