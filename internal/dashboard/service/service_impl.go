package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/arclear/arclear/internal/clock"
	"github.com/arclear/arclear/internal/config"
	"github.com/arclear/arclear/internal/dashboard/domain"
	invoicedomain "github.com/arclear/arclear/internal/invoice/domain"
	"github.com/arclear/arclear/internal/orgcontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Clock       clock.Clock
	Repo        domain.Repository
	InvoiceRepo invoicedomain.Repository
	Collections *config.CollectionsConfigHolder
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	clock       clock.Clock
	repo        domain.Repository
	invoiceRepo invoicedomain.Repository
	collections *config.CollectionsConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("dashboard.service"),
		clock:       p.Clock,
		repo:        p.Repo,
		invoiceRepo: p.InvoiceRepo,
		collections: p.Collections,
	}
}

func (s *Service) Get(ctx context.Context, req domain.QueryRequest) (domain.Dashboard, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Dashboard{}, domain.ErrInvalidOrganization
	}

	filter, err := buildFilter(req)
	if err != nil {
		return domain.Dashboard{}, err
	}

	// KPIs always cover the full active set; filters narrow the worklist only.
	active, err := s.invoiceRepo.ListByOrg(ctx, s.db, orgID, []invoicedomain.InvoiceStatus{
		invoicedomain.InvoiceStatusOpen,
		invoicedomain.InvoiceStatusPartial,
	})
	if err != nil {
		return domain.Dashboard{}, err
	}
	kpi := buildKPI(active, s.clock.Now())

	worklist, err := s.repo.Worklist(ctx, s.db, orgID, filter, s.collections.Get().WorklistLimit)
	if err != nil {
		return domain.Dashboard{}, err
	}

	return domain.Dashboard{KPI: kpi, Worklist: worklist}, nil
}

func buildFilter(req domain.QueryRequest) (domain.WorklistFilter, error) {
	filter := domain.WorklistFilter{
		Search:    strings.TrimSpace(req.Search),
		MinAmount: req.MinAmount,
		MaxAmount: req.MaxAmount,
	}

	if tier := strings.TrimSpace(req.RiskTier); tier != "" {
		switch invoicedomain.RiskTier(tier) {
		case invoicedomain.RiskTierUrgent, invoicedomain.RiskTierFollowUp, invoicedomain.RiskTierMonitor:
			filter.RiskTier = invoicedomain.RiskTier(tier)
		default:
			return domain.WorklistFilter{}, domain.ErrInvalidRiskTier
		}
	}
	if bucket := strings.TrimSpace(req.AgingBucket); bucket != "" {
		valid := false
		for _, known := range invoicedomain.AllAgingBuckets() {
			if invoicedomain.AgingBucket(bucket) == known {
				valid = true
				break
			}
		}
		if !valid {
			return domain.WorklistFilter{}, domain.ErrInvalidAgingBucket
		}
		filter.AgingBucket = invoicedomain.AgingBucket(bucket)
	}
	if req.MinAmount != nil && req.MaxAmount != nil && *req.MinAmount > *req.MaxAmount {
		return domain.WorklistFilter{}, domain.ErrInvalidAmountRange
	}

	return filter, nil
}

// buildKPI folds the active invoice set into portfolio headline numbers.
// EstimatedDSO is the dollar-weighted mean age in days of the open balance,
// so a large old invoice moves it more than many small fresh ones.
func buildKPI(invoices []*invoicedomain.Invoice, now time.Time) domain.PortfolioKPI {
	kpi := domain.PortfolioKPI{
		AgingBuckets: map[invoicedomain.AgingBucket]float64{},
	}
	for _, bucket := range invoicedomain.AllAgingBuckets() {
		kpi.AgingBuckets[bucket] = 0
	}

	weightedAge := 0.0
	for _, invoice := range invoices {
		if invoice == nil {
			continue
		}
		kpi.TotalInvoices++
		kpi.TotalAR += invoice.OpenAmount
		if invoice.DaysOverdue > 0 {
			kpi.TotalOverdue += invoice.OpenAmount
		}
		kpi.AgingBuckets[invoice.AgingBucket] += invoice.OpenAmount

		// Age is the plain day floor since the invoice date, unclamped: a
		// future-dated invoice carries a negative age and pulls DSO down.
		age := math.Floor(now.Sub(invoice.InvoiceDate).Hours() / 24)
		weightedAge += age * invoice.OpenAmount
	}

	if kpi.TotalAR > 0 {
		kpi.EstimatedDSO = int(math.Round(weightedAge / kpi.TotalAR))
	}
	return kpi
}
