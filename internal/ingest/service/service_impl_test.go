package service

import (
	"context"
	"strings"
	"testing"
	"time"

	activitydomain "github.com/arclear/arclear/internal/activity/domain"
	activityrepo "github.com/arclear/arclear/internal/activity/repository"
	activityservice "github.com/arclear/arclear/internal/activity/service"
	"github.com/arclear/arclear/internal/clock"
	"github.com/arclear/arclear/internal/config"
	customerdomain "github.com/arclear/arclear/internal/customer/domain"
	customerrepo "github.com/arclear/arclear/internal/customer/repository"
	customerservice "github.com/arclear/arclear/internal/customer/service"
	"github.com/arclear/arclear/internal/ingest/domain"
	ingestrepo "github.com/arclear/arclear/internal/ingest/repository"
	invoicedomain "github.com/arclear/arclear/internal/invoice/domain"
	invoicerepo "github.com/arclear/arclear/internal/invoice/repository"
	"github.com/arclear/arclear/internal/orgcontext"
	"github.com/arclear/arclear/internal/scoring"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

const uploadHeader = "customer_name,customer_email,invoice_number,invoice_date,due_date,invoice_amount,open_amount,status\n"

type testEnv struct {
	svc   domain.Service
	db    *gorm.DB
	clock *clock.FakeClock
	ctx   context.Context
	orgID snowflake.ID
}

func newTestEnv(t *testing.T, collections config.CollectionsConfig) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&customerdomain.Customer{},
		&invoicedomain.Invoice{},
		&activitydomain.Activity{},
		&domain.Upload{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zaptest.NewLogger(t)

	custRepo := customerrepo.Provide()
	invRepo := invoicerepo.Provide()
	custSvc := customerservice.New(customerservice.Params{
		DB:          db,
		Log:         log,
		GenID:       node,
		Repo:        custRepo,
		InvoiceRepo: invRepo,
		Matcher:     customerdomain.ExactMatcher{},
	})
	actSvc := activityservice.New(activityservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Repo:  activityrepo.Provide(),
	})

	fakeClock := clock.NewFakeClock(time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC))
	svc := New(Params{
		DB:          db,
		Log:         log,
		GenID:       node,
		Clock:       fakeClock,
		Repo:        ingestrepo.Provide(),
		CustomerSvc: custSvc,
		InvoiceRepo: invRepo,
		ActivitySvc: actSvc,
		Collections: config.NewStaticCollectionsConfigHolder(collections),
	})

	orgID := node.Generate()
	return &testEnv{
		svc:   svc,
		db:    db,
		clock: fakeClock,
		ctx:   orgcontext.WithOrgID(context.Background(), orgID.Int64()),
		orgID: orgID,
	}
}

func (e *testEnv) process(t *testing.T, csv string) domain.BatchResult {
	t.Helper()
	result, err := e.svc.ProcessBatch(e.ctx, domain.ProcessBatchRequest{
		FileName: "invoices.csv",
		Content:  strings.NewReader(csv),
	})
	require.NoError(t, err)
	return result
}

func (e *testEnv) upload(t *testing.T, id snowflake.ID) domain.Upload {
	t.Helper()
	var upload domain.Upload
	require.NoError(t, e.db.Where("id = ?", id).First(&upload).Error)
	return upload
}

func TestProcessBatchCreatesInvoicesAndCustomers(t *testing.T) {
	env := newTestEnv(t, config.DefaultCollectionsConfig())

	result := env.process(t, uploadHeader+
		"Acme Corp,billing@acme.test,INV-001,2026-01-01,2026-01-01,\"$1,200.00\",\"$1,200.00\",OPEN\n"+
		"Acme Corp,,INV-002,2026-02-01,2026-04-01,500,250,PARTIAL\n")

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.TotalRows)
	assert.Equal(t, 2, result.ProcessedCount)
	assert.Zero(t, result.UpdatedCount)
	assert.Empty(t, result.Errors)

	upload := env.upload(t, result.UploadID)
	assert.Equal(t, domain.UploadStatusCompleted, upload.Status)
	assert.Nil(t, upload.ErrorSummary)

	var customers []customerdomain.Customer
	require.NoError(t, env.db.Find(&customers).Error)
	require.Len(t, customers, 1)
	customer := customers[0]
	assert.Equal(t, "Acme Corp", customer.Name)
	assert.Equal(t, "billing@acme.test", customer.PrimaryEmail)
	assert.Equal(t, 2, customer.OpenInvoiceCount)
	assert.Equal(t, 1450.0, customer.TotalOpenAmount)
	// Only INV-001 is past due at the reference time.
	assert.Equal(t, 1200.0, customer.TotalOverdueAmount)

	// Due 2026-01-01, reference 2026-03-02: 60 days overdue.
	var overdue invoicedomain.Invoice
	require.NoError(t, env.db.Where("invoice_number = ?", "INV-001").First(&overdue).Error)
	assert.Equal(t, 60, overdue.DaysOverdue)
	assert.Equal(t, invoicedomain.BucketDays31_60, overdue.AgingBucket)
	assert.Positive(t, overdue.PriorityScore)

	var activities []activitydomain.Activity
	require.NoError(t, env.db.Find(&activities).Error)
	require.Len(t, activities, 2)
	for _, activity := range activities {
		assert.Equal(t, activitydomain.ActivityInvoiceUploaded, activity.Type)
		assert.Equal(t, result.UploadID.String(), activity.Metadata["upload_id"])
	}
}

func TestProcessBatchIsIdempotent(t *testing.T) {
	env := newTestEnv(t, config.DefaultCollectionsConfig())
	csv := uploadHeader +
		"Acme Corp,,INV-001,2026-01-01,2026-01-31,1000,1000,OPEN\n" +
		"Globex,,INV-002,2026-01-01,2026-04-01,800,800,OPEN\n"

	first := env.process(t, csv)
	assert.Equal(t, 2, first.ProcessedCount)
	assert.Zero(t, first.UpdatedCount)

	var before []customerdomain.Customer
	require.NoError(t, env.db.Order("name").Find(&before).Error)

	second := env.process(t, csv)
	assert.True(t, second.Success)
	assert.Zero(t, second.ProcessedCount)
	assert.Equal(t, 2, second.UpdatedCount)

	var invoiceCount int64
	require.NoError(t, env.db.Model(&invoicedomain.Invoice{}).Count(&invoiceCount).Error)
	assert.EqualValues(t, 2, invoiceCount)

	var after []customerdomain.Customer
	require.NoError(t, env.db.Order("name").Find(&after).Error)
	require.Len(t, after, len(before))
	for i := range after {
		assert.Equal(t, before[i].TotalOpenAmount, after[i].TotalOpenAmount)
		assert.Equal(t, before[i].TotalOverdueAmount, after[i].TotalOverdueAmount)
		assert.Equal(t, before[i].OpenInvoiceCount, after[i].OpenInvoiceCount)
	}
}

func TestProcessBatchRescoresOnReupload(t *testing.T) {
	env := newTestEnv(t, config.DefaultCollectionsConfig())
	csv := uploadHeader + "Acme Corp,,INV-001,2026-01-01,2026-01-31,1000,1000,OPEN\n"

	env.process(t, csv)
	var invoice invoicedomain.Invoice
	require.NoError(t, env.db.Where("invoice_number = ?", "INV-001").First(&invoice).Error)
	assert.Equal(t, 30, invoice.DaysOverdue)
	assert.Equal(t, invoicedomain.BucketCurrent, invoice.AgingBucket)

	env.clock.Advance(40 * 24 * time.Hour)
	env.process(t, csv)
	require.NoError(t, env.db.Where("invoice_number = ?", "INV-001").First(&invoice).Error)
	assert.Equal(t, 70, invoice.DaysOverdue)
	assert.Equal(t, invoicedomain.BucketDays61_90, invoice.AgingBucket)
}

func TestProcessBatchValidationFailureCommitsNothing(t *testing.T) {
	env := newTestEnv(t, config.DefaultCollectionsConfig())

	result := env.process(t, uploadHeader+
		"Acme Corp,,INV-001,2026-01-01,2026-01-31,1000,1000,OPEN\n"+
		"Globex,,,2026-01-01,2026-01-31,500,500,OPEN\n")

	assert.False(t, result.Success)
	assert.Equal(t, 2, result.TotalRows)
	assert.Zero(t, result.ProcessedCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].Row)

	var invoiceCount, customerCount int64
	require.NoError(t, env.db.Model(&invoicedomain.Invoice{}).Count(&invoiceCount).Error)
	require.NoError(t, env.db.Model(&customerdomain.Customer{}).Count(&customerCount).Error)
	assert.Zero(t, invoiceCount)
	assert.Zero(t, customerCount)

	upload := env.upload(t, result.UploadID)
	assert.Equal(t, domain.UploadStatusFailed, upload.Status)
	require.NotNil(t, upload.ErrorSummary)
	assert.Equal(t, "1 validation errors found", *upload.ErrorSummary)
}

func TestProcessBatchEnforcesRowLimit(t *testing.T) {
	collections := config.DefaultCollectionsConfig()
	collections.MaxUploadRows = 1
	env := newTestEnv(t, collections)

	_, err := env.svc.ProcessBatch(env.ctx, domain.ProcessBatchRequest{
		FileName: "invoices.csv",
		Content: strings.NewReader(uploadHeader +
			"Acme Corp,,INV-001,2026-01-01,2026-01-31,1000,1000,OPEN\n" +
			"Globex,,INV-002,2026-01-01,2026-01-31,500,500,OPEN\n"),
	})
	require.ErrorIs(t, err, domain.ErrTooManyRows)
}

func TestProcessBatchEmailBackfillIsSetOnce(t *testing.T) {
	env := newTestEnv(t, config.DefaultCollectionsConfig())

	env.process(t, uploadHeader+"Acme Corp,,INV-001,2026-01-01,2026-01-31,1000,1000,OPEN\n")
	env.process(t, uploadHeader+"Acme Corp,first@acme.test,INV-002,2026-01-01,2026-01-31,500,500,OPEN\n")
	env.process(t, uploadHeader+"Acme Corp,second@acme.test,INV-003,2026-01-01,2026-01-31,500,500,OPEN\n")

	var customer customerdomain.Customer
	require.NoError(t, env.db.Where("name = ?", "Acme Corp").First(&customer).Error)
	assert.Equal(t, "first@acme.test", customer.PrimaryEmail)
}

func TestProcessBatchRequiresOrganization(t *testing.T) {
	env := newTestEnv(t, config.DefaultCollectionsConfig())
	_, err := env.svc.ProcessBatch(context.Background(), domain.ProcessBatchRequest{
		FileName: "invoices.csv",
		Content:  strings.NewReader(uploadHeader),
	})
	require.ErrorIs(t, err, domain.ErrInvalidOrganization)
}

func TestGetUpload(t *testing.T) {
	env := newTestEnv(t, config.DefaultCollectionsConfig())
	result := env.process(t, uploadHeader+"Acme Corp,,INV-001,2026-01-01,2026-01-31,1000,1000,OPEN\n")

	upload, err := env.svc.GetUpload(env.ctx, domain.GetUploadRequest{ID: result.UploadID.String()})
	require.NoError(t, err)
	assert.Equal(t, domain.UploadStatusCompleted, upload.Status)

	_, err = env.svc.GetUpload(env.ctx, domain.GetUploadRequest{ID: "999999999999"})
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.svc.GetUpload(env.ctx, domain.GetUploadRequest{ID: "not-an-id"})
	require.ErrorIs(t, err, domain.ErrInvalidID)
}

// Composition check against the scoring package at the batch reference time.
func TestProcessBatchScoreMatchesScoringPackage(t *testing.T) {
	env := newTestEnv(t, config.DefaultCollectionsConfig())
	env.process(t, uploadHeader+"Acme Corp,,INV-001,2026-01-01,2026-01-01,1000,1000,OPEN\n")

	var invoice invoicedomain.Invoice
	require.NoError(t, env.db.Where("invoice_number = ?", "INV-001").First(&invoice).Error)

	count := 0
	expected := scoring.Score(scoring.Input{
		DaysOverdue:      scoring.DaysOverdue(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), env.clock.Now()),
		OpenAmount:       1000,
		OpenInvoiceCount: &count,
	})
	assert.Equal(t, expected.PriorityScore, invoice.PriorityScore)
	assert.Equal(t, expected.RiskTier, invoice.RiskTier)
	assert.Equal(t, expected.AgingBucket, invoice.AgingBucket)
}
