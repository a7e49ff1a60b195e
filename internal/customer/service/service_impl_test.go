package service

import (
	"context"
	"testing"
	"time"

	"github.com/arclear/arclear/internal/customer/domain"
	customerrepo "github.com/arclear/arclear/internal/customer/repository"
	invoicedomain "github.com/arclear/arclear/internal/invoice/domain"
	invoicerepo "github.com/arclear/arclear/internal/invoice/repository"
	"github.com/arclear/arclear/internal/orgcontext"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type testEnv struct {
	svc   domain.Service
	db    *gorm.DB
	node  *snowflake.Node
	ctx   context.Context
	orgID snowflake.ID
}

func newTestEnv(t *testing.T, matcher domain.Matcher) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Customer{}, &invoicedomain.Invoice{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:          db,
		Log:         zaptest.NewLogger(t),
		GenID:       node,
		Repo:        customerrepo.Provide(),
		InvoiceRepo: invoicerepo.Provide(),
		Matcher:     matcher,
	})

	orgID := node.Generate()
	return &testEnv{
		svc:   svc,
		db:    db,
		node:  node,
		ctx:   orgcontext.WithOrgID(context.Background(), orgID.Int64()),
		orgID: orgID,
	}
}

func TestFindOrCreate(t *testing.T) {
	env := newTestEnv(t, domain.ExactMatcher{})

	customer, created, err := env.svc.FindOrCreate(env.ctx, domain.FindOrCreateRequest{
		Name:  "  Acme Corp  ",
		Email: "billing@acme.test",
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Acme Corp", customer.Name)
	assert.Equal(t, "billing@acme.test", customer.PrimaryEmail)

	again, created, err := env.svc.FindOrCreate(env.ctx, domain.FindOrCreateRequest{Name: "Acme Corp"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, customer.ID, again.ID)

	var count int64
	require.NoError(t, env.db.Model(&domain.Customer{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

// blindMatcher simulates losing a find-then-insert race: it never sees the
// row another writer just committed, forcing the insert path.
type blindMatcher struct{}

func (blindMatcher) Name() string { return "blind" }

func (blindMatcher) Find(ctx context.Context, db *gorm.DB, repo domain.Repository, orgID snowflake.ID, name string) (*domain.Customer, error) {
	return nil, nil
}

func TestFindOrCreateDuplicateKeyFallsBackToWinner(t *testing.T) {
	env := newTestEnv(t, domain.ExactMatcher{})

	winner, created, err := env.svc.FindOrCreate(env.ctx, domain.FindOrCreateRequest{Name: "Acme Corp"})
	require.NoError(t, err)
	require.True(t, created)

	loserSvc := New(Params{
		DB:          env.db,
		Log:         zaptest.NewLogger(t),
		GenID:       env.node,
		Repo:        customerrepo.Provide(),
		InvoiceRepo: invoicerepo.Provide(),
		Matcher:     blindMatcher{},
	})

	loser, created, err := loserSvc.FindOrCreate(env.ctx, domain.FindOrCreateRequest{Name: "Acme Corp"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, winner.ID, loser.ID)

	var count int64
	require.NoError(t, env.db.Model(&domain.Customer{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestFindOrCreateValidation(t *testing.T) {
	env := newTestEnv(t, domain.ExactMatcher{})

	_, _, err := env.svc.FindOrCreate(env.ctx, domain.FindOrCreateRequest{Name: "   "})
	require.ErrorIs(t, err, domain.ErrInvalidName)

	_, _, err = env.svc.FindOrCreate(context.Background(), domain.FindOrCreateRequest{Name: "Acme"})
	require.ErrorIs(t, err, domain.ErrInvalidOrganization)
}

func TestFindOrCreateExactMatchIsCaseSensitive(t *testing.T) {
	env := newTestEnv(t, domain.ExactMatcher{})

	_, created, err := env.svc.FindOrCreate(env.ctx, domain.FindOrCreateRequest{Name: "Acme Corp"})
	require.NoError(t, err)
	require.True(t, created)

	_, created, err = env.svc.FindOrCreate(env.ctx, domain.FindOrCreateRequest{Name: "acme corp"})
	require.NoError(t, err)
	assert.True(t, created)
}

func TestFindOrCreateNormalizedMatcher(t *testing.T) {
	env := newTestEnv(t, domain.NormalizedMatcher{})

	first, created, err := env.svc.FindOrCreate(env.ctx, domain.FindOrCreateRequest{Name: "Acme Corp"})
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := env.svc.FindOrCreate(env.ctx, domain.FindOrCreateRequest{Name: "  acme corp"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
}

func TestBackfillEmailIsSetOnce(t *testing.T) {
	env := newTestEnv(t, domain.ExactMatcher{})

	customer, _, err := env.svc.FindOrCreate(env.ctx, domain.FindOrCreateRequest{Name: "Acme Corp"})
	require.NoError(t, err)
	require.Empty(t, customer.PrimaryEmail)

	require.NoError(t, env.svc.BackfillEmail(env.ctx, customer.ID, "first@acme.test"))
	require.NoError(t, env.svc.BackfillEmail(env.ctx, customer.ID, "second@acme.test"))
	// Blank input is a no-op, never an overwrite.
	require.NoError(t, env.svc.BackfillEmail(env.ctx, customer.ID, "  "))

	var stored domain.Customer
	require.NoError(t, env.db.Where("id = ?", customer.ID).First(&stored).Error)
	assert.Equal(t, "first@acme.test", stored.PrimaryEmail)
}

func TestRecalculateStats(t *testing.T) {
	env := newTestEnv(t, domain.ExactMatcher{})
	customer, _, err := env.svc.FindOrCreate(env.ctx, domain.FindOrCreateRequest{Name: "Acme Corp"})
	require.NoError(t, err)

	now := time.Now().UTC()
	seed := []invoicedomain.Invoice{
		{InvoiceNumber: "INV-1", Status: invoicedomain.InvoiceStatusOpen, OpenAmount: 1000, DaysOverdue: 10},
		{InvoiceNumber: "INV-2", Status: invoicedomain.InvoiceStatusPartial, OpenAmount: 250, DaysOverdue: 0},
		{InvoiceNumber: "INV-3", Status: invoicedomain.InvoiceStatusPaid, OpenAmount: 0, DaysOverdue: 0},
		{InvoiceNumber: "INV-4", Status: invoicedomain.InvoiceStatusDisputed, OpenAmount: 999, DaysOverdue: 45},
	}
	for _, invoice := range seed {
		invoice.ID = env.node.Generate()
		invoice.OrgID = env.orgID
		invoice.CustomerID = customer.ID
		invoice.InvoiceDate = now
		invoice.DueDate = now
		invoice.AgingBucket = invoicedomain.BucketCurrent
		invoice.RiskTier = invoicedomain.RiskTierMonitor
		invoice.CreatedAt = now
		invoice.UpdatedAt = now
		require.NoError(t, env.db.Create(&invoice).Error)
	}

	stats, err := env.svc.RecalculateStats(env.ctx, customer.ID)
	require.NoError(t, err)
	// Paid and disputed invoices are excluded from the aggregates.
	assert.Equal(t, 2, stats.OpenInvoiceCount)
	assert.Equal(t, 1250.0, stats.TotalOpenAmount)
	assert.Equal(t, 1000.0, stats.TotalOverdueAmount)

	var stored domain.Customer
	require.NoError(t, env.db.Where("id = ?", customer.ID).First(&stored).Error)
	assert.Equal(t, 1250.0, stored.TotalOpenAmount)
	assert.Equal(t, 1000.0, stored.TotalOverdueAmount)
	assert.Equal(t, 2, stored.OpenInvoiceCount)
}

func TestGetByID(t *testing.T) {
	env := newTestEnv(t, domain.ExactMatcher{})
	customer, _, err := env.svc.FindOrCreate(env.ctx, domain.FindOrCreateRequest{Name: "Acme Corp"})
	require.NoError(t, err)

	detail, err := env.svc.GetByID(env.ctx, domain.GetCustomerRequest{ID: customer.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, customer.ID, detail.Customer.ID)
	assert.Empty(t, detail.Invoices)

	_, err = env.svc.GetByID(env.ctx, domain.GetCustomerRequest{ID: "999999999999"})
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.svc.GetByID(env.ctx, domain.GetCustomerRequest{ID: "bogus"})
	require.ErrorIs(t, err, domain.ErrInvalidID)
}
