package migration

import (
	activitydomain "github.com/arclear/arclear/internal/activity/domain"
	"github.com/arclear/arclear/internal/config"
	customerdomain "github.com/arclear/arclear/internal/customer/domain"
	ingestdomain "github.com/arclear/arclear/internal/ingest/domain"
	invoicedomain "github.com/arclear/arclear/internal/invoice/domain"
	organizationdomain "github.com/arclear/arclear/internal/organization/domain"
	"github.com/arclear/arclear/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// The migration scripts target postgres; sqlite and mysql
			// deployments bootstrap their schema from the models instead.
			if err := conn.AutoMigrate(
				&organizationdomain.Organization{},
				&customerdomain.Customer{},
				&invoicedomain.Invoice{},
				&activitydomain.Activity{},
				&ingestdomain.Upload{},
			); err != nil {
				return err
			}
		}

		orgID, err := seed.EnsureDefaultOrg(conn, cfg.DefaultOrgID)
		if err != nil {
			return err
		}
		if cfg.SeedDemoData {
			return seed.SeedDemoPortfolio(conn, orgID)
		}
		return nil
	}),
)
