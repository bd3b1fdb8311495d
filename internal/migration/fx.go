package migration

import (
	"github.com/hli122/salesops-analytics-db/internal/config"
	salesdomain "github.com/hli122/salesops-analytics-db/internal/sales/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(Run),
)

// Run applies the schema for whichever database the process is pointed at.
func Run(conn *gorm.DB, cfg config.Config) error {
	if cfg.DBType != "postgres" {
		// sqlite is for local runs and tests; gorm's migrator covers it.
		return conn.AutoMigrate(
			&salesdomain.Product{},
			&salesdomain.Seller{},
			&salesdomain.ShippingCompany{},
			&salesdomain.SalesLine{},
		)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return RunMigrations(sqlDB)
}
