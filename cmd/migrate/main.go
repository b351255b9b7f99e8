package main

import (
	"context"
	"flag"
	"time"

	"go.uber.org/zap"

	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/identity"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/organization"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/infrastructure/config"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/infrastructure/logger"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/infrastructure/persistence"
)

func main() {
	var (
		seed          bool
		adminEmail    string
		adminPassword string
	)
	flag.BoolVar(&seed, "seed", false, "Seed an admin user and default categories after migrating")
	flag.StringVar(&adminEmail, "admin-email", "admin@example.com", "Email for the seeded admin user")
	flag.StringVar(&adminPassword, "admin-password", "", "Password for the seeded admin user (required with -seed)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	db, err := persistence.NewDatabase(&cfg.Database, log, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	if err := db.Migrate(); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}
	log.Info("Migration completed")

	if !seed {
		return
	}
	if adminPassword == "" {
		log.Fatal("-admin-password is required with -seed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := seedDefaults(ctx, db, adminEmail, adminPassword); err != nil {
		log.Fatal("Seeding failed", zap.Error(err))
	}
	log.Info("Seeding completed", zap.String("admin_email", adminEmail))
}

// seedDefaults creates an admin user and a starter set of spending
// categories. Existing rows are left alone; seeding twice is harmless.
func seedDefaults(ctx context.Context, db *persistence.Database, adminEmail, adminPassword string) error {
	users := persistence.NewGormUserRepository(db.DB)
	categories := persistence.NewGormCategoryRepository(db.DB)

	if _, err := users.FindByEmail(ctx, adminEmail); err != nil {
		admin, err := identity.NewUser(adminEmail, "Administrator", adminPassword, identity.RoleAdmin)
		if err != nil {
			return err
		}
		if err := users.Save(ctx, admin); err != nil {
			return err
		}
	}

	existing, err := categories.FindAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	defaults := []struct {
		name        string
		description string
	}{
		{"Travel", "Transport, lodging and per diem"},
		{"Supplies", "Office supplies and small equipment"},
		{"Entertainment", "Client meals and entertainment"},
		{"Software", "Subscriptions and licenses"},
		{"Other", "Everything else"},
	}
	for _, d := range defaults {
		category, err := organization.NewCategory(d.name, d.description)
		if err != nil {
			return err
		}
		if err := categories.Save(ctx, category); err != nil {
			return err
		}
	}
	return nil
}
