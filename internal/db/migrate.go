package db

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/diewo77/garage-app/internal/models"
	migrate "github.com/golang-migrate/migrate/v4"
	// The following blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models in dependency order for AutoMigrate.
func allModels() []interface{} {
	return []interface{}{
		&models.User{}, &models.Customer{}, &models.Vehicle{},
		&models.Service{}, &models.Part{}, &models.Sequence{},
		&models.WorkOrder{}, &models.WorkOrderService{}, &models.WorkOrderPart{},
		&models.Estimate{}, &models.EstimateService{}, &models.EstimatePart{},
		&models.Invoice{}, &models.Payment{},
	}
}

func ConnectAndMigrate() (*gorm.DB, error) {
	dsn := GetNormalizedDSN()
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_DSN is empty, check the environment configuration")
	}
	var db *gorm.DB
	var err error
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}
	dialector := postgres.Open(dsn)
	if IsSQLite(dsn) {
		dialector = sqlite.Open(dsn)
	}
	for i := 0; i < 10; i++ {
		db, err = gorm.Open(dialector, cfg)
		if err == nil {
			break
		}
		fmt.Println("Retrying DB connection...", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}

	// Basic connectivity test
	if pingErr := db.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}

	// Print masked DSN once for diagnostics (before migrations for visibility)
	masked := dsn
	if strings.Contains(masked, "password=") {
		re := regexp.MustCompile(`(password=)([^\s]+)`)
		masked = re.ReplaceAllString(masked, `${1}***`)
	}
	fmt.Println("[DB] Using DSN:", masked)
	// MIGRATIONS=1|true|yes runs sql migrations via golang-migrate; otherwise
	// AutoMigrate (dev convenience). SQL migrations are postgres-only.
	if v := strings.ToLower(os.Getenv("MIGRATIONS")); (v == "1" || v == "true" || v == "yes") && !IsSQLite(dsn) {
		if err := runSQLMigrations(dsn); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		for _, m := range allModels() {
			if migErr := db.AutoMigrate(m); migErr != nil {
				return nil, fmt.Errorf("automigrate %T: %w", m, migErr)
			}
		}
	}

	// sanity check: ensure required core tables exist
	for _, table := range []string{"users", "customers", "work_orders", "sequences"} {
		if !db.Migrator().HasTable(table) {
			return nil, errors.New("missing table after migration: " + table)
		}
	}
	// Seeding only when explicitly requested (e.g. development) via DB_SEED=1|true
	if v := strings.ToLower(os.Getenv("DB_SEED")); v == "1" || v == "true" || v == "yes" {
		seed(db)
	}
	return db, nil
}

func seed(db *gorm.DB) {
	var admin models.User
	if err := db.Where("email = ?", "admin@garage.local").First(&admin).Error; err == gorm.ErrRecordNotFound {
		hash, herr := bcrypt.GenerateFromPassword([]byte("changeme"), 12)
		if herr == nil {
			db.Create(&models.User{
				Email:    "admin@garage.local",
				Password: string(hash),
				Name:     "Administrator",
				Role:     models.RoleAdmin,
			})
		}
	}
	baseServices := []models.Service{
		{Name: "Oil Change", DefaultPrice: decimal.RequireFromString("49.99"), LaborHours: 0.5, IsActive: true},
		{Name: "Tire Rotation", DefaultPrice: decimal.RequireFromString("29.99"), LaborHours: 0.5, IsActive: true},
		{Name: "Brake Inspection", DefaultPrice: decimal.RequireFromString("39.99"), LaborHours: 1, IsActive: true},
		{Name: "Engine Diagnostic", DefaultPrice: decimal.RequireFromString("89.99"), LaborHours: 1, IsActive: true},
	}
	for _, s := range baseServices {
		var existing models.Service
		if err := db.Where("name = ?", s.Name).First(&existing).Error; err == gorm.ErrRecordNotFound {
			db.Create(&s)
		}
	}
	baseParts := []models.Part{
		{Name: "Oil Filter", PartNumber: "OF-1001", Price: decimal.RequireFromString("12.99"), Cost: decimal.RequireFromString("6.50"), QuantityInStock: 40, MinStockLevel: 10, IsActive: true},
		{Name: "Air Filter", PartNumber: "AF-2001", Price: decimal.RequireFromString("19.99"), Cost: decimal.RequireFromString("9.00"), QuantityInStock: 25, MinStockLevel: 5, IsActive: true},
		{Name: "Brake Pads Front", PartNumber: "BP-3001", Price: decimal.RequireFromString("54.99"), Cost: decimal.RequireFromString("28.00"), QuantityInStock: 12, MinStockLevel: 4, IsActive: true},
	}
	for _, p := range baseParts {
		var existing models.Part
		if err := db.Where("part_number = ?", p.PartNumber).First(&existing).Error; err == gorm.ErrRecordNotFound {
			db.Create(&p)
		}
	}
}

// runSQLMigrations executes migrations in ./migrations using golang-migrate file source.
func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
