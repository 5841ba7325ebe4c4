package database

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"impala_backend/internals/configs"
	submodel "impala_backend/internals/features/forms/form_submissions/model"
)

// ConnectDB membuka koneksi PostgreSQL untuk tabel form_drafts.
func ConnectDB(cfg configs.DBConfig, log logrus.FieldLogger) (*gorm.DB, error) {
	log.WithFields(logrus.Fields{"host": cfg.Host, "db": cfg.Name}).Info("🔌 Koneksi ke PostgreSQL...")

	// PreferSimpleProtocol: aman untuk PgBouncer (transaction pooling)
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: configs.NewGormLogger(log)})
	if err != nil {
		return nil, err
	}
	log.Info("✅ DB connected.")
	return db, nil
}

func TunePool(db *gorm.DB, log logrus.FieldLogger) {
	sqlDB, err := db.DB()
	if err != nil {
		log.WithError(err).Warn("pool tune err")
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// Migrate membuat/menyesuaikan tabel form_drafts.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&submodel.FormDraftModel{})
}

// Ping dipakai health check.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
