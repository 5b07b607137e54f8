// cmd/migrate: apply SQL schema rồi seed admin đầu tiên từ ADMIN_EMAIL / ADMIN_PASSWORD
package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"time"

	"celebstyle-backend/internal/config"
	adminModel "celebstyle-backend/internal/domains/admin/model"
	adminRepo "celebstyle-backend/internal/domains/admin/repository"
	adminService "celebstyle-backend/internal/domains/admin/service"
	"celebstyle-backend/internal/infrastructure/database"
	"celebstyle-backend/migrations"
	"celebstyle-backend/pkg/jwt"
	"celebstyle-backend/pkg/logger"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

func main() {
	skipSeed := flag.Bool("skip-seed", false, "chỉ apply schema, không tạo admin")
	flag.Parse()

	_ = godotenv.Load()
	logger.Init(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to load config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// ========================================
	// 1. SCHEMA (database/sql + lib/pq)
	// ========================================
	sqlDB, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to open database")
	}
	defer sqlDB.Close()

	if err := sqlDB.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("❌ Database unreachable")
	}

	applied, err := applyMigrations(ctx, sqlDB, migrations.FS)
	if err != nil {
		log.Fatal().Err(err).Strs("applied", applied).Msg("❌ Migration failed")
	}
	log.Info().Int("applied", len(applied)).Msg("✅ Schema up to date")

	if *skipSeed {
		return
	}

	// ========================================
	// 2. SEED ADMIN (pgx pool, cùng repository với API)
	// ========================================
	if cfg.Admin.Email == "" {
		log.Info().Msg("ADMIN_EMAIL not set, skipping admin seed")
		return
	}

	db := database.NewPostgresDB(cfg.Database)
	if err := db.Connect(ctx); err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to connect pool")
	}
	defer db.Close()

	auth := adminService.NewService(
		adminRepo.NewPostgresRepository(db.Pool),
		jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenExpiry),
	)
	created, err := auth.EnsureSeedAdmin(ctx, adminModel.SeedRequest{
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
		Name:     cfg.Admin.Name,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to seed admin")
	}
	if created {
		log.Info().Str("email", cfg.Admin.Email).Msg("✅ Admin user created")
	} else {
		log.Info().Msg("Admin users already exist, seed skipped")
	}
}
