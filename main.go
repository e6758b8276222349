package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"bukuku_backend/internals/configs"
	database "bukuku_backend/internals/databases"
	bookModel "bukuku_backend/internals/features/books/model"
	"bukuku_backend/internals/features/books/repository"
	"bukuku_backend/internals/features/books/service"
	helper "bukuku_backend/internals/helpers"
	"bukuku_backend/internals/helpers/ml"
	helperOSS "bukuku_backend/internals/helpers/oss"
	middlewares "bukuku_backend/internals/middlewares"
	routes "bukuku_backend/internals/route"
)

func main() {
	configs.LoadEnv()
	cfg := configs.Load()
	configs.InitLogger(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("❌ Konfigurasi tidak lengkap")
	}

	ctx := context.Background()

	// 🔌 DB connect + pool
	db, err := database.ConnectDB(cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ DB")
	}
	database.TunePool(db)
	if cfg.DB.AutoMigrate {
		if err := database.AutoMigrate(db,
			&bookModel.BookModel{},
			&bookModel.BookRatingModel{},
			&bookModel.FeatureRowModel{},
		); err != nil {
			log.Fatal().Err(err).Msg("❌ Migrasi")
		}
	}

	// ☁️ OSS
	ossSvc, err := helperOSS.NewOSSService(cfg.OSS)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ OSS")
	}

	// 🧠 Model
	mctx, cancel := context.WithTimeout(ctx, cfg.Model.Timeout+5*time.Second)
	predictor, err := ml.NewPredictor(mctx, cfg.Model)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Model.Backend).Msg("❌ Model")
	}

	// 🧮 Redis (opsional, storage limiter)
	var limiterStorage fiber.Storage
	redisStorage, err := middlewares.NewRedisStorage(ctx, cfg.Redis)
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("⚠️ Redis tidak tersedia, limiter pakai memory")
	case redisStorage != nil:
		limiterStorage = redisStorage
	}

	svc := service.NewBookService(
		repository.NewGormBookRepository(db),
		helperOSS.NewOSSBlobService(ossSvc),
		predictor,
		cfg.Model.Features,
	)

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          helper.ErrorHandler,
		BodyLimit:             cfg.MaxUploadMB * 1024 * 1024,
		DisableStartupMessage: true,
		ProxyHeader:           fiber.HeaderXForwardedFor,
	})

	middlewares.SetupMiddlewares(app, cfg, limiterStorage)

	// ✅ Routes
	routes.SetupRoutes(app, db, svc)

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	// Start server non-blocking
	go func() {
		log.Info().Str("port", cfg.Port).Str("model", predictor.Name()).Msg("✅ Listening")
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown + tutup pool DB & Redis
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("🛑 Shutdown...")

	sctx, scancel := context.WithTimeout(ctx, 5*time.Second)
	defer scancel()
	_ = app.ShutdownWithContext(sctx)

	if redisStorage != nil {
		_ = redisStorage.Close()
	}
	database.Close(db)
}
