package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/swasthya/medrec-api/internal/config"
	"github.com/swasthya/medrec-api/internal/handler"
	authHandler "github.com/swasthya/medrec-api/internal/handler/auth"
	chatbotHandler "github.com/swasthya/medrec-api/internal/handler/chatbot"
	doctorHandler "github.com/swasthya/medrec-api/internal/handler/doctor"
	externHandler "github.com/swasthya/medrec-api/internal/handler/extern"
	healthtipHandler "github.com/swasthya/medrec-api/internal/handler/healthtip"
	hospitalHandler "github.com/swasthya/medrec-api/internal/handler/hospital"
	patientHandler "github.com/swasthya/medrec-api/internal/handler/patient"
	uploadHandler "github.com/swasthya/medrec-api/internal/handler/upload"
	"github.com/swasthya/medrec-api/internal/middleware"
	"github.com/swasthya/medrec-api/internal/repository/postgres"
	"github.com/swasthya/medrec-api/internal/router"
	authService "github.com/swasthya/medrec-api/internal/service/auth"
	chatbotService "github.com/swasthya/medrec-api/internal/service/chatbot"
	doctorService "github.com/swasthya/medrec-api/internal/service/doctor"
	externService "github.com/swasthya/medrec-api/internal/service/extern"
	healthtipService "github.com/swasthya/medrec-api/internal/service/healthtip"
	hospitalService "github.com/swasthya/medrec-api/internal/service/hospital"
	patientService "github.com/swasthya/medrec-api/internal/service/patient"
	recordService "github.com/swasthya/medrec-api/internal/service/record"
	uploadService "github.com/swasthya/medrec-api/internal/service/upload"
	"github.com/swasthya/medrec-api/pkg/auth"
	"github.com/swasthya/medrec-api/pkg/logger"
	"github.com/swasthya/medrec-api/pkg/security"
	"github.com/swasthya/medrec-api/pkg/validator"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	appLogger := logger.NewLogger(&logger.Config{
		Level:      level,
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
	})

	if err := validator.Register(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validators")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	patientRepo := postgres.NewPatientRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	hospitalRepo := postgres.NewHospitalRepository(db)
	externRepo := postgres.NewExternRepository(db)
	recordRepo := postgres.NewRecordRepository(db)
	healthTipRepo := postgres.NewHealthTipRepository(db)

	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)
	tokens := auth.NewJWTService(cfg.JWT.Secret)

	authSvc := authService.NewService(patientRepo, doctorRepo, hospitalRepo, externRepo, hasher, tokens)
	patientSvc := patientService.NewService(patientRepo, hasher, appLogger)
	doctorSvc := doctorService.NewService(doctorRepo, hasher)
	hospitalSvc := hospitalService.NewService(hospitalRepo, hasher)
	externSvc := externService.NewService(externRepo, hasher)
	recordSvc := recordService.NewService(recordRepo, patientRepo, appLogger)
	healthTipSvc := healthtipService.NewService(healthTipRepo)
	chatbotSvc := chatbotService.NewService(patientRepo, recordRepo, doctorRepo, hospitalRepo, healthTipSvc, appLogger)
	uploadSvc := uploadService.NewService(cfg.Cloudinary, appLogger)

	authMiddleware := middleware.NewAuthMiddleware(tokens)

	r := router.NewRouter(
		authMiddleware,
		authHandler.NewHandler(authSvc),
		patientHandler.NewHandler(patientSvc, recordSvc),
		doctorHandler.NewHandler(doctorSvc),
		hospitalHandler.NewHandler(hospitalSvc),
		externHandler.NewHandler(externSvc),
		chatbotHandler.NewHandler(chatbotSvc),
		healthtipHandler.NewHandler(healthTipSvc),
		uploadHandler.NewHandler(uploadSvc, cfg.Cloudinary.UploadDir),
		handler.NewHealthHandler(db),
		router.Config{
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: "medrec_api",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		appLogger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
