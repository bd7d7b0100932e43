package main

import (
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/tradevault/tradevault-api/internal/config"
	"github.com/tradevault/tradevault-api/internal/logging"
	miniorepo "github.com/tradevault/tradevault-api/internal/repository/minio"
	"github.com/tradevault/tradevault-api/internal/repository/postgres"
	"github.com/tradevault/tradevault-api/internal/service"
	transporthttp "github.com/tradevault/tradevault-api/internal/transport/http"
	"github.com/tradevault/tradevault-api/internal/transport/mail"
	"github.com/tradevault/tradevault-api/internal/util"
)

func main() {
	cfg := config.Load()

	if cfg.LogstashTCPAddr != "" {
		writer, err := logging.NewLogstashWriter(cfg.LogstashTCPAddr)
		if err != nil {
			log.Printf("logstash disabled: %v", err)
		} else {
			defer writer.Close()
			log.SetOutput(io.MultiWriter(os.Stdout, writer))
		}
	}

	db, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer db.Close()

	minioClient, err := miniorepo.NewClient(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOUseSSL)
	if err != nil {
		log.Fatalf("connect minio: %v", err)
	}
	storage := miniorepo.NewStorage(minioClient, cfg.MinIOPublicURL, cfg.MinIOUseSSL)

	smtpPort, err := strconv.Atoi(cfg.SMTPPort)
	if err != nil {
		smtpPort = 587
	}
	mailer, err := mail.NewResetMailer(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     smtpPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		UseTLS:   cfg.SMTPUseTLS,
	})
	if err != nil {
		log.Fatalf("configure mailer: %v", err)
	}

	sessionTTL := parseDuration(cfg.SessionTTL, 24*time.Hour)
	resetTTL := parseDuration(cfg.PasswordResetTTL, 10*time.Minute)

	users := postgres.NewUserRepo(db)
	roles := postgres.NewRoleRepo(db)
	sessions := postgres.NewSessionRepo(db)
	profiles := postgres.NewProfileRepo(db)
	resets := postgres.NewPasswordResetRepo(db)
	trades := postgres.NewTradeRepo(db)
	fundRequests := postgres.NewFundRequestRepo(db)
	messages := postgres.NewMessageRepo(db)

	jwtManager := util.NewJWTManager(cfg.JWTSecret, sessionTTL)

	authService := service.NewAuthService(users, roles, sessions, profiles, jwtManager, sessionTTL, cfg.GoogleAudience)
	resetService := service.NewPasswordResetService(resets, users, mailer, resetTTL)
	kycService := service.NewKYCService(profiles, storage, cfg.MinIOBucketKYC, cfg.UploadMaxBytes)
	tradeService := service.NewTradeService(trades)
	fundService := service.NewFundService(fundRequests, profiles, storage, cfg.MinIOBucketReceipts, cfg.UploadMaxBytes)
	messageService := service.NewMessageService(messages)
	adminService := service.NewAdminService(users, roles, profiles, trades, fundRequests)

	e := transporthttp.NewRouter(cfg.AllowOrigins)
	transporthttp.RegisterSwagger(e)
	transporthttp.RegisterPasswordReset(e, resetService)
	transporthttp.RegisterAuth(e, authService)
	transporthttp.RegisterProfile(e, authService, kycService)
	transporthttp.RegisterTrades(e, authService, tradeService)
	transporthttp.RegisterFunds(e, authService, fundService)
	transporthttp.RegisterMessages(e, authService, messageService)
	transporthttp.RegisterAdmin(e, authService, adminService, kycService, fundService, tradeService, messageService)

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
