package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"memorygym/internal/auth"
	"memorygym/internal/billing"
	"memorygym/internal/config"
	"memorygym/internal/db"
	"memorygym/internal/feedback"
	httpx "memorygym/internal/http"
	"memorygym/internal/importer"
	"memorygym/internal/jobs"
	"memorygym/internal/logger"
	"memorygym/internal/quota"
	"memorygym/internal/study"
)

func main() {
	cfg, _ := config.Load()
	log := logger.New("server")

	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		log.Fatal().Err(err).Msg("db migrate failed")
	}

	jwtSvc := auth.NewJWT(cfg.JWTSecret, cfg.JWTTTL)

	// billing
	var gateway billing.Gateway
	if cfg.IamportAPIKey != "" {
		gateway = billing.NewIamportGateway(cfg.IamportBaseURL, cfg.IamportAPIKey, cfg.IamportAPISecret)
	}
	jobsRepo := &jobs.Repo{DB: gdb}
	billingSvc := billing.NewService(billing.NewGormStore(gdb), gateway, jobsRepo, log)

	// study core: gorm store + quota policy re-evaluated per request
	store := study.NewGormStore(gdb)
	policy := &quota.Policy{Premium: billingSvc, Counters: store}
	studySvc := study.NewService(store, policy)

	// feedback
	var notifier feedback.Notifier
	if cfg.FeedbackWebhookURL != "" {
		notifier = feedback.NewWebhookNotifier(cfg.FeedbackWebhookURL)
	}
	feedbackSvc := &feedback.Service{DB: gdb, Notifier: notifier, Log: log}
	limiter := feedback.NewFixedWindow(3, time.Minute)

	r := httpx.NewRouter(cfg, gdb, jwtSvc, httpx.Deps{
		Study:    studySvc,
		Billing:  billingSvc,
		Feedback: feedbackSvc,
		Limiter:  limiter,
		Importer: &importer.Importer{Study: studySvc},
		Log:      log,
	})

	// worker
	worker := &jobs.Worker{ID: "worker-1", Repo: jobsRepo, DB: gdb, Log: logger.New("worker")}

	ctx, cancel := context.WithCancel(context.Background())
	go worker.Run(ctx)
	go limiter.Sweep(ctx, 5*time.Minute)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
