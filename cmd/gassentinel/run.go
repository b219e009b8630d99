package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"GasSentinel/internal/api"
	"GasSentinel/internal/notifier"
	"GasSentinel/internal/pipeline"
	"GasSentinel/internal/publisher"
	"GasSentinel/internal/recorder"
	"GasSentinel/internal/scheduler"
	"GasSentinel/internal/store"

	"github.com/urfave/cli/v2"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the scheduler, Telegram bot and HTTP API until interrupted",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "run-on-start",
				Usage:   "Execute the weekly plan immediately",
				EnvVars: []string{"RUN_ON_START"},
			},
		},
		Action: serve,
	}
}

func serve(c *cli.Context) error {
	log.Println("[INFO] GasSentinel starting...")

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	p, err := newPipeline(cfg)
	if err != nil {
		log.Fatalf("[FATAL] init pipeline: %v", err)
	}

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init publisher
	var pub publisher.Publisher = publisher.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kp := publisher.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		pub = kp
		defer kp.Close()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, p, cfg.Data.ReadingsPath, store.New(cfg.Output.Dir), tn, rec, pub)
	if err := sched.RegisterAll(cfg.Schedule.WeeklyCron, cfg.Schedule.DailyCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)

	// HTTP API
	router := api.NewRouter(sched, pipeline.NewCachedRunner(p, cfg.API.CacheTTL), 0)
	srv := &http.Server{
		Addr:              cfg.API.Addr,
		Handler:           api.NewHandler(router, os.Stdout),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("[INFO] API listening on %s", cfg.API.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[ERROR] API server: %v", err)
		}
	}()

	if c.Bool("run-on-start") {
		log.Println("[INFO] run-on-start enabled, executing weekly plan now")
		go sched.RunWeeklyNow()
	}

	log.Println("[INFO] GasSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARN] API shutdown: %v", err)
	}
	cancel()
	log.Println("[INFO] GasSentinel stopped")
	return nil
}
