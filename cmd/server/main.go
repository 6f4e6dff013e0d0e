package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"economy-engine/config"
	"economy-engine/internal/api"
	"economy-engine/internal/broker"
	"economy-engine/internal/engine"
	"economy-engine/internal/redisclient"
	"economy-engine/internal/settlement"
	"economy-engine/internal/store"
	"economy-engine/internal/util"
	"economy-engine/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting economy engine")

	tp, err := util.InitTracer("economy-engine", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis connected")

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicNotifications)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer)

	txTimeout := time.Duration(cfg.Simulation.TxTimeoutSeconds) * time.Second
	lockTTL := time.Duration(cfg.Simulation.TickLockTTLSeconds) * time.Second

	tickEngine := engine.NewEngine(db, txTimeout)
	settlements := settlement.NewEngine(db, redisClient, eventPublisher, txTimeout)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	loc, err := time.LoadLocation(cfg.Simulation.ReferenceTimeZone)
	if err != nil {
		log.Printf("Invalid reference timezone %q, falling back to UTC", cfg.Simulation.ReferenceTimeZone)
		loc = time.UTC
	}

	commandConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicCommands, cfg.Kafka.ConsumerGroup)
	simWorker := worker.NewSimulationWorker(commandConsumer, tickEngine, settlements, redisClient, eventPublisher, lockTTL, loc, cfg.Simulation.PayoutDays)
	go func() {
		if err := simWorker.Start(workerCtx); err != nil {
			log.Printf("Simulation worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(db, tickEngine, settlements)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	simWorker.Stop()

	log.Println("Server exited")
}
