package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"localfirst-bot/internal/analytics"
	"localfirst-bot/internal/common/httpx"
	"localfirst-bot/internal/common/logger"
	"localfirst-bot/internal/config"
	"localfirst-bot/internal/connections/database"
	"localfirst-bot/internal/connections/rabbitmq"
	"localfirst-bot/internal/connections/redisdb"
	"localfirst-bot/internal/conversation"
	"localfirst-bot/internal/events"
	"localfirst-bot/internal/flow"
	"localfirst-bot/internal/idempotency"
	"localfirst-bot/internal/menu"
	"localfirst-bot/internal/messaging"
	"localfirst-bot/internal/orders"
	"localfirst-bot/internal/tracking"
	"localfirst-bot/internal/webhook"

	"github.com/segmentio/kafka-go"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "config.yaml", "path to YAML config")
	flag.Parse()

	lg := logger.New("bootstrap")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		lg.Error("config_load_failed", err, nil)
		os.Exit(1)
	}

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		lg.Error("db_connect_failed", err, nil)
		os.Exit(1)
	}
	defer db.Close()
	lg.Info("db_connected", map[string]any{"host": cfg.Database.Host, "database": cfg.Database.Database})

	rds, err := redisdb.Connect(ctx, cfg.Redis)
	if err != nil {
		lg.Error("redis_connect_failed", err, nil)
		os.Exit(1)
	}
	defer rds.Close()
	lg.Info("redis_connected", map[string]any{"host": cfg.Redis.Host})

	rmq, err := rabbitmq.Dial(cfg.Rabbit)
	if err != nil {
		lg.Error("rabbitmq_connect_failed", err, nil)
		os.Exit(1)
	}
	defer rmq.Close()
	lg.Info("rabbitmq_connected", map[string]any{"host": cfg.Rabbit.Host, "vhost": cfg.Rabbit.VHost})

	orderEvents := events.NewOrderPublisher(rmq)
	if err := orderEvents.DeclareTopology(); err != nil {
		lg.Error("rabbitmq_topology_failed", err, nil)
		os.Exit(1)
	}

	var activity analytics.Publisher = analytics.NopPublisher{}
	if cfg.Kafka.Brokers != "" {
		writer := &kafka.Writer{
			Addr:     kafka.TCP(strings.Split(cfg.Kafka.Brokers, ",")...),
			Topic:    cfg.Kafka.Topic,
			Balancer: &kafka.Hash{},
		}
		defer writer.Close()
		activity = analytics.NewKafkaPublisher(writer)
		lg.Info("kafka_enabled", map[string]any{"topic": cfg.Kafka.Topic})
	}

	convRepo := conversation.NewRepo(db)
	ordersRepo := orders.NewRepo(db)
	ledger := idempotency.NewLedger(rds, time.Duration(cfg.Redis.LedgerTTLHrs)*time.Hour)
	sender := messaging.NewGraphSender(cfg.WhatsApp)

	botFlow := flow.NewService(
		convRepo, ordersRepo, menu.Default(), sender, orderEvents, activity,
		cfg.Ordering.DeliveryFee, cfg.Ordering.TrackingURL,
	)

	webhookSrv := httpx.New(":"+strconv.Itoa(cfg.HTTP.WebhookPort),
		webhook.New(botFlow, ledger, cfg.WhatsApp.VerifyToken).Router())
	trackingSrv := httpx.New(":"+strconv.Itoa(cfg.HTTP.TrackingPort),
		tracking.Router(tracking.NewHandler(tracking.NewRepo(db))))

	lg.Info("service_started", map[string]any{
		"webhook_port":  cfg.HTTP.WebhookPort,
		"tracking_port": cfg.HTTP.TrackingPort,
	})

	errCh := make(chan error, 2)
	go func() { errCh <- webhookSrv.Run(ctx) }()
	go func() { errCh <- trackingSrv.Run(ctx) }()

	var exitCode int
	for i := 0; i < 2; i++ {
		if err := <-errCh; err != nil {
			lg.Error("server_failed", err, nil)
			exitCode = 1
			stop()
		}
	}
	lg.Info("shutdown_complete", nil)
	os.Exit(exitCode)
}
