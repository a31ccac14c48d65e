package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appinv "github.com/UPT-FAING-EPIS/order-facade-go/internal/application/inventory"
	appnotif "github.com/UPT-FAING-EPIS/order-facade-go/internal/application/notification"
	apporder "github.com/UPT-FAING-EPIS/order-facade-go/internal/application/order"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/config"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/infrastructure/bus"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/infrastructure/carrier"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/infrastructure/httpapi"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/infrastructure/id"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/infrastructure/memory"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/infrastructure/notify"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/infrastructure/observability/oteltrace"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/infrastructure/observability/prommetrics"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/infrastructure/observability/telemetry"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/infrastructure/observability/zaplog"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/infrastructure/paymentgw"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/observability"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger := zaplog.MustNew(cfg.ServiceName, cfg.Env)
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger.Unwrap())

	reg := prommetrics.New("", "")
	tel := telemetry.New(
		oteltrace.New(cfg.ServiceName),
		logger,
		buildCounters(reg),
		buildHistograms(reg),
	)
	mainLog := tel.Logger().With(observability.F("component", "orderd"))

	var seed map[string]int
	if cfg.SeedStock {
		seed = memory.DefaultCatalog()
	}
	invStore := memory.NewInventoryStore(seed)
	ledger := memory.NewOrderLog()

	eventBus := bus.NewBus(tel.Logger())
	eventBus.Start(context.Background())
	defer eventBus.Stop(context.Background())

	inventorySvc := appinv.NewService(invStore, tel)
	notifSvc := appnotif.NewService(notify.NewLogSender(tel.Logger()), tel)
	notifWorker := notify.NewWorker(eventBus, notifSvc, tel)
	notifWorker.Start()

	facade := apporder.NewFacade(
		inventorySvc,
		paymentgw.NewGateway(tel),
		carrier.NewService(tel),
		notifSvc,
		ledger,
		eventBus,
		id.NewUUIDGenerator(),
		tel,
	)

	handler := httpapi.NewHandler(facade, tel)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", handler.Router(tel))

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		mainLog.Info("http_server_start", observability.F("addr", server.Addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			mainLog.Error("http_server_error", observability.F("error", err.Error()))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		mainLog.Error("http_server_shutdown_error", observability.F("error", err.Error()))
	} else {
		mainLog.Info("http_server_stopped")
	}
}

func buildCounters(reg prommetrics.Registry) map[observability.MetricKey]observability.Counter {
	return map[observability.MetricKey]observability.Counter{
		observability.MFacadeRequests: reg.Counter(
			string(observability.MFacadeRequests),
			"Total facade operations.",
			"operation", "outcome",
		),
		observability.MHTTPRequests: reg.Counter(
			string(observability.MHTTPRequests),
			"Total HTTP requests.",
			"method", "route", "status",
		),
		observability.MCollaboratorRequests: reg.Counter(
			string(observability.MCollaboratorRequests),
			"Total collaborator calls made by the facade.",
			"peer", "outcome",
		),
		observability.MNotificationsSent: reg.Counter(
			string(observability.MNotificationsSent),
			"Total notifications delivered.",
			"channel",
		),
		observability.MEventPublishFailures: reg.Counter(
			string(observability.MEventPublishFailures),
			"Count of lifecycle event publish failures.",
			"event",
		),
	}
}

func buildHistograms(reg prommetrics.Registry) map[observability.MetricKey]observability.Histogram {
	return map[observability.MetricKey]observability.Histogram{
		observability.MFacadeDuration: reg.Histogram(
			string(observability.MFacadeDuration),
			"Facade operation duration in seconds.",
			prometheus.DefBuckets,
			"operation",
		),
		observability.MHTTPRequestDuration: reg.Histogram(
			string(observability.MHTTPRequestDuration),
			"HTTP request duration in seconds.",
			prometheus.DefBuckets,
			"method", "route",
		),
		observability.MCollaboratorDuration: reg.Histogram(
			string(observability.MCollaboratorDuration),
			"Collaborator call duration in seconds.",
			prometheus.DefBuckets,
			"peer",
		),
	}
}
