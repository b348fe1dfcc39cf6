package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"floodwatch/internal/config"
	"floodwatch/internal/db"
	"floodwatch/internal/httpapi"
	"floodwatch/internal/migrate"
	"floodwatch/internal/modules/alerts"
	alertsrepo "floodwatch/internal/modules/alerts/repository"
	alertsservice "floodwatch/internal/modules/alerts/service"
	"floodwatch/internal/modules/contact"
	"floodwatch/internal/modules/dashboard"
	"floodwatch/internal/modules/history"
	historyservice "floodwatch/internal/modules/history/service"
	"floodwatch/internal/modules/simulation"
	"floodwatch/internal/mqtt"
	"floodwatch/internal/prediction"
	"floodwatch/internal/risk"
	"floodwatch/internal/views"
)

const shutdownTimeout = 10 * time.Second

// Run owns the application state: it opens the store, starts the alert
// schedule and serves HTTP until ctx is canceled.
func Run(ctx context.Context, cfg config.Config) error {
	slog.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"staticDir", cfg.StaticDir,
		"sqliteDriver", cfg.SQLiteDriver,
		"sqlitePath", cfg.SQLitePath,
		"sqliteMaxOpenConns", cfg.SQLiteMaxOpenConns,
		"sqliteLogStatements", cfg.SQLiteLogStatements,
		"riskPolicy", cfg.RiskPolicy,
		"predictURL", cfg.PredictURL,
		"predictTimeout", cfg.PredictTimeout,
		"alertSchedule", cfg.AlertSchedule,
		"mqttBroker", cfg.MQTTBroker,
		"mqttPort", cfg.MQTTPort,
		"mqttTopic", cfg.MQTTTopic,
	)

	dbConn, err := db.Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(dbConn); closeErr != nil {
			slog.Error("db close", "error", closeErr)
		}
	}()

	applied, err := migrate.Run(ctx, dbConn)
	if err != nil {
		return err
	}
	slog.Info("database ready", "migrationsApplied", len(applied))

	if err := views.LoadTemplates(); err != nil {
		return err
	}

	assessor := newAssessor(cfg)

	var (
		mqttClient *mqtt.Client
		publisher  alertsservice.Publisher
	)
	if cfg.MQTTEnabled() {
		mqttClient, err = mqtt.NewClient(mqtt.OptionsFromConfig(cfg), slog.Default().With("component", "mqtt"))
		if err != nil {
			return err
		}
		// Short timeout so a missing broker does not block startup.
		connectCtx, connectCancel := context.WithTimeout(ctx, 5*time.Second)
		err = mqttClient.Connect(connectCtx)
		connectCancel()
		if err != nil {
			slog.Warn("mqtt connection failed, alerts will not be published", "error", err)
		} else {
			publisher = alertsservice.NewMQTTPublisher(mqttClient)
		}
	}

	feed := alertsservice.NewFeed(
		alertsservice.NewRandomSource(cfg.AlertSeed, nil),
		alertsrepo.NewRepository(dbConn),
		publisher,
		slog.Default().With("component", "alerts"),
	)
	scheduler, err := alertsservice.NewScheduler(cfg.AlertSchedule, feed, slog.Default())
	if err != nil {
		return err
	}

	mux := httpapi.NewMux(dbConn, cfg.StaticDir)
	dashboard.RegisterFeature(mux, feed)
	alerts.RegisterFeature(mux, feed)
	history.RegisterFeature(mux, historyservice.NewRandomSeries(cfg.AlertSeed))
	simulation.RegisterFeature(mux, assessor, prediction.NewModel(), cfg.AlertSeed)
	contact.RegisterFeature(mux, dbConn)

	scheduler.Start(ctx)

	srv := httpapi.NewServer(cfg, mux)
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		stopBackground(scheduler, mqttClient)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	slog.Info("alert schedule stopping")
	scheduler.Stop(shutdownCtx)
	if mqttClient != nil {
		slog.Info("mqtt disconnecting")
		mqttClient.Disconnect()
	}

	slog.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err = <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}

// newAssessor asks the remote model first when one is configured and the
// local scorer when it is unavailable. Both apply the configured input
// policy.
func newAssessor(cfg config.Config) *prediction.FallbackAssessor {
	local := risk.NewLocalAssessor(cfg.RiskPolicy)
	assessor := prediction.NewFallbackAssessor(nil, local)
	if cfg.PredictURL != "" {
		assessor.Primary = prediction.NewClient(cfg.PredictURL, cfg.PredictTimeout,
			prediction.WithPolicy(cfg.RiskPolicy),
			prediction.WithLogger(slog.Default().With("component", "prediction")))
	}
	return assessor
}

func stopBackground(s *alertsservice.Scheduler, c *mqtt.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.Stop(ctx)
	if c != nil {
		c.Disconnect()
	}
}
