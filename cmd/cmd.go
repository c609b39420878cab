package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/anicoll/vrm-integration/internal/pkg/collector"
	"github.com/anicoll/vrm-integration/internal/pkg/config"
	"github.com/anicoll/vrm-integration/internal/pkg/contxt"
	"github.com/anicoll/vrm-integration/internal/pkg/database"
	"github.com/anicoll/vrm-integration/internal/pkg/database/migration"
	"github.com/anicoll/vrm-integration/internal/pkg/handler"
	"github.com/anicoll/vrm-integration/internal/pkg/influx"
	"github.com/anicoll/vrm-integration/internal/pkg/mqtt"
	"github.com/anicoll/vrm-integration/internal/pkg/publisher"
	"github.com/anicoll/vrm-integration/internal/pkg/vrm"
)

func VrmCommand(ctx *cli.Context) error {
	influxCfg, mqttCfg, err := config.SinksFromEnv()
	if err != nil {
		return err
	}

	cfg := &config.Config{
		VrmCfg: &config.VrmConfig{
			AuthMode:       ctx.String("auth-mode"),
			Token:          ctx.String("auth-token"),
			Username:       ctx.String("username"),
			Password:       ctx.String("password"),
			BaseURL:        ctx.String("api-url"),
			TokenCachePath: ctx.String("token-cache"),
		},
		InfluxCfg:          influxCfg,
		MqttCfg:            mqttCfg,
		DatabaseURL:        ctx.String("database-url"),
		MigrationsFolder:   ctx.String("migrations-folder"),
		HTTPAddress:        ctx.String("http-address"),
		CollectionInterval: ctx.Duration("collection-interval"),
		LogLevel:           ctx.String("log-level"),
	}

	return run(ctx.Context, cfg)
}

func run(ctx context.Context, cfg *config.Config) error {
	var err error

	eg, ctx := errgroup.WithContext(ctx)
	logCfg := zap.NewProductionConfig()

	logCfg.Level, err = zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logCfg.OutputPaths = []string{"stdout"}
	logCfg.ErrorOutputPaths = []string{"stdout"}
	logCfg.Sampling = nil
	logger := zap.Must(logCfg.Build(zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)))
	defer func() {
		_ = logger.Sync() // flushes buffer, if any.
	}()
	zap.ReplaceGlobals(logger)

	if err := cfg.InfluxCfg.Validate(); err != nil {
		return err
	}

	vrmClient, err := vrm.New(cfg.VrmCfg)
	if err != nil {
		return err
	}
	coll := collector.New(vrmClient)

	influxSvc := influx.New(cfg.InfluxCfg)
	defer influxSvc.Close()
	if err := publisher.RegisterPublisher("influxdb", influxSvc); err != nil {
		return err
	}

	if cfg.DatabaseURL != "" {
		if err := migration.Migrate(cfg.DatabaseURL, cfg.MigrationsFolder); err != nil {
			return err
		}
		conn, err := pgx.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		db := database.NewDatabase(conn)
		defer db.Close()
		if err := publisher.RegisterPublisher("postgres", db); err != nil {
			return err
		}
	}

	if cfg.MqttCfg.Host != "" {
		mqttSvc := mqtt.New(mqtt.NewClient(cfg.MqttCfg))
		if err := mqttSvc.Connect(); err != nil {
			return err
		}
		if err := publisher.RegisterPublisher("mqtt", mqttSvc); err != nil {
			return err
		}
	}

	installations, err := vrmClient.Installations(ctx)
	if err != nil {
		return err
	}
	logger.Info("monitoring installations", zap.Int("count", len(installations)))
	for _, installation := range installations {
		logger.Info("monitored installation", zap.String("name", installation.Name), zap.Int64("id", installation.ID))
	}

	eg.Go(func() error {
		return runCollector(ctx, coll, cfg.CollectionInterval)
	})

	srv := &http.Server{
		Handler:      handler.Routes(coll),
		Addr:         cfg.HTTPAddress,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	eg.Go(func() error {
		<-ctx.Done()
		return srv.Close()
	})

	return eg.Wait()
}

// runCollector runs one cycle immediately and then on every interval tick.
// A still-running cycle makes the tick a no-op, so cycles never overlap. A
// failed cycle is logged and nothing is published; the next tick retries.
func runCollector(ctx context.Context, coll collectorService, interval time.Duration) error {
	collect := func() {
		cctx := contxt.NewContext(time.Minute)
		result, err := coll.RunCycle(cctx)
		if err != nil {
			zap.L().Error("collection cycle failed", zap.Error(err))
			return
		}
		_ = publisher.Publish(cctx, result)
	}

	collect()

	c := cron.New()
	c.Schedule(cron.Every(interval), cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(collect)))
	go c.Run()

	<-ctx.Done()
	<-c.Stop().Done()
	return ctx.Err()
}
