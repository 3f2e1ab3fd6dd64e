package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/lottopool/poold/internal/config"
	"github.com/lottopool/poold/internal/core/application"
	"github.com/lottopool/poold/internal/infrastructure/db"
	inmemoryengine "github.com/lottopool/poold/internal/infrastructure/engine/inmemory"
	timescheduler "github.com/lottopool/poold/internal/infrastructure/scheduler/gocron"
	inmemorytoken "github.com/lottopool/poold/internal/infrastructure/token/inmemory"
	"github.com/lottopool/poold/internal/interface/web"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// nolint:all
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	app := cli.NewApp()
	app.Name = "poold"
	app.Usage = "pooled lottery syndicate daemon"
	app.Version = version
	app.Action = startAction
	app.Commands = append(cli.Commands{}, poolCmd, captureCmd, claimCmd)

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func startAction(_ *cli.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("invalid config")
	}

	log.SetLevel(log.Level(cfg.LogLevel))

	storeConfig := []interface{}{cfg.DbDir, nil}
	if cfg.DbType == "sqlite" {
		storeConfig = []interface{}{cfg.DbDir}
	}
	repoManager, err := db.NewService(db.ServiceConfig{
		DataStoreType:   cfg.DbType,
		DataStoreConfig: storeConfig,
	})
	if err != nil {
		return err
	}
	defer repoManager.Close()

	token := inmemorytoken.NewService()
	engine, err := inmemoryengine.NewEngine(
		cfg.EngineID, cfg.UnitPrice, cfg.FeeBasisPoint, cfg.RoundDuration, token,
	)
	if err != nil {
		return err
	}
	defer engine.Close()

	appSvc, err := application.NewService(
		engine, token, repoManager, timescheduler.NewScheduler(), cfg.SweepInterval,
	)
	if err != nil {
		return err
	}

	svc, err := web.NewService(web.Config{Port: cfg.Port, NoCORS: cfg.NoCORS}, appSvc)
	if err != nil {
		return err
	}

	log.RegisterExitHandler(svc.Stop)

	log.Info("starting service...")
	if err := svc.Start(); err != nil {
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT, os.Interrupt)
	<-sigChan

	log.Info("shutting down service...")
	svc.Stop()
	return nil
}
