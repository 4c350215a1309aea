package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Combat-Trainer/internal/config"
	"github.com/Garsondee/Combat-Trainer/internal/logging"
	"github.com/Garsondee/Combat-Trainer/internal/telemetry"
	"github.com/Garsondee/Combat-Trainer/internal/view"
)

func main() {
	var configDir string
	var tier string
	flag.StringVar(&configDir, "config", ".", "directory holding trainer.cfg.json")
	flag.StringVar(&tier, "tier", "", "override the configured difficulty")
	flag.Parse()

	settings, err := config.Load(configDir)
	if err != nil {
		log.Fatal(err)
	}
	if tier != "" {
		settings.Difficulty = tier
	}
	logging.Init(settings.LogLevel, settings.LogFormat)
	logger := logging.ForComponent("trainer")

	cfg, err := settings.SessionConfig()
	if err != nil {
		logger.WithError(err).Fatal("invalid settings")
	}

	opts := []view.Option{view.WithLogger(logging.ForComponent("session"))}
	if settings.Metrics {
		rec, err := telemetry.New(nil)
		if err != nil {
			logger.WithError(err).Fatal("telemetry setup failed")
		}
		opts = append(opts, view.WithRecorder(rec))
	}

	v, err := view.New(cfg, opts...)
	if err != nil {
		logger.WithError(err).Fatal("viewer setup failed")
	}

	ebiten.SetWindowTitle("Combat Trainer")
	ebiten.SetWindowSize(view.ScreenSize())
	if err := ebiten.RunGame(v); err != nil {
		logger.WithError(err).Fatal("game loop exited")
	}
}
