package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Holiuk2005/lotex/internal/api"
	"github.com/Holiuk2005/lotex/internal/config"
	"github.com/Holiuk2005/lotex/internal/db"
	"github.com/Holiuk2005/lotex/internal/events"
	"github.com/Holiuk2005/lotex/internal/logger"
	"github.com/Holiuk2005/lotex/internal/repository"
	"github.com/Holiuk2005/lotex/internal/service"
)

func Start() error {
	conf, err := config.Load("./cmd/app/config.yml")
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed := events.NewFeed()
	defer feed.Close()

	s := api.NewServer(conf, postgresDB, feed)

	go s.Notifications.Run(ctx)

	notifier := service.NewNotifier(
		repository.NewNotificationRepository(postgresDB),
		repository.NewAuctionRepository(postgresDB, feed),
		s.Notifications,
	)
	go notifier.Run(ctx, feed.Subscribe(64))

	sweeper := service.NewSweeper(
		service.NewLotteryService(repository.NewLotteryRepository(postgresDB)),
		time.Duration(conf.Sweeper.IntervalSeconds)*time.Second,
		conf.Sweeper.BatchSize,
	)
	go sweeper.Run(ctx)

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}
