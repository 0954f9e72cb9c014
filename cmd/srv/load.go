package main

import (
	"fmt"
	"time"

	"github.com/questx-lab/campaign/internal/domain"
	"github.com/questx-lab/campaign/internal/domain/draw"
	"github.com/questx-lab/campaign/internal/domain/ledger"
	"github.com/questx-lab/campaign/internal/domain/notification"
	"github.com/questx-lab/campaign/internal/domain/statistic"
	"github.com/questx-lab/campaign/internal/model"
	"github.com/questx-lab/campaign/internal/repository"
	"github.com/questx-lab/campaign/pkg/authenticator"
	"github.com/questx-lab/campaign/pkg/kafka"
	"github.com/questx-lab/campaign/pkg/storage"
	"github.com/questx-lab/campaign/pkg/xcontext"
	"github.com/questx-lab/campaign/pkg/xredis"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func (s *srv) newDatabase() (*gorm.DB, error) {
	cfg := xcontext.Configs(s.ctx).Database

	logLevel := gormlogger.Warn
	switch cfg.LogLevel {
	case "silent":
		logLevel = gormlogger.Silent
	case "error":
		logLevel = gormlogger.Error
	case "info":
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       cfg.ConnectionString(),
		DefaultStringSize:         256,
		DisableDatetimePrecision:  true,
		DontSupportRenameIndex:    true,
		DontSupportRenameColumn:   true,
		SkipInitializeWithVersion: false,
	}), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func (s *srv) loadDatabase() error {
	var err error
	s.db, err = s.newDatabase()
	if err != nil {
		return err
	}

	s.ctx = xcontext.WithDB(s.ctx, s.db)
	return nil
}

func (s *srv) loadRedisClient() error {
	var err error
	s.redisClient, err = xredis.NewClient(s.ctx, xcontext.Configs(s.ctx).Redis.Addr)
	if err != nil {
		return fmt.Errorf("cannot connect to redis: %w", err)
	}

	return nil
}

// loadPublisher connects to kafka. Without a broker address notifications are
// only stored in the database.
func (s *srv) loadPublisher() error {
	cfg := xcontext.Configs(s.ctx).Kafka
	if cfg.Addr == "" {
		xcontext.Logger(s.ctx).Warnf("Kafka address is not set, notification events are disabled")
		return nil
	}

	publisher, err := kafka.NewPublisher("campaign", []string{cfg.Addr})
	if err != nil {
		return fmt.Errorf("cannot connect to kafka: %w", err)
	}

	s.publisher = publisher
	return nil
}

func (s *srv) loadStorage() error {
	cfg := xcontext.Configs(s.ctx).Storage

	var err error
	s.storage, err = storage.NewS3Storage(&cfg)
	if err != nil {
		return fmt.Errorf("cannot create s3 storage: %w", err)
	}

	return nil
}

func (s *srv) loadAuthenticator() error {
	cfg := xcontext.Configs(s.ctx).Auth
	s.tokenEngine = authenticator.NewTokenEngine[model.AccessToken](cfg.TokenSecret, cfg.AccessToken.Expiration)

	var err error
	s.idVerifier, err = authenticator.NewOIDCVerifier(s.ctx, cfg.Line.Issuer, cfg.Line.ClientID)
	if err != nil {
		return fmt.Errorf("cannot load oidc provider: %w", err)
	}

	return nil
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.taskRepo = repository.NewTaskRepository()
	s.completionRepo = repository.NewTaskCompletionRepository()
	s.pointRepo = repository.NewPointTransactionRepository()
	s.lotteryRepo = repository.NewLotteryRepository()
	s.scratchCardRepo = repository.NewScratchCardRepository()
	s.bonusDrawRepo = repository.NewBonusDrawRepository()
	s.photoRepo = repository.NewPhotoRepository()
	s.photoCommentRepo = repository.NewPhotoCommentRepository()
	s.notificationRepo = repository.NewNotificationRepository()
}

func (s *srv) loadDomains() {
	s.leaderboard = statistic.New(s.userRepo, s.redisClient)
	s.ledger = ledger.New(s.userRepo, s.pointRepo, s.lotteryRepo, s.leaderboard)
	s.notifier = notification.New(s.notificationRepo, s.publisher)

	s.authDomain = domain.NewAuthDomain(s.userRepo, s.ledger, s.idVerifier, s.tokenEngine)
	s.userDomain = domain.NewUserDomain(
		s.userRepo, s.completionRepo, s.photoRepo, s.pointRepo, s.lotteryRepo, s.ledger)
	s.taskDomain = domain.NewTaskDomain(s.taskRepo, s.completionRepo)
	s.taskCompletionDomain = domain.NewTaskCompletionDomain(s.taskRepo, s.completionRepo, s.ledger, s.notifier)
	s.pointDomain = domain.NewPointDomain(s.userRepo, s.pointRepo, s.ledger)
	s.lotteryDomain = domain.NewLotteryDomain(s.lotteryRepo, s.notifier, draw.CryptoRand)
	s.scratchCardDomain = domain.NewScratchCardDomain(
		s.taskRepo, s.completionRepo, s.scratchCardRepo, s.notifier, draw.CryptoRand)
	s.bonusDrawDomain = domain.NewBonusDrawDomain(
		s.taskRepo, s.completionRepo, s.bonusDrawRepo, s.notifier, draw.CryptoRand)
	s.photoDomain = domain.NewPhotoDomain(s.photoRepo, s.photoCommentRepo, s.ledger, s.notifier, s.storage)
	s.notificationDomain = domain.NewNotificationDomain(s.notificationRepo)
	s.statisticDomain = domain.NewStatisticDomain(
		s.userRepo, s.completionRepo, s.photoRepo, s.pointRepo, s.lotteryRepo, s.leaderboard)
}
