package testutil

import (
	"context"
	"time"

	"github.com/questx-lab/campaign/config"
	"github.com/questx-lab/campaign/internal/entity"
	"github.com/questx-lab/campaign/pkg/logger"
	"github.com/questx-lab/campaign/pkg/xcontext"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var ActivityStart = time.Date(2026, 2, 14, 0, 0, 0, 0, time.FixedZone("UTC+8", 8*3600))

func MockConfigs() config.Configs {
	return config.Configs{
		Env: "test",
		Auth: config.AuthConfigs{
			TokenSecret: "secret",
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: time.Minute,
			},
		},
		Kafka: config.KafkaConfigs{
			NotificationTopic: "notification",
		},
		Campaign: config.CampaignConfigs{
			PointsPerTask:      2,
			PointsPerPhoto:     3,
			PointsPerTicket:    6,
			EarlyLoginPoints:   3,
			EarlyLoginDeadline: time.Date(2026, 2, 13, 4, 0, 0, 0, time.UTC),
			EnforceGating:      true,
			PhotoURLPrefix:     "/api/photos/serve/",
			TicketPrefix:       "CNY-",
			ActivityStart:      ActivityStart,
			TotalDays:          9,
		},
		Leaderboard: config.LeaderboardConfigs{
			TopN:     50,
			CacheTTL: time.Minute,
		},
	}
}

// MockContext returns a context carrying test configs, a silent logger and a
// fresh in-memory sqlite database with all tables migrated.
func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		panic(err)
	}

	// Each connection of an in-memory sqlite owns a distinct database.
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	ctx := xcontext.NewContext(context.Background(), MockConfigs(), logger.NewNopLogger(), db)
	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(userID string) context.Context {
	return xcontext.WithRequestUserID(MockContext(), userID)
}
