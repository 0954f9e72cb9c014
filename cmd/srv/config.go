package main

import (
	"context"
	"errors"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/questx-lab/campaign/config"
	"github.com/questx-lab/campaign/pkg/logger"
	"github.com/questx-lab/campaign/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

const localEnv = "local"

func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", EnvVars: []string{"CONFIG_FILE"}, Usage: "path of the toml config file"},
		&cli.StringFlag{Name: "env", EnvVars: []string{"ENV"}, Value: localEnv},
		&cli.StringFlag{Name: "log-level", EnvVars: []string{"LOG_LEVEL"}, Value: "info"},

		&cli.StringFlag{Name: "db-host", EnvVars: []string{"MYSQL_HOST"}, Value: "localhost"},
		&cli.StringFlag{Name: "db-port", EnvVars: []string{"MYSQL_PORT"}, Value: "3306"},
		&cli.StringFlag{Name: "db-name", EnvVars: []string{"MYSQL_DATABASE"}, Value: "campaign"},
		&cli.StringFlag{Name: "db-user", EnvVars: []string{"MYSQL_USER"}, Value: "mysql"},
		&cli.StringFlag{Name: "db-password", EnvVars: []string{"MYSQL_PASSWORD"}, Value: "mysql"},

		&cli.StringFlag{Name: "api-host", EnvVars: []string{"API_HOST"}},
		&cli.StringFlag{Name: "api-port", EnvVars: []string{"API_PORT"}, Value: "8080"},
		&cli.StringSliceFlag{Name: "allow-cors", EnvVars: []string{"API_ALLOW_CORS"}},

		&cli.StringFlag{Name: "token-secret", EnvVars: []string{"TOKEN_SECRET"}},
		&cli.StringFlag{Name: "line-issuer", EnvVars: []string{"LINE_ISSUER"}, Value: "https://access.line.me"},
		&cli.StringFlag{Name: "line-client-id", EnvVars: []string{"LINE_CLIENT_ID"}},

		&cli.StringFlag{Name: "redis-addr", EnvVars: []string{"REDIS_ADDRESS"}, Value: "localhost:6379"},
		&cli.StringFlag{Name: "kafka-addr", EnvVars: []string{"KAFKA_ADDRESS"}},

		&cli.StringFlag{Name: "s3-endpoint", EnvVars: []string{"S3_ENDPOINT"}},
		&cli.StringFlag{Name: "s3-region", EnvVars: []string{"S3_REGION"}, Value: "auto"},
		&cli.StringFlag{Name: "s3-bucket", EnvVars: []string{"S3_BUCKET"}, Value: "campaign"},
		&cli.StringFlag{Name: "s3-access-key", EnvVars: []string{"S3_ACCESS_KEY"}},
		&cli.StringFlag{Name: "s3-secret-key", EnvVars: []string{"S3_SECRET_KEY"}},
	}
}

func defaultConfigs() config.Configs {
	return config.Configs{
		Auth: config.AuthConfigs{
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: 7 * 24 * time.Hour,
			},
		},
		Kafka: config.KafkaConfigs{
			NotificationTopic: "notification",
		},
		Campaign: config.CampaignConfigs{
			PointsPerTask:   2,
			PointsPerPhoto:  3,
			PointsPerTicket: 6,
			EnforceGating:   true,
			PhotoURLPrefix:  "/api/photos/serve/",
			TicketPrefix:    "CNY-",
			TotalDays:       9,
		},
		Leaderboard: config.LeaderboardConfigs{
			TopN:     50,
			CacheTTL: time.Minute,
		},
		Cron: config.CronConfigs{
			LeaderboardWarmup: "*/5 * * * *",
			AutoOpenTasks:     "0 * * * *",
		},
	}
}

// loadConfig builds the configs from the defaults, then the toml file, then
// the flags and environment variables which were explicitly set.
func (s *srv) loadConfig(c *cli.Context) error {
	cfg := defaultConfigs()
	if path := c.String("config"); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return err
		}
	}

	setString := func(flag string, dst *string) {
		if c.IsSet(flag) || *dst == "" {
			*dst = c.String(flag)
		}
	}

	setString("env", &cfg.Env)
	setString("log-level", &cfg.LogLevel)
	setString("db-host", &cfg.Database.Host)
	setString("db-port", &cfg.Database.Port)
	setString("db-name", &cfg.Database.Database)
	setString("db-user", &cfg.Database.User)
	setString("db-password", &cfg.Database.Password)
	setString("api-host", &cfg.ApiServer.Host)
	setString("api-port", &cfg.ApiServer.Port)
	setString("token-secret", &cfg.Auth.TokenSecret)
	setString("line-issuer", &cfg.Auth.Line.Issuer)
	setString("line-client-id", &cfg.Auth.Line.ClientID)
	setString("redis-addr", &cfg.Redis.Addr)
	setString("kafka-addr", &cfg.Kafka.Addr)
	setString("s3-endpoint", &cfg.Storage.Endpoint)
	setString("s3-region", &cfg.Storage.Region)
	setString("s3-bucket", &cfg.Storage.Bucket)
	setString("s3-access-key", &cfg.Storage.AccessKey)
	setString("s3-secret-key", &cfg.Storage.SecretKey)

	if c.IsSet("allow-cors") || len(cfg.ApiServer.AllowCORS) == 0 {
		cfg.ApiServer.AllowCORS = c.StringSlice("allow-cors")
	}

	if err := validateConfigs(cfg); err != nil {
		return err
	}

	s.ctx = context.Background()
	s.ctx = xcontext.WithConfigs(s.ctx, cfg)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(cfg.LogLevel))

	if cfg.Auth.TokenSecret == "" {
		xcontext.Logger(s.ctx).Warnf("Token secret is empty, only allowed in local env")
	}

	return nil
}

// validateConfigs rejects configs which are only acceptable on a developer
// machine, so an empty token secret never signs tokens outside local env.
func validateConfigs(cfg config.Configs) error {
	if cfg.Auth.TokenSecret == "" && cfg.Env != localEnv {
		return errors.New("token secret is required outside local env, set TOKEN_SECRET")
	}

	return nil
}
