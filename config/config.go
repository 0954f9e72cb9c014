package config

import (
	"fmt"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/questx-lab/campaign/pkg/storage"
)

type Configs struct {
	Env      string
	LogLevel string

	Database    DatabaseConfigs
	ApiServer   APIServerConfigs
	Auth        AuthConfigs
	Storage     storage.S3Configs
	Redis       RedisConfigs
	Kafka       KafkaConfigs
	Campaign    CampaignConfigs
	Leaderboard LeaderboardConfigs
	Cron        CronConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
	LogLevel string
}

func (d DatabaseConfigs) ConnectionString() string {
	cfg := mysql.NewConfig()
	cfg.User = d.User
	cfg.Passwd = d.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(d.Host, d.Port)
	cfg.DBName = d.Database
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.MultiStatements = true
	cfg.Params = map[string]string{"charset": "utf8mb4"}

	return cfg.FormatDSN()
}

type ServerConfigs struct {
	Host string
	Port string
}

func (c ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

type APIServerConfigs struct {
	ServerConfigs
	AllowCORS []string
}

type AuthConfigs struct {
	TokenSecret string
	AccessToken TokenConfigs

	Line OIDCConfigs
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

type OIDCConfigs struct {
	Issuer   string
	ClientID string
}

type RedisConfigs struct {
	Addr string
}

type KafkaConfigs struct {
	Addr              string
	NotificationTopic string
}

type CampaignConfigs struct {
	PointsPerTask   int64
	PointsPerPhoto  int64
	PointsPerTicket int64

	// First-seen users logging in before EarlyLoginDeadline receive
	// EarlyLoginPoints once.
	EarlyLoginPoints   int64
	EarlyLoginDeadline time.Time

	// EnforceGating rejects completions of tasks which are not open or
	// already closed. Turned off in demo environments.
	EnforceGating bool

	PhotoURLPrefix string
	TicketPrefix   string

	ActivityStart time.Time
	TotalDays     int
}

type LeaderboardConfigs struct {
	TopN     int
	CacheTTL time.Duration
}

type CronConfigs struct {
	LeaderboardWarmup string
	AutoOpenTasks     string
}
