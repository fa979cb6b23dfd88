package config

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса, загружается из config.toml
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Pricing       PricingConfig       `toml:"pricing"`
	Cancellation  CancellationConfig  `toml:"cancellation"`
	Jobs          JobsConfig          `toml:"jobs"`
	Notifications NotificationsConfig `toml:"notifications"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`

	// AdmissionTimeout ограничение (в секундах) на ожидание
	// сериализуемой транзакции при создании бронирования
	AdmissionTimeout int `toml:"admission_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN возвращает строку подключения к PostgreSQL
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// PricingConfig ставки ценообразования и налог.
// Ставки — доли от базовой дневной цены пакета.
type PricingConfig struct {
	Day2Rate           float64 `toml:"day2_rate"`
	Day36Rate          float64 `toml:"day3_6_rate"`
	Day7PlusRate       float64 `toml:"day7_plus_rate"`
	WeekendHolidayRate float64 `toml:"weekend_holiday_rate"`
	VATRate            float64 `toml:"vat_rate"`
	DepositPercent     float64 `toml:"deposit_percent"`

	// Holidays праздничные даты в формате YYYY-MM-DD
	Holidays []string `toml:"holidays"`
}

// CancellationConfig пороги политики изменения и отмены
type CancellationConfig struct {
	// EditCutoffHours за сколько часов до получения редактирование закрывается
	EditCutoffHours int             `toml:"edit_cutoff_hours"`
	Buckets         []PenaltyBucket `toml:"buckets"`
}

// PenaltyBucket штрафная ступень отмены
type PenaltyBucket struct {
	MaxLeadDays float64 `toml:"max_lead_days"`
	Rate        float64 `toml:"rate"`
}

// JobsConfig настройки фоновых задач
type JobsConfig struct {
	Enabled bool `toml:"enabled"`

	// ExpireUnpaidSchedule cron-расписание отмены неоплаченных бронирований
	ExpireUnpaidSchedule string `toml:"expire_unpaid_schedule"`

	// UnpaidDeadlineHours сколько часов pending бронирование может
	// ждать подтверждённый депозит
	UnpaidDeadlineHours int `toml:"unpaid_deadline_hours"`
}

// NotificationsConfig настройки e-mail уведомлений
type NotificationsConfig struct {
	Enabled        bool   `toml:"enabled"`
	SendGridAPIKey string `toml:"sendgrid_api_key"`
	FromName       string `toml:"from_name"`
	FromEmail      string `toml:"from_email"`

	// OpsEmail адрес операционной команды: туда уходят уведомления
	// о новых бронированиях, подтверждениях и отменах
	OpsEmail string `toml:"ops_email"`
}

// Load читает и валидирует конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:         8080,
			ReadTimeout:      10,
			WriteTimeout:     10,
			IdleTimeout:      60,
			ShutdownTimeout:  10,
			AdmissionTimeout: 5,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			ServiceName: "smc-rental-service",
			Path:        "/metrics",
		},
		Pricing: PricingConfig{
			Day2Rate:           0.40,
			Day36Rate:          0.20,
			Day7PlusRate:       0.10,
			WeekendHolidayRate: 0.10,
			VATRate:            0.07,
			DepositPercent:     0.50,
		},
		Cancellation: CancellationConfig{
			EditCutoffHours: 24,
			Buckets: []PenaltyBucket{
				{MaxLeadDays: 1, Rate: 0.50},
				{MaxLeadDays: 3, Rate: 0.30},
				{MaxLeadDays: 7, Rate: 0.15},
			},
		},
		Jobs: JobsConfig{
			ExpireUnpaidSchedule: "0 * * * *",
			UnpaidDeadlineHours:  48,
		},
	}
}

func (c *Config) validate() error {
	if c.Database.User == "" || c.Database.DBName == "" {
		return errors.New("config: database user and dbname are required")
	}
	if c.Pricing.VATRate < 0 || c.Pricing.VATRate > 1 {
		return errors.New("config: vat_rate must be in [0, 1]")
	}
	if c.Pricing.DepositPercent <= 0 || c.Pricing.DepositPercent > 1 {
		return errors.New("config: deposit_percent must be in (0, 1]")
	}
	for _, r := range []float64{c.Pricing.Day2Rate, c.Pricing.Day36Rate, c.Pricing.Day7PlusRate, c.Pricing.WeekendHolidayRate} {
		if r < 0 {
			return errors.New("config: surcharge rates must be non-negative")
		}
	}
	for _, b := range c.Cancellation.Buckets {
		if b.Rate < 0 || b.Rate > 1 {
			return errors.New("config: cancellation bucket rate must be in [0, 1]")
		}
		if b.MaxLeadDays <= 0 {
			return errors.New("config: cancellation bucket max_lead_days must be positive")
		}
	}
	if c.Notifications.Enabled && c.Notifications.SendGridAPIKey == "" {
		return errors.New("config: sendgrid_api_key is required when notifications are enabled")
	}
	if c.Notifications.Enabled && (c.Notifications.FromEmail == "" || c.Notifications.OpsEmail == "") {
		return errors.New("config: from_email and ops_email are required when notifications are enabled")
	}
	return nil
}
