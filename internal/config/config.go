package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/creasty/defaults"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// DefaultConfigPath путь к конфигу, если флаг -c не указан
const DefaultConfigPath = "config.toml"

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Flags параметры командной строки
type Flags struct {
	Config string `short:"c" long:"config" description:"path to config file (default: config.toml)"`
}

// ConfigPath путь из флага или DefaultConfigPath
func (f Flags) ConfigPath() string {
	if f.Config == "" {
		return DefaultConfigPath
	}
	return f.Config
}

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Parking  ParkingConfig  `toml:"parking"`
	Storage  StorageConfig  `toml:"storage"`
	Database DatabaseConfig `toml:"database"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port" default:"8080"`
	ReadTimeout     int `toml:"read_timeout" default:"10"`     // секунды
	WriteTimeout    int `toml:"write_timeout" default:"10"`    // секунды
	IdleTimeout     int `toml:"idle_timeout" default:"60"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout" default:"10"` // секунды
}

type LogsConfig struct {
	Level string `toml:"level" default:"info"`
	File  string `toml:"file"` // пусто - stdout
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" default:"true"`
	Path        string `toml:"path" default:"/metrics"`
	ServiceName string `toml:"service_name" default:"smc-parkingservice"`
}

type ParkingConfig struct {
	MinimumFee    int64        `toml:"minimum_fee" default:"50"`
	RatePerMinute int64        `toml:"rate_per_minute" default:"1"`
	Slots         []SlotConfig `toml:"slots"`
}

// SlotConfig начальное состояние слота. Пустой vehicle - слот свободен.
type SlotConfig struct {
	ID      int64  `toml:"id"`
	Vehicle string `toml:"vehicle"`
	Phone   string `toml:"phone"`
}

type StorageConfig struct {
	Driver string `toml:"driver" default:"memory"`
}

type DatabaseConfig struct {
	Host            string `toml:"host" default:"localhost"`
	Port            int    `toml:"port" default:"5432"`
	User            string `toml:"user" default:"postgres"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname" default:"smc_parking"`
	SSLMode         string `toml:"sslmode" default:"disable"`
	MaxOpenConns    int    `toml:"max_open_conns" default:"10"`
	MaxIdleConns    int    `toml:"max_idle_conns" default:"5"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" default:"300"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// Load читает конфиг: значения по умолчанию, затем TOML файл поверх них, затем валидация
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("config: set defaults: %w", err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет ограничения конфига
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d out of range", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: server.shutdown_timeout must not be negative", ErrInvalidConfig)
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("%w: metrics.path %q must start with /", ErrInvalidConfig, c.Metrics.Path)
	}

	if err := c.Parking.Validate(); err != nil {
		return err
	}

	switch c.Storage.Driver {
	case StorageMemory:
	case StoragePostgres:
		if c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "" {
			return fmt.Errorf("%w: database host, user and dbname are required for postgres storage", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage.driver %q", ErrInvalidConfig, c.Storage.Driver)
	}

	return nil
}

// Validate проверяет тарифы и начальные слоты
func (p *ParkingConfig) Validate() error {
	if p.MinimumFee < 0 {
		return fmt.Errorf("%w: parking.minimum_fee must not be negative", ErrInvalidConfig)
	}
	if p.RatePerMinute < 0 {
		return fmt.Errorf("%w: parking.rate_per_minute must not be negative", ErrInvalidConfig)
	}

	seen := make(map[int64]struct{}, len(p.Slots))
	for _, s := range p.Slots {
		if s.ID <= 0 {
			return fmt.Errorf("%w: parking.slots id must be positive, got %d", ErrInvalidConfig, s.ID)
		}
		if _, ok := seen[s.ID]; ok {
			return fmt.Errorf("%w: duplicate parking.slots id %d", ErrInvalidConfig, s.ID)
		}
		seen[s.ID] = struct{}{}

		if strings.TrimSpace(s.Vehicle) == "" && strings.TrimSpace(s.Phone) != "" {
			return fmt.Errorf("%w: parking.slots id %d has phone without vehicle", ErrInvalidConfig, s.ID)
		}
		if len([]rune(strings.TrimSpace(s.Vehicle))) > domain.MaxVehicleLength {
			return fmt.Errorf("%w: parking.slots id %d vehicle is too long", ErrInvalidConfig, s.ID)
		}
		if len([]rune(strings.TrimSpace(s.Phone))) > domain.MaxPhoneLength {
			return fmt.Errorf("%w: parking.slots id %d phone is too long", ErrInvalidConfig, s.ID)
		}
	}

	return nil
}

// FeePolicy тарифы парковки
func (p ParkingConfig) FeePolicy() domain.FeePolicy {
	return domain.FeePolicy{
		MinimumFee:    p.MinimumFee,
		RatePerMinute: p.RatePerMinute,
	}
}

// Seeds начальное состояние слотов. Занятые слоты получают время въезда now.
// Без [[parking.slots]] создаются пустые слоты domain.DefaultSlotIDs.
func (p ParkingConfig) Seeds(now time.Time) []domain.Slot {
	if len(p.Slots) == 0 {
		slots := make([]domain.Slot, 0, len(domain.DefaultSlotIDs))
		for _, id := range domain.DefaultSlotIDs {
			slots = append(slots, domain.NewEmptySlot(id))
		}
		return slots
	}

	slots := make([]domain.Slot, 0, len(p.Slots))
	for _, s := range p.Slots {
		slot := domain.NewEmptySlot(domain.SlotID(s.ID))

		vehicle := strings.ToUpper(strings.TrimSpace(s.Vehicle))
		if vehicle != "" {
			slot = slot.Occupy(vehicle, strings.TrimSpace(s.Phone), now.UTC())
		}
		slots = append(slots, slot)
	}
	return slots
}
