package database

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

const redactedPassword = "[REDACTED]"

// Options defines configuration options for the relational store.
type Options struct {
	Driver                string        `json:"driver" mapstructure:"driver"`
	Host                  string        `json:"host" mapstructure:"host"`
	Port                  int           `json:"port" mapstructure:"port"`
	Username              string        `json:"username" mapstructure:"username"`
	Password              string        `json:"-" mapstructure:"password"`
	Database              string        `json:"database" mapstructure:"database"`
	SSLMode               string        `json:"ssl-mode" mapstructure:"ssl-mode"`
	Path                  string        `json:"path" mapstructure:"path"`
	MaxIdleConnections    int           `json:"max-idle-connections" mapstructure:"max-idle-connections"`
	MaxOpenConnections    int           `json:"max-open-connections" mapstructure:"max-open-connections"`
	MaxConnectionLifeTime time.Duration `json:"max-connection-life-time" mapstructure:"max-connection-life-time"`
	SlowThreshold         time.Duration `json:"slow-threshold" mapstructure:"slow-threshold"`
	LogLevel              int           `json:"log-level" mapstructure:"log-level"`
	AutoMigrate           bool          `json:"auto-migrate" mapstructure:"auto-migrate"`
}

// NewOptions creates a new Options object with default values.
func NewOptions() *Options {
	return &Options{
		Driver:                DriverPostgres,
		Host:                  "127.0.0.1",
		Port:                  5432,
		Username:              "postgres",
		Database:              "tutor",
		SSLMode:               "disable",
		Path:                  "tutor.db",
		MaxIdleConnections:    10,
		MaxOpenConnections:    100,
		MaxConnectionLifeTime: 10 * time.Minute,
		SlowThreshold:         200 * time.Millisecond,
		LogLevel:              1, // Silent
		AutoMigrate:           true,
	}
}

// MarshalJSON implements json.Marshaler with password redaction.
func (o *Options) MarshalJSON() ([]byte, error) {
	type plain Options
	out := struct {
		*plain
		Password string `json:"password"`
	}{plain: (*plain)(o)}
	if o.Password != "" {
		out.Password = redactedPassword
	}
	return json.Marshal(out)
}

// String returns a string representation with password redacted.
func (o *Options) String() string {
	if o.Driver == DriverSQLite {
		return fmt.Sprintf("Database{driver=sqlite, path=%s}", o.Path)
	}
	password := ""
	if o.Password != "" {
		password = redactedPassword
	}
	return fmt.Sprintf("Database{driver=%s, host=%s, port=%d, user=%s, password=%s, database=%s}",
		o.Driver, o.Host, o.Port, o.Username, password, o.Database)
}

// Complete fills the password from the environment when it was not given.
func (o *Options) Complete() error {
	if o.Password == "" {
		o.Password = os.Getenv("DATABASE_PASSWORD")
	}
	return nil
}

// Validate checks if the options are valid.
func (o *Options) Validate() error {
	switch o.Driver {
	case DriverPostgres, DriverMySQL:
		if o.Host == "" {
			return fmt.Errorf("database host is required for driver %s", o.Driver)
		}
		if o.Database == "" {
			return fmt.Errorf("database name is required for driver %s", o.Driver)
		}
		if o.Port <= 0 || o.Port > 65535 {
			return fmt.Errorf("invalid database port %d", o.Port)
		}
	case DriverSQLite:
		if o.Path == "" {
			return fmt.Errorf("database path is required for driver sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", o.Driver)
	}
	return nil
}

// AddFlags adds flags for database options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, namePrefix string) {
	fs.StringVar(&o.Driver, namePrefix+"driver", o.Driver, "Database driver: postgres, mysql or sqlite")
	fs.StringVar(&o.Host, namePrefix+"host", o.Host, "Database host")
	fs.IntVar(&o.Port, namePrefix+"port", o.Port, "Database port")
	fs.StringVar(&o.Username, namePrefix+"username", o.Username, "Database username")
	fs.StringVar(&o.Password, namePrefix+"password", o.Password, "Database password (prefer DATABASE_PASSWORD env var)")
	fs.StringVar(&o.Database, namePrefix+"database", o.Database, "Database name")
	fs.StringVar(&o.SSLMode, namePrefix+"ssl-mode", o.SSLMode, "PostgreSQL SSL mode")
	fs.StringVar(&o.Path, namePrefix+"path", o.Path, "SQLite file path, or :memory:")
	fs.IntVar(&o.MaxIdleConnections, namePrefix+"max-idle-connections", o.MaxIdleConnections, "Max idle connections")
	fs.IntVar(&o.MaxOpenConnections, namePrefix+"max-open-connections", o.MaxOpenConnections, "Max open connections")
	fs.DurationVar(&o.MaxConnectionLifeTime, namePrefix+"max-connection-life-time", o.MaxConnectionLifeTime, "Max connection life time")
	fs.DurationVar(&o.SlowThreshold, namePrefix+"slow-threshold", o.SlowThreshold, "Queries slower than this are logged at warn")
	fs.IntVar(&o.LogLevel, namePrefix+"log-level", o.LogLevel, "GORM log level: 1 silent, 2 error, 3 warn, 4 info")
	fs.BoolVar(&o.AutoMigrate, namePrefix+"auto-migrate", o.AutoMigrate, "Create or update tables on startup")
}
