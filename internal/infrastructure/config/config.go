package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // embedded zoneinfo for scheduler.time_zone

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config is the full runtime configuration of the worker and the CLIs
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	ErpDB     ErpDBConfig     `mapstructure:"erpdb"`
	Sync      SyncConfig      `mapstructure:"sync"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Log       LogConfig       `mapstructure:"log"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr, or file path
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Env     string `mapstructure:"env"`
	Version string `mapstructure:"version"`
}

// DatabaseConfig is the local (website) postgres database
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // minutes
	AutoMigrate     bool   `mapstructure:"auto_migrate"`
}

// ErpDBConfig is the remote ERP SQL Server database
type ErpDBConfig struct {
	Host                   string        `mapstructure:"host"`
	Port                   int           `mapstructure:"port"`
	User                   string        `mapstructure:"user"`
	Password               string        `mapstructure:"password"`
	Database               string        `mapstructure:"database"`
	Encrypt                bool          `mapstructure:"encrypt"`
	TrustServerCertificate bool          `mapstructure:"trust_server_certificate"`
	RequestTimeout         time.Duration `mapstructure:"request_timeout"`
	DialTimeout            time.Duration `mapstructure:"dial_timeout"`
	TDSVersion             string        `mapstructure:"tds_version"`
	MaxOpenConns           int           `mapstructure:"max_open_conns"`
	MaxIdleConns           int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime        int           `mapstructure:"conn_max_lifetime"` // minutes
	SlowQueryThreshold     time.Duration `mapstructure:"slow_query_threshold"`
}

// SyncConfig controls what the sync services write to the ERP
type SyncConfig struct {
	Enabled               bool            `mapstructure:"enabled"`
	DefaultWarehouse      string          `mapstructure:"default_warehouse"`
	DefaultSendMethod     string          `mapstructure:"default_send_method"`
	DefaultPayMethod      string          `mapstructure:"default_pay_method"`
	TaxRate               decimal.Decimal `mapstructure:"tax_rate"`
	OrderPrefix           string          `mapstructure:"order_prefix"`
	CustomerCodePrefix    string          `mapstructure:"customer_code_prefix"`
	SalespersonCodePrefix string          `mapstructure:"salesperson_code_prefix"`
	CodeWidth             int             `mapstructure:"code_width"`
	TestCodePrefix        string          `mapstructure:"test_code_prefix"`
	SalespersonImportLike string          `mapstructure:"salesperson_import_prefix"`
	LockTTL               time.Duration   `mapstructure:"lock_ttl"`
}

// SchedulerConfig drives the daily product sync trigger
type SchedulerConfig struct {
	Enabled             bool          `mapstructure:"enabled"`
	ProductSyncSchedule string        `mapstructure:"product_sync_schedule"` // "minute hour * * *"
	TimeZone            string        `mapstructure:"time_zone"`
	CheckInterval       time.Duration `mapstructure:"check_interval"`
	JobTimeout          time.Duration `mapstructure:"job_timeout"`
}

// RedisConfig holds Redis connection settings. An empty host disables Redis.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// TelemetryConfig holds OpenTelemetry export settings
type TelemetryConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	CollectorEndpoint string        `mapstructure:"collector_endpoint"` // OTLP gRPC, e.g. "localhost:4317"
	SamplingRatio     float64       `mapstructure:"sampling_ratio"`
	ServiceName       string        `mapstructure:"service_name"`
	Insecure          bool          `mapstructure:"insecure"`
	MetricsInterval   time.Duration `mapstructure:"metrics_interval"`
	DBTraceEnabled    bool          `mapstructure:"db_trace_enabled"`
	DBLogFullSQL      bool          `mapstructure:"db_log_full_sql"` // never in production
	DBSlowQueryThresh time.Duration `mapstructure:"db_slow_query_threshold"`
}

// defaults registers every key. Viper only applies ERP_* environment
// overrides during Unmarshal to keys it already knows.
var defaults = map[string]any{
	"app.name":    "erp-syncengine",
	"app.env":     "development",
	"app.version": "",

	"database.host":               "localhost",
	"database.port":               5432,
	"database.user":               "postgres",
	"database.password":           "",
	"database.dbname":             "website",
	"database.sslmode":            "disable",
	"database.max_open_conns":     25,
	"database.max_idle_conns":     5,
	"database.conn_max_lifetime":  60,
	"database.conn_max_idle_time": 30,
	"database.auto_migrate":       false,

	"erpdb.host":                     "MSSQL",
	"erpdb.port":                     1433,
	"erpdb.user":                     "sa",
	"erpdb.password":                 "",
	"erpdb.database":                 "DB_MP01",
	"erpdb.encrypt":                  false,
	"erpdb.trust_server_certificate": true,
	"erpdb.request_timeout":          time.Minute,
	"erpdb.dial_timeout":             15 * time.Second,
	"erpdb.tds_version":              "7.4",
	"erpdb.max_open_conns":           10,
	"erpdb.max_idle_conns":           2,
	"erpdb.conn_max_lifetime":        30,
	"erpdb.slow_query_threshold":     500 * time.Millisecond,

	"sync.enabled":                   false,
	"sync.default_warehouse":         "01",
	"sync.default_send_method":       "1",
	"sync.default_pay_method":        "1",
	"sync.tax_rate":                  "0.13",
	"sync.order_prefix":              "SO",
	"sync.customer_code_prefix":      "TEST_C",
	"sync.salesperson_code_prefix":   "TEST_S",
	"sync.code_width":                4,
	"sync.test_code_prefix":          "TEST_",
	"sync.salesperson_import_prefix": "MP",
	"sync.lock_ttl":                  10 * time.Minute,

	// midnight Beijing time
	"scheduler.enabled":               true,
	"scheduler.product_sync_schedule": "0 0 * * *",
	"scheduler.time_zone":             "Asia/Shanghai",
	"scheduler.check_interval":        30 * time.Second,
	"scheduler.job_timeout":           30 * time.Minute,

	"redis.host":     "",
	"redis.port":     6379,
	"redis.password": "",
	"redis.db":       0,

	"log.level":  "info",
	"log.format": "console",
	"log.output": "stdout",

	"telemetry.enabled":                 false,
	"telemetry.collector_endpoint":      "localhost:4317",
	"telemetry.sampling_ratio":          1.0,
	"telemetry.service_name":            "erp-syncengine",
	"telemetry.insecure":                false,
	"telemetry.metrics_interval":        time.Minute,
	"telemetry.db_trace_enabled":        false,
	"telemetry.db_log_full_sql":         false,
	"telemetry.db_slow_query_threshold": 200 * time.Millisecond,
}

// Load reads configuration. Later sources override earlier ones:
// built-in defaults, config.toml, a .env file in the working directory,
// then ERP_* environment variables (ERP_ERPDB_PASSWORD sets
// erpdb.password).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/app")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix("ERP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		decimalHook,
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// decimalHook decodes sync.tax_rate. Strings keep their exact digits.
func decimalHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(decimal.Decimal{}) {
		return data, nil
	}
	switch raw := data.(type) {
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("sync.tax_rate is not a decimal: %w", err)
		}
		return d, nil
	case float64:
		return decimal.NewFromFloat(raw), nil
	case int64:
		return decimal.NewFromInt(raw), nil
	case int:
		return decimal.NewFromInt(int64(raw)), nil
	}
	return data, nil
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	// Validate connection pool settings
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.ErpDB.MaxIdleConns > c.ErpDB.MaxOpenConns {
		return fmt.Errorf("erpdb.max_idle_conns (%d) cannot exceed erpdb.max_open_conns (%d)",
			c.ErpDB.MaxIdleConns, c.ErpDB.MaxOpenConns)
	}
	if c.ErpDB.TDSVersion != "7.4" {
		return fmt.Errorf("erpdb.tds_version %q is not supported (only 7.4)", c.ErpDB.TDSVersion)
	}

	if c.Sync.TaxRate.IsNegative() || c.Sync.TaxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("sync.tax_rate must be in [0, 1), got %s", c.Sync.TaxRate)
	}
	if c.Sync.CodeWidth < 1 || c.Sync.CodeWidth > 8 {
		return fmt.Errorf("sync.code_width must be between 1 and 8, got %d", c.Sync.CodeWidth)
	}
	if c.Sync.CustomerCodePrefix == c.Sync.SalespersonCodePrefix {
		return fmt.Errorf("sync.customer_code_prefix and sync.salesperson_code_prefix must differ")
	}

	if _, err := time.LoadLocation(c.Scheduler.TimeZone); err != nil {
		return fmt.Errorf("scheduler.time_zone %q: %w", c.Scheduler.TimeZone, err)
	}

	// Production-specific validations
	if c.App.Env == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.ErpDB.Password == "" {
			return fmt.Errorf("erpdb.password is required in production")
		}
		// Database tracing: full SQL logging is a security risk in production
		if c.Telemetry.DBLogFullSQL {
			return fmt.Errorf("telemetry.db_log_full_sql must be false in production to prevent sensitive data exposure in traces")
		}
	}

	// Validate telemetry configuration (all environments)
	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// DSN returns the go-mssqldb connection URL with properly escaped values
func (e *ErpDBConfig) DSN() string {
	u := url.URL{
		Scheme: "sqlserver",
		User:   url.UserPassword(e.User, e.Password),
		Host:   fmt.Sprintf("%s:%d", e.Host, e.Port),
	}
	q := u.Query()
	q.Set("database", e.Database)
	if e.Encrypt {
		q.Set("encrypt", "true")
	} else {
		q.Set("encrypt", "disable")
	}
	q.Set("TrustServerCertificate", strconv.FormatBool(e.TrustServerCertificate))
	q.Set("dial timeout", strconv.Itoa(int(e.DialTimeout.Seconds())))
	q.Set("app name", "erp-syncengine")
	u.RawQuery = q.Encode()
	return u.String()
}

// Addr returns the Redis address, or "" when Redis is not configured
func (r *RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
