package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"StockETL/pkg/util"
)

const (
	DriverSnowflake  = "snowflake"
	DriverClickHouse = "clickhouse"
	DriverSQLite     = "sqlite"
)

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`
	Log         struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=json console"`
		Output string `yaml:"output" default:"stderr"`
	} `yaml:"log"`
	ETL struct {
		Ticker      string `yaml:"ticker" default:"AAPL" validate:"required"`
		WindowDays  int    `yaml:"window_days" default:"7" validate:"gte=1,lte=3650"`
		MAWindow    int    `yaml:"ma_window" default:"7" validate:"eq=7"`
		PreviewRows int    `yaml:"preview_rows" default:"5" validate:"gte=0"`
	} `yaml:"etl"`
	Yahoo struct {
		BaseURL   string        `yaml:"base_url" default:"https://query1.finance.yahoo.com" validate:"required,url"`
		Timeout   time.Duration `yaml:"timeout" default:"30s"`
		UserAgent string        `yaml:"user_agent" default:"Mozilla/5.0"`
	} `yaml:"yahoo"`
	Warehouse Warehouse `yaml:"warehouse"`
	Metrics   struct {
		Enabled        bool   `yaml:"enabled"`
		PushgatewayURL string `yaml:"pushgateway_url" validate:"omitempty,url"`
		Job            string `yaml:"job" default:"stock_etl"`
	} `yaml:"metrics"`
}

// Warehouse describes the analytical sink. Only the section matching Driver is used.
type Warehouse struct {
	Driver    string `yaml:"driver" default:"snowflake" validate:"oneof=snowflake clickhouse sqlite"`
	Table     string `yaml:"table" default:"STOCK_DATA" validate:"required,sqlident"`
	Snowflake struct {
		Account      string        `yaml:"account"`
		User         string        `yaml:"user"`
		Password     string        `yaml:"password"`
		Database     string        `yaml:"database"`
		Schema       string        `yaml:"schema"`
		Warehouse    string        `yaml:"warehouse" validate:"omitempty,sqlident"`
		Role         string        `yaml:"role"`
		LoginTimeout time.Duration `yaml:"login_timeout" default:"60s"`
	} `yaml:"snowflake"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"default"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	SQLite struct {
		Path string `yaml:"path" default:"data/stock_etl.db"`
	} `yaml:"sqlite"`
}

var (
	validate   *validator.Validate
	identRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*$`)
)

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("sqlident", func(fl validator.FieldLevel) bool {
		return identRegex.MatchString(fl.Field().String())
	})
}

// Load reads and parses a YAML configuration file. A missing file yields an empty config.
func Load(path string) (*Config, error) {
	var c Config

	b, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(b) > 0 {
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML, applies .env and environment overrides,
// fills defaults and validates the result.
func LoadWithEnv(path string, dotenvFiles ...string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if err := LoadDotEnv(dotenvFiles...); err != nil {
		return nil, err
	}
	c.applyEnv()

	if err := defaults.Set(c); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// LoadDotEnv loads variables from .env files without overriding the process environment.
// Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func (c *Config) applyEnv() {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString(&c.Environment, "ENVIRONMENT")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.ETL.Ticker, "ETL_TICKER")
	setString(&c.Yahoo.BaseURL, "YAHOO_BASE_URL")
	setString(&c.Metrics.PushgatewayURL, "PUSHGATEWAY_URL")
	if c.Metrics.PushgatewayURL != "" {
		c.Metrics.Enabled = true
	}

	w := &c.Warehouse
	if v := os.Getenv("WAREHOUSE_DRIVER"); v != "" {
		w.Driver = strings.ToLower(v)
	}
	setString(&w.Snowflake.User, "SNOWFLAKE_USER")
	setString(&w.Snowflake.Password, "SNOWFLAKE_PASSWORD")
	setString(&w.Snowflake.Account, "SNOWFLAKE_ACCOUNT")
	setString(&w.Snowflake.Database, "SNOWFLAKE_DATABASE")
	setString(&w.Snowflake.Schema, "SNOWFLAKE_SCHEMA")
	setString(&w.Snowflake.Warehouse, "SNOWFLAKE_WAREHOUSE")
	setString(&w.Snowflake.Role, "SNOWFLAKE_ROLE")
	setString(&w.ClickHouse.Host, "CLICKHOUSE_HOST")
	w.ClickHouse.Port = util.ParseIntDefault(os.Getenv("CLICKHOUSE_PORT"), w.ClickHouse.Port)
	setString(&w.ClickHouse.Database, "CLICKHOUSE_DATABASE")
	setString(&w.ClickHouse.User, "CLICKHOUSE_USER")
	setString(&w.ClickHouse.Password, "CLICKHOUSE_PASSWORD")
	setString(&w.SQLite.Path, "SQLITE_PATH")
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s failed %q validation", fe.Namespace(), fe.Tag())
		}
		return err
	}

	w := c.Warehouse
	switch w.Driver {
	case DriverSnowflake:
		missing := make([]string, 0)
		for name, v := range map[string]string{
			"account":   w.Snowflake.Account,
			"user":      w.Snowflake.User,
			"password":  w.Snowflake.Password,
			"database":  w.Snowflake.Database,
			"schema":    w.Snowflake.Schema,
			"warehouse": w.Snowflake.Warehouse,
		} {
			if v == "" {
				missing = append(missing, "warehouse.snowflake."+name)
			}
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			return fmt.Errorf("%s required for snowflake driver", strings.Join(missing, ", "))
		}
	case DriverClickHouse:
		if w.ClickHouse.Host == "" {
			return fmt.Errorf("warehouse.clickhouse.host is required for clickhouse driver")
		}
	case DriverSQLite:
		if w.SQLite.Path == "" {
			return fmt.Errorf("warehouse.sqlite.path is required for sqlite driver")
		}
	}
	return nil
}

// ComputeUnit returns the suspendable compute name for drivers that have one.
func (w Warehouse) ComputeUnit() string {
	if w.Driver == DriverSnowflake {
		return w.Snowflake.Warehouse
	}
	return ""
}
