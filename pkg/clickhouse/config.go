package clickhouse

import "time"

// Option configures a ClickHouse connection.
type Option func(*Config)

// Config holds ClickHouse connection settings.
type Config struct {
	Host            string
	Port            int
	Database        string
	User            string
	Password        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	UseHTTP         bool
	MaxExecTime     time.Duration
}

// WithHost sets database host.
func WithHost(host string) Option {
	return func(c *Config) {
		c.Host = host
	}
}

// WithPort sets database port.
func WithPort(port int) Option {
	return func(c *Config) {
		c.Port = port
	}
}

// WithDatabase sets database name.
func WithDatabase(database string) Option {
	return func(c *Config) {
		c.Database = database
	}
}

// WithCredentials sets username and password.
func WithCredentials(user, password string) Option {
	return func(c *Config) {
		c.User = user
		c.Password = password
	}
}

// WithTimeouts sets dial and read timeouts.
func WithTimeouts(dial, read time.Duration) Option {
	return func(c *Config) {
		c.DialTimeout = dial
		c.ReadTimeout = read
	}
}

// WithHTTP enables HTTP protocol instead of native.
func WithHTTP(useHTTP bool) Option {
	return func(c *Config) {
		c.UseHTTP = useHTTP
	}
}

// WithMaxExecutionTime caps server-side query time.
func WithMaxExecutionTime(d time.Duration) Option {
	return func(c *Config) {
		c.MaxExecTime = d
	}
}
