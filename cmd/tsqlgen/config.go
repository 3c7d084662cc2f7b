package main

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = `TSQLGEN`

/*
Contents of the YAML schema file. `driver`, `dsn`, `quote` and `concurrency`
may be overridden by environment variables such as `TSQLGEN_DSN`.

	driver: sqlite
	dsn: ./app.db
	tables:
	  - name: person
	    alias: p
	    columns:
	      - {name: id, type: int}
	      - {name: name, type: text}
	      - {name: nick, type: text, nullable: true}
*/
type Config struct {
	Driver      string        `mapstructure:"driver"`
	DSN         string        `mapstructure:"dsn"`
	Quote       bool          `mapstructure:"quote"`
	Concurrency int           `mapstructure:"concurrency"`
	Tables      []TableConfig `mapstructure:"tables"`
}

type TableConfig struct {
	Name    string         `mapstructure:"name"`
	Alias   string         `mapstructure:"alias"`
	Columns []ColumnConfig `mapstructure:"columns"`
}

type ColumnConfig struct {
	Name     string `mapstructure:"name"`
	Type     string `mapstructure:"type"`
	Nullable bool   `mapstructure:"nullable"`
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("driver", "postgres")
	v.SetDefault("dsn", "")
	v.SetDefault("quote", false)
	v.SetDefault("concurrency", 4)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if _, ok := driverNames[c.Driver]; !ok {
		return fmt.Errorf("unknown driver %q, expected one of postgres, mysql, sqlite", c.Driver)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be positive, got %d", c.Concurrency)
	}
	if len(c.Tables) == 0 {
		return fmt.Errorf("no tables declared")
	}

	seen := map[string]bool{}
	for _, table := range c.Tables {
		if table.Name == "" {
			return fmt.Errorf("table without a name")
		}
		if seen[table.Name] {
			return fmt.Errorf("table %q declared twice", table.Name)
		}
		seen[table.Name] = true

		if len(table.Columns) == 0 {
			return fmt.Errorf("table %q has no columns", table.Name)
		}
		for _, col := range table.Columns {
			if col.Name == "" {
				return fmt.Errorf("table %q has a column without a name", table.Name)
			}
			if _, ok := columnTypes[col.Type]; !ok {
				return fmt.Errorf("column %q of table %q has unknown type %q", col.Name, table.Name, col.Type)
			}
		}
	}
	return nil
}

// Name passed to `sql.Open` for each supported driver.
var driverNames = map[string]string{
	"postgres": "postgres",
	"mysql":    "mysql",
	"sqlite":   "sqlite",
}

// True for drivers expecting `?` placeholders instead of `$N`.
func (c *Config) Positional() bool { return c.Driver != "postgres" }
