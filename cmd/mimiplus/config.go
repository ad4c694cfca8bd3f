package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"

	"github.com/nkiryanov/mimiplus/internal/logger"
	"github.com/nkiryanov/mimiplus/internal/service/purchase"
)

const (
	defaultListenAddr   = "localhost:8000"
	defaultLoggingLevel = logger.LevelInfo
	defaultEnvironment  = logger.EnvProduction
)

type Config struct {
	// Default logging level
	LogLevel string

	// Address on which the mimiplus service will be run
	ListenAddr string

	// Database to connect to
	DatabaseDSN string

	// Secret key
	// Identity tokens are signed with it
	SecretKey string

	// Environment
	Environment string

	// Currency units per one earned point
	PointsPerUnit decimal.Decimal

	// Origins allowed by CORS. Empty means any
	AllowedOrigins []string
}

func NewConfig() *Config {
	return &Config{
		LogLevel:      defaultLoggingLevel,
		ListenAddr:    defaultListenAddr,
		Environment:   defaultEnvironment,
		PointsPerUnit: purchase.DefaultPointsPerUnit,
	}
}

// Load variable from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		return c.LoadEnv(func(key string) string {
			return envMap[key]
		})
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) error {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) error {
		return func(value string) error {
			if value != "" {
				*o = value
			}
			return nil
		}
	}

	setDecimal := func(o *decimal.Decimal) func(value string) error {
		return func(value string) error {
			if value == "" {
				return nil
			}
			return (*decimalValue)(o).Set(value)
		}
	}

	setList := func(o *[]string) func(value string) error {
		return func(value string) error {
			if value != "" {
				*o = splitList(value)
			}
			return nil
		}
	}

	envMap := map[string]func(string) error{
		"RUN_ADDRESS":     setString(&c.ListenAddr),
		"DATABASE_URI":    setString(&c.DatabaseDSN),
		"SECRET_KEY":      setString(&c.SecretKey),
		"LOG_LEVEL":       setString(&c.LogLevel),
		"ENVIRONMENT":     setString(&c.Environment),
		"POINTS_PER_UNIT": setDecimal(&c.PointsPerUnit),
		"ALLOWED_ORIGINS": setList(&c.AllowedOrigins),
	}

	for key, parseFn := range envMap {
		if err := parseFn(getenv(key)); err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
	}

	return nil
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("mimiplus", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string")
	fs.StringVarP(&c.SecretKey, "secret-key", "s", c.SecretKey, "Secret key")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (development, production)")
	fs.VarP((*decimalValue)(&c.PointsPerUnit), "points-per-unit", "p", "Currency units per one earned point")
	fs.StringSliceVarP(&c.AllowedOrigins, "allowed-origins", "o", c.AllowedOrigins, "Origins allowed by CORS")

	return fs.Parse(args)
}

func (c *Config) Validate() error {
	switch {
	case c.DatabaseDSN == "":
		return errors.New("database connection string is required")
	case c.SecretKey == "":
		return errors.New("secret key is required")
	case !c.PointsPerUnit.IsPositive():
		return fmt.Errorf("points per unit has to be positive, got %s", c.PointsPerUnit)
	}
	return nil
}

// Decimal as pflag.Value
type decimalValue decimal.Decimal

func (d *decimalValue) String() string {
	return decimal.Decimal(*d).String()
}

func (d *decimalValue) Set(value string) error {
	v, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return err
	}
	*d = decimalValue(v)
	return nil
}

func (d *decimalValue) Type() string {
	return "decimal"
}

func splitList(value string) []string {
	var res []string
	for item := range strings.SplitSeq(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			res = append(res, item)
		}
	}
	return res
}
