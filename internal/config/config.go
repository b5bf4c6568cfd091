package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	pkgconfig "github.com/Skotchmaster/smart_inventory/pkg/config"
	"github.com/Skotchmaster/smart_inventory/pkg/db"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	minSecretLen = 32
)

type Config struct {
	AppEnv      string
	ServiceName string
	Port        int

	DatabaseURL string
	DBDriver    string

	JWTSecret []byte
	TokenTTL  time.Duration

	BcryptCost        int
	LowStockThreshold int

	KafkaBrokers []string
	CORSOrigins  []string
	LogLevel     string
}

func (c Config) IsDevelopment() bool { return c.AppEnv == EnvDevelopment }

func (c Config) Addr() string { return ":" + strconv.Itoa(c.Port) }

// Load reads the process environment. Call pkgconfig.LoadDotEnv first to pick up .env files.
func Load() (Config, error) {
	cfg := Config{
		AppEnv:            strings.ToLower(pkgconfig.EnvDefault("APP_ENV", EnvProduction)),
		ServiceName:       pkgconfig.EnvDefault("SERVICE_NAME", "inventory"),
		Port:              pkgconfig.EnvIntDefault("PORT", 3000),
		DatabaseURL:       pkgconfig.EnvDefault("DATABASE_URL", "sqlite://inventory.db"),
		DBDriver:          strings.ToLower(pkgconfig.EnvDefault("DB_DRIVER", db.DriverPgx)),
		JWTSecret:         []byte(pkgconfig.EnvDefault("JWT_SECRET", "")),
		TokenTTL:          pkgconfig.EnvDurationDefault("TOKEN_TTL", time.Hour),
		BcryptCost:        pkgconfig.EnvIntDefault("BCRYPT_COST", bcrypt.DefaultCost),
		LowStockThreshold: pkgconfig.EnvIntDefault("LOW_STOCK_THRESHOLD", 5),
		KafkaBrokers:      pkgconfig.CSV(pkgconfig.EnvDefault("KAFKA_BROKERS", "")),
		CORSOrigins:       pkgconfig.CSV(pkgconfig.EnvDefault("CORS_ORIGINS", "*")),
		LogLevel:          pkgconfig.EnvDefault("LOG_LEVEL", "info"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.AppEnv != EnvDevelopment && c.AppEnv != EnvProduction {
		errs = append(errs, fmt.Errorf("APP_ENV must be %s or %s, got %q", EnvDevelopment, EnvProduction, c.AppEnv))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT out of range: %d", c.Port))
	}
	if err := pkgconfig.RequireNonEmptyBytes(c.JWTSecret, "JWT_SECRET"); err != nil {
		errs = append(errs, err)
	} else if !c.IsDevelopment() && len(c.JWTSecret) < minSecretLen {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes outside development", minSecretLen))
	}
	if c.TokenTTL < 0 {
		errs = append(errs, errors.New("TOKEN_TTL must not be negative"))
	}
	if c.DBDriver != db.DriverPgx && c.DBDriver != db.DriverPQ {
		errs = append(errs, fmt.Errorf("DB_DRIVER must be %s or %s, got %q", db.DriverPgx, db.DriverPQ, c.DBDriver))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	if c.LowStockThreshold < 0 {
		errs = append(errs, errors.New("LOW_STOCK_THRESHOLD must not be negative"))
	}
	return errors.Join(errs...)
}

// String is safe to log: the signing secret and database credentials are masked.
func (c Config) String() string {
	secret := "<unset>"
	if len(c.JWTSecret) > 0 {
		secret = "***"
	}
	return fmt.Sprintf(
		"env=%s service=%s port=%d db=%s driver=%s jwt_secret=%s token_ttl=%s bcrypt_cost=%d low_stock=%d kafka=%v cors=%v log_level=%s",
		c.AppEnv, c.ServiceName, c.Port, db.Redact(c.DatabaseURL), c.DBDriver, secret, c.TokenTTL,
		c.BcryptCost, c.LowStockThreshold, c.KafkaBrokers, c.CORSOrigins, c.LogLevel,
	)
}
