package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Backends selectable for the course data provider.
const (
	ProviderPostgres = "postgres"
	ProviderNeo4j    = "neo4j"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Graph    GraphConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	Planner  PlannerConfig
	Advisor  AdvisorConfig
	Exports  ExportsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// GraphConfig configures the optional Neo4j course data provider.
type GraphConfig struct {
	URI            string
	Username       string
	Password       string
	Database       string
	MaxPoolSize    int
	ConnectTimeout time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// PlannerConfig governs the degree-path optimizer.
type PlannerConfig struct {
	Provider       string
	MaxTerms       int
	CreditsPerSlot int
	CacheTTL       time.Duration
	CacheEnabled   bool
}

// AdvisorConfig configures the external advisory text generator.
type AdvisorConfig struct {
	Enabled  bool
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

// ExportsConfig governs term-plan downloads and the background export queue.
type ExportsConfig struct {
	Enabled       bool
	Dir           string
	SigningSecret string
	ResultTTL     time.Duration
	Workers       int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Graph = GraphConfig{
		URI:            v.GetString("NEO4J_URI"),
		Username:       v.GetString("NEO4J_USERNAME"),
		Password:       v.GetString("NEO4J_PASSWORD"),
		Database:       v.GetString("NEO4J_DATABASE"),
		MaxPoolSize:    v.GetInt("NEO4J_MAX_POOL_SIZE"),
		ConnectTimeout: parseDuration(v.GetString("NEO4J_CONNECT_TIMEOUT"), 10*time.Second),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Planner = PlannerConfig{
		Provider:       v.GetString("COURSE_PROVIDER"),
		MaxTerms:       v.GetInt("PLANNER_MAX_TERMS"),
		CreditsPerSlot: v.GetInt("PLANNER_CREDITS_PER_SLOT"),
		CacheTTL:       parseDuration(v.GetString("PLANNER_CACHE_TTL"), 15*time.Minute),
		CacheEnabled:   v.GetBool("PLANNER_CACHE_ENABLED"),
	}

	cfg.Advisor = AdvisorConfig{
		Enabled:  v.GetBool("ENABLE_ADVISOR"),
		Endpoint: v.GetString("ADVISOR_ENDPOINT"),
		APIKey:   v.GetString("ADVISOR_API_KEY"),
		Model:    v.GetString("ADVISOR_MODEL"),
		Timeout:  parseDuration(v.GetString("ADVISOR_TIMEOUT"), 15*time.Second),
	}

	cfg.Exports = ExportsConfig{
		Enabled:       v.GetBool("ENABLE_EXPORTS"),
		Dir:           v.GetString("EXPORTS_DIR"),
		SigningSecret: v.GetString("EXPORTS_SIGNING_SECRET"),
		ResultTTL:     parseDuration(v.GetString("EXPORTS_RESULT_TTL"), 24*time.Hour),
		Workers:       v.GetInt("EXPORTS_WORKERS"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "degree_planner")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("NEO4J_URI", "")
	v.SetDefault("NEO4J_USERNAME", "neo4j")
	v.SetDefault("NEO4J_PASSWORD", "")
	v.SetDefault("NEO4J_DATABASE", "")
	v.SetDefault("NEO4J_MAX_POOL_SIZE", 50)
	v.SetDefault("NEO4J_CONNECT_TIMEOUT", "10s")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("COURSE_PROVIDER", ProviderPostgres)
	v.SetDefault("PLANNER_MAX_TERMS", 20)
	v.SetDefault("PLANNER_CREDITS_PER_SLOT", 4)
	v.SetDefault("PLANNER_CACHE_TTL", "15m")
	v.SetDefault("PLANNER_CACHE_ENABLED", false)

	v.SetDefault("ENABLE_ADVISOR", false)
	v.SetDefault("ADVISOR_ENDPOINT", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("ADVISOR_API_KEY", "")
	v.SetDefault("ADVISOR_MODEL", "gemini-1.5-flash")
	v.SetDefault("ADVISOR_TIMEOUT", "15s")

	v.SetDefault("ENABLE_EXPORTS", false)
	v.SetDefault("EXPORTS_DIR", "./exports")
	v.SetDefault("EXPORTS_SIGNING_SECRET", "")
	v.SetDefault("EXPORTS_RESULT_TTL", "24h")
	v.SetDefault("EXPORTS_WORKERS", 2)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
