package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del monitor en vivo.
type Config struct {
	Provider ProviderConfig `yaml:"provider"`
	Cache    CacheConfig    `yaml:"cache"`
	Monitor  MonitorConfig  `yaml:"monitor"`
	Value    ValueConfig    `yaml:"value"`
	Storage  StorageConfig  `yaml:"storage"`
	Alerts   AlertsConfig   `yaml:"alerts"`
	API      APIConfig      `yaml:"api"`
	Log      LogConfig      `yaml:"log"`
}

// ProviderConfig describe el proveedor de datos en vivo (API-Football v3).
// Sin api_key el cliente trabaja en modo simulación.
type ProviderConfig struct {
	BaseURL           string `yaml:"base_url"`
	APIKey            string `yaml:"api_key"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`
	RequestsPerDay    int    `yaml:"requests_per_day"`
	TimeoutSeconds    int    `yaml:"timeout_seconds"`
	MaxRetries        *int   `yaml:"max_retries"` // nil = 2; 0 desactiva los reintentos
	RetryBaseMillis   int    `yaml:"retry_base_millis"`
}

// CacheConfig controla la cache de respuestas del proveedor.
type CacheConfig struct {
	Backend       string `yaml:"backend"` // memory | redis
	TTLSeconds    int    `yaml:"ttl_seconds"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

// MonitorConfig controla el loop de polling.
type MonitorConfig struct {
	IntervalSeconds     int `yaml:"interval_seconds"`
	ErrorBackoffSeconds int `yaml:"error_backoff_seconds"`
	CycleTimeoutSeconds int `yaml:"cycle_timeout_seconds"`
	HistoryLimit        int `yaml:"history_limit"`
	StaleAfterSeconds   int `yaml:"stale_after_seconds"`
	EnrichWorkers       int `yaml:"enrich_workers"`
}

// ValueConfig controla el motor de value bets.
type ValueConfig struct {
	Threshold       float64 `yaml:"threshold"`
	KellyMultiplier float64 `yaml:"kelly_multiplier"` // 1.0 = Kelly completo
}

// StorageConfig controla dónde se persisten los datos.
type StorageConfig struct {
	Driver string `yaml:"driver"` // sqlite | postgres
	DSN    string `yaml:"dsn"`    // ruta al archivo SQLite, ":memory:", o DSN de postgres
}

// AlertsConfig controla el envío de alertas STRONG_BET por Telegram.
type AlertsConfig struct {
	TelegramEnabled bool   `yaml:"telegram_enabled"`
	TelegramToken   string `yaml:"telegram_token"`
	TelegramChatID  int64  `yaml:"telegram_chat_id"`
	DedupMinutes    int    `yaml:"dedup_minutes"`
}

// APIConfig controla la superficie HTTP de control.
type APIConfig struct {
	Enabled        bool     `yaml:"enabled"`
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del .env sobreescriben los del YAML para las keys que correspondan.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return cfg, nil
}

// Parse interpreta el YAML, aplica overrides de entorno, defaults y valida.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rechaza configuraciones que no tienen sentido en runtime.
func (c *Config) Validate() error {
	t := c.Value.Threshold
	if math.IsNaN(t) || math.IsInf(t, 0) || t < 0.05 || t >= 10 {
		return fmt.Errorf("config.Validate: value.threshold %v out of range [0.05, 10)", t)
	}
	if m := c.Value.KellyMultiplier; math.IsNaN(m) || m <= 0 || m > 1 {
		return fmt.Errorf("config.Validate: value.kelly_multiplier %v out of range (0, 1]", m)
	}
	if c.Provider.MaxRetries != nil && *c.Provider.MaxRetries < 0 {
		return fmt.Errorf("config.Validate: provider.max_retries %d must be >= 0", *c.Provider.MaxRetries)
	}
	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("config.Validate: unknown cache.backend %q", c.Cache.Backend)
	}
	switch c.Storage.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("config.Validate: unknown storage.driver %q", c.Storage.Driver)
	}
	if c.Alerts.TelegramEnabled && (c.Alerts.TelegramToken == "" || c.Alerts.TelegramChatID == 0) {
		return fmt.Errorf("config.Validate: telegram enabled without token or chat id")
	}
	return nil
}

// PollInterval devuelve el intervalo entre ciclos como time.Duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Monitor.IntervalSeconds) * time.Second
}

// ErrorBackoff devuelve la espera tras un ciclo fallido.
func (c *Config) ErrorBackoff() time.Duration {
	return time.Duration(c.Monitor.ErrorBackoffSeconds) * time.Second
}

// CycleTimeout devuelve el presupuesto de tiempo de un ciclo completo.
func (c *Config) CycleTimeout() time.Duration {
	return time.Duration(c.Monitor.CycleTimeoutSeconds) * time.Second
}

// StaleAfter devuelve cuánto puede pasar un partido activo sin refrescarse.
func (c *Config) StaleAfter() time.Duration {
	return time.Duration(c.Monitor.StaleAfterSeconds) * time.Second
}

// CacheTTL devuelve el TTL de la cache de respuestas.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// RequestTimeout devuelve el timeout por request HTTP al proveedor.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Provider.TimeoutSeconds) * time.Second
}

// RetryCount devuelve cuántos reintentos hace el cliente tras el primer intento.
func (c *Config) RetryCount() int {
	if c.Provider.MaxRetries == nil {
		return 2
	}
	return *c.Provider.MaxRetries
}

// RetryBaseWait devuelve la espera base del backoff exponencial.
func (c *Config) RetryBaseWait() time.Duration {
	return time.Duration(c.Provider.RetryBaseMillis) * time.Millisecond
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("APIFOOTBALL_KEY"); v != "" {
		cfg.Provider.APIKey = v
	}
	if v := os.Getenv("STORAGE_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Alerts.TelegramToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		var id int64
		if _, err := fmt.Sscan(v, &id); err == nil {
			cfg.Alerts.TelegramChatID = id
		}
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Provider.BaseURL == "" {
		cfg.Provider.BaseURL = "https://v3.football.api-sports.io"
	}
	if cfg.Provider.RequestsPerMinute <= 0 {
		cfg.Provider.RequestsPerMinute = 10
	}
	if cfg.Provider.RequestsPerDay <= 0 {
		cfg.Provider.RequestsPerDay = 100 // plan gratuito
	}
	if cfg.Provider.TimeoutSeconds <= 0 {
		cfg.Provider.TimeoutSeconds = 10
	}
	if cfg.Provider.MaxRetries == nil {
		retries := 2
		cfg.Provider.MaxRetries = &retries
	}
	if cfg.Provider.RetryBaseMillis <= 0 {
		cfg.Provider.RetryBaseMillis = 500
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "memory"
	}
	if cfg.Cache.TTLSeconds <= 0 {
		cfg.Cache.TTLSeconds = 300
	}
	if cfg.Cache.RedisAddr == "" {
		cfg.Cache.RedisAddr = "localhost:6379"
	}
	if cfg.Monitor.IntervalSeconds <= 0 {
		cfg.Monitor.IntervalSeconds = 30
	}
	if cfg.Monitor.ErrorBackoffSeconds <= 0 {
		cfg.Monitor.ErrorBackoffSeconds = 5
	}
	if cfg.Monitor.CycleTimeoutSeconds <= 0 {
		cfg.Monitor.CycleTimeoutSeconds = 120
	}
	if cfg.Monitor.HistoryLimit <= 0 {
		cfg.Monitor.HistoryLimit = 1000
	}
	if cfg.Monitor.StaleAfterSeconds <= 0 {
		cfg.Monitor.StaleAfterSeconds = 600
	}
	if cfg.Monitor.EnrichWorkers <= 0 {
		cfg.Monitor.EnrichWorkers = 1
	}
	if cfg.Value.Threshold == 0 {
		cfg.Value.Threshold = 0.15
	}
	if cfg.Value.KellyMultiplier == 0 {
		cfg.Value.KellyMultiplier = 1
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "sqlite"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "livevalue.db"
	}
	if cfg.Alerts.DedupMinutes <= 0 {
		cfg.Alerts.DedupMinutes = 30
	}
	if cfg.API.Addr == "" {
		cfg.API.Addr = ":8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
