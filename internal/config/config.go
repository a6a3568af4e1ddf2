package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
)

// Режимы хранения настроек интерфейса
const (
	ModeDatabase = "database"
	ModeFile     = "file"
	ModeMemory   = "memory"
)

// Config хранит конфигурацию сервера
type Config struct {
	ServerAddress    string        `json:"server_address"`
	GRPCAddress      string        `json:"grpc_address"`
	FileStoragePath  string        `json:"file_storage_path"`
	DatabaseDSN      string        `json:"database_dsn"`
	PgMigrationsPath string        `json:"pg_migrations_path"`
	SessionSecret    string        `json:"session_secret"`
	NotifyDuration   time.Duration `json:"-"`
	SessionTTL       time.Duration `json:"-"`
	Mode             string        `json:"-"`
}

// Default возвращает значения по умолчанию
func Default() *Config {
	return &Config{
		ServerAddress:    "localhost:8080",
		GRPCAddress:      "localhost:3200",
		PgMigrationsPath: "internal/migrations",
		SessionSecret:    "multi-link-proxy-secret",
		NotifyDuration:   5 * time.Second,
		SessionTTL:       24 * time.Hour,
	}
}

// NewConfig инициализирует конфигурацию на основе аргументов командной строки.
// Ошибка проверки возвращается вызывающему, сервер с такой конфигурацией не стартует.
func NewConfig() (*Config, error) {
	return newConfig(os.Args[1:])
}

func newConfig(args []string) (*Config, error) {
	cfg, err := Load(args)
	if err != nil {
		return nil, fmt.Errorf("ошибка конфигурации: %w", err)
	}

	log.Printf("Инициализация конфигурации: ServerAddress=%s", cfg.ServerAddress)
	log.Printf("Инициализация конфигурации: GRPCAddress=%s", cfg.GRPCAddress)
	log.Printf("Инициализация конфигурации: FileStoragePath=%s", cfg.FileStoragePath)
	log.Printf("Инициализация конфигурации: PgMigrationsPath=%s", cfg.PgMigrationsPath)
	log.Printf("Инициализация конфигурации: Mode=%s", cfg.Mode)
	return cfg, nil
}

// Load собирает конфигурацию: значения по умолчанию, JSON-файл, .env и окружение, флаги.
// Каждый следующий источник перекрывает предыдущий.
func Load(args []string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	// Читаем .env, если есть (не переопределяет переменные окружения!)
	v.SetConfigFile(".env")
	_ = v.ReadInConfig() // Ошибку игнорируем, если файла нет

	// Определяем флаги, но НЕ задаем в них значения по умолчанию
	fs := flag.NewFlagSet("linkproxy", flag.ContinueOnError)
	serverAddress := fs.String("a", "", "HTTP server address")
	grpcAddress := fs.String("g", "", "gRPC server address")
	fileStoragePath := fs.String("f", "", "preference file path (JSON lines)")
	databaseDSN := fs.String("d", "", "PostgreSQL DSN")
	sessionSecret := fs.String("k", "", "session cookie signing key")
	notifyDuration := fs.Duration("n", 0, "notification display duration")
	sessionTTL := fs.Duration("ttl", 0, "idle session lifetime")
	configPath := fs.String("c", "", "path to JSON config file")
	fs.StringVar(configPath, "config", "", "path to JSON config file")

	if err := fs.Parse(args); err != nil {
		return Default(), err
	}

	cfg := Default()

	// Загружаем JSON-конфигурацию (если указана)
	if *configPath == "" {
		*configPath = v.GetString("CONFIG")
	}
	if *configPath != "" {
		if err := applyJSON(cfg, *configPath); err != nil {
			log.Printf("Не удалось загрузить JSON-файл конфигурации %q: %v", *configPath, err)
		}
	}

	// Переменные окружения перекрывают файл
	override := func(env string, target *string) {
		if val := v.GetString(env); val != "" {
			*target = val
		}
	}
	override("SERVER_ADDRESS", &cfg.ServerAddress)
	override("GRPC_ADDRESS", &cfg.GRPCAddress)
	override("FILE_STORAGE_PATH", &cfg.FileStoragePath)
	override("DATABASE_DSN", &cfg.DatabaseDSN)
	override("PG_MIGRATIONS_PATH", &cfg.PgMigrationsPath)
	override("SESSION_SECRET", &cfg.SessionSecret)
	if v.GetString("NOTIFY_DURATION") != "" {
		cfg.NotifyDuration = v.GetDuration("NOTIFY_DURATION")
	}
	if v.GetString("SESSION_TTL") != "" {
		cfg.SessionTTL = v.GetDuration("SESSION_TTL")
	}

	// Если флаг передан, используем флаг
	if *serverAddress != "" {
		cfg.ServerAddress = *serverAddress
	}
	if *grpcAddress != "" {
		cfg.GRPCAddress = *grpcAddress
	}
	if *fileStoragePath != "" {
		cfg.FileStoragePath = *fileStoragePath
	}
	if *databaseDSN != "" {
		cfg.DatabaseDSN = *databaseDSN
	}
	if *sessionSecret != "" {
		cfg.SessionSecret = *sessionSecret
	}
	if *notifyDuration != 0 {
		cfg.NotifyDuration = *notifyDuration
	}
	if *sessionTTL != 0 {
		cfg.SessionTTL = *sessionTTL
	}

	// Определяем режим работы
	switch {
	case cfg.DatabaseDSN != "":
		cfg.Mode = ModeDatabase
	case cfg.FileStoragePath != "":
		cfg.Mode = ModeFile
	default:
		cfg.Mode = ModeMemory
	}

	return cfg, cfg.Validate()
}

// jsonConfig длительности в файле записываются строками ("5s", "24h")
type jsonConfig struct {
	Config
	NotifyDuration string `json:"notify_duration"`
	SessionTTL     string `json:"session_ttl"`
}

func applyJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	raw := jsonConfig{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	set := func(src string, target *string) {
		if src != "" {
			*target = src
		}
	}
	set(raw.ServerAddress, &cfg.ServerAddress)
	set(raw.GRPCAddress, &cfg.GRPCAddress)
	set(raw.FileStoragePath, &cfg.FileStoragePath)
	set(raw.DatabaseDSN, &cfg.DatabaseDSN)
	set(raw.PgMigrationsPath, &cfg.PgMigrationsPath)
	set(raw.SessionSecret, &cfg.SessionSecret)

	if raw.NotifyDuration != "" {
		d, err := time.ParseDuration(raw.NotifyDuration)
		if err != nil {
			return fmt.Errorf("notify_duration: %w", err)
		}
		cfg.NotifyDuration = d
	}
	if raw.SessionTTL != "" {
		d, err := time.ParseDuration(raw.SessionTTL)
		if err != nil {
			return fmt.Errorf("session_ttl: %w", err)
		}
		cfg.SessionTTL = d
	}
	return nil
}

// Validate проверяет корректность конфигурации
func (cfg *Config) Validate() error {
	return validation.ValidateStruct(cfg,
		validation.Field(&cfg.ServerAddress, validation.Required.Error("адрес сервера не может быть пустым")),
		validation.Field(&cfg.GRPCAddress, validation.Required.Error("адрес gRPC-сервера не может быть пустым")),
		validation.Field(&cfg.SessionSecret, validation.Required.Error("ключ подписи сессий не может быть пустым")),
		validation.Field(&cfg.PgMigrationsPath, validation.When(cfg.Mode == ModeDatabase, validation.Required)),
		validation.Field(&cfg.NotifyDuration, validation.Min(time.Millisecond)),
		validation.Field(&cfg.SessionTTL, validation.Min(time.Minute)),
		validation.Field(&cfg.Mode, validation.In(ModeDatabase, ModeFile, ModeMemory)),
	)
}
