package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host        string   `yaml:"host"`
		Port        int      `yaml:"port"`
		Env         string   `yaml:"env"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`

	Database struct {
		Driver string `yaml:"driver"` // postgres, mysql, sqlite
		DSN    string `yaml:"url"`
	} `yaml:"database"`

	Email struct {
		Provider     string `yaml:"provider"` // mailjet, smtp, mock
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		UseTLS       bool   `yaml:"use_tls"`
		APIKey       string `yaml:"api_key"`
		APISecret    string `yaml:"api_secret"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		TemplatesDir string `yaml:"templates_dir"`
		FrontendURL  string `yaml:"frontend_url"`
	} `yaml:"email"`

	JWT struct {
		Secret     string `yaml:"secret"`
		TTL        int    `yaml:"ttl"`         // минуты
		RefreshTTL int    `yaml:"refresh_ttl"` // часы
	} `yaml:"jwt"`

	Storage struct {
		Type       string `yaml:"type"` // local, s3, cloudflare_r2
		BasePath   string `yaml:"base_path"`
		BaseURL    string `yaml:"base_url"`
		Bucket     string `yaml:"bucket"`
		Region     string `yaml:"region"`
		AccessKey  string `yaml:"access_key"`
		SecretKey  string `yaml:"secret_key"`
		Endpoint   string `yaml:"endpoint"`
		UseSSL     bool   `yaml:"use_ssl"`
		PublicRead bool   `yaml:"public_read"`
	} `yaml:"storage"`

	Upload struct {
		MaxCVSize        int64    `yaml:"max_cv_size"`
		AllowedCVTypes   []string `yaml:"allowed_cv_types"`
		MaxAvatarSize    int64    `yaml:"max_avatar_size"`
		AllowedImageType []string `yaml:"allowed_image_types"`
	} `yaml:"upload"`

	AI struct {
		GeminiAPIKey   string  `yaml:"gemini_api_key"`
		Model          string  `yaml:"model"`
		RequestsPerMin float32 `yaml:"requests_per_minute"`
		RequestsPerDay float32 `yaml:"requests_per_day"`
		SweepSchedule  string  `yaml:"sweep_schedule"` // cron
		BatchSize      int     `yaml:"batch_size"`
	} `yaml:"ai"`

	WorkflowEngine struct {
		WebhookURL string `yaml:"webhook_url"`
		TimeoutSec int    `yaml:"timeout_sec"`
	} `yaml:"workflow_engine"`

	Workers struct {
		PositionCloseSchedule string `yaml:"position_close_schedule"` // cron
	} `yaml:"workers"`

	RateLimit struct {
		PublicApplyPerMinute int `yaml:"public_apply_per_minute"`
		PublicApplyBurst     int `yaml:"public_apply_burst"`
	} `yaml:"rate_limit"`

	InternalAPIKey string `yaml:"internal_api_key"`

	FirstHeadHR struct {
		Name     string `yaml:"name"`
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
	} `yaml:"first_head_hr"`
}

var AppConfig *Config

// LoadConfig читает config.yaml (CONFIG_PATH) и накладывает переменные окружения.
// Если задан DATABASE_URL и файла нет - работаем только на окружении (CI, тесты).
func LoadConfig() {
	cfg, err := Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

// Load возвращает конфиг без паники - используется командами CLI и тестами
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	if configPath == "" {
		configPath = "config/config.yaml"
	}

	f, err := os.Open(configPath)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file at %s: %w", configPath, err)
		}
	case os.IsNotExist(err) && os.Getenv("DATABASE_URL") != "":
		log.Println("config file not found, loading configuration from environment")
	default:
		return nil, fmt.Errorf("failed to open config file at %s: %w", configPath, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Defaults - значения, которые не обязательно указывать в yaml
func Defaults() *Config {
	var cfg Config

	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 4000
	cfg.Server.Env = "development"
	cfg.Server.CORSOrigins = []string{"http://localhost:3000"}

	cfg.Database.Driver = "postgres"

	cfg.Email.Provider = "mock"
	cfg.Email.SMTPPort = 587
	cfg.Email.FromName = "HR Team"

	cfg.JWT.TTL = 60
	cfg.JWT.RefreshTTL = 7 * 24

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"

	cfg.Upload.MaxCVSize = 10 * 1024 * 1024
	cfg.Upload.AllowedCVTypes = []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
	cfg.Upload.MaxAvatarSize = 5 * 1024 * 1024
	cfg.Upload.AllowedImageType = []string{"image/jpeg", "image/png", "image/webp"}

	cfg.AI.Model = "gemini-1.5-flash"
	cfg.AI.RequestsPerMin = 15
	cfg.AI.RequestsPerDay = 1500
	cfg.AI.SweepSchedule = "*/5 * * * *"
	cfg.AI.BatchSize = 10

	cfg.WorkflowEngine.TimeoutSec = 10

	cfg.Workers.PositionCloseSchedule = "0 * * * *"

	cfg.RateLimit.PublicApplyPerMinute = 10
	cfg.RateLimit.PublicApplyBurst = 3

	cfg.FirstHeadHR.Name = "Head of HR"

	return &cfg
}

func applyEnv(cfg *Config) {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString("DATABASE_DRIVER", &cfg.Database.Driver)
	setString("DATABASE_URL", &cfg.Database.DSN)
	setString("SERVER_ENV", &cfg.Server.Env)
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = strings.Split(v, ",")
	}
	setString("JWT_SECRET", &cfg.JWT.Secret)

	setString("MAIL_PROVIDER", &cfg.Email.Provider)
	setString("MAIL_API_KEY", &cfg.Email.APIKey)
	setString("MAIL_API_SECRET", &cfg.Email.APISecret)
	setString("MAIL_FROM", &cfg.Email.FromEmail)
	setString("FRONTEND_URL", &cfg.Email.FrontendURL)

	setString("GEMINI_API_KEY", &cfg.AI.GeminiAPIKey)
	setString("WORKFLOW_WEBHOOK_URL", &cfg.WorkflowEngine.WebhookURL)
	setString("INTERNAL_API_KEY", &cfg.InternalAPIKey)

	setString("FIRST_HEAD_HR_EMAIL", &cfg.FirstHeadHR.Email)
	setString("FIRST_HEAD_HR_PASSWORD", &cfg.FirstHeadHR.Password)
}

// Validate собирает все проблемы конфигурации сразу
func (c *Config) Validate() error {
	var errs []error

	if c.Database.DSN == "" {
		errs = append(errs, errors.New("database.url is required"))
	}
	switch c.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unsupported database.driver %q", c.Database.Driver))
	}
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("jwt.secret is required"))
	}
	if c.JWT.TTL <= 0 {
		errs = append(errs, errors.New("jwt.ttl must be positive"))
	}
	switch c.Email.Provider {
	case "mock":
	case "smtp":
		if c.Email.SMTPHost == "" {
			errs = append(errs, errors.New("email.smtp_host is required for smtp provider"))
		}
	case "mailjet":
		if c.Email.APIKey == "" || c.Email.APISecret == "" {
			errs = append(errs, errors.New("email.api_key and email.api_secret are required for mailjet provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported email.provider %q", c.Email.Provider))
	}
	if c.Email.Provider != "mock" && c.Email.FromEmail == "" {
		errs = append(errs, errors.New("email.from_email is required"))
	}

	return errors.Join(errs...)
}

// IsProduction - удобный флаг для логгера и обработчика ошибок
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.JWT.TTL) * time.Minute
}

func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.JWT.RefreshTTL) * time.Hour
}

func (c *Config) WorkflowEngineTimeout() time.Duration {
	return time.Duration(c.WorkflowEngine.TimeoutSec) * time.Second
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
