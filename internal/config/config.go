package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type MQConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

// ProviderConfig 指向 LLM provider 服务
type ProviderConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// CalendarConfig 指向日历桥接服务
type CalendarConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// IntelligenceConfig tunes generation and scheduling heuristics.
type IntelligenceConfig struct {
	MaxConcurrent        int `yaml:"max_concurrent"`
	DefaultDueDays       int `yaml:"default_due_days"`
	PriorityDueDays      int `yaml:"priority_due_days"`
	PriorityThreshold    int `yaml:"priority_threshold"`
	UrgentDueHours       int `yaml:"urgent_due_hours"`
	BlendMargin          int `yaml:"blend_margin"`
	InFlightTTLSeconds   int `yaml:"in_flight_ttl_seconds"`
	SyncCooldownSeconds  int `yaml:"sync_cooldown_seconds"`
}

type Config struct {
	DB           DBConfig           `yaml:"db"`
	MQ           MQConfig           `yaml:"mq"`
	Redis        RedisConfig        `yaml:"redis"`
	Server       ServerConfig       `yaml:"server"`
	Provider     ProviderConfig     `yaml:"provider"`
	Calendar     CalendarConfig     `yaml:"calendar"`
	Intelligence IntelligenceConfig `yaml:"intelligence"`
}

func Load() *Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}

	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("failed to open %s: %v", path, err)
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		log.Fatalf("failed to decode %s: %v", path, err)
	}

	applyDefaults(&cfg)

	// 环境变量覆盖（生产环境使用）
	overrideFromEnv(&cfg)

	return &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Provider.TimeoutSeconds == 0 {
		cfg.Provider.TimeoutSeconds = 10
	}
	if cfg.Calendar.TimeoutSeconds == 0 {
		cfg.Calendar.TimeoutSeconds = 5
	}
	if cfg.Intelligence.MaxConcurrent == 0 {
		cfg.Intelligence.MaxConcurrent = 4
	}
	if cfg.Intelligence.DefaultDueDays == 0 {
		cfg.Intelligence.DefaultDueDays = 3
	}
	if cfg.Intelligence.PriorityDueDays == 0 {
		cfg.Intelligence.PriorityDueDays = 1
	}
	if cfg.Intelligence.PriorityThreshold == 0 {
		cfg.Intelligence.PriorityThreshold = 8
	}
	if cfg.Intelligence.UrgentDueHours == 0 {
		cfg.Intelligence.UrgentDueHours = 24
	}
	if cfg.Intelligence.BlendMargin == 0 {
		cfg.Intelligence.BlendMargin = 2
	}
	if cfg.Intelligence.InFlightTTLSeconds == 0 {
		cfg.Intelligence.InFlightTTLSeconds = 300
	}
	if cfg.Intelligence.SyncCooldownSeconds == 0 {
		cfg.Intelligence.SyncCooldownSeconds = 60
	}
}

func overrideFromEnv(cfg *Config) {
	// DB配置
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.DB.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.DB.Port = p
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.DB.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.DB.Password = password
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.DB.Name = name
	}

	// MQ配置
	if url := os.Getenv("MQ_URL"); url != "" {
		cfg.MQ.URL = url
	}

	// Redis配置
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}

	// Server配置
	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Server.Port = port
	}

	// 外部服务
	if url := os.Getenv("PROVIDER_URL"); url != "" {
		cfg.Provider.BaseURL = url
	}
	if url := os.Getenv("CALENDAR_URL"); url != "" {
		cfg.Calendar.BaseURL = url
	}
}
