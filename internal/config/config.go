package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// InsecureDefaultSecret is used when no session secret is configured.
// Deployments must override it; main logs a warning when it is active.
const InsecureDefaultSecret = "a_very_secret_and_complex_key_for_todo_app"

type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type SessionConfig struct {
	Secret   string `yaml:"secret"`
	TTLHours int    `yaml:"ttl_hours"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type Config struct {
	DB      DBConfig      `yaml:"db"`
	Redis   RedisConfig   `yaml:"redis"`
	Session SessionConfig `yaml:"session"`
	Server  ServerConfig  `yaml:"server"`
}

func defaults() *Config {
	return &Config{
		DB: DBConfig{
			Host: "localhost",
			Port: 5432,
			User: "postgres",
			Name: "todoapp",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Session: SessionConfig{
			Secret:   InsecureDefaultSecret,
			TTLHours: 720,
		},
		Server: ServerConfig{
			Port: ":8080",
		},
	}
}

// Load reads config.yaml if present and applies environment overrides.
func Load() (*Config, error) {
	cfg := defaults()

	if f, err := os.Open("config.yaml"); err == nil {
		defer f.Close()
		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(cfg); err != nil {
			return nil, err
		}
	}

	overrideFromEnv(cfg)

	if cfg.Session.TTLHours <= 0 {
		cfg.Session.TTLHours = 720
	}

	return cfg, nil
}

// overrideFromEnv 环境变量覆盖（生产环境使用）
func overrideFromEnv(cfg *Config) {
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

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}

	if secret := os.Getenv("SESSION_SECRET"); secret != "" {
		cfg.Session.Secret = secret
	}
	if ttl := os.Getenv("SESSION_TTL_HOURS"); ttl != "" {
		if h, err := strconv.Atoi(ttl); err == nil {
			cfg.Session.TTLHours = h
		}
	}

	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Server.Port = port
	}
}
