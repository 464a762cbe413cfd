package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env    string `yaml:"env" env:"APP_ENV" env-default:"local" validate:"oneof=local dev prod"`
	Listen Listen `yaml:"listen"`
	SMTP   SMTP   `yaml:"smtp"`
	Site   Site   `yaml:"site"`
	Admin  Admin  `yaml:"admin"`
	DB     DB     `yaml:"database"`
	Log    Log    `yaml:"log"`
}

type Listen struct {
	BindIP string `yaml:"bind_ip" env:"BIND_IP" env-default:""`
	Port   string `yaml:"port" env:"PORT" env-default:"8080" validate:"required,numeric"`
}

// SMTP holds the relay endpoint, its credential pair and the one recipient.
type SMTP struct {
	Host     string        `yaml:"host" env:"SMTP_HOST" env-default:"smtp.gmail.com" validate:"required,hostname_rfc1123"`
	Port     string        `yaml:"port" env:"SMTP_PORT" env-default:"465" validate:"required,numeric"`
	User     string        `yaml:"user" env:"SMTP_USER" validate:"required"`
	Password string        `yaml:"password" env:"SMTP_PASS" validate:"required"`
	To       string        `yaml:"to" env:"TO_EMAIL" validate:"required,email"`
	Timeout  time.Duration `yaml:"timeout" env:"SMTP_TIMEOUT" env-default:"0s"`
}

type Site struct {
	ResumePath     string `yaml:"resume_path" env:"RESUME_PATH" env-default:"CV_SergioCarbajal.pdf"`
	CSRFKey        string `yaml:"csrf_key" env:"CSRF_KEY" validate:"omitempty,len=32"`
	MetricsEnabled bool   `yaml:"metrics" env:"METRICS_ENABLED" env-default:"false"`
}

type Admin struct {
	Username     string `yaml:"username" env:"ADMIN_USERNAME" env-default:"admin"`
	PasswordHash string `yaml:"password_hash" env:"ADMIN_PASSWORD_HASH"`
	HashKey      string `yaml:"hash_key" env:"COOKIE_HASH_KEY" validate:"omitempty,min=32"`
	BlockKey     string `yaml:"block_key" env:"COOKIE_BLOCK_KEY" validate:"omitempty,len=16|len=24|len=32"`
}

type DB struct {
	Path string `yaml:"path" env:"DB_PATH" env-default:"portfolio.db" validate:"required"`
	// VisitorSalt keys the visitor ip hash. It must stay fixed across restarts
	// for unique visitor counts to hold.
	VisitorSalt string `yaml:"visitor_salt" env:"VISITOR_SALT" validate:"omitempty,min=16"`
}

type Log struct {
	Dir string `yaml:"dir" env:"LOG_DIR" env-default:""`
}

// Addr is the listen address for the http server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Listen.BindIP, c.Listen.Port)
}

func (c *Config) IsProduction() bool {
	return c.Env == "prod"
}

// Load reads path when it exists, then applies the environment on top.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	var err error
	if _, statErr := os.Stat(path); path != "" && statErr == nil {
		err = cleanenv.ReadConfig(path, cfg)
	} else {
		err = cleanenv.ReadEnv(cfg)
	}
	if err != nil {
		desc, _ := cleanenv.GetDescription(cfg, nil)
		return nil, fmt.Errorf("%w; %s", err, desc)
	}

	if err = validator.New().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, fmt.Errorf("invalid config: %s", verrs.Error())
		}
		return nil, err
	}
	if cfg.IsProduction() && cfg.DB.VisitorSalt == "" {
		return nil, errors.New("invalid config: VISITOR_SALT is required in prod")
	}
	return cfg, nil
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	once.Do(func() {
		var err error
		if instance, err = Load(path); err != nil {
			log.Fatal(err)
		}
	})
	return instance
}
