package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	APIPort     int    `yaml:"apiPort"`
	Environment string `yaml:"environment"` // "prod" enables secure cookies
	AppDomain   string `yaml:"appDomain"`   // frontend base URL for reset links
	JWTSecret   string `yaml:"jwtSecret"`   // signing secret for reset tokens
	CORSOrigin  string `yaml:"corsOrigin"`

	Database struct {
		Type       string `yaml:"type"` // "sqlite" (default) or "postgres"
		Path       string `yaml:"path"`
		WALMode    bool   `yaml:"walMode"`
		Host       string `yaml:"host"`
		Port       string `yaml:"port"`
		Name       string `yaml:"name"`
		User       string `yaml:"user"`
		Password   string `yaml:"password"`
		SSLMode    string `yaml:"sslMode"`
		MaxRetries int    `yaml:"maxRetries"`
		RetryDelay int    `yaml:"retryDelay"`
	} `yaml:"database"`

	SMTP struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		From     string `yaml:"from"`
	} `yaml:"smtp"`

	Spaces struct {
		Endpoint  string `yaml:"endpoint"`
		Region    string `yaml:"region"`
		Bucket    string `yaml:"bucket"`
		AccessKey string `yaml:"accessKey"`
		SecretKey string `yaml:"secretKey"`
	} `yaml:"spaces"`
}

// IsProduction reports whether the deployment mode is production-like.
func (c *Config) IsProduction() bool {
	return c.Environment == "prod"
}

// LoadConfig loads the configuration from file and environment variables.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("NOTEHUB")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %s. Using defaults or environment variables.", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.APIPort == 0 {
		cfg.APIPort = 3000
		log.Println("APIPort not specified, using default 3000")
	}

	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/notehub.db"
		log.Println("Database path not specified, using default data/notehub.db")
	}
	if !v.IsSet("database.walMode") {
		cfg.Database.WALMode = true
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxRetries == 0 {
		cfg.Database.MaxRetries = 5
	}
	if cfg.Database.RetryDelay == 0 {
		cfg.Database.RetryDelay = 5
	}

	if cfg.AppDomain == "" {
		cfg.AppDomain = "http://localhost:5173"
		log.Println("AppDomain not specified, using default http://localhost:5173")
	}
	if cfg.CORSOrigin == "" {
		cfg.CORSOrigin = cfg.AppDomain
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = 587
	}
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.User
	}

	return &cfg, nil
}
