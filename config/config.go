package config

import "github.com/caarlos0/env/v10"

// Config centralizes the service configuration.
type Config struct {
	Port           string   `env:"PORT" envDefault:"8080"`
	AWSRegion      string   `env:"AWS_REGION" envDefault:"us-east-1"`
	DynamoEndpoint string   `env:"DYNAMO_ENDPOINT"`
	RedisAddr      string   `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword  string   `env:"REDIS_PASSWORD"`
	RedisDB        int      `env:"REDIS_DB" envDefault:"0"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// Load parses the configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
