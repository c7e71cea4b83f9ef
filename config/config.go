package config

import (
	"log"

	"github.com/caarlos0/env/v11"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                int    `env:"PORT" default:"8080"`
	Dsn                 string `env:"DSN" default:"localhost:5432"`
	JwtSecret           string `env:"JWT_SECRET"`
	AuthRequired        bool   `env:"AUTH_REQUIRED" default:"false"`
	StoreTimeoutSeconds int    `env:"STORE_TIMEOUT_SECONDS" default:"5"`
	ChainBridgeURL      string `env:"CHAIN_BRIDGE_URL"`
	ChainAPIKey         string `env:"CHAIN_API_KEY"`
	SafeBrowsingAPIKey  string `env:"SAFE_BROWSING_API_KEY"`
	CloudinaryCloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `env:"CLOUDINARY_API_SECRET"`
}

func New() *Config {
	if loadErr := godotenv.Load(".env"); loadErr != nil {
		log.Printf("[Env]: unable to load .env file %v", loadErr)
	}

	var cfg Config

	if parseErr := env.Parse(&cfg); parseErr != nil {
		log.Printf("[Env]: failed to parse environment variables: %v", parseErr)
	}

	return &cfg
}
