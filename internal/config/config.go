package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type TransferServiceConfig struct {
	Port        string
	PostgresCfg PostgresConfig
	S3Cfg       S3Config
	MinioCfg    MinioConfig
}

type PostgresConfig struct {
	DBname   string
	Username string
	Password string
	Host     string
	Port     string
}

// S3Config describes Object Store A, the source of the copy flow and the
// destination of the published result set.
type S3Config struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// MinioConfig describes Object Store B, the destination of the copy flow.
type MinioConfig struct {
	MinioURL       string
	MinioAccessKey string
	MinioSecretKey string
	MinioLocation  string
	MinioSecure    string
	MinioBucket    string
}

func New() *TransferServiceConfig {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &TransferServiceConfig{
		Port: getEnvOrDefault("PORT", "5001"),
		PostgresCfg: PostgresConfig{
			DBname:   getEnvOrDefault("POSTGRES_DB", "transfer"),
			Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password: getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
			Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
		},
		S3Cfg: S3Config{
			Region:    getEnvOrDefault("AWS_REGION", "ap-southeast-2"),
			Bucket:    getEnvOrDefault("S3_BUCKET", "insurance-transfer"),
			AccessKey: getEnvOrDefault("AWS_ACCESS_KEY", ""),
			SecretKey: getEnvOrDefault("AWS_SECRET_KEY", ""),
		},
		MinioCfg: MinioConfig{
			MinioURL:       getEnvOrDefault("MINIO_ENDPOINT", "http://localhost:9000"),
			MinioAccessKey: getEnvOrDefault("MINIO_ACCESS_KEY", "minio"),
			MinioSecretKey: getEnvOrDefault("MINIO_SECRET_KEY", "minio123"),
			MinioLocation:  getEnvOrDefault("MINIO_LOCATION", "us-east-1"),
			MinioSecure:    getEnvOrDefault("MINIO_SECURE", "false"),
			MinioBucket:    getEnvOrDefault("MINIO_BUCKET", "insurance-archive"),
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
