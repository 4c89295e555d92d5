package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	Storage  StorageConfig
	Upload   UploadConfig
}

type ServerConfig struct {
	Port        string
	Env         string
	CORSOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type SessionConfig struct {
	Secret      string
	CookieName  string
	ExpiryHours int
}

type StorageConfig struct {
	Bucket          string
	CredentialsFile string
	ImagePrefix     string
	BarcodePrefix   string
}

type UploadConfig struct {
	AllowedExtensions []string
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SCHEMA", "public")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("SESSION_COOKIE_NAME", "theo_session")
	viper.SetDefault("SESSION_EXPIRY_HOURS", 12)
	viper.SetDefault("STORAGE_IMAGE_PREFIX", "product_images")
	viper.SetDefault("STORAGE_BARCODE_PREFIX", "barcodes")
	viper.SetDefault("UPLOAD_ALLOWED_EXTENSIONS", "png,jpg,jpeg,gif,webp")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port:        viper.GetString("SERVER_PORT"),
			Env:         viper.GetString("SERVER_ENV"),
			CORSOrigins: strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ","),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_DATABASE"),
			Schema:   viper.GetString("DB_SCHEMA"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Session: SessionConfig{
			Secret:      viper.GetString("SESSION_SECRET"),
			CookieName:  viper.GetString("SESSION_COOKIE_NAME"),
			ExpiryHours: viper.GetInt("SESSION_EXPIRY_HOURS"),
		},
		Storage: StorageConfig{
			Bucket:          viper.GetString("STORAGE_BUCKET"),
			CredentialsFile: viper.GetString("STORAGE_CREDENTIALS_FILE"),
			ImagePrefix:     viper.GetString("STORAGE_IMAGE_PREFIX"),
			BarcodePrefix:   viper.GetString("STORAGE_BARCODE_PREFIX"),
		},
		Upload: UploadConfig{
			AllowedExtensions: strings.Split(viper.GetString("UPLOAD_ALLOWED_EXTENSIONS"), ","),
		},
	}
}
