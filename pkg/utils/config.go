package utils

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Email    EmailConfig
	OTP      OTPConfig
	Redis    RedisConfig
}

type AppConfig struct {
	Name                string
	Port                string
	Debug               bool
	LogPath             string
	ReadTimeoutSeconds  int
	WriteTimeoutSeconds int
}

type DatabaseConfig struct {
	Host        string
	Port        string
	Name        string
	User        string
	Password    string
	SSLMode     string
	MaxConns    int32
	AutoMigrate bool
}

type JWTConfig struct {
	Secret           string
	Issuer           string
	AccessTTLMinutes int
	RefreshTTLHours  int
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type OTPConfig struct {
	ExpiryMinutes int
}

// RedisConfig is optional; an empty Addr disables event publishing.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func LoadConfig() (*Config, error) {
	// .env is optional, real environment variables win
	_ = godotenv.Load()

	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("APP_NAME", "freelance-marketplace")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("HTTP_READ_TIMEOUT_SECONDS", 15)
	viper.SetDefault("HTTP_WRITE_TIMEOUT_SECONDS", 30)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_AUTO_MIGRATE", true)
	viper.SetDefault("JWT_ISSUER", "freelance-marketplace")
	viper.SetDefault("JWT_ACCESS_TTL_MINUTES", 15)
	viper.SetDefault("JWT_REFRESH_TTL_HOURS", 168)
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("OTP_EXPIRY_MINUTES", 10)
	viper.SetDefault("REDIS_DB", 0)

	config := &Config{
		App: AppConfig{
			Name:                viper.GetString("APP_NAME"),
			Port:                viper.GetString("PORT"),
			Debug:               viper.GetBool("DEBUG"),
			LogPath:             viper.GetString("LOG_PATH"),
			ReadTimeoutSeconds:  viper.GetInt("HTTP_READ_TIMEOUT_SECONDS"),
			WriteTimeoutSeconds: viper.GetInt("HTTP_WRITE_TIMEOUT_SECONDS"),
		},
		Database: DatabaseConfig{
			Host:        viper.GetString("DB_HOST"),
			Port:        viper.GetString("DB_PORT"),
			Name:        viper.GetString("DB_NAME"),
			User:        viper.GetString("DB_USER"),
			Password:    viper.GetString("DB_PASS"),
			SSLMode:     viper.GetString("DB_SSLMODE"),
			MaxConns:    viper.GetInt32("DB_MAX_CONNS"),
			AutoMigrate: viper.GetBool("DB_AUTO_MIGRATE"),
		},
		JWT: JWTConfig{
			Secret:           viper.GetString("JWT_SECRET"),
			Issuer:           viper.GetString("JWT_ISSUER"),
			AccessTTLMinutes: viper.GetInt("JWT_ACCESS_TTL_MINUTES"),
			RefreshTTLHours:  viper.GetInt("JWT_REFRESH_TTL_HOURS"),
		},
		Email: EmailConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			User:     viper.GetString("SMTP_USER"),
			Password: viper.GetString("SMTP_PASS"),
			From:     viper.GetString("EMAIL_FROM"),
		},
		OTP: OTPConfig{
			ExpiryMinutes: viper.GetInt("OTP_EXPIRY_MINUTES"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
	}

	if config.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if config.Database.Name == "" || config.Database.User == "" {
		return nil, fmt.Errorf("DB_NAME and DB_USER are required")
	}

	return config, nil
}
