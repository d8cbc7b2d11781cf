package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DatabaseURL string

	HTTPAddress   string
	PublicBaseURL string
	CookieDomain  string

	AllowedOrigins   []string
	AllowCredentials bool

	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration

	// Lifetime of email-verification and password-reset tokens.
	EphemeralTokenTTL time.Duration

	PasswordPepper string
	Issuer         string
	Audience       string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPSecure   bool

	S3Region    string
	S3Bucket    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("json")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	keys := []string{
		"DATABASE_URL",
		"HTTP_ADDRESS",
		"PUBLIC_BASE_URL",
		"COOKIE_DOMAIN",
		"ALLOWED_ORIGINS",
		"ALLOW_CREDENTIALS",
		"ACCESS_TOKEN_SECRET",
		"REFRESH_TOKEN_SECRET",
		"ACCESS_TOKEN_TTL",
		"REFRESH_TOKEN_TTL",
		"EPHEMERAL_TOKEN_TTL",
		"PASSWORD_PEPPER",
		"JWT_ISSUER",
		"JWT_AUDIENCE",
		"SMTP_HOST",
		"SMTP_PORT",
		"SMTP_USERNAME",
		"SMTP_PASSWORD",
		"SMTP_FROM",
		"SMTP_SECURE",
		"S3_REGION",
		"S3_BUCKET",
		"S3_ENDPOINT",
		"S3_ACCESS_KEY",
		"S3_SECRET_KEY",
	}
	for _, k := range keys {
		if err := viper.BindEnv(k); err != nil {
			return nil, err
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	viper.SetDefault("HTTP_ADDRESS", ":8080")
	viper.SetDefault("ACCESS_TOKEN_TTL", "15m")
	viper.SetDefault("REFRESH_TOKEN_TTL", "168h")
	viper.SetDefault("EPHEMERAL_TOKEN_TTL", "20m")
	viper.SetDefault("SMTP_PORT", 587)

	required := []string{
		"DATABASE_URL",
		"PUBLIC_BASE_URL",
		"ACCESS_TOKEN_SECRET",
		"REFRESH_TOKEN_SECRET",
		"JWT_ISSUER",
		"JWT_AUDIENCE",
	}
	for _, k := range required {
		if viper.GetString(k) == "" {
			return nil, fmt.Errorf("required config key %s is not set", k)
		}
	}

	if viper.GetString("ACCESS_TOKEN_SECRET") == viper.GetString("REFRESH_TOKEN_SECRET") {
		return nil, fmt.Errorf("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
	}

	return &Config{
		DatabaseURL:        viper.GetString("DATABASE_URL"),
		HTTPAddress:        viper.GetString("HTTP_ADDRESS"),
		PublicBaseURL:      viper.GetString("PUBLIC_BASE_URL"),
		CookieDomain:       viper.GetString("COOKIE_DOMAIN"),
		AllowedOrigins:     viper.GetStringSlice("ALLOWED_ORIGINS"),
		AllowCredentials:   viper.GetBool("ALLOW_CREDENTIALS"),
		AccessTokenSecret:  viper.GetString("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: viper.GetString("REFRESH_TOKEN_SECRET"),
		AccessTokenTTL:     viper.GetDuration("ACCESS_TOKEN_TTL"),
		RefreshTokenTTL:    viper.GetDuration("REFRESH_TOKEN_TTL"),
		EphemeralTokenTTL:  viper.GetDuration("EPHEMERAL_TOKEN_TTL"),
		PasswordPepper:     viper.GetString("PASSWORD_PEPPER"),
		Issuer:             viper.GetString("JWT_ISSUER"),
		Audience:           viper.GetString("JWT_AUDIENCE"),
		SMTPHost:           viper.GetString("SMTP_HOST"),
		SMTPPort:           viper.GetInt("SMTP_PORT"),
		SMTPUsername:       viper.GetString("SMTP_USERNAME"),
		SMTPPassword:       viper.GetString("SMTP_PASSWORD"),
		SMTPFrom:           viper.GetString("SMTP_FROM"),
		SMTPSecure:         viper.GetBool("SMTP_SECURE"),
		S3Region:           viper.GetString("S3_REGION"),
		S3Bucket:           viper.GetString("S3_BUCKET"),
		S3Endpoint:         viper.GetString("S3_ENDPOINT"),
		S3AccessKey:        viper.GetString("S3_ACCESS_KEY"),
		S3SecretKey:        viper.GetString("S3_SECRET_KEY"),
	}, nil
}
