package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                     string
	Port                    string
	LogLevel                string
	DatabaseURL             string
	RedisURL                string
	FirebaseProjectID       string
	FirebaseCredentialsPath string
	FirebaseStorageBucket   string
	ListingsCollection      string
	StorageHosts            []string
	ResizeProxyURL          string // e.g. https://wsrv.nl/ for on-the-fly thumbnails of non-storage photos
	ListingTTLDays          int
	FrontendURLEndsWith     string
	DevPassword             string
	HealthAdminKey          string
	DefaultLocale           string
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LISTINGS_COLLECTION", "listings")
	viper.SetDefault("RESIZE_PROXY_URL", "https://wsrv.nl/")
	viper.SetDefault("LISTING_TTL_DAYS", 30)
	viper.SetDefault("DEFAULT_LOCALE", "ka")

	ttl := viper.GetInt("LISTING_TTL_DAYS")
	if ttl <= 0 {
		ttl = 30
	}

	return &Config{
		Env:                     viper.GetString("APP_ENV"),
		Port:                    viper.GetString("PORT"),
		LogLevel:                viper.GetString("LOG_LEVEL"),
		DatabaseURL:             viper.GetString("DATABASE_URL"),
		RedisURL:                viper.GetString("REDIS_URL"),
		FirebaseProjectID:       viper.GetString("FIREBASE_PROJECT_ID"),
		FirebaseCredentialsPath: viper.GetString("FIREBASE_CREDENTIALS_PATH"),
		FirebaseStorageBucket:   viper.GetString("FIREBASE_STORAGE_BUCKET"),
		ListingsCollection:      viper.GetString("LISTINGS_COLLECTION"),
		StorageHosts:            splitList(viper.GetString("STORAGE_HOSTS")),
		ResizeProxyURL:          viper.GetString("RESIZE_PROXY_URL"),
		ListingTTLDays:          ttl,
		FrontendURLEndsWith:     viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:             viper.GetString("DEV_PASSWORD"),
		HealthAdminKey:          viper.GetString("HEALTH_ADMIN_KEY"),
		DefaultLocale:           viper.GetString("DEFAULT_LOCALE"),
	}, nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
