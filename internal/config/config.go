package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port        string `mapstructure:"port"`
		MetricsPort string `mapstructure:"metrics_port"`
		LogLevel    string `mapstructure:"log_level"`
		DevMode     bool   `mapstructure:"dev_mode"`
	} `mapstructure:"server"`
	Database struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	Storage struct {
		Provider     string `mapstructure:"provider"` // "s3" or "local"
		KeyID        string `mapstructure:"key_id"`
		AppKey       string `mapstructure:"app_key"`
		Endpoint     string `mapstructure:"endpoint"`
		Region       string `mapstructure:"region"`
		BucketSongs  string `mapstructure:"bucket_songs"`
		BucketImages string `mapstructure:"bucket_images"`
		LocalRoot    string `mapstructure:"local_root"`
		PublicBase   string `mapstructure:"public_base"` // base URL for local provider links
	} `mapstructure:"storage"`
	Auth struct {
		JWTSecret    string `mapstructure:"jwt_secret"`
		TokenTTLHrs  int    `mapstructure:"token_ttl_hours"`
		AdminUser    string `mapstructure:"admin_user"`
		AdminPass    string `mapstructure:"admin_pass"`
	} `mapstructure:"auth"`
	Player struct {
		DefaultVolume float64 `mapstructure:"default_volume"`
		CookieMaxAge  int     `mapstructure:"cookie_max_age_seconds"`
	} `mapstructure:"player"`
}

func Load() *Config {
	viper.SetEnvPrefix("RHYTHM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Register keys
	viper.BindEnv("server.port")
	viper.BindEnv("server.metrics_port")
	viper.BindEnv("server.log_level")
	viper.BindEnv("server.dev_mode")

	viper.BindEnv("database.host")
	viper.BindEnv("database.port")
	viper.BindEnv("database.user")
	viper.BindEnv("database.password")
	viper.BindEnv("database.name")

	viper.BindEnv("storage.provider")
	viper.BindEnv("storage.key_id")
	viper.BindEnv("storage.app_key")
	viper.BindEnv("storage.endpoint")
	viper.BindEnv("storage.region")
	viper.BindEnv("storage.bucket_songs")
	viper.BindEnv("storage.bucket_images")
	viper.BindEnv("storage.local_root")
	viper.BindEnv("storage.public_base")

	viper.BindEnv("auth.jwt_secret")
	viper.BindEnv("auth.token_ttl_hours")
	viper.BindEnv("auth.admin_user")
	viper.BindEnv("auth.admin_pass")

	viper.BindEnv("player.default_volume")
	viper.BindEnv("player.cookie_max_age_seconds")

	// Defaults
	viper.SetDefault("server.port", ":8080")
	viper.SetDefault("server.metrics_port", ":9091")
	viper.SetDefault("server.log_level", "info")
	viper.SetDefault("server.dev_mode", false)

	viper.SetDefault("storage.provider", "local")
	viper.SetDefault("storage.local_root", "./data")
	viper.SetDefault("storage.public_base", "http://localhost:8080/files")
	viper.SetDefault("storage.bucket_songs", "rhythmflow-songs")
	viper.SetDefault("storage.bucket_images", "rhythmflow-images")

	viper.SetDefault("auth.token_ttl_hours", 72)
	viper.SetDefault("auth.admin_user", "admin@rhythmflow.local")

	// Matches the client player's initial slider position.
	viper.SetDefault("player.default_volume", 0.5)
	viper.SetDefault("player.cookie_max_age_seconds", 60*60*24*30)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("Warning: Config error: %s", err)
		} else {
			log.Println("Info: config.yaml not found, using Environment Variables only.")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}

	if cfg.Auth.JWTSecret == "" {
		log.Fatal("Critical: JWT secret is missing (RHYTHM_AUTH_JWT_SECRET)")
	}
	if cfg.Storage.Provider == "s3" && cfg.Storage.KeyID == "" {
		log.Fatal("Critical: Storage KeyID is missing (RHYTHM_STORAGE_KEY_ID)")
	}

	return &cfg
}
