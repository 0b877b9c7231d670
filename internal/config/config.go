package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port         string `envconfig:"PORT" default:"8080"`
	DBDSN        string `envconfig:"DB_DSN" default:"royalsmart.db"`
	ScanBackend  string `envconfig:"SCAN_BACKEND" default:"db"` // db | file
	ScanFile     string `envconfig:"SCAN_FILE" default:"./data/scans.json"`
	MediaDir     string `envconfig:"MEDIA_DIR" default:"./web/media"`
	MediaBaseURL string `envconfig:"MEDIA_BASE_URL" default:"/media"`
	LogFile      string `envconfig:"LOG_FILE" default:"./royalsmart.log"`
}

func Load() (Config, error) {
	// .env is optional; real env always wins.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	if cfg.ScanBackend != "db" && cfg.ScanBackend != "file" {
		log.Printf("[config] unknown SCAN_BACKEND=%q, falling back to db", cfg.ScanBackend)
		cfg.ScanBackend = "db"
	}
	log.Printf("[config] PORT=%s DB_DSN=%s SCAN_BACKEND=%s SCAN_FILE=%s MEDIA_DIR=%s LOG_FILE=%s",
		cfg.Port, cfg.DBDSN, cfg.ScanBackend, cfg.ScanFile, cfg.MediaDir, cfg.LogFile)
	return cfg, nil
}
