package config

import (
	"encoding/json"
	"log"
	"os"
)

type Configuration struct {
	ApiPort string `json:"api_port"`
	LogPath string `json:"log_path"`

	Database string `json:"database"` // "sqlite3" ou "postgres"
	DbHost   string `json:"db_host"`
	DbPort   string `json:"db_port"`
	DbUser   string `json:"db_user"`
	DbName   string `json:"db_name"`
	DbPass   string `json:"db_pass"`

	Security struct {
		JwtSecret           string `json:"jwt_secret"`
		RefreshCodeLen      int    `json:"refresh_code_len"`
		RefreshCodeMaxValid int    `json:"refresh_code_max_valid_days"`
	} `json:"security"`

	Notifications struct {
		// Janela padrão de supressão por dedupe key, em minutos.
		DedupeWindowMinutes int `json:"dedupe_window_minutes"`
		// Limite de envios externos por segundo (email/telegram/sms somados).
		SendRatePerSec int `json:"send_rate_per_sec"`
	} `json:"notifications"`

	Jobs struct {
		// Cron spec do scan de SLA ("" = só via endpoint /jobs/sla-scan).
		SLAScanCron string `json:"sla_scan_cron"`
	} `json:"jobs"`
}

func Get(path string) Configuration {
	b, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	var c Configuration
	if err := json.Unmarshal(b, &c); err != nil {
		log.Fatal(err)
	}

	// defaults (pra evitar nil/zero chato)
	if c.ApiPort == "" {
		c.ApiPort = "8080"
	}
	if c.LogPath == "" {
		c.LogPath = "logs/server.log"
	}
	if c.Database == "" {
		c.Database = "sqlite3"
	}
	if c.Security.RefreshCodeLen <= 0 {
		c.Security.RefreshCodeLen = 32
	}
	if c.Security.RefreshCodeMaxValid <= 0 {
		c.Security.RefreshCodeMaxValid = 30
	}
	if c.Security.JwtSecret == "" {
		c.Security.JwtSecret = "CHANGE_ME"
	}
	if c.Notifications.DedupeWindowMinutes <= 0 {
		c.Notifications.DedupeWindowMinutes = 24 * 60
	}
	if c.Notifications.SendRatePerSec <= 0 {
		c.Notifications.SendRatePerSec = 3
	}

	return c
}
