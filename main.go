package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"dmed/config"
	"dmed/controllers"
	"dmed/db"
	"dmed/notifier"
	"dmed/router"
	"dmed/tools"
	"dmed/workers"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

// =====================
// ENV esperadas
// =====================
//
// Server
// - CONFIG                 (caminho do config.json; default: config.json)
// - AUTOMIGRATE            (1 = roda automigrate no boot; só dev)
// - DMED_JWT_SECRET        (sobrescreve o jwt_secret do config)
// - JOB_SECRET             (Bearer do endpoint /api/jobs/sla-scan)
//
// Canais de notificação (qualquer um pode ficar vazio = canal desabilitado)
// - SMTP_HOST / SMTP_PORT / SMTP_USER / SMTP_PASS / SMTP_FROM
// - TELEGRAM_BOT_TOKEN
// - SMS_GATEWAY_URL / SMS_GATEWAY_TOKEN
//
// =====================

func main() {
	cfgPath := getenv("CONFIG", "config.json")
	cfg := config.Get(cfgPath)

	db.SetConfigurations(cfg)
	controllers.SetConfigurations(cfg)
	database, err := db.Connect()
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer database.Close()

	// Canais externos - todos opcionais
	senders := notifier.Senders{
		Email: tools.NewEmailClientFromEnv(),
		SMS:   tools.NewSMSClientFromEnv(),
	}
	if telegram, err := tools.NewTelegramClient(os.Getenv("TELEGRAM_BOT_TOKEN")); err != nil {
		log.Printf("telegram desabilitado: %v", err)
	} else {
		senders.Telegram = telegram
	}

	dispatcher := notifier.New(database, senders, notifier.Config{
		DedupeWindow:   time.Duration(cfg.Notifications.DedupeWindowMinutes) * time.Minute,
		SendRatePerSec: cfg.Notifications.SendRatePerSec,
	})

	// Scan de SLA agendado (além do endpoint /api/jobs/sla-scan)
	if spec := strings.TrimSpace(cfg.Jobs.SLAScanCron); spec != "" {
		scheduler := cron.New()
		_, err := scheduler.AddFunc(spec, func() {
			if result, err := workers.ScanSLA(context.Background(), database, dispatcher); err != nil {
				log.Printf("sla scan: %v", err)
			} else {
				log.Printf("sla scan: scanned=%d urgent=%d overdue=%d notified=%d",
					result.Scanned, result.Urgent, result.Overdue, result.Notified)
			}
		})
		if err != nil {
			log.Fatalf("cron spec inválida %q: %v", spec, err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	r := gin.New()
	r.Use(db.SetDBtoContext(database))
	r.Use(notifier.SetToContext(dispatcher))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	router.Initialize(r, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.ApiPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("DMED listening on :%s", cfg.ApiPort)
	log.Fatal(srv.ListenAndServe())
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}
