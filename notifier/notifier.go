package notifier

import (
	"context"
	"encoding/json"
	"time"

	"dmed/models"
	"dmed/tools"

	"github.com/jinzhu/gorm"
	"golang.org/x/time/rate"
)

// Senders agrupa os clientes de canal externo. Qualquer um pode ser nil
// (canal desabilitado na instalação).
type Senders struct {
	Email    *tools.EmailClient
	Telegram *tools.TelegramClient
	SMS      *tools.SMSClient
}

type Config struct {
	// Janela padrão de supressão por dedupe key.
	DedupeWindow time.Duration
	// Limite de envios externos por segundo (todos os canais somados).
	SendRatePerSec int
	// SyncSend força envio síncrono (usado em teste).
	SyncSend bool
}

// Event descreve um disparo de notificação.
type Event struct {
	Name  string
	Title string
	Body  string

	// LetterID vincula a notificação a uma carta (opcional).
	LetterID *int64
	// ActorID é quem causou o evento (0 = sistema). Auto-notificação é
	// responsabilidade do caller filtrar antes de chamar Dispatch.
	ActorID int64

	// UserIDs são os destinatários explícitos.
	UserIDs []int64
	// IncludeSubscriptions soma os watchers da carta ao conjunto.
	IncludeSubscriptions bool
	// NotifyAdmins soma todos os admins ativos ao conjunto.
	NotifyAdmins bool

	Metadata map[string]any

	// DedupeKey + janela suprimem um segundo disparo com a mesma key.
	// Janela 0 usa o default da config.
	DedupeKey           string
	DedupeWindowMinutes int
}

// Dispatcher cria as notificações in-app e faz o fan-out best-effort
// pelos canais externos conforme as preferências de cada destinatário.
type Dispatcher struct {
	db      *gorm.DB
	senders Senders
	cfg     Config
	limiter *rate.Limiter
}

func New(db *gorm.DB, senders Senders, cfg Config) *Dispatcher {
	if cfg.DedupeWindow <= 0 {
		cfg.DedupeWindow = 24 * time.Hour
	}
	if cfg.SendRatePerSec <= 0 {
		cfg.SendRatePerSec = 3
	}
	return &Dispatcher{
		db:      db,
		senders: senders,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.SendRatePerSec), cfg.SendRatePerSec),
	}
}

// Dispatch resolve destinatários, aplica dedupe e quiet hours, grava uma
// Notification por destinatário e dispara os envios externos.
//
// Falha de canal externo nunca propaga: é logada e registrada na delivery.
// Retorna as notificações criadas (vazio quando o dedupe suprimiu tudo).
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) ([]models.Notification, error) {
	now := time.Now()

	if ev.DedupeKey != "" {
		window := d.cfg.DedupeWindow
		if ev.DedupeWindowMinutes > 0 {
			window = time.Duration(ev.DedupeWindowMinutes) * time.Minute
		}
		var count int64
		if err := d.db.Model(&models.Notification{}).
			Where("dedupe_key = ? AND created_at >= ?", ev.DedupeKey, now.Add(-window)).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			// mesmo aviso dentro da janela: não cria nada
			return nil, nil
		}
	}

	recipients, err := d.resolveRecipients(ev)
	if err != nil {
		return nil, err
	}
	if len(recipients) == 0 {
		return nil, nil
	}

	metadata := ""
	if len(ev.Metadata) > 0 {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metadata = string(b)
		}
	}

	var created []models.Notification

	tx := d.db.Begin()
	for _, user := range recipients {
		if user.InQuietHours(now) {
			continue
		}

		notification := models.Notification{
			Event:       ev.Name,
			Title:       ev.Title,
			Body:        ev.Body,
			RecipientID: user.ID,
			ActorID:     ev.ActorID,
			LetterID:    ev.LetterID,
			Metadata:    metadata,
			DedupeKey:   ev.DedupeKey,
		}
		if err := tx.Create(&notification).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		created = append(created, notification)
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	// fan-out por canal, fora da transação: a resposta HTTP nunca espera envio
	for i := range created {
		idx := indexOfRecipient(recipients, created[i].RecipientID)
		if idx < 0 {
			continue
		}
		if d.cfg.SyncSend {
			d.deliver(ctx, created[i], recipients[idx])
		} else {
			go d.deliver(context.Background(), created[i], recipients[idx])
		}
	}

	return created, nil
}

func indexOfRecipient(users []models.User, id int64) int {
	for i := range users {
		if users[i].ID == id {
			return i
		}
	}
	return -1
}

// resolveRecipients junta destinatários explícitos, watchers e admins,
// remove duplicados e descarta bloqueados.
func (d *Dispatcher) resolveRecipients(ev Event) ([]models.User, error) {
	idSet := map[int64]bool{}
	for _, id := range ev.UserIDs {
		if id > 0 {
			idSet[id] = true
		}
	}

	if ev.IncludeSubscriptions && ev.LetterID != nil {
		ids, err := WatcherIDs(d.db, *ev.LetterID)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			idSet[id] = true
		}
	}

	if ev.NotifyAdmins {
		var admins []models.User
		if err := d.db.Where("role = ? AND status = ?", models.USER_ROLE_ADMIN, models.USER_STATUS_ACTIVE).
			Find(&admins).Error; err != nil {
			return nil, err
		}
		for _, a := range admins {
			idSet[a.ID] = true
		}
	}

	if len(idSet) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	var users []models.User
	if err := d.db.Where("id IN (?)", ids).Find(&users).Error; err != nil {
		return nil, err
	}

	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.Status == models.USER_STATUS_BLOCKED {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

// WatcherIDs devolve os usuários inscritos em uma carta.
func WatcherIDs(db *gorm.DB, letterID int64) ([]int64, error) {
	var watchers []models.Watcher
	if err := db.Where("letter_id = ?", letterID).Find(&watchers).Error; err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(watchers))
	for _, w := range watchers {
		ids = append(ids, w.UserID)
	}
	return ids, nil
}
