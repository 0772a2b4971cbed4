package notifier

import (
	"context"
	"log"
	"strconv"
	"time"

	"dmed/models"
)

// deliver faz o fan-out de uma notificação pelos canais habilitados do
// destinatário. Cada tentativa vira uma NotificationDelivery; sem contato
// ou sem cliente configurado a delivery fica "skipped", erro de envio fica
// "failed". Nada aqui propaga erro pro caller.
func (d *Dispatcher) deliver(ctx context.Context, notification models.Notification, user models.User) {
	text := notification.Title
	if notification.Body != "" {
		text += "\n\n" + notification.Body
	}

	if user.NotifyEmail {
		addr := user.Email
		if addr == "" || d.senders.Email == nil {
			d.recordDelivery(notification.ID, models.CHANNEL_EMAIL, models.DELIVERY_STATUS_SKIPPED, addr, "")
		} else {
			d.sendChannel(ctx, notification.ID, models.CHANNEL_EMAIL, addr, func() error {
				return d.senders.Email.SendText(addr, notification.Title, notification.Body)
			})
		}
	}

	if user.NotifyTelegram {
		if user.TelegramChatID == 0 || d.senders.Telegram == nil {
			d.recordDelivery(notification.ID, models.CHANNEL_TELEGRAM, models.DELIVERY_STATUS_SKIPPED, "", "")
		} else {
			addr := strconv.FormatInt(user.TelegramChatID, 10)
			d.sendChannel(ctx, notification.ID, models.CHANNEL_TELEGRAM, addr, func() error {
				return d.senders.Telegram.SendText(ctx, user.TelegramChatID, text)
			})
		}
	}

	if user.NotifySMS {
		addr := user.Phone
		if addr == "" || d.senders.SMS == nil {
			d.recordDelivery(notification.ID, models.CHANNEL_SMS, models.DELIVERY_STATUS_SKIPPED, addr, "")
		} else {
			d.sendChannel(ctx, notification.ID, models.CHANNEL_SMS, addr, func() error {
				return d.senders.SMS.SendText(ctx, addr, text)
			})
		}
	}
}

func (d *Dispatcher) sendChannel(ctx context.Context, notificationID int64, channel string, addr string, send func() error) {
	if err := d.limiter.Wait(ctx); err != nil {
		d.recordDelivery(notificationID, channel, models.DELIVERY_STATUS_FAILED, addr, err.Error())
		return
	}
	if err := send(); err != nil {
		log.Printf("notifier: %s send failed notification_id=%d to=%s err=%v", channel, notificationID, addr, err)
		d.recordDelivery(notificationID, channel, models.DELIVERY_STATUS_FAILED, addr, err.Error())
		return
	}
	d.recordDelivery(notificationID, channel, models.DELIVERY_STATUS_SENT, addr, "")
}

func (d *Dispatcher) recordDelivery(notificationID int64, channel string, status string, addr string, errMsg string) {
	delivery := models.NotificationDelivery{
		NotificationID: notificationID,
		Channel:        channel,
		Status:         status,
		RecipientAddr:  addr,
		Error:          errMsg,
	}
	if status == models.DELIVERY_STATUS_SENT {
		now := time.Now()
		delivery.SentAt = &now
	}
	if err := d.db.Create(&delivery).Error; err != nil {
		log.Printf("notifier: record delivery failed notification_id=%d channel=%s err=%v", notificationID, channel, err)
	}
}
