package tools

import (
	"context"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"
)

// TelegramClient envia mensagens pelo bot do DMED (send-only, sem poller).
type TelegramClient struct {
	bot *tele.Bot
}

// NewTelegramClient cria o cliente. Token vazio devolve nil (canal desabilitado).
func NewTelegramClient(token string) (*TelegramClient, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil
	}
	bot, err := tele.NewBot(tele.Settings{
		Token: token,
		// Sem poller: o bot só envia. Offline evita o getMe no boot
		// (ambientes sem rede não podem travar o startup).
		Offline: true,
	})
	if err != nil {
		return nil, err
	}
	return &TelegramClient{bot: bot}, nil
}

// SendText envia texto simples para um chat.
func (t *TelegramClient) SendText(ctx context.Context, chatID int64, text string) error {
	if t == nil || t.bot == nil {
		return fmt.Errorf("telegram client not configured")
	}
	if chatID == 0 {
		return fmt.Errorf("telegram chat id is empty")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := t.bot.Send(&tele.Chat{ID: chatID}, text, &tele.SendOptions{
		DisableWebPagePreview: true,
	})
	return err
}
