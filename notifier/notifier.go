// Package notifier tells the shop about new orders and status changes.
package notifier

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pizzeria-service/models"
)

type Notifier interface {
	NotifyOrderEvent(ctx context.Context, evt models.OrderEvent) error
}

// sender is the part of *tgbotapi.BotAPI the notifier uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Telegram struct {
	bot    sender
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return &Telegram{bot: api, chatID: chatID}, nil
}

func (t *Telegram) NotifyOrderEvent(_ context.Context, evt models.OrderEvent) error {
	msg := tgbotapi.NewMessage(t.chatID, FormatOrderEvent(evt))
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("send telegram message for %s: %w", evt.OrderID, err)
	}
	return nil
}

// Log writes notifications to the process log. It is used when no bot is configured.
type Log struct{}

func (Log) NotifyOrderEvent(_ context.Context, evt models.OrderEvent) error {
	log.Printf("Order event %s for %s: %s", evt.Type, evt.OrderID, strings.ReplaceAll(FormatOrderEvent(evt), "\n", " | "))
	return nil
}

// New picks the Telegram notifier when a token and chat are configured and
// falls back to Log otherwise, including when the bot cannot be reached.
func New(token string, chatID int64) Notifier {
	if token == "" || chatID == 0 {
		return Log{}
	}
	tg, err := NewTelegram(token, chatID)
	if err != nil {
		log.Printf("Warning: %v, order notifications go to the log", err)
		return Log{}
	}
	return tg
}

// FormatOrderEvent renders evt as a Telegram Markdown message. Free-text
// fields are escaped so customer input cannot break the markup.
func FormatOrderEvent(evt models.OrderEvent) string {
	var b strings.Builder
	switch evt.Type {
	case models.EventCreated:
		fmt.Fprintf(&b, "*NOVO PEDIDO* %s\n", md(evt.OrderID))
		fmt.Fprintf(&b, "Cliente: %s (%s)\n", md(evt.CustomerName), md(evt.CustomerPhone))
		fmt.Fprintf(&b, "Zona: %s\n", md(evt.ZoneName))
		if evt.ItemsDetail != "" {
			fmt.Fprintf(&b, "Itens: %s\n", md(evt.ItemsDetail))
		}
		fmt.Fprintf(&b, "Total: %d$", evt.Total)
	case models.EventStatusUpdated:
		fmt.Fprintf(&b, "Pedido %s: *%s*\n", md(evt.OrderID), md(string(evt.Status)))
		fmt.Fprintf(&b, "Cliente: %s (%s)", md(evt.CustomerName), md(evt.CustomerPhone))
	default:
		fmt.Fprintf(&b, "Pedido %s: %s", md(evt.OrderID), md(evt.Type))
	}
	return b.String()
}

func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}
