package notify

import (
	"fmt"
	"log"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ChatIDResolver maps a marketplace user id to the telegram chat the user
// linked in their profile. Users without a linked chat resolve to (0, nil).
type ChatIDResolver func(userID string) (int64, error)

// TelegramNotifier pings offline recipients through a telegram bot.
type TelegramNotifier struct {
	BotAPI  *tgbotapi.BotAPI
	Resolve ChatIDResolver
}

// NewTelegramNotifier creates a notifier backed by the bot token.
func NewTelegramNotifier(token string, resolve ChatIDResolver) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	log.Printf("✅ Notifier authorized on account %s", bot.Self.UserName)
	return &TelegramNotifier{BotAPI: bot, Resolve: resolve}, nil
}

// NotifyOfflineRecipient sends a one-line unread ping. Errors are returned for
// logging only; callers never propagate them into the send path.
func (n *TelegramNotifier) NotifyOfflineRecipient(userID, conversationID, messageID string) error {
	chatID, err := n.Resolve(userID)
	if err != nil {
		return fmt.Errorf("resolving telegram chat for user %s: %w", userID, err)
	}
	if chatID == 0 {
		return nil // user has no linked telegram chat
	}

	msg := tgbotapi.NewMessage(chatID, "You have a new unread message. Open your inbox to read it.")
	if _, err := n.BotAPI.Send(msg); err != nil {
		return fmt.Errorf("sending telegram notification to chat %s: %w", strconv.FormatInt(chatID, 10), err)
	}
	return nil
}
