package bot

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"path"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/susu3304/wageflow/internal/commands"
	"github.com/susu3304/wageflow/internal/session"
)

type Bot struct {
	api        *tgbotapi.BotAPI
	sender     commands.Sender
	store      session.Store
	deps       *commands.Deps
	webhookURL string
	// webhookSecret is appended to webhookURL as the final path segment.
	webhookSecret string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	done   chan struct{}
}

func New(token string, store session.Store, deps *commands.Deps, webhookURL, webhookSecret string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	b := newBot(api, store, deps)
	b.api = api
	b.webhookURL = webhookURL
	b.webhookSecret = webhookSecret
	return b, nil
}

func newBot(sender commands.Sender, store session.Store, deps *commands.Deps) *Bot {
	ctx, cancel := context.WithCancel(context.Background())
	return &Bot{
		sender: sender,
		store:  store,
		deps:   deps,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// Start registers the command menu and begins receiving updates, by long
// polling unless a webhook URL is configured.
func (b *Bot) Start() error {
	if _, err := b.api.Request(tgbotapi.NewSetMyCommands(commands.Definitions()...)); err != nil {
		log.Printf("bot: failed to register commands: %v", err)
	}

	if b.webhookURL != "" {
		wh, err := tgbotapi.NewWebhook(strings.TrimRight(b.webhookURL, "/") + "/" + b.webhookSecret)
		if err != nil {
			return fmt.Errorf("invalid webhook url: %w", err)
		}
		if _, err := b.api.Request(wh); err != nil {
			return fmt.Errorf("failed to set webhook: %w", err)
		}
		close(b.done)
		log.Printf("bot: @%s is running (webhook)", b.api.Self.UserName)
		return nil
	}

	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)
	go func() {
		defer close(b.done)
		for update := range updates {
			b.dispatch(update)
		}
	}()

	log.Printf("bot: @%s is running (long polling)", b.api.Self.UserName)
	return nil
}

// Stop stops receiving updates and waits for in-flight handlers.
func (b *Bot) Stop() error {
	if b.api != nil && b.webhookURL == "" {
		b.api.StopReceivingUpdates()
		<-b.done
	}
	b.wg.Wait()
	b.cancel()
	return nil
}

// WebhookHandler accepts updates pushed by Telegram. Requests whose last
// path segment is not the webhook secret are answered 404 and dropped.
func (b *Bot) WebhookHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !b.validWebhookPath(r.URL.Path) {
			http.NotFound(w, r)
			return
		}

		var update tgbotapi.Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			http.Error(w, "invalid update", http.StatusBadRequest)
			return
		}
		b.dispatch(update)
		w.WriteHeader(http.StatusOK)
	})
}

func (b *Bot) validWebhookPath(p string) bool {
	if b.webhookSecret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(path.Base(p)), []byte(b.webhookSecret)) == 1
}

func (b *Bot) dispatch(update tgbotapi.Update) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.handle(update)
	}()
}

func (b *Bot) handle(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("bot: panic handling update %d: %v", update.UpdateID, r)
		}
	}()

	var userID, chatID int64
	switch {
	case update.Message != nil && update.Message.From != nil && update.Message.Chat != nil:
		userID = update.Message.From.ID
		chatID = update.Message.Chat.ID
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		userID = update.CallbackQuery.From.ID
		chatID = userID
		if update.CallbackQuery.Message != nil && update.CallbackQuery.Message.Chat != nil {
			chatID = update.CallbackQuery.Message.Chat.ID
		}
	default:
		return
	}

	err := b.store.With(b.ctx, userID, func(s *session.Session) error {
		c := &commands.Context{
			Ctx:     b.ctx,
			Bot:     b.sender,
			ChatID:  chatID,
			UserID:  userID,
			Session: s,
			Deps:    b.deps,
		}
		if update.Message != nil {
			commands.HandleMessage(c, update.Message)
		} else {
			commands.HandleCallback(c, update.CallbackQuery)
		}
		return nil
	})
	if err != nil {
		log.Printf("bot: failed to handle update %d from %d: %v", update.UpdateID, userID, err)
	}
}
