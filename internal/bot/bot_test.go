package bot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/susu3304/wageflow/internal/commands"
	"github.com/susu3304/wageflow/internal/db"
	"github.com/susu3304/wageflow/internal/session"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []tgbotapi.Chattable
}

func (r *recordingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, c)
	return tgbotapi.Message{}, nil
}

func (r *recordingSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (r *recordingSender) texts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, c := range r.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m.Text)
		}
	}
	return out
}

// emptyLedger knows no companies.
type emptyLedger struct {
	commands.Ledger
}

func (emptyLedger) CompanyByOwner(context.Context, int64) (*db.Company, error) {
	return nil, db.ErrNotFound
}

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestBot() (*Bot, *recordingSender, *session.MemoryStore) {
	sender := &recordingSender{}
	store := session.NewMemoryStore()
	b := newBot(sender, store, &commands.Deps{Ledger: emptyLedger{}})
	b.webhookSecret = testSecret
	return b, sender, store
}

func startCommand(userID int64) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			Text:     "/start",
			From:     &tgbotapi.User{ID: userID},
			Chat:     &tgbotapi.Chat{ID: userID},
			Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}},
		},
	}
}

func TestHandle_StartCommand(t *testing.T) {
	b, sender, store := newTestBot()

	b.handle(startCommand(42))

	texts := sender.texts()
	if len(texts) != 1 || !strings.Contains(texts[0], "Welcome to WageFlow") {
		t.Fatalf("unexpected replies: %q", texts)
	}

	_ = store.With(context.Background(), 42, func(s *session.Session) error {
		if s.State != session.AwaitingCompanyName {
			t.Errorf("expected awaiting_company_name, got %s", s.State)
		}
		return nil
	})
}

func TestHandle_IgnoresUpdatesWithoutSender(t *testing.T) {
	b, sender, _ := newTestBot()

	b.handle(tgbotapi.Update{UpdateID: 2})
	b.handle(tgbotapi.Update{UpdateID: 3, Message: &tgbotapi.Message{Text: "hi"}})

	if len(sender.texts()) != 0 {
		t.Fatalf("expected no replies, got %q", sender.texts())
	}
}

func TestWebhookHandler(t *testing.T) {
	b, sender, _ := newTestBot()
	h := b.WebhookHandler()

	body := `{"update_id":5,"message":{"message_id":1,"text":"/start","from":{"id":7},"chat":{"id":7,"type":"private"},"entities":[{"type":"bot_command","offset":0,"length":6}]}}`
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/telegram/webhook/"+testSecret, strings.NewReader(body)))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	if err := b.Stop(); err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}
	if texts := sender.texts(); len(texts) != 1 || !strings.Contains(texts[0], "Welcome to WageFlow") {
		t.Fatalf("unexpected replies: %q", texts)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/telegram/webhook/"+testSecret, strings.NewReader("not json")))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad body, got %d", rr.Code)
	}
}

func TestWebhookHandler_RejectsWrongSecret(t *testing.T) {
	b, sender, _ := newTestBot()
	h := b.WebhookHandler()

	body := `{"update_id":6,"callback_query":{"id":"cb","from":{"id":7},"data":"confirm_pay"}}`
	for _, target := range []string{
		"/telegram/webhook",
		"/telegram/webhook/",
		"/telegram/webhook/guess",
		"/telegram/webhook/" + testSecret + "x",
	} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, target, strings.NewReader(body)))
		if rr.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", target, rr.Code)
		}
	}

	if err := b.Stop(); err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}
	sender.mu.Lock()
	defer sender.mu.Unlock()
	if len(sender.sent) != 0 {
		t.Fatalf("rejected updates must not be dispatched, got %d sends", len(sender.sent))
	}
}

func TestWebhookHandler_NoSecretConfigured(t *testing.T) {
	b, _, _ := newTestBot()
	b.webhookSecret = ""

	rr := httptest.NewRecorder()
	b.WebhookHandler().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/telegram/webhook/", strings.NewReader(`{"update_id":1}`)))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without a configured secret, got %d", rr.Code)
	}
}
