package commands

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/ethereum/go-ethereum/common"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/susu3304/wageflow/internal/assistant"
	"github.com/susu3304/wageflow/internal/chain"
	"github.com/susu3304/wageflow/internal/db"
	"github.com/susu3304/wageflow/internal/payroll"
	"github.com/susu3304/wageflow/internal/session"
)

// Sender is the part of tgbotapi.BotAPI the handlers use.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Ledger interface {
	CreateCompany(ctx context.Context, ownerID int64, name string) (*db.Company, error)
	CompanyByOwner(ctx context.Context, ownerID int64) (*db.Company, error)
	CreateEmployee(ctx context.Context, in db.NewEmployee) (*db.Employee, error)
	ActiveEmployees(ctx context.Context, companyID int64) ([]db.Employee, error)
	SetEmployeeStatus(ctx context.Context, companyID, employeeID int64, status string) error
	CreatePayment(ctx context.Context, in db.NewPayment) (*db.Payment, error)
	RecentPayments(ctx context.Context, companyID int64, limit int) ([]db.PaymentRecord, error)
}

type Wallet interface {
	Address() common.Address
	Network() chain.Network
	Balances(ctx context.Context) chain.Balances
}

type Payer interface {
	RunObserved(ctx context.Context, reqs []payroll.Request, observe func(index, total int, r payroll.Result)) ([]payroll.Result, error)
}

type Assistant interface {
	Reply(ctx context.Context, userMessage string, pc assistant.PayrollContext) (string, error)
}

type Deps struct {
	Ledger  Ledger
	Wallet  Wallet
	Payroll Payer
	// Assistant is nil when no AI key is configured.
	Assistant Assistant
	// IssueToken signs a dashboard token scoped to one company.
	IssueToken   func(companyID int64) (string, time.Time, error)
	DashboardURL string
}

// Context carries one update through the handlers.
type Context struct {
	Ctx     context.Context
	Bot     Sender
	ChatID  int64
	UserID  int64
	Text    string
	Session *session.Session
	Deps    *Deps

	callback *tgbotapi.CallbackQuery
}

func (c *Context) reply(text string) {
	for _, chunk := range splitMessage(text, maxMessageLength) {
		if _, err := c.Bot.Send(tgbotapi.NewMessage(c.ChatID, chunk)); err != nil {
			log.Printf("bot: failed to send message to %d: %v", c.ChatID, err)
		}
	}
}

func (c *Context) replyWithKeyboard(text string, markup tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(c.ChatID, text)
	msg.ReplyMarkup = markup
	if _, err := c.Bot.Send(msg); err != nil {
		log.Printf("bot: failed to send message to %d: %v", c.ChatID, err)
	}
}

// edit replaces the text of the message the pressed button belongs to.
// Without a callback it sends a new message instead.
func (c *Context) edit(text string) {
	if c.callback == nil || c.callback.Message == nil {
		c.reply(text)
		return
	}
	chunks := splitMessage(text, maxMessageLength)
	edit := tgbotapi.NewEditMessageText(c.ChatID, c.callback.Message.MessageID, chunks[0])
	if _, err := c.Bot.Send(edit); err != nil {
		log.Printf("bot: failed to edit message in %d: %v", c.ChatID, err)
	}
	for _, chunk := range chunks[1:] {
		if _, err := c.Bot.Send(tgbotapi.NewMessage(c.ChatID, chunk)); err != nil {
			log.Printf("bot: failed to send message to %d: %v", c.ChatID, err)
		}
	}
}

func (c *Context) typing() {
	if _, err := c.Bot.Request(tgbotapi.NewChatAction(c.ChatID, tgbotapi.ChatTyping)); err != nil {
		log.Printf("bot: failed to send chat action: %v", err)
	}
}

// company loads the sender's company. When it is missing or unreadable the
// user is told so and ok is false.
func (c *Context) company() (*db.Company, bool) {
	company, err := c.Deps.Ledger.CompanyByOwner(c.Ctx, c.UserID)
	if errors.Is(err, db.ErrNotFound) {
		c.reply("Set up your company first: /start")
		return nil, false
	}
	if err != nil {
		log.Printf("commands: failed to load company for %d: %v", c.UserID, err)
		c.reply("❌ Could not load your company. Please try again.")
		return nil, false
	}
	return company, true
}

func (c *Context) activeEmployees(companyID int64) ([]db.Employee, bool) {
	employees, err := c.Deps.Ledger.ActiveEmployees(c.Ctx, companyID)
	if err != nil {
		log.Printf("commands: failed to load employees for company %d: %v", companyID, err)
		c.reply("❌ Could not load your team. Please try again.")
		return nil, false
	}
	return employees, true
}
