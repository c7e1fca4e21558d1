package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/susu3304/wageflow/internal/chain"
	"github.com/susu3304/wageflow/internal/db"
	"github.com/susu3304/wageflow/internal/payroll"
	"github.com/susu3304/wageflow/internal/session"
)

const maxPINAttempts = 3

func HandlePay(c *Context) {
	company, ok := c.company()
	if !ok {
		return
	}
	employees, ok := c.activeEmployees(company.ID)
	if !ok {
		return
	}
	if len(employees) == 0 {
		c.reply("No employees! Add with /add_employee")
		return
	}

	c.Session.PinVerified = false
	if c.Session.PinHash != "" {
		c.Session.State = session.AwaitPayPIN
		c.Session.PinAttempts = 0
		c.reply("🔐 Enter your 4-digit PIN to continue:")
		return
	}
	sendPaySummary(c, employees)
}

func handlePayPIN(c *Context) {
	if !checkPIN(c.Session.PinHash, c.Text) {
		c.Session.PinAttempts++
		if c.Session.PinAttempts >= maxPINAttempts {
			c.Session.Reset()
			c.reply("❌ Too many wrong PIN attempts. Payment cancelled.")
			return
		}
		c.reply(fmt.Sprintf("❌ Wrong PIN. %d attempt(s) left:", maxPINAttempts-c.Session.PinAttempts))
		return
	}

	c.Session.Reset()
	company, ok := c.company()
	if !ok {
		return
	}
	employees, ok := c.activeEmployees(company.ID)
	if !ok {
		return
	}
	if len(employees) == 0 {
		c.reply("No employees! Add with /add_employee")
		return
	}
	c.Session.PinVerified = true
	sendPaySummary(c, employees)
}

func sendPaySummary(c *Context, employees []db.Employee) {
	order, totals := currencyTotals(employees)

	var b strings.Builder
	b.WriteString("📊 Payroll Summary\n\n")
	for _, cur := range order {
		fmt.Fprintf(&b, "%s:\n", cur)
		for _, e := range employees {
			if e.PreferredCurrency == cur {
				fmt.Fprintf(&b, "• %s: %s\n", e.Name, formatMoney(e.SalaryAmount, cur))
			}
		}
		fmt.Fprintf(&b, "Subtotal: %s\n\n", formatMoney(totals[cur], cur))
	}
	b.WriteString("💰 Total:")
	for _, cur := range order {
		fmt.Fprintf(&b, "\n   %s", formatMoney(totals[cur], cur))
	}
	b.WriteString("\n\nConfirm payment?")

	markup := tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("✅ Confirm & Pay", callbackConfirmPay),
		tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", callbackCancelPay),
	))
	c.replyWithKeyboard(b.String(), markup)
}

func HandleCancelPay(c *Context) {
	c.Session.PinVerified = false
	c.edit("❌ Payment cancelled.")
}

// HandleConfirmPay pays every active employee, records one payment per
// result and reports the outcome.
func HandleConfirmPay(c *Context) {
	if c.Session.PinHash != "" && !c.Session.PinVerified {
		c.edit("🔐 Please confirm with your PIN first: /pay")
		return
	}
	c.Session.PinVerified = false

	company, ok := c.company()
	if !ok {
		return
	}
	employees, ok := c.activeEmployees(company.ID)
	if !ok {
		return
	}
	if len(employees) == 0 {
		c.edit("No employees! Add with /add_employee")
		return
	}

	c.edit("⏳ Processing payments...\nThis may take a moment.")

	reqs := make([]payroll.Request, 0, len(employees))
	byID := make(map[int64]db.Employee, len(employees))
	for _, e := range employees {
		byID[e.ID] = e
		reqs = append(reqs, payroll.Request{
			EmployeeID: e.ID,
			Name:       e.Name,
			Address:    e.WalletAddress,
			Amount:     e.SalaryAmount.StringFixed(2),
			Currency:   chain.Currency(e.PreferredCurrency),
		})
	}

	// A started batch must finish even if the bot is shutting down.
	runCtx := context.WithoutCancel(c.Ctx)
	results, err := c.Deps.Payroll.RunObserved(runCtx, reqs, func(index, total int, r payroll.Result) {
		if index+1 < total {
			c.edit(fmt.Sprintf("⏳ Processing payments... %d/%d done", index+1, total))
		}
	})
	if err != nil {
		c.edit(payrollErrorMessage(err))
		return
	}

	network := c.Deps.Wallet.Network()
	for _, r := range results {
		recordPayment(runCtx, c, company.ID, r)
		if r.Success {
			notifyEmployee(c, byID[r.EmployeeID], company.Name, r, network)
		}
	}

	c.edit(payroll.Summarize(results, network).Text)
}

func payrollErrorMessage(err error) string {
	switch {
	case errors.Is(err, payroll.ErrRunInProgress):
		return "⏳ A payroll run is already in progress. Please wait for it to finish."
	case errors.Is(err, payroll.ErrWrongNetwork):
		return "❌ Wrong network configured. " + err.Error()
	case errors.Is(err, payroll.ErrBatchTooLarge):
		return "❌ Batch too large. Maximum 100 payments per batch"
	default:
		log.Printf("payroll: batch failed: %v", err)
		return "❌ Payment failed. Please try again."
	}
}

func recordPayment(ctx context.Context, c *Context, companyID int64, r payroll.Result) {
	status := db.PaymentFailed
	if r.Success {
		status = db.PaymentCompleted
	}
	amount, err := parseAmount(r.Amount)
	if err != nil {
		log.Printf("payroll: bad amount %q for employee %d: %v", r.Amount, r.EmployeeID, err)
		return
	}
	_, err = c.Deps.Ledger.CreatePayment(ctx, db.NewPayment{
		CompanyID:  companyID,
		EmployeeID: r.EmployeeID,
		Amount:     amount,
		Currency:   string(r.Currency),
		TxHash:     r.TxHash,
		Status:     status,
	})
	if err != nil {
		log.Printf("payroll: failed to record payment for employee %d: %v", r.EmployeeID, err)
	}
}

func notifyEmployee(c *Context, e db.Employee, companyName string, r payroll.Result, network chain.Network) {
	if e.TelegramID == nil {
		return
	}
	text := fmt.Sprintf("💸 You've been paid %s %s by %s\n\n%s", r.Amount, r.Currency, companyName, network.TxLink(r.TxHash))
	if _, err := c.Bot.Send(tgbotapi.NewMessage(*e.TelegramID, text)); err != nil {
		log.Printf("bot: failed to notify employee %d: %v", e.ID, err)
	}
}
