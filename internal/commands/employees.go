package commands

import (
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"github.com/susu3304/wageflow/internal/chain"
	"github.com/susu3304/wageflow/internal/db"
	"github.com/susu3304/wageflow/internal/session"
)

func HandleAddEmployee(c *Context) {
	company, ok := c.company()
	if !ok {
		return
	}

	c.Session.State = session.EmployeeName
	c.Session.CompanyID = company.ID
	c.Session.Draft = session.Draft{}
	c.reply("What's the employee's full name? 👤")
}

func HandleEmployees(c *Context) {
	company, ok := c.company()
	if !ok {
		return
	}
	employees, ok := c.activeEmployees(company.ID)
	if !ok {
		return
	}
	if len(employees) == 0 {
		c.reply("No employees yet! Add one with /add_employee")
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "👥 Your Team (%d)\n\n", len(employees))
	for i, e := range employees {
		fmt.Fprintf(&b, "%d. %s\n", i+1, e.Name)
		fmt.Fprintf(&b, "   💰 %s\n", formatMoney(e.SalaryAmount, e.PreferredCurrency))
		if chain.IsZeroAddress(e.WalletAddress) {
			b.WriteString("   💳 wallet not set\n\n")
		} else {
			fmt.Fprintf(&b, "   💳 %s\n\n", chain.ShortenAddress(e.WalletAddress))
		}
	}

	order, totals := currencyTotals(employees)
	b.WriteString("📊 Total monthly payroll:")
	for _, cur := range order {
		fmt.Fprintf(&b, "\n   %s", formatMoney(totals[cur], cur))
	}
	c.reply(b.String())
}

func handleEmployeeName(c *Context) {
	name, ok := parseName(c.Text)
	if !ok {
		c.reply("❌ Please enter the employee's name (up to 255 characters):")
		return
	}
	c.Session.Draft.Name = name
	c.Session.State = session.EmployeeWallet
	c.reply("What's their Celo wallet address? 💳\n\n" +
		"Example: 0x1234567890123456789012345678901234567890\n\n" +
		`Or type "skip" to use a placeholder`)
}

func handleEmployeeWallet(c *Context) {
	wallet, ok := parseWallet(c.Text)
	if !ok {
		c.reply("❌ Invalid wallet address. Please try again:\n\n" +
			"Format: 0x followed by 40 hexadecimal characters\n" +
			`Or type "skip"`)
		return
	}
	c.Session.Draft.Wallet = wallet
	c.Session.State = session.EmployeeSalary
	c.reply("Monthly salary? 💰\n\nExample: 5000")
}

func handleEmployeeSalary(c *Context) {
	salary, ok := parseSalary(c.Text)
	if !ok {
		c.reply("❌ Invalid amount. Please enter a positive number with at most 2 decimals:\n\nExample: 5000")
		return
	}
	c.Session.Draft.Salary = salary.StringFixed(2)
	c.Session.State = session.EmployeeCurrency

	var buttons []tgbotapi.InlineKeyboardButton
	for _, cur := range chain.Currencies {
		label := "💵 " + string(cur)
		if cur == chain.CEUR {
			label = "💶 " + string(cur)
		}
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(label, callbackCurrency+string(cur)))
	}
	c.replyWithKeyboard("Which currency?", tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(buttons...)))
}

// HandleCurrency finishes the add-employee flow.
func HandleCurrency(c *Context, symbol string) {
	cur, ok := chain.ParseCurrency(symbol)
	if !ok {
		c.edit("❌ Unsupported currency.")
		return
	}

	draft := c.Session.Draft
	if c.Session.State != session.EmployeeCurrency || c.Session.CompanyID == 0 || !draft.Complete() {
		c.Session.Reset()
		c.edit("❌ Session expired. Please try /add_employee again")
		return
	}
	salary, err := decimal.NewFromString(draft.Salary)
	if err != nil {
		c.Session.Reset()
		c.edit("❌ Session expired. Please try /add_employee again")
		return
	}

	employee, err := c.Deps.Ledger.CreateEmployee(c.Ctx, db.NewEmployee{
		CompanyID:         c.Session.CompanyID,
		Name:              draft.Name,
		WalletAddress:     draft.Wallet,
		SalaryAmount:      salary,
		PreferredCurrency: string(cur),
	})
	if err != nil {
		log.Printf("commands: failed to create employee for company %d: %v", c.Session.CompanyID, err)
		c.Session.Reset()
		c.edit("❌ Could not save the employee. Please try /add_employee again")
		return
	}

	c.Session.Reset()
	c.edit("✅ Employee added!\n\n" +
		fmt.Sprintf("Name: %s\n", employee.Name) +
		fmt.Sprintf("Salary: %s/month\n\n", formatMoney(employee.SalaryAmount, employee.PreferredCurrency)) +
		"Add another employee: /add_employee\n" +
		"Or pay everyone: /pay")
}
