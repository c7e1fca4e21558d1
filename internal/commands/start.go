package commands

import (
	"errors"
	"fmt"
	"log"

	"github.com/susu3304/wageflow/internal/db"
	"github.com/susu3304/wageflow/internal/session"
)

const appName = "WageFlow"

func HandleStart(c *Context) {
	company, err := c.Deps.Ledger.CompanyByOwner(c.Ctx, c.UserID)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		log.Printf("commands: failed to load company for %d: %v", c.UserID, err)
		c.reply("❌ Could not load your company. Please try again.")
		return
	}

	if company == nil {
		c.Session.State = session.AwaitingCompanyName
		c.reply(fmt.Sprintf("👋 Welcome to %s!\n\n", appName) +
			"I help you pay your team instantly on Celo.\n\n" +
			"Let's set up your company. What's your company name?")
		return
	}

	c.reply(fmt.Sprintf("Welcome back, %s! 🎉\n\n", company.Name) +
		"Commands:\n" +
		"/add_employee - Add team member\n" +
		"/employees - View your team\n" +
		"/pay - Pay everyone\n" +
		"/balance - Check balance\n" +
		"/history - Recent payments\n" +
		"/pin - Set PIN\n" +
		"/help - Show help")
}

func HandleHelp(c *Context) {
	network := c.Deps.Wallet.Network()
	c.reply(fmt.Sprintf("🤖 %s Help\n\n", appName) +
		"📝 COMMANDS:\n" +
		"/start - Set up your company\n" +
		"/add_employee - Add team member\n" +
		"/employees - View your team\n" +
		"/remove_employee - Remove team member\n" +
		"/pay - Pay everyone\n" +
		"/balance - Check wallet balance\n" +
		"/history - Recent payments\n" +
		"/pin - Set your PIN\n" +
		"/new_pin - Change PIN\n" +
		"/dashboard - Get a dashboard token\n" +
		"/help - Show this message\n\n" +
		"💰 SUPPORTED CURRENCIES:\n" +
		"• cUSD (Celo Dollar)\n" +
		"• cEUR (Celo Euro)\n\n" +
		"🔗 USEFUL LINKS:\n" +
		"Celoscan: " + network.ExplorerURL + "\n" +
		"Get testnet cUSD: https://faucet.celo.org")
}

// HandleText handles non-command text: the active flow step, or the
// assistant when the user is idle.
func HandleText(c *Context) {
	switch c.Session.State {
	case session.AwaitingCompanyName:
		handleCompanyName(c)
	case session.EmployeeName:
		handleEmployeeName(c)
	case session.EmployeeWallet:
		handleEmployeeWallet(c)
	case session.EmployeeSalary:
		handleEmployeeSalary(c)
	case session.EmployeeCurrency:
		c.reply("Please pick a currency with the buttons above.")
	case session.AwaitPIN, session.AwaitNewPIN:
		handlePINEntry(c)
	case session.AwaitPayPIN:
		handlePayPIN(c)
	default:
		handleFreeText(c)
	}
}

func handleCompanyName(c *Context) {
	name, ok := parseName(c.Text)
	if !ok {
		c.reply("❌ Please enter a company name (up to 255 characters):")
		return
	}

	company, err := c.Deps.Ledger.CreateCompany(c.Ctx, c.UserID, name)
	if errors.Is(err, db.ErrCompanyExists) {
		c.Session.Reset()
		c.reply("You already have a company. Try /help")
		return
	}
	if err != nil {
		log.Printf("commands: failed to create company for %d: %v", c.UserID, err)
		c.reply("❌ Could not create your company. Please try again.")
		return
	}

	c.Session.Reset()
	c.Session.CompanyID = company.ID
	c.reply(fmt.Sprintf("✅ Company %q created!\n\nNow add your first employee:\n/add_employee", company.Name))
}

const idleHelp = "I'm not sure what you mean. Try these commands:\n\n" +
	"/start - Get started\n" +
	"/add_employee - Add team member\n" +
	"/employees - View team\n" +
	"/pay - Pay everyone\n" +
	"/help - Show help"
