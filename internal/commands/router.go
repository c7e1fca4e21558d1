package commands

import (
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	callbackConfirmPay = "confirm_pay"
	callbackCancelPay  = "cancel_pay"
	callbackCurrency   = "currency_"
	callbackRemove     = "remove_"
)

// Definitions lists the commands registered with setMyCommands.
func Definitions() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: "start", Description: "Set up your company"},
		{Command: "help", Description: "Show help"},
		{Command: "add_employee", Description: "Add team member"},
		{Command: "employees", Description: "View your team"},
		{Command: "remove_employee", Description: "Remove team member"},
		{Command: "pay", Description: "Pay everyone"},
		{Command: "balance", Description: "Check wallet balance"},
		{Command: "history", Description: "Recent payments"},
		{Command: "pin", Description: "Set your PIN"},
		{Command: "new_pin", Description: "Change PIN"},
		{Command: "dashboard", Description: "Get a dashboard token"},
	}
}

// HandleMessage routes a text message to a command or the active flow.
func HandleMessage(c *Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		HandleCommand(c, msg.Command())
		return
	}
	c.Text = strings.TrimSpace(msg.Text)
	if c.Text == "" {
		return
	}
	HandleText(c)
}

// HandleCommand runs a slash command. A command typed in the middle of a
// flow abandons that flow.
func HandleCommand(c *Context, name string) {
	if c.Session.InFlow() {
		log.Printf("commands: user %d left %s for /%s", c.UserID, c.Session.State, name)
		c.Session.Reset()
	}

	switch name {
	case "start":
		HandleStart(c)
	case "help":
		HandleHelp(c)
	case "add_employee":
		HandleAddEmployee(c)
	case "employees":
		HandleEmployees(c)
	case "remove_employee":
		HandleRemoveEmployee(c)
	case "pay":
		HandlePay(c)
	case "balance":
		HandleBalance(c)
	case "history":
		HandleHistory(c)
	case "pin":
		HandleSetPIN(c)
	case "new_pin":
		HandleChangePIN(c)
	case "dashboard":
		HandleDashboard(c)
	default:
		c.reply("Unknown command. Try /help")
	}
}

// HandleCallback routes inline keyboard presses.
func HandleCallback(c *Context, cq *tgbotapi.CallbackQuery) {
	c.callback = cq
	if _, err := c.Bot.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		log.Printf("bot: failed to answer callback: %v", err)
	}

	switch data := cq.Data; {
	case data == callbackConfirmPay:
		HandleConfirmPay(c)
	case data == callbackCancelPay:
		HandleCancelPay(c)
	case strings.HasPrefix(data, callbackCurrency):
		HandleCurrency(c, strings.TrimPrefix(data, callbackCurrency))
	case strings.HasPrefix(data, callbackRemove):
		handleRemoveSelected(c, strings.TrimPrefix(data, callbackRemove))
	default:
		c.reply("Unknown action")
	}
}
