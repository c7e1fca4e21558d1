package commands

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/susu3304/wageflow/internal/db"
)

// HandleRemoveEmployee lists active employees as buttons. Removing one marks
// it inactive so payroll skips it; payment history is kept.
func HandleRemoveEmployee(c *Context) {
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

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(employees))
	for _, e := range employees {
		label := fmt.Sprintf("%s (%s)", e.Name, formatMoney(e.SalaryAmount, e.PreferredCurrency))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, callbackRemove+strconv.FormatInt(e.ID, 10)),
		))
	}
	c.replyWithKeyboard("Who should be removed from payroll?", tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func handleRemoveSelected(c *Context, rawID string) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		c.edit("Unknown action")
		return
	}
	company, ok := c.company()
	if !ok {
		return
	}

	err = c.Deps.Ledger.SetEmployeeStatus(c.Ctx, company.ID, id, db.EmployeeInactive)
	switch {
	case errors.Is(err, db.ErrNotFound):
		c.edit("❌ Employee not found.")
	case err != nil:
		log.Printf("commands: failed to deactivate employee %d: %v", id, err)
		c.edit("❌ Could not remove employee. Please try again.")
	default:
		c.edit("✅ Employee removed from payroll.")
	}
}
