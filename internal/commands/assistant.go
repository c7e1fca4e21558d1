package commands

import (
	"errors"
	"log"

	"github.com/susu3304/wageflow/internal/assistant"
	"github.com/susu3304/wageflow/internal/db"
)

func handleFreeText(c *Context) {
	if c.Deps.Assistant == nil {
		c.reply(idleHelp)
		return
	}

	c.typing()
	answer, err := c.Deps.Assistant.Reply(c.Ctx, c.Text, payrollContext(c))
	if err != nil {
		log.Printf("assistant: reply failed for %d: %v", c.UserID, err)
		c.reply(idleHelp)
		return
	}
	if answer == "" {
		c.reply(idleHelp)
		return
	}
	c.reply(answer)
}

func payrollContext(c *Context) assistant.PayrollContext {
	var pc assistant.PayrollContext
	company, err := c.Deps.Ledger.CompanyByOwner(c.Ctx, c.UserID)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			log.Printf("assistant: failed to load company for %d: %v", c.UserID, err)
		}
		return pc
	}
	pc.CompanyName = company.Name

	employees, err := c.Deps.Ledger.ActiveEmployees(c.Ctx, company.ID)
	if err != nil {
		log.Printf("assistant: failed to load employees for company %d: %v", company.ID, err)
		return pc
	}
	for _, e := range employees {
		pc.Employees = append(pc.Employees, assistant.EmployeeSnapshot{
			Name:     e.Name,
			Salary:   e.SalaryAmount,
			Currency: e.PreferredCurrency,
		})
	}
	return pc
}
