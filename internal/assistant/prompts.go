package assistant

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type EmployeeSnapshot struct {
	Name     string
	Salary   decimal.Decimal
	Currency string
}

type PayrollContext struct {
	CompanyName string
	Employees   []EmployeeSnapshot
}

// ByCurrency sums monthly salaries per currency, in first-seen order.
func (pc PayrollContext) ByCurrency() ([]string, map[string]decimal.Decimal) {
	var order []string
	totals := make(map[string]decimal.Decimal)
	for _, e := range pc.Employees {
		if _, ok := totals[e.Currency]; !ok {
			order = append(order, e.Currency)
		}
		totals[e.Currency] = totals[e.Currency].Add(e.Salary)
	}
	return order, totals
}

func SystemPrompt() string {
	return strings.Join([]string{
		"You are WageFlow AI, a smart payroll copilot inside a Telegram bot.",
		"Be concise, practical, and friendly.",
		"Focus on payroll operations, team management, Celo cUSD/cEUR context, and risk checks.",
		"If user asks unrelated topics, politely redirect to payroll, HR ops, and crypto payroll concerns.",
		"Never claim to execute blockchain transfers yourself; instruct the user to use bot commands like /pay.",
		"When giving steps, format them as short numbered lists.",
	}, " ")
}

func UserPrompt(userMessage string, pc PayrollContext) string {
	company := pc.CompanyName
	if company == "" {
		company = "Unknown company"
	}

	order, totals := pc.ByCurrency()
	byCurrency := "No payroll data available yet."
	if len(order) > 0 {
		parts := make([]string, 0, len(order))
		for _, cur := range order {
			parts = append(parts, fmt.Sprintf("%s: %s", cur, totals[cur].StringFixed(2)))
		}
		byCurrency = strings.Join(parts, ", ")
	}

	employees := "none"
	if len(pc.Employees) > 0 {
		parts := make([]string, 0, len(pc.Employees))
		for _, e := range pc.Employees {
			parts = append(parts, fmt.Sprintf("%s (%s %s)", e.Name, e.Salary.StringFixed(2), e.Currency))
		}
		employees = strings.Join(parts, ", ")
	}

	return strings.Join([]string{
		fmt.Sprintf("User message: %q", userMessage),
		"",
		"Current WageFlow context:",
		"- Company: " + company,
		fmt.Sprintf("- Active employees: %d", len(pc.Employees)),
		"- Monthly payroll by currency: " + byCurrency,
		"- Employees: " + employees,
		"",
		"Give a helpful response aligned to this context. Keep it under 120 words.",
	}, "\n")
}
