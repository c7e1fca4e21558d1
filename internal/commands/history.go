package commands

import (
	"fmt"
	"log"
	"strings"

	"github.com/susu3304/wageflow/internal/db"
)

const historyLimit = 10

func HandleHistory(c *Context) {
	company, ok := c.company()
	if !ok {
		return
	}

	payments, err := c.Deps.Ledger.RecentPayments(c.Ctx, company.ID, historyLimit)
	if err != nil {
		log.Printf("commands: failed to load payments for company %d: %v", company.ID, err)
		c.reply("❌ Could not load payment history. Please try again.")
		return
	}
	if len(payments) == 0 {
		c.reply("No payments yet. Run payroll with /pay")
		return
	}

	network := c.Deps.Wallet.Network()
	var b strings.Builder
	fmt.Fprintf(&b, "🧾 Recent Payments (%d)\n\n", len(payments))
	for _, p := range payments {
		icon := "✅"
		if p.Status != db.PaymentCompleted {
			icon = "❌"
		}
		fmt.Fprintf(&b, "%s %s: %s · %s\n", icon, p.EmployeeName, formatMoney(p.Amount, p.Currency), p.CreatedAt.Format("Jan 2, 2006"))
		if p.TxHash != "" && p.TxHash != db.FailedTxHash {
			fmt.Fprintf(&b, "   %s\n", network.TxLink(p.TxHash))
		}
	}
	c.reply(strings.TrimRight(b.String(), "\n"))
}
