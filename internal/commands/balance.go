package commands

import (
	"fmt"
	"strings"

	"github.com/susu3304/wageflow/internal/chain"
)

func HandleBalance(c *Context) {
	company, ok := c.company()
	if !ok {
		return
	}
	employees, ok := c.activeEmployees(company.ID)
	if !ok {
		return
	}

	c.reply("⏳ Checking wallet balances...")
	c.typing()

	address := c.Deps.Wallet.Address().Hex()
	balances := c.Deps.Wallet.Balances(c.Ctx)

	var b strings.Builder
	b.WriteString("💰 Wallet Balance\n")
	b.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")
	fmt.Fprintf(&b, "📍 Address: %s\n\n", chain.ShortenAddress(address))

	b.WriteString("📊 Balances:\n")
	for _, cur := range chain.Currencies {
		fmt.Fprintf(&b, "   %s : %s\n", cur, balances.Tokens[cur].StringFixed(2))
	}
	fmt.Fprintf(&b, "   CELO : %s\n\n", balances.Native.StringFixed(4))

	order, totals := currencyTotals(employees)
	if len(order) > 0 {
		b.WriteString("📋 Payroll Required:\n")
		for _, cur := range order {
			status := "✅"
			if balances.Tokens[chain.Currency(cur)].LessThan(totals[cur]) {
				status = "⚠️ Low"
			}
			fmt.Fprintf(&b, "   %s: %s %s\n", cur, totals[cur].StringFixed(2), status)
		}
		b.WriteString("\n")
	}

	b.WriteString("🔗 View on Explorer:\n")
	b.WriteString(c.Deps.Wallet.Network().AddressLink(address))
	c.reply(b.String())
}
