package commands

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/susu3304/wageflow/internal/chain"
	"github.com/susu3304/wageflow/internal/db"
)

// Telegram rejects messages longer than this.
const maxMessageLength = 4096

// splitMessage cuts text into chunks of at most limit bytes, preferring line
// breaks. It always returns at least one chunk.
func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var buffer strings.Builder
	for _, line := range strings.Split(text, "\n") {
		for len(line) > limit {
			if buffer.Len() > 0 {
				chunks = append(chunks, buffer.String())
				buffer.Reset()
			}
			cut := limit
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			chunks = append(chunks, line[:cut])
			line = line[cut:]
		}
		if buffer.Len() > 0 && buffer.Len()+len(line)+1 > limit {
			chunks = append(chunks, buffer.String())
			buffer.Reset()
		}
		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(line)
	}
	if buffer.Len() > 0 {
		chunks = append(chunks, buffer.String())
	}
	return chunks
}

// formatMoney renders 1234.5 as "1,234.50 cUSD".
func formatMoney(amount decimal.Decimal, currency string) string {
	s := amount.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + "." + frac + " " + currency
}

// currencyTotals groups salaries per currency in the supported-token order.
func currencyTotals(employees []db.Employee) ([]string, map[string]decimal.Decimal) {
	totals := make(map[string]decimal.Decimal)
	for _, e := range employees {
		totals[e.PreferredCurrency] = totals[e.PreferredCurrency].Add(e.SalaryAmount)
	}
	var order []string
	for _, cur := range chain.Currencies {
		if _, ok := totals[string(cur)]; ok {
			order = append(order, string(cur))
		}
	}
	for cur := range totals {
		if _, ok := chain.ParseCurrency(cur); !ok {
			order = append(order, cur)
		}
	}
	return order, totals
}
