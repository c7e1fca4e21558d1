package payroll

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/susu3304/wageflow/internal/chain"
)

type Summary struct {
	RunID     string
	Total     int
	Succeeded int
	Failed    int
	// Paid sums the successful amounts per currency.
	Paid map[chain.Currency]decimal.Decimal
	Text string
}

// Summarize counts the results and renders an itemized report.
func Summarize(results []Result, network chain.Network) Summary {
	s := Summary{Total: len(results), Paid: make(map[chain.Currency]decimal.Decimal)}

	var b strings.Builder
	for _, r := range results {
		if s.RunID == "" {
			s.RunID = r.RunID
		}
		if r.Success {
			s.Succeeded++
			if amount, err := decimal.NewFromString(r.Amount); err == nil {
				s.Paid[r.Currency] = s.Paid[r.Currency].Add(amount)
			}
			fmt.Fprintf(&b, "✅ %s: %s %s\n   %s\n", r.Name, r.Amount, r.Currency, network.TxLink(r.TxHash))
			continue
		}
		fmt.Fprintf(&b, "❌ %s: %s\n", r.Name, r.Error)
		if r.SubmittedHash != "" {
			fmt.Fprintf(&b, "   %s\n", network.TxLink(r.SubmittedHash))
		}
	}
	s.Failed = s.Total - s.Succeeded

	header := "✅ Payroll Complete!"
	switch {
	case s.Succeeded == 0:
		header = "❌ Payroll Failed"
	case s.Failed > 0:
		header = "⚠️ Payroll Partially Complete"
	}

	var text strings.Builder
	fmt.Fprintf(&text, "%s\n\n%d/%d succeeded\n\n", header, s.Succeeded, s.Total)
	text.WriteString(b.String())
	if len(s.Paid) > 0 {
		text.WriteString("\nPaid:\n")
		for _, cur := range chain.Currencies {
			if total, ok := s.Paid[cur]; ok {
				fmt.Fprintf(&text, "• %s %s\n", total.StringFixed(2), cur)
			}
		}
	}
	if s.RunID != "" {
		fmt.Fprintf(&text, "\nRun %s", s.RunID)
	}
	s.Text = strings.TrimRight(text.String(), "\n")
	return s
}
