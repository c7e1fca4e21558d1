package commands

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/susu3304/wageflow/internal/chain"
)

var (
	pinPattern    = regexp.MustCompile(`^\d{4}$`)
	salaryPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
)

const maxNameLength = 255

// maxSalary is the first value that does not fit NUMERIC(12,2).
var maxSalary = decimal.New(1, 10)

func isValidPIN(s string) bool {
	return pinPattern.MatchString(s)
}

// parseSalary accepts a positive amount with at most two decimals.
func parseSalary(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if !salaryPattern.MatchString(s) {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() || !d.LessThan(maxSalary) {
		return decimal.Zero, false
	}
	return d, true
}

// parseWallet resolves "skip" to the zero-address placeholder.
func parseWallet(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "skip") {
		return chain.ZeroAddress, true
	}
	return s, chain.IsValidAddress(s)
}

func parseName(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxNameLength {
		return "", false
	}
	return s, true
}

func parseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
