package chain

import (
	"errors"
	"math/big"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// NativeDecimals is the precision of the CELO gas token.
const NativeDecimals = 18

var (
	ErrInvalidAmount = errors.New("chain: invalid amount")

	amountPattern  = regexp.MustCompile(`^\d+(\.\d+)?$`)
	addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
)

// ZeroAddress is stored for employees whose wallet is not known yet.
var ZeroAddress = common.Address{}.Hex()

// ParseAmount converts a plain decimal string into base units. It rejects
// signs, exponents, zero and anything finer than the token's precision.
func ParseAmount(amount string, decimals int32) (*big.Int, error) {
	if !amountPattern.MatchString(amount) {
		return nil, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, ErrInvalidAmount
	}
	units := d.Shift(decimals)
	if !units.IsInteger() || !units.IsPositive() {
		return nil, ErrInvalidAmount
	}
	return units.BigInt(), nil
}

// ToDecimal converts base units into a token amount.
func ToDecimal(units *big.Int, decimals int32) decimal.Decimal {
	if units == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(units, -decimals)
}

// FormatUnits renders base units the way explorers do, without trailing zeros.
func FormatUnits(units *big.Int, decimals int32) string {
	return ToDecimal(units, decimals).String()
}

// IsValidAddress accepts 0x + 40 hex characters. Mixed-case input must carry
// a correct EIP-55 checksum.
func IsValidAddress(s string) bool {
	if !addressPattern.MatchString(s) {
		return false
	}
	hex := s[2:]
	if strings.ToLower(hex) == hex || strings.ToUpper(hex) == hex {
		return true
	}
	return common.HexToAddress(s).Hex() == s
}

func IsZeroAddress(s string) bool {
	return common.HexToAddress(s) == (common.Address{})
}

// ShortenAddress keeps the first 6 and last 4 characters.
func ShortenAddress(s string) string {
	if len(s) < 10 {
		return s
	}
	return s[:6] + "..." + s[len(s)-4:]
}
