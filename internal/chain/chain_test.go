package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "1", want: "1000000000000000000"},
		{in: "0.5", want: "500000000000000000"},
		{in: "1500.25", want: "1500250000000000000000"},
		{in: "0.000000000000000001", want: "1"},
		{in: "0.0000000000000000001", wantErr: true},
		{in: "0", wantErr: true},
		{in: "0.00", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "1e3", wantErr: true},
		{in: ".5", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in, 18)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Fatalf("expected ErrInvalidAmount, got %v (%v)", err, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestFormatUnits(t *testing.T) {
	units, _ := new(big.Int).SetString("1500250000000000000000", 10)
	if got := FormatUnits(units, 18); got != "1500.25" {
		t.Fatalf("expected 1500.25, got %s", got)
	}
	if got := FormatUnits(nil, 18); got != "0" {
		t.Fatalf("expected 0 for nil, got %s", got)
	}
}

func TestIsValidAddress(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0x52908400098527886E0F7030069857D2E4169EE7", true},
		{"0x52908400098527886e0f7030069857d2e4169ee7", true},
		{"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", true},
		{"0x5aaeb6053F3E94C9b9A09f33669435E7Ef1BeAed", false},
		{"0x52908400098527886E0F7030069857D2E4169Ee7", false},
		{"0x52908400098527886E0F7030069857D2E4169EE", false},
		{"52908400098527886E0F7030069857D2E4169EE7", false},
		{"0xZZ908400098527886E0F7030069857D2E4169EE7", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidAddress(tt.in); got != tt.want {
			t.Errorf("IsValidAddress(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestZeroAddress(t *testing.T) {
	if !IsValidAddress(ZeroAddress) {
		t.Fatal("zero address should be syntactically valid")
	}
	if !IsZeroAddress(ZeroAddress) {
		t.Fatal("expected zero address to be detected")
	}
	if IsZeroAddress("0x52908400098527886E0F7030069857D2E4169EE7") {
		t.Fatal("non-zero address reported as zero")
	}
}

func TestShortenAddress(t *testing.T) {
	if got := ShortenAddress("0x52908400098527886E0F7030069857D2E4169EE7"); got != "0x5290...9EE7" {
		t.Fatalf("unexpected short form: %s", got)
	}
	if got := ShortenAddress("0x1234"); got != "0x1234" {
		t.Fatalf("short input should be unchanged, got %s", got)
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "insufficient funds", err: errors.New("insufficient funds for gas * price + value"), want: MsgInsufficientGas},
		{name: "nonce", err: errors.New("nonce too low"), want: MsgNonce},
		{name: "nonce too high", err: errors.New("rpc error: Nonce too high"), want: MsgNonce},
		{name: "nonce lookup refused", err: errors.New("failed to get nonce: dial tcp: connection refused"), want: MsgNetwork},
		{name: "nonce lookup timeout", err: fmt.Errorf("failed to get nonce: %w", context.DeadlineExceeded), want: MsgTimeout},
		{name: "deadline", err: fmt.Errorf("wait: %w", context.DeadlineExceeded), want: MsgTimeout},
		{name: "net timeout", err: timeoutErr{}, want: MsgTimeout},
		{name: "op error", err: &net.OpError{Op: "dial", Err: errors.New("refused")}, want: MsgNetwork},
		{name: "refused text", err: errors.New("dial tcp: connection refused"), want: MsgNetwork},
		{name: "raw", err: errors.New("execution reverted: paused"), want: "execution reverted: paused"},
		{name: "empty", err: errors.New("  "), want: MsgUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
	if ClassifyError(nil) != "" {
		t.Fatal("nil error should classify as empty")
	}
}

func TestLookupNetwork(t *testing.T) {
	n, err := LookupNetwork("Alfajores")
	if err != nil {
		t.Fatalf("LookupNetwork returned error: %v", err)
	}
	if n.ChainID != 44787 {
		t.Fatalf("unexpected chain id %d", n.ChainID)
	}
	if tok, ok := n.Token(CUSD); !ok || tok.Address.Hex() != "0x874069Fa1Eb16D44d622F2e0Ca25eeA172369bC1" {
		t.Fatalf("unexpected cUSD token: %+v", tok)
	}
	if got := n.TxLink("0xabc"); got != "https://alfajores.celoscan.io/tx/0xabc" {
		t.Fatalf("unexpected tx link %s", got)
	}
	if _, err := LookupNetwork("ropsten"); err == nil {
		t.Fatal("expected error for unknown network")
	}
}

func TestParseCurrency(t *testing.T) {
	if c, ok := ParseCurrency("cEUR"); !ok || c != CEUR {
		t.Fatalf("expected cEUR, got %q", c)
	}
	if _, ok := ParseCurrency("CUSD"); ok {
		t.Fatal("currency symbols are case-sensitive")
	}
}
