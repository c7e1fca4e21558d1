package chain

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"
)

const (
	MsgInsufficientGas = "Not enough CELO for gas fees"
	MsgNonce           = "Transaction nonce error. Please try again"
	MsgNetwork         = "Network connection issue. Please try again"
	MsgTimeout         = "Transaction timed out. Check the blockchain explorer"
	MsgReverted        = "Transaction reverted"
	MsgUnknown         = "Unknown error"
)

// ClassifyError turns a provider error into a message fit for a chat reply.
func ClassifyError(err error) string {
	if err == nil {
		return ""
	}
	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "insufficient funds"):
		return MsgInsufficientGas
	case isTimeout(err, lower):
		return MsgTimeout
	case isNetworkError(err, lower):
		return MsgNetwork
	case isNonceError(lower):
		return MsgNonce
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return MsgUnknown
}

var nonceErrors = []string{
	"nonce too low",
	"nonce too high",
	"invalid nonce",
	"nonce has already been used",
}

func isNonceError(lower string) bool {
	for _, phrase := range nonceErrors {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

func isTimeout(err error, lower string) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return strings.Contains(lower, "timeout") || strings.Contains(lower, "timed out")
}

func isNetworkError(err error, lower string) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	return strings.Contains(lower, "connection refused") ||
		strings.Contains(lower, "connection reset") ||
		strings.Contains(lower, "no such host")
}
