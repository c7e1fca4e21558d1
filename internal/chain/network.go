// Package chain talks to a Celo JSON-RPC endpoint and moves ERC-20 stablecoins
// from the funding wallet.
package chain

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

type Currency string

const (
	CUSD Currency = "cUSD"
	CEUR Currency = "cEUR"
)

// Currencies lists the supported tokens in display order.
var Currencies = []Currency{CUSD, CEUR}

// ParseCurrency accepts the exact token symbol.
func ParseCurrency(s string) (Currency, bool) {
	for _, c := range Currencies {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

type Token struct {
	Symbol   Currency
	Address  common.Address
	Decimals int32
}

type Network struct {
	Name        string
	ChainID     int64
	RPCURL      string
	ExplorerURL string
	Tokens      map[Currency]Token
}

var networks = map[string]Network{
	"alfajores": {
		Name:        "Celo Alfajores Testnet",
		ChainID:     44787,
		RPCURL:      "https://alfajores-forno.celo-testnet.org",
		ExplorerURL: "https://alfajores.celoscan.io",
		Tokens: map[Currency]Token{
			CUSD: {Symbol: CUSD, Address: common.HexToAddress("0x874069Fa1Eb16D44d622F2e0Ca25eeA172369bC1"), Decimals: 18},
			CEUR: {Symbol: CEUR, Address: common.HexToAddress("0x10c892A6EC43a53E45D0B916B4b7D383B1b78C0F"), Decimals: 18},
		},
	},
	"mainnet": {
		Name:        "Celo Mainnet",
		ChainID:     42220,
		RPCURL:      "https://forno.celo.org",
		ExplorerURL: "https://celoscan.io",
		Tokens: map[Currency]Token{
			CUSD: {Symbol: CUSD, Address: common.HexToAddress("0x765DE816845861e75A25fCA122bb6898B8B1282a"), Decimals: 18},
			CEUR: {Symbol: CEUR, Address: common.HexToAddress("0xD8763CBa276a3738E6DE85b4b3bF5FDed6D6cA73"), Decimals: 18},
		},
	},
}

func LookupNetwork(name string) (Network, error) {
	n, ok := networks[strings.ToLower(name)]
	if !ok {
		return Network{}, fmt.Errorf("unknown celo network %q", name)
	}
	return n, nil
}

func (n Network) Token(c Currency) (Token, bool) {
	t, ok := n.Tokens[c]
	return t, ok
}

func (n Network) TxLink(hash string) string {
	return n.ExplorerURL + "/tx/" + hash
}

func (n Network) AddressLink(address string) string {
	return n.ExplorerURL + "/address/" + address
}
