package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"
)

const erc20ABI = `[
	{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"stateMutability":"view","type":"function"},
	{"constant":false,"inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"}
]`

// Client signs transfers with the funding wallet's key.
type Client struct {
	rpc     *ethclient.Client
	network Network
	key     *ecdsa.PrivateKey
	address common.Address
	tokens  map[Currency]*bind.BoundContract
}

// Dial connects to rpcURL, or to the network's public endpoint when empty.
func Dial(ctx context.Context, network Network, rpcURL, privateKey string) (*Client, error) {
	if rpcURL == "" {
		rpcURL = network.RPCURL
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(privateKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	parsed, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse erc20 abi: %w", err)
	}

	rpc, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", rpcURL, err)
	}

	c := &Client{
		rpc:     rpc,
		network: network,
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		tokens:  make(map[Currency]*bind.BoundContract, len(network.Tokens)),
	}
	for cur, token := range network.Tokens {
		c.tokens[cur] = bind.NewBoundContract(token.Address, parsed, rpc, rpc, rpc)
	}

	log.Printf("chain: connected to %s, wallet %s", network.Name, ShortenAddress(c.address.Hex()))
	return c, nil
}

func (c *Client) Close() {
	c.rpc.Close()
}

// Address is the funding wallet.
func (c *Client) Address() common.Address {
	return c.address
}

func (c *Client) Network() Network {
	return c.network
}

func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	return c.rpc.ChainID(ctx)
}

func (c *Client) contract(cur Currency) (*bind.BoundContract, error) {
	contract, ok := c.tokens[cur]
	if !ok {
		return nil, fmt.Errorf("unsupported currency %q", cur)
	}
	return contract, nil
}

// TokenBalance returns the funding wallet's balance of cur in base units.
func (c *Client) TokenBalance(ctx context.Context, cur Currency) (*big.Int, error) {
	contract, err := c.contract(cur)
	if err != nil {
		return nil, err
	}
	var out []interface{}
	if err := contract.Call(&bind.CallOpts{Context: ctx}, &out, "balanceOf", c.address); err != nil {
		return nil, fmt.Errorf("could not fetch %s balance: %w", cur, err)
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// NativeBalance returns the funding wallet's CELO balance in wei.
func (c *Client) NativeBalance(ctx context.Context) (*big.Int, error) {
	bal, err := c.rpc.BalanceAt(ctx, c.address, nil)
	if err != nil {
		return nil, fmt.Errorf("could not fetch CELO balance: %w", err)
	}
	return bal, nil
}

type Balances struct {
	Tokens map[Currency]decimal.Decimal
	Native decimal.Decimal
}

// Balances reads every token and the native balance. A failed read is
// logged and reported as zero.
func (c *Client) Balances(ctx context.Context) Balances {
	b := Balances{Tokens: make(map[Currency]decimal.Decimal, len(Currencies))}
	for _, cur := range Currencies {
		token, ok := c.network.Token(cur)
		if !ok {
			continue
		}
		units, err := c.TokenBalance(ctx, cur)
		if err != nil {
			log.Printf("chain: %v", err)
			b.Tokens[cur] = decimal.Zero
			continue
		}
		b.Tokens[cur] = ToDecimal(units, token.Decimals)
	}
	wei, err := c.NativeBalance(ctx)
	if err != nil {
		log.Printf("chain: %v", err)
		wei = new(big.Int)
	}
	b.Native = ToDecimal(wei, NativeDecimals)
	return b
}

// Transfer submits an ERC-20 transfer and returns without waiting for it.
func (c *Client) Transfer(ctx context.Context, to common.Address, amount *big.Int, cur Currency) (*types.Transaction, error) {
	contract, err := c.contract(cur)
	if err != nil {
		return nil, err
	}
	opts, err := bind.NewKeyedTransactorWithChainID(c.key, big.NewInt(c.network.ChainID))
	if err != nil {
		return nil, err
	}
	opts.Context = ctx
	return contract.Transact(opts, "transfer", to, amount)
}

// WaitMined blocks until tx has one confirmation.
func (c *Client) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	return bind.WaitMined(ctx, c.rpc, tx)
}
