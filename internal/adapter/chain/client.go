package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/fairyhunter13/ai-fortune-teller/internal/adapter/observability"
	"github.com/fairyhunter13/ai-fortune-teller/internal/config"
	"github.com/fairyhunter13/ai-fortune-teller/internal/domain"
)

// fallbackGasLimit is used when gas estimation fails.
const fallbackGasLimit = 300_000

// Backend is the slice of the Ethereum RPC surface the client needs.
// *ethclient.Client satisfies it.
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Client is the explicitly constructed, dependency-injected contract
// client: created once per process and passed down, no hidden singleton.
type Client struct {
	backend  Backend
	contract common.Address
	chainID  *big.Int

	ownerKey  *ecdsa.PrivateKey
	ownerAddr common.Address

	defaultMintPrice *big.Int
	receiptTimeout   time.Duration
	receiptPoll      time.Duration
}

// Dial connects to the configured RPC endpoint and builds a Client.
func Dial(ctx context.Context, cfg config.Config) (*Client, error) {
	if cfg.NFTContractAddress == "" {
		return nil, fmt.Errorf("%w: NFT_CONTRACT_ADDRESS not set", domain.ErrConfigMissing)
	}
	eth, err := ethclient.DialContext(ctx, cfg.BaseRPCURL)
	if err != nil {
		return nil, fmt.Errorf("%w: dial rpc: %v", domain.ErrUpstreamUnavailable, err)
	}
	return NewClient(eth, cfg)
}

// NewClient builds a Client over an existing backend. The owner key is
// optional; without it only read operations work.
func NewClient(backend Backend, cfg config.Config) (*Client, error) {
	if cfg.NFTContractAddress == "" {
		return nil, fmt.Errorf("%w: NFT_CONTRACT_ADDRESS not set", domain.ErrConfigMissing)
	}
	if !common.IsHexAddress(cfg.NFTContractAddress) {
		return nil, fmt.Errorf("%w: invalid contract address %q", domain.ErrInvalidArgument, cfg.NFTContractAddress)
	}

	defaultPrice, ok := new(big.Int).SetString(cfg.DefaultMintPriceWei, 10)
	if !ok {
		return nil, fmt.Errorf("%w: invalid DEFAULT_MINT_PRICE_WEI %q", domain.ErrInvalidArgument, cfg.DefaultMintPriceWei)
	}

	c := &Client{
		backend:          backend,
		contract:         common.HexToAddress(cfg.NFTContractAddress),
		chainID:          new(big.Int).SetUint64(cfg.ChainID),
		defaultMintPrice: defaultPrice,
		receiptTimeout:   cfg.ReceiptTimeout,
		receiptPoll:      cfg.ReceiptPollInterval,
	}

	if cfg.OwnerPrivateKey != "" {
		key, addr, err := parseOwnerKey(cfg.OwnerPrivateKey)
		if err != nil {
			return nil, err
		}
		c.ownerKey = key
		c.ownerAddr = addr
	}
	return c, nil
}

// parseOwnerKey validates and decodes the owner private key. The key must
// be 0x-prefixed and 66 characters long.
func parseOwnerKey(hexKey string) (*ecdsa.PrivateKey, common.Address, error) {
	if !strings.HasPrefix(hexKey, "0x") {
		return nil, common.Address{}, fmt.Errorf("%w: PRIVATE_KEY must start with 0x", domain.ErrInvalidArgument)
	}
	if len(hexKey) != 66 {
		return nil, common.Address{}, fmt.Errorf("%w: PRIVATE_KEY must be 66 characters (0x + 64 hex chars)", domain.ErrInvalidArgument)
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, common.Address{}, fmt.Errorf("%w: invalid private key: %v", domain.ErrInvalidArgument, err)
	}
	pub, ok := key.Public().(*ecdsa.PublicKey)
	if !ok {
		return nil, common.Address{}, fmt.Errorf("%w: cannot derive public key", domain.ErrInternal)
	}
	return key, crypto.PubkeyToAddress(*pub), nil
}

// VerifyNetwork checks the node's chain id against the configured one.
func (c *Client) VerifyNetwork(ctx context.Context) error {
	id, err := c.backend.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("%w: chain id: %v", domain.ErrUpstreamUnavailable, err)
	}
	if id.Cmp(c.chainID) != 0 {
		return fmt.Errorf("%w: expected chain %s, connected to %s", domain.ErrWrongNetwork, c.chainID, id)
	}
	return nil
}

// MintPrice reads the contract's current mint price. A failed read falls
// back to the configured default so minting keeps working against
// contracts deployed before the price field existed.
func (c *Client) MintPrice(ctx context.Context) (*big.Int, error) {
	data, err := contractABI.Pack("mintPrice")
	if err != nil {
		return nil, fmt.Errorf("%w: pack mintPrice: %v", domain.ErrInternal, err)
	}
	res, err := c.backend.CallContract(ctx, ethereum.CallMsg{To: &c.contract, Data: data}, nil)
	if err != nil || len(res) == 0 {
		slog.Warn("mintPrice read failed, using default",
			slog.Any("error", err),
			slog.String("default_wei", c.defaultMintPrice.String()))
		return new(big.Int).Set(c.defaultMintPrice), nil
	}
	out, err := contractABI.Unpack("mintPrice", res)
	if err != nil || len(out) == 0 {
		slog.Warn("mintPrice decode failed, using default", slog.Any("error", err))
		return new(big.Int).Set(c.defaultMintPrice), nil
	}
	price, ok := out[0].(*big.Int)
	if !ok {
		return new(big.Int).Set(c.defaultMintPrice), nil
	}
	return price, nil
}

type prophecyTuple struct {
	ResilienceScore *big.Int
	Occupation      string
	Timestamp       *big.Int
	UpdateCount     *big.Int
	Recipient       common.Address
}

// GetProphecy reads the on-chain Prophecy struct for tokenID.
func (c *Client) GetProphecy(ctx context.Context, tokenID uint64) (domain.Prophecy, error) {
	data, err := contractABI.Pack("getProphecy", new(big.Int).SetUint64(tokenID))
	if err != nil {
		return domain.Prophecy{}, fmt.Errorf("%w: pack getProphecy: %v", domain.ErrInternal, err)
	}
	res, err := c.backend.CallContract(ctx, ethereum.CallMsg{To: &c.contract, Data: data}, nil)
	if err != nil {
		return domain.Prophecy{}, fmt.Errorf("%w: getProphecy: %v", domain.ErrUpstreamUnavailable, err)
	}
	if len(res) == 0 {
		return domain.Prophecy{}, fmt.Errorf("%w: prophecy %d", domain.ErrNotFound, tokenID)
	}

	out, err := contractABI.Unpack("getProphecy", res)
	if err != nil || len(out) == 0 {
		return domain.Prophecy{}, fmt.Errorf("%w: decode prophecy: %v", domain.ErrInternal, err)
	}
	tup := *abi.ConvertType(out[0], new(prophecyTuple)).(*prophecyTuple)

	return domain.Prophecy{
		TokenID:         tokenID,
		ResilienceScore: tup.ResilienceScore.Uint64(),
		Occupation:      tup.Occupation,
		Timestamp:       time.Unix(tup.Timestamp.Int64(), 0).UTC(),
		UpdateCount:     tup.UpdateCount.Uint64(),
		Recipient:       tup.Recipient.Hex(),
	}, nil
}

// MintProphecyFor mints a prophecy to recipient via the owner-only path,
// waits for the receipt, and recovers the token id from the event log.
func (c *Client) MintProphecyFor(ctx context.Context, recipient, tokenURI string, score uint64, occupation string) (domain.MintReceipt, error) {
	if c.ownerKey == nil {
		return domain.MintReceipt{}, fmt.Errorf("%w: PRIVATE_KEY not set - required for owner minting", domain.ErrConfigMissing)
	}
	if !common.IsHexAddress(recipient) {
		return domain.MintReceipt{}, fmt.Errorf("%w: invalid recipient address", domain.ErrInvalidArgument)
	}

	data, err := contractABI.Pack("mintProphecyFor",
		common.HexToAddress(recipient), tokenURI, new(big.Int).SetUint64(score), occupation)
	if err != nil {
		return domain.MintReceipt{}, fmt.Errorf("%w: pack mintProphecyFor: %v", domain.ErrInternal, err)
	}

	return c.submit(ctx, data, nil)
}

// submit signs and sends a contract call from the owner account, then
// waits for its receipt.
func (c *Client) submit(ctx context.Context, calldata []byte, value *big.Int) (domain.MintReceipt, error) {
	start := time.Now()

	nonce, err := c.backend.PendingNonceAt(ctx, c.ownerAddr)
	if err != nil {
		observability.MintSubmissionsTotal.WithLabelValues("error").Inc()
		return domain.MintReceipt{}, fmt.Errorf("%w: nonce: %v", domain.ErrUpstreamUnavailable, err)
	}
	gasPrice, err := c.backend.SuggestGasPrice(ctx)
	if err != nil {
		observability.MintSubmissionsTotal.WithLabelValues("error").Inc()
		return domain.MintReceipt{}, fmt.Errorf("%w: gas price: %v", domain.ErrUpstreamUnavailable, err)
	}

	msg := ethereum.CallMsg{From: c.ownerAddr, To: &c.contract, Data: calldata, Value: value}
	gasLimit, err := c.backend.EstimateGas(ctx, msg)
	if err != nil {
		gasLimit = fallbackGasLimit
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &c.contract,
		Value:    value,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     calldata,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), c.ownerKey)
	if err != nil {
		observability.MintSubmissionsTotal.WithLabelValues("error").Inc()
		return domain.MintReceipt{}, fmt.Errorf("%w: sign tx: %v", domain.ErrInternal, err)
	}
	if err := c.backend.SendTransaction(ctx, signed); err != nil {
		observability.MintSubmissionsTotal.WithLabelValues("rejected").Inc()
		return domain.MintReceipt{}, fmt.Errorf("%w: send tx: %v", domain.ErrUpstreamUnavailable, err)
	}

	hash := signed.Hash()
	slog.Info("mint transaction submitted",
		slog.String("tx", hash.Hex()),
		slog.Uint64("nonce", nonce))

	receipt, err := c.WaitReceipt(ctx, hash)
	if err != nil {
		observability.MintSubmissionsTotal.WithLabelValues("timeout").Inc()
		return domain.MintReceipt{TxHash: hash.Hex()}, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		observability.MintSubmissionsTotal.WithLabelValues("reverted").Inc()
		return domain.MintReceipt{TxHash: hash.Hex()}, fmt.Errorf("%w: tx %s", domain.ErrTxReverted, hash.Hex())
	}

	observability.MintSubmissionsTotal.WithLabelValues("confirmed").Inc()
	observability.MintConfirmationDuration.Observe(time.Since(start).Seconds())

	out := domain.MintReceipt{TxHash: hash.Hex()}
	if tokenID, ok := DecodeMintedTokenID(receipt.Logs); ok {
		out.TokenID = tokenID
	}
	return out, nil
}

// WaitReceipt polls for the transaction receipt at a constant interval
// until it appears or the bounded timeout elapses.
func (c *Client) WaitReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, c.receiptTimeout)
	defer cancel()

	var receipt *types.Receipt
	operation := func() error {
		r, err := c.backend.TransactionReceipt(ctx, hash)
		if err != nil {
			return err
		}
		receipt = r
		return nil
	}
	policy := backoff.WithContext(backoff.NewConstantBackOff(c.receiptPoll), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("%w: receipt for %s: %v", domain.ErrUpstreamTimeout, hash.Hex(), err)
	}
	return receipt, nil
}

// DecodeMintedTokenID extracts the token id from a ProphecyMinted event
// in the receipt logs. The token id is the second indexed topic.
func DecodeMintedTokenID(logs []*types.Log) (uint64, bool) {
	eventID := contractABI.Events["ProphecyMinted"].ID
	for _, lg := range logs {
		if lg == nil || len(lg.Topics) < 3 {
			continue
		}
		if lg.Topics[0] != eventID {
			continue
		}
		return new(big.Int).SetBytes(lg.Topics[2].Bytes()).Uint64(), true
	}
	return 0, false
}

// ContractAddress returns the configured contract address.
func (c *Client) ContractAddress() string { return c.contract.Hex() }
