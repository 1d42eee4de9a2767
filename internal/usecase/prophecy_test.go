package usecase_test

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-fortune-teller/internal/domain"
	"github.com/fairyhunter13/ai-fortune-teller/internal/usecase"
)

type fakeChain struct {
	prophecy  domain.Prophecy
	getErr    error
	receipt   domain.MintReceipt
	mintErr   error
	mintedURI string
}

func (c *fakeChain) VerifyNetwork(context.Context) error { return nil }

func (c *fakeChain) MintPrice(context.Context) (*big.Int, error) {
	return big.NewInt(1), nil
}

func (c *fakeChain) GetProphecy(context.Context, uint64) (domain.Prophecy, error) {
	return c.prophecy, c.getErr
}

func (c *fakeChain) MintProphecyFor(_ context.Context, _, tokenURI string, _ uint64, _ string) (domain.MintReceipt, error) {
	c.mintedURI = tokenURI
	return c.receipt, c.mintErr
}

func TestMint_PinsMetadataThenMints(t *testing.T) {
	t.Parallel()
	chain := &fakeChain{receipt: domain.MintReceipt{TxHash: "0xabc", TokenID: 9}}
	svc := usecase.NewProphecyService(chain, usecase.NewMetadataService(&fakePinner{uri: "ipfs://QmHash"}))

	out, err := svc.Mint(context.Background(), usecase.MintRequest{
		Recipient:  "0xabcdabcdabcdabcdabcdabcdabcdabcdabcdabcd",
		Score:      85,
		Occupation: "Software Engineer",
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(9), out.Receipt.TokenID)
	assert.Equal(t, "ipfs://QmHash", out.TokenURI)
	assert.Equal(t, "ipfs://QmHash", chain.mintedURI)
}

func TestMint_RespectsSuppliedTokenURI(t *testing.T) {
	t.Parallel()
	chain := &fakeChain{receipt: domain.MintReceipt{TxHash: "0xabc"}}
	svc := usecase.NewProphecyService(chain, usecase.NewMetadataService(nil))

	out, err := svc.Mint(context.Background(), usecase.MintRequest{
		Recipient:  "0xabcdabcdabcdabcdabcdabcdabcdabcdabcdabcd",
		Score:      40,
		Occupation: "Cashier",
		TokenURI:   "ipfs://QmExisting",
	})
	require.NoError(t, err)
	assert.Equal(t, "ipfs://QmExisting", chain.mintedURI)
	assert.Equal(t, "ipfs://QmExisting", out.TokenURI)
}

func TestMint_Validation(t *testing.T) {
	t.Parallel()
	svc := usecase.NewProphecyService(&fakeChain{}, usecase.NewMetadataService(nil))

	_, err := svc.Mint(context.Background(), usecase.MintRequest{Occupation: "Cashier"})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = svc.Mint(context.Background(), usecase.MintRequest{Recipient: "0xabc"})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestMint_UnconfiguredChain(t *testing.T) {
	t.Parallel()
	svc := usecase.NewProphecyService(nil, usecase.NewMetadataService(nil))

	_, err := svc.Mint(context.Background(), usecase.MintRequest{
		Recipient:  "0xabcdabcdabcdabcdabcdabcdabcdabcdabcdabcd",
		Occupation: "Cashier",
	})
	require.ErrorIs(t, err, domain.ErrConfigMissing)
}

func TestGet_ReadsProphecy(t *testing.T) {
	t.Parallel()
	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	chain := &fakeChain{prophecy: domain.Prophecy{TokenID: 4, ResilienceScore: 60, Occupation: "Teacher", Timestamp: ts}}
	svc := usecase.NewProphecyService(chain, usecase.NewMetadataService(nil))

	got, err := svc.Get(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "Teacher", got.Occupation)
}

func TestGet_UnconfiguredChain(t *testing.T) {
	t.Parallel()
	svc := usecase.NewProphecyService(nil, usecase.NewMetadataService(nil))
	_, err := svc.Get(context.Background(), 1)
	require.ErrorIs(t, err, domain.ErrConfigMissing)
}

func TestPayment_Confirm(t *testing.T) {
	t.Parallel()
	svc := usecase.NewPaymentService()

	conf, err := svc.Confirm(context.Background(), "0xabcdabcdabcdabcdabcdabcdabcdabcdabcdabcd")
	require.NoError(t, err)
	assert.NotEmpty(t, conf.ID)
	assert.Len(t, conf.TxHash, 66)
	assert.Equal(t, "0x", conf.TxHash[:2])

	_, err = svc.Confirm(context.Background(), " ")
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}
