package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/fairyhunter13/ai-fortune-teller/internal/domain"
)

// ProphecyService mints prophecy NFTs server-side through the owner
// account and reads minted prophecies back from the contract.
type ProphecyService struct {
	chain    domain.ChainClient
	metadata *MetadataService
}

func NewProphecyService(chain domain.ChainClient, metadata *MetadataService) *ProphecyService {
	return &ProphecyService{chain: chain, metadata: metadata}
}

// MintRequest is one server-side mint order.
type MintRequest struct {
	Recipient  string `json:"address" validate:"required"`
	Score      int    `json:"score" validate:"min=0,max=100"`
	Occupation string `json:"occupation" validate:"required"`
	RiskLevel  string `json:"riskLevel"`
	Outlook    string `json:"outlook"`
	ImageURL   string `json:"imageUrl"`
	TokenURI   string `json:"tokenUri"`
}

// MintOutcome is the confirmed result of a mint.
type MintOutcome struct {
	Receipt  domain.MintReceipt
	TokenURI string
}

// Mint pins metadata (unless a token URI was supplied) and submits the
// owner-only mint, waiting for on-chain confirmation.
func (s *ProphecyService) Mint(ctx context.Context, req MintRequest) (MintOutcome, error) {
	if strings.TrimSpace(req.Recipient) == "" {
		return MintOutcome{}, fmt.Errorf("%w: recipient address required", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(req.Occupation) == "" {
		return MintOutcome{}, fmt.Errorf("%w: occupation required", domain.ErrInvalidArgument)
	}
	if s.chain == nil {
		return MintOutcome{}, fmt.Errorf("%w: minting not configured", domain.ErrConfigMissing)
	}

	tokenURI := req.TokenURI
	if tokenURI == "" {
		upload, err := s.metadata.Upload(ctx, req.Score, req.Occupation, req.RiskLevel, req.Outlook, req.ImageURL)
		if err != nil {
			return MintOutcome{}, err
		}
		tokenURI = upload.URI
	}

	receipt, err := s.chain.MintProphecyFor(ctx, req.Recipient, tokenURI, uint64(req.Score), req.Occupation)
	if err != nil {
		return MintOutcome{}, err
	}
	return MintOutcome{Receipt: receipt, TokenURI: tokenURI}, nil
}

// Get reads one prophecy from the contract.
func (s *ProphecyService) Get(ctx context.Context, tokenID uint64) (domain.Prophecy, error) {
	if s.chain == nil {
		return domain.Prophecy{}, fmt.Errorf("%w: chain client not configured", domain.ErrConfigMissing)
	}
	return s.chain.GetProphecy(ctx, tokenID)
}
