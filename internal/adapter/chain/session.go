package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/fairyhunter13/ai-fortune-teller/internal/domain"
)

// MintState names a state of the mint flow.
type MintState string

const (
	StateDisconnected MintState = "disconnected"
	StateWrongNetwork MintState = "wrong-network"
	StateReady        MintState = "ready"
	StateApproving    MintState = "approving"
	StateConfirming   MintState = "confirming"
	StateMinted       MintState = "minted"
	StateError        MintState = "error"
)

// MintSession drives one user's mint through the flow
// disconnected -> wrong-network -> ready -> approving -> confirming ->
// minted, with error reachable from ready, approving and confirming.
// After a successful mint, further Mint calls are no-ops returning the
// recorded receipt; exactly one transaction is ever submitted.
type MintSession struct {
	client *Client

	mu      sync.Mutex
	state   MintState
	minted  bool
	receipt domain.MintReceipt
	lastErr error
}

// NewMintSession starts a session in the disconnected state.
func NewMintSession(client *Client) *MintSession {
	return &MintSession{client: client, state: StateDisconnected}
}

// State returns the current state.
func (s *MintSession) State() MintState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the error recorded in the error state, if any.
func (s *MintSession) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Connect verifies the network and moves the session to ready, or to
// wrong-network on a chain-id mismatch. Calling it again after a network
// switch re-runs the check, which is the wrong-network -> ready
// transition.
func (s *MintSession) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.minted {
		return nil
	}
	if err := s.client.VerifyNetwork(ctx); err != nil {
		if errors.Is(err, domain.ErrWrongNetwork) {
			s.state = StateWrongNetwork
		} else {
			s.state = StateError
			s.lastErr = err
		}
		return err
	}
	s.state = StateReady
	return nil
}

// Mint submits the payable mintProphecy call with value equal to the
// on-chain mint price (or the default when the read fails) and waits for
// confirmation. Re-invoking after success returns the recorded receipt
// without submitting anything.
func (s *MintSession) Mint(ctx context.Context, tokenURI string, score uint64, occupation string) (domain.MintReceipt, error) {
	s.mu.Lock()
	if s.minted {
		r := s.receipt
		s.mu.Unlock()
		return r, nil
	}
	if s.state != StateReady {
		state := s.state
		s.mu.Unlock()
		return domain.MintReceipt{}, fmt.Errorf("%w: mint not ready (state %s)", domain.ErrInvalidArgument, state)
	}
	s.state = StateApproving
	s.mu.Unlock()

	receipt, err := s.submitAndConfirm(ctx, tokenURI, score, occupation)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateError
		s.lastErr = err
		return receipt, err
	}
	s.state = StateMinted
	s.minted = true
	s.receipt = receipt
	return receipt, nil
}

func (s *MintSession) submitAndConfirm(ctx context.Context, tokenURI string, score uint64, occupation string) (domain.MintReceipt, error) {
	if s.client.ownerKey == nil {
		return domain.MintReceipt{}, fmt.Errorf("%w: no signing key for mint", domain.ErrConfigMissing)
	}

	price, err := s.client.MintPrice(ctx)
	if err != nil {
		return domain.MintReceipt{}, err
	}

	calldata, err := contractABI.Pack("mintProphecy", tokenURI, new(big.Int).SetUint64(score), occupation)
	if err != nil {
		return domain.MintReceipt{}, fmt.Errorf("%w: pack mintProphecy: %v", domain.ErrInternal, err)
	}

	s.setState(StateConfirming)
	return s.client.submit(ctx, calldata, price)
}

func (s *MintSession) setState(st MintState) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Retry moves the session out of the error state back to ready so the
// user can re-trigger the mint. It is a no-op in other states.
func (s *MintSession) Retry() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateError && !s.minted {
		s.state = StateReady
		s.lastErr = nil
	}
}
