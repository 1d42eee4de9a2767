package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/fairyhunter13/ai-fortune-teller/internal/domain"
)

// PaymentService simulates the premium-unlock payment. Real on-chain
// transfers are out of scope; the service fabricates a transaction hash
// and records the confirmation so the flow is exercisable end to end.
type PaymentService struct{}

func NewPaymentService() *PaymentService {
	return &PaymentService{}
}

// PaymentConfirmation is the simulated payment outcome.
type PaymentConfirmation struct {
	ID      string `json:"id"`
	TxHash  string `json:"txHash"`
	Message string `json:"message"`
}

// Confirm validates the payer address and returns a simulated
// confirmation with a fabricated 32-byte transaction hash.
func (s *PaymentService) Confirm(_ context.Context, address string) (PaymentConfirmation, error) {
	if strings.TrimSpace(address) == "" {
		return PaymentConfirmation{}, fmt.Errorf("%w: wallet address required", domain.ErrInvalidArgument)
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return PaymentConfirmation{}, fmt.Errorf("%w: generate tx hash: %v", domain.ErrInternal, err)
	}

	conf := PaymentConfirmation{
		ID:      uuid.NewString(),
		TxHash:  "0x" + hex.EncodeToString(buf),
		Message: "Payment confirmed (testnet simulation)",
	}
	slog.Info("premium payment confirmed",
		slog.String("payment_id", conf.ID),
		slog.String("address", address))
	return conf, nil
}
