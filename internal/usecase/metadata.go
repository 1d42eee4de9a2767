package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fairyhunter13/ai-fortune-teller/internal/adapter/observability"
	"github.com/fairyhunter13/ai-fortune-teller/internal/domain"
)

// MetadataService builds NFT metadata and pins it to IPFS. Upload never
// fails: a pin failure or missing Pinata credentials degrade to a
// placeholder URI so the mint flow keeps working.
type MetadataService struct {
	pinner domain.Pinner
	now    func() time.Time
}

func NewMetadataService(pinner domain.Pinner) *MetadataService {
	return &MetadataService{pinner: pinner, now: time.Now}
}

// UploadResult carries the pinned (or placeholder) URI and the metadata
// that was uploaded.
type UploadResult struct {
	URI         string             `json:"ipfsUri"`
	Metadata    domain.NFTMetadata `json:"metadata"`
	Placeholder bool               `json:"-"`
}

// Upload pins prophecy metadata for a scored occupation. score must be
// in [0,100] and occupation non-empty.
func (s *MetadataService) Upload(ctx context.Context, score int, occupation, riskLevel, outlook, imageURL string) (UploadResult, error) {
	if score < 0 || score > 100 {
		return UploadResult{}, fmt.Errorf("%w: score must be between 0 and 100", domain.ErrInvalidArgument)
	}
	if occupation == "" {
		return UploadResult{}, fmt.Errorf("%w: occupation required", domain.ErrInvalidArgument)
	}

	meta := domain.BuildNFTMetadata(score, occupation, riskLevel, outlook, imageURL)

	if s.pinner != nil {
		uri, err := s.pinner.PinJSON(ctx, meta.Name, meta)
		if err == nil {
			observability.PinAttemptsTotal.WithLabelValues("pinned").Inc()
			return UploadResult{URI: uri, Metadata: meta}, nil
		}
		slog.Warn("ipfs pin failed, using placeholder uri",
			slog.String("occupation", occupation),
			slog.Any("error", err))
	}

	observability.PinAttemptsTotal.WithLabelValues("placeholder").Inc()
	uri := fmt.Sprintf("ipfs://placeholder_%d_%d_%s", s.now().UnixMilli(), score, occupation)
	return UploadResult{URI: uri, Metadata: meta, Placeholder: true}, nil
}
