package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/brickforge/brickforge/internal/bblog"
	"github.com/brickforge/brickforge/voxel"
)

// HTTP queries a remote availability service. It is the only suspension
// point in the pipeline (spec.md §5): every call carries ctx so a
// between-layer cancellation unblocks it immediately.
type HTTP struct {
	BaseURL string
	Client  *http.Client
	Logger  bblog.Logger
}

// NewHTTP returns an HTTP oracle pointed at baseURL, with a bounded
// per-request timeout layered on top of whatever deadline ctx carries.
func NewHTTP(baseURL string, logger bblog.Logger) *HTTP {
	return &HTTP{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
		Logger:  bblog.OrNop(logger),
	}
}

type availabilityResponse struct {
	Available *bool `json:"available"`
}

func (h *HTTP) IsAvailable(ctx context.Context, part voxel.PartID, colour voxel.ColourID) (Verdict, error) {
	endpoint := fmt.Sprintf("%s/availability?part=%s&colour=%s",
		h.BaseURL, url.QueryEscape(string(part)), url.QueryEscape(fmt.Sprintf("%d", colour)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Unknown, fmt.Errorf("oracle: building request: %w", err)
	}

	h.Logger.Debugf("oracle: querying %s/%d", part, colour)

	resp, err := h.Client.Do(req)
	if err != nil {
		h.Logger.Warnf("oracle: request for %s/%d failed: %v", part, colour, err)
		return Unknown, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Unknown, fmt.Errorf("oracle: unexpected status %d", resp.StatusCode)
	}

	var body availabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Unknown, fmt.Errorf("oracle: decoding response: %w", err)
	}
	if body.Available == nil {
		return Unknown, nil
	}
	if *body.Available {
		return True, nil
	}
	return False, nil
}
