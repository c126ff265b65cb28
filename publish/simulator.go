package publish

import (
	"context"
	"time"

	"github.com/google/uuid"

	ai "github.com/spetersoncode/postflow"
)

// Simulator is a publisher that records nothing and always succeeds.
// Used when no real destination is configured.
type Simulator struct{}

// NewSimulator creates a simulated publisher.
func NewSimulator() *Simulator {
	return &Simulator{}
}

// Publish returns a synthetic receipt without contacting any service.
func (s *Simulator) Publish(ctx context.Context, draft ai.Draft) (*Receipt, error) {
	return &Receipt{
		PostID:      "sim-" + uuid.New().String(),
		Simulated:   true,
		PublishedAt: time.Now().UTC(),
	}, nil
}

var _ Publisher = (*Simulator)(nil)
