package capex

import (
	"errors"
	"fmt"
)

// ErrNoHubs is the hard stop raised when no hub is configured.
var ErrNoHubs = errors.New("at least one hub is required")

// Hubs counts the sites receiving the retrofit. LM and FM hubs are priced
// identically; only their sum matters for the cost math.
type Hubs struct {
	LM      int
	FM      int
	AvgArea float64 // square meters per hub
}

// Total returns the number of hubs across both categories.
func (h Hubs) Total() int {
	return h.LM + h.FM
}

// TotalArea returns the floor area across all hubs.
func (h Hubs) TotalArea() float64 {
	return h.AvgArea * float64(h.Total())
}

// Validate rejects negative counts and configurations without any hub.
func (h Hubs) Validate() error {
	if h.LM < 0 || h.FM < 0 {
		return fmt.Errorf("hub counts cannot be negative (LM=%d, FM=%d)", h.LM, h.FM)
	}
	if h.AvgArea < 0 {
		return fmt.Errorf("average area per hub cannot be negative, got %v", h.AvgArea)
	}
	if h.Total() < 1 {
		return ErrNoHubs
	}
	return nil
}
