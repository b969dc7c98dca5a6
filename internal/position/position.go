package position

import (
	"fmt"
	"sync"

	"visit-route-planner/internal/models"
)

// Reasons a live position could not be produced. The distinction only
// matters for user messaging; every one of them refuses geo-ordering,
// there is no default origin.
const (
	ReasonDenied      = "denied"
	ReasonUnavailable = "unavailable"
	ReasonTimeout     = "timeout"
)

// ErrPositionUnavailable reports why the operator position is missing
type ErrPositionUnavailable struct {
	Reason string
}

func (e *ErrPositionUnavailable) Error() string {
	return fmt.Sprintf("position unavailable: %s", e.Reason)
}

// Provider supplies the operator's current position, used as the
// origin for geo-ordering.
type Provider interface {
	Current() (*models.Coordinates, error)
}

// SessionProvider holds the last position pushed by the interaction
// layer (browser geolocation). Until one arrives, or after a denial,
// Current fails with a typed reason.
type SessionProvider struct {
	mu     sync.RWMutex
	coords *models.Coordinates
	reason string
}

// NewSessionProvider starts with no position
func NewSessionProvider() *SessionProvider {
	return &SessionProvider{reason: ReasonUnavailable}
}

// Update records a fresh position fix
func (p *SessionProvider) Update(coords models.Coordinates) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.coords = &coords
	p.reason = ""
}

// Fail records that the interaction layer could not obtain a position.
// Unknown reasons are normalized to unavailable.
func (p *SessionProvider) Fail(reason string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.coords = nil
	switch reason {
	case ReasonDenied, ReasonTimeout:
		p.reason = reason
	default:
		p.reason = ReasonUnavailable
	}
}

func (p *SessionProvider) Current() (*models.Coordinates, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.coords == nil {
		return nil, &ErrPositionUnavailable{Reason: p.reason}
	}
	cp := *p.coords
	return &cp, nil
}

// StaticProvider always returns the same fixed position
type StaticProvider struct {
	Coords models.Coordinates
}

func (p *StaticProvider) Current() (*models.Coordinates, error) {
	cp := p.Coords
	return &cp, nil
}
