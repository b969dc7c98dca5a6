package itinerary

import (
	"context"
	"fmt"
	"log"
	"sync"

	"visit-route-planner/internal/database"
	"visit-route-planner/internal/distance"
	"visit-route-planner/internal/geocoding"
	"visit-route-planner/internal/models"
)

// ErrStopNotFound is returned when a mutation names an unknown stop
type ErrStopNotFound struct {
	CustomerID string
}

func (e *ErrStopNotFound) Error() string {
	return fmt.Sprintf("no stop for customer %s", e.CustomerID)
}

// State owns the working itinerary. Every mutation resolves missing
// coordinates, recomputes all legs over the full ordered list and
// autosaves a draft. Recomputes carry a version: when a newer mutation
// lands while one is in flight, the superseded result is discarded at
// apply time (last mutation wins).
type State struct {
	mu         sync.Mutex
	version    uint64
	itinerary  models.Itinerary
	geocoder   geocoding.Geocoder
	calc       distance.Calculator
	drafts     database.DraftRepository
	operatorID string
}

// New creates an empty itinerary state
func New(geocoder geocoding.Geocoder, calc distance.Calculator, drafts database.DraftRepository, operatorID string) *State {
	return &State{
		geocoder:   geocoder,
		calc:       calc,
		drafts:     drafts,
		operatorID: operatorID,
	}
}

// Snapshot returns a deep copy of the current itinerary
func (s *State) Snapshot() models.Itinerary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyItinerary(s.itinerary)
}

// AddStop appends a visiting stop for the customer and recomputes.
// A customer already present is not added twice. A customer's known
// coordinate always wins; geocoding runs only when it is absent.
func (s *State) AddStop(ctx context.Context, customer models.Customer) (models.Itinerary, error) {
	s.mu.Lock()
	for i := range s.itinerary.Stops {
		if s.itinerary.Stops[i].Customer.ID == customer.ID {
			log.Printf("[ITINERARY] Stop already present: customer=%s", customer.ID)
			snap := copyItinerary(s.itinerary)
			s.mu.Unlock()
			return snap, nil
		}
	}

	order := len(s.itinerary.Stops) + 1
	s.itinerary.Stops = append(s.itinerary.Stops, models.Stop{
		Customer: customer,
		Order:    order,
		Coords:   customer.KnownCoords(),
	})
	version := s.bumpLocked()
	s.mu.Unlock()

	log.Printf("[ITINERARY] Added stop: customer=%s order=%d", customer.ID, order)
	return s.recompute(ctx, version)
}

// RemoveStop removes the stop for the customer, renumbers and recomputes
func (s *State) RemoveStop(ctx context.Context, customerID string) (models.Itinerary, error) {
	s.mu.Lock()
	idx := -1
	for i := range s.itinerary.Stops {
		if s.itinerary.Stops[i].Customer.ID == customerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return s.Snapshot(), &ErrStopNotFound{CustomerID: customerID}
	}

	s.itinerary.Stops = append(s.itinerary.Stops[:idx], s.itinerary.Stops[idx+1:]...)
	renumberLocked(s.itinerary.Stops)
	version := s.bumpLocked()
	s.mu.Unlock()

	log.Printf("[ITINERARY] Removed stop: customer=%s", customerID)
	return s.recompute(ctx, version)
}

// MoveUp swaps the stop at zero-based index with its predecessor.
// No-op at the boundary.
func (s *State) MoveUp(ctx context.Context, index int) (models.Itinerary, error) {
	return s.swap(ctx, index-1, index)
}

// MoveDown swaps the stop at zero-based index with its successor.
// No-op at the boundary.
func (s *State) MoveDown(ctx context.Context, index int) (models.Itinerary, error) {
	return s.swap(ctx, index, index+1)
}

func (s *State) swap(ctx context.Context, a, b int) (models.Itinerary, error) {
	s.mu.Lock()
	if a < 0 || b >= len(s.itinerary.Stops) {
		snap := copyItinerary(s.itinerary)
		s.mu.Unlock()
		return snap, nil
	}

	s.itinerary.Stops[a], s.itinerary.Stops[b] = s.itinerary.Stops[b], s.itinerary.Stops[a]
	renumberLocked(s.itinerary.Stops)
	version := s.bumpLocked()
	s.mu.Unlock()

	return s.recompute(ctx, version)
}

// ReplaceOrder atomically swaps in a new stop ordering, e.g. the
// optimizer's output, then recomputes.
func (s *State) ReplaceOrder(ctx context.Context, stops []models.Stop) (models.Itinerary, error) {
	s.mu.Lock()
	s.itinerary.Stops = copyStops(stops)
	renumberLocked(s.itinerary.Stops)
	version := s.bumpLocked()
	s.mu.Unlock()

	log.Printf("[ITINERARY] Replaced stop order: stops=%d", len(stops))
	return s.recompute(ctx, version)
}

// Clear empties the itinerary and removes the draft. Clearing a
// non-empty itinerary requires confirmation: the first call reports
// confirmation required and changes nothing; the interaction layer
// re-invokes with confirmed set.
func (s *State) Clear(ctx context.Context, confirmed bool) (cleared bool, err error) {
	s.mu.Lock()
	if !s.itinerary.IsEmpty() && !confirmed {
		s.mu.Unlock()
		return false, nil
	}

	s.itinerary = models.Itinerary{}
	s.bumpLocked()
	s.mu.Unlock()

	log.Printf("[ITINERARY] Cleared")
	if err := s.drafts.Clear(ctx, s.operatorID); err != nil {
		log.Printf("[ERROR] Failed to remove draft: operator=%s err=%v", s.operatorID, err)
	}
	return true, nil
}

// MarkPromoted removes the autosaved draft after the working itinerary
// has been persisted as a named saved itinerary. The working stops stay
// in place; the next mutation starts a fresh draft.
func (s *State) MarkPromoted(ctx context.Context) {
	if err := s.drafts.Clear(ctx, s.operatorID); err != nil {
		log.Printf("[ERROR] Failed to remove promoted draft: operator=%s err=%v", s.operatorID, err)
	}
}

// SetSchedule updates the planned date/time and autosaves
func (s *State) SetSchedule(ctx context.Context, date, timeOfDay string) models.Itinerary {
	s.mu.Lock()
	s.itinerary.ScheduledDate = date
	s.itinerary.ScheduledTime = timeOfDay
	snap := copyItinerary(s.itinerary)
	s.mu.Unlock()

	s.autosave(ctx, snap)
	return snap
}

// RestoreDraft loads the operator's draft at session start. It only
// applies when the in-memory itinerary is still empty, so it never
// clobbers an itinerary already under construction.
func (s *State) RestoreDraft(ctx context.Context) (restored bool, err error) {
	s.mu.Lock()
	if !s.itinerary.IsEmpty() {
		s.mu.Unlock()
		return false, nil
	}
	s.mu.Unlock()

	draft, err := s.drafts.Load(ctx, s.operatorID)
	if err != nil {
		return false, fmt.Errorf("failed to load draft: %w", err)
	}
	if draft == nil || draft.IsEmpty() {
		return false, nil
	}

	s.mu.Lock()
	if !s.itinerary.IsEmpty() {
		s.mu.Unlock()
		return false, nil
	}
	s.itinerary = copyItinerary(*draft)
	renumberLocked(s.itinerary.Stops)
	version := s.bumpLocked()
	s.mu.Unlock()

	log.Printf("[ITINERARY] Restored draft: stops=%d", len(draft.Stops))
	_, err = s.recompute(ctx, version)
	return true, err
}

// Markers returns the ordered coordinate list for the map widget.
// Unplaced stops are excluded.
func (s *State) Markers() []models.Marker {
	s.mu.Lock()
	defer s.mu.Unlock()

	markers := make([]models.Marker, 0, len(s.itinerary.Stops))
	for _, stop := range s.itinerary.Stops {
		if !stop.HasCoords() {
			continue
		}
		markers = append(markers, models.Marker{
			Coords:         *stop.Coords,
			Label:          stop.Customer.Name,
			SequenceNumber: stop.Order,
		})
	}
	return markers
}

// bumpLocked advances the mutation version. Callers hold s.mu.
func (s *State) bumpLocked() uint64 {
	s.version++
	return s.version
}

// recompute resolves missing coordinates, prices all legs over the full
// ordered list and applies the result, unless a newer mutation has
// superseded this one in the meantime. Always a full recomputation,
// never an incremental diff, so legs can never go stale after an
// out-of-order edit.
func (s *State) recompute(ctx context.Context, version uint64) (models.Itinerary, error) {
	s.mu.Lock()
	stops := copyStops(s.itinerary.Stops)
	s.mu.Unlock()

	// Resolve coordinates for stops that lack one. Lookups hit the
	// cache first and are serialized by the geocoder.
	coordsByID := make(map[string]*models.Coordinates, len(stops))
	for i := range stops {
		if stops[i].Coords != nil {
			coordsByID[stops[i].Customer.ID] = stops[i].Coords
			continue
		}
		coords := s.geocoder.Resolve(ctx, stops[i].Customer.FullAddress())
		if coords == nil {
			log.Printf("[ITINERARY] Stop unplaced, excluded from geo-ordering: customer=%s", stops[i].Customer.ID)
		}
		coordsByID[stops[i].Customer.ID] = coords
		stops[i].Coords = coords
	}

	ordered := make([]*models.Coordinates, len(stops))
	for i := range stops {
		ordered[i] = stops[i].Coords
	}

	result, err := s.calc.ComputeLegs(ctx, ordered)

	s.mu.Lock()
	if s.version != version {
		log.Printf("[ITINERARY] Discarding superseded recompute: version=%d current=%d", version, s.version)
		snap := copyItinerary(s.itinerary)
		s.mu.Unlock()
		return snap, nil
	}

	for i := range s.itinerary.Stops {
		if coords, ok := coordsByID[s.itinerary.Stops[i].Customer.ID]; ok && s.itinerary.Stops[i].Coords == nil {
			s.itinerary.Stops[i].Coords = coords
		}
	}

	if err != nil {
		// Keep the previous leg figures; just re-derive totals so they
		// still match the legs on display.
		log.Printf("[ERROR] Leg recompute failed, keeping previous metrics: err=%v", err)
		s.retotalLocked()
	} else {
		s.applyLegsLocked(result)
	}

	snap := copyItinerary(s.itinerary)
	s.mu.Unlock()

	s.autosave(ctx, snap)
	return snap, nil
}

// applyLegsLocked writes leg metrics and totals. Callers hold s.mu.
func (s *State) applyLegsLocked(result *distance.LegsResult) {
	for i := range s.itinerary.Stops {
		if i == 0 || i-1 >= len(result.Legs) {
			s.itinerary.Stops[i].LegDistanceKm = nil
			s.itinerary.Stops[i].LegDurationMin = nil
			continue
		}
		s.itinerary.Stops[i].LegDistanceKm = result.Legs[i-1].DistanceKm
		s.itinerary.Stops[i].LegDurationMin = result.Legs[i-1].DurationMin
	}
	s.itinerary.TotalDistanceKm = result.TotalDistanceKm
	s.itinerary.TotalDurationMin = result.TotalDurationMin
}

// retotalLocked recomputes totals from the legs currently on the stops
func (s *State) retotalLocked() {
	var dist, dur float64
	for i := range s.itinerary.Stops {
		if s.itinerary.Stops[i].LegDistanceKm != nil {
			dist += *s.itinerary.Stops[i].LegDistanceKm
		}
		if s.itinerary.Stops[i].LegDurationMin != nil {
			dur += *s.itinerary.Stops[i].LegDurationMin
		}
	}
	s.itinerary.TotalDistanceKm = dist
	s.itinerary.TotalDurationMin = dur
}

// autosave syncs the draft after a successful mutation; an emptied
// itinerary removes the draft instead.
func (s *State) autosave(ctx context.Context, snap models.Itinerary) {
	var err error
	if snap.IsEmpty() {
		err = s.drafts.Clear(ctx, s.operatorID)
	} else {
		err = s.drafts.Save(ctx, s.operatorID, snap)
	}
	if err != nil {
		log.Printf("[ERROR] Draft autosave failed: operator=%s err=%v", s.operatorID, err)
	}
}

func renumberLocked(stops []models.Stop) {
	for i := range stops {
		stops[i].Order = i + 1
	}
}

func copyStops(stops []models.Stop) []models.Stop {
	out := make([]models.Stop, len(stops))
	for i, stop := range stops {
		out[i] = models.Stop{
			Customer:       stop.Customer,
			Order:          stop.Order,
			Coords:         copyCoords(stop.Coords),
			LegDistanceKm:  copyFloat(stop.LegDistanceKm),
			LegDurationMin: copyFloat(stop.LegDurationMin),
		}
	}
	return out
}

func copyItinerary(it models.Itinerary) models.Itinerary {
	out := it
	out.Stops = copyStops(it.Stops)
	return out
}

func copyCoords(c *models.Coordinates) *models.Coordinates {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	cp := *f
	return &cp
}
