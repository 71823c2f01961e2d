// Package cascade implements the dependent-selection resolver for the
// location hierarchy. Each tier's options depend on the selection of the
// tier above it; selecting a node invalidates everything below it and
// yields a fetch request for the next tier. Responses carry the epoch of
// the request that triggered them so late answers from superseded
// selections are discarded instead of overwriting fresher state.
package cascade

import (
	"sync"

	"github.com/google/uuid"

	"bimeh/internal/errors"
)

// Tier identifies a level of the location hierarchy, ordered root to leaf.
type Tier int

const (
	TierState Tier = iota
	TierCity
	TierCounty
	TierRegion
	TierDistrict
	TierSchool

	numTiers = int(TierSchool) + 1
)

// String returns the tier name used in payloads and logs.
func (t Tier) String() string {
	switch t {
	case TierState:
		return "state"
	case TierCity:
		return "city"
	case TierCounty:
		return "county"
	case TierRegion:
		return "region"
	case TierDistrict:
		return "district"
	case TierSchool:
		return "school"
	default:
		return "unknown"
	}
}

// Valid reports whether t names an actual tier.
func (t Tier) Valid() bool {
	return t >= TierState && t <= TierSchool
}

// Next returns the tier below t. ok is false for the leaf tier.
func (t Tier) Next() (Tier, bool) {
	if t >= TierSchool {
		return t, false
	}

	return t + 1, true
}

// ParseTier converts a tier name to its Tier value.
func ParseTier(name string) (Tier, bool) {
	for t := TierState; t <= TierSchool; t++ {
		if t.String() == name {
			return t, true
		}
	}

	return 0, false
}

// FetchState describes what the resolver knows about a tier's options.
// Empty, Loading and Failed are distinct: an empty option list is a
// terminal answer, not an error and not something still in flight.
type FetchState int

const (
	NotFetched FetchState = iota
	Loading
	Loaded
	Empty
	Failed
)

// String returns the fetch state name used in payloads.
func (s FetchState) String() string {
	switch s {
	case NotFetched:
		return "not_fetched"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Empty:
		return "empty"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Option is a selectable node at some tier.
type Option struct {
	ID   uuid.UUID
	Name string
}

// FetchRequest asks the caller to load the options of Tier whose parent
// is ParentID. The root tier uses uuid.Nil as its parent. Epoch must be
// echoed back in the FetchResult.
type FetchRequest struct {
	Tier     Tier
	ParentID uuid.UUID
	Epoch    uint64
}

// FetchResult carries the loaded options (or the load error) for a tier.
type FetchResult struct {
	Tier    Tier
	Epoch   uint64
	Options []Option
	Err     error
}

// TierView is a read-only snapshot of one tier's state.
type TierView struct {
	Tier     Tier
	State    FetchState
	Selected *uuid.UUID
	Options  []Option
}

var (
	// ErrTierNotLoaded is returned when selecting on a tier whose
	// options are not in a Loaded state.
	ErrTierNotLoaded = errors.New("cascade: tier options not loaded")

	// ErrUnknownOption is returned when the selected ID is not among
	// the tier's loaded options.
	ErrUnknownOption = errors.New("cascade: selected id not among options")
)

type slot struct {
	state    FetchState
	options  []Option
	selected *uuid.UUID
	epoch    uint64
}

// Resolver owns the selection state of all tiers. It is safe for
// concurrent use.
type Resolver struct {
	mu    sync.Mutex
	slots [numTiers]slot
	epoch uint64
}

// New returns a Resolver with every tier unfetched and nothing selected.
func New() *Resolver {
	return &Resolver{}
}

// Init marks the root tier as loading and returns the fetch request for
// it. Any previous state is discarded.
func (r *Resolver) Init() FetchRequest {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.slots {
		r.slots[i] = slot{}
	}

	r.epoch++
	r.slots[TierState] = slot{state: Loading, epoch: r.epoch}

	return FetchRequest{Tier: TierState, ParentID: uuid.Nil, Epoch: r.epoch}
}

// Select records the choice of option id at tier. All descendant tiers
// are cleared in the same step: their selections, options and fetch
// states are reset before the next-tier request is issued, so no stale
// child option can outlive a parent change. When tier is not the leaf,
// the returned request loads the next tier and ok is true.
func (r *Resolver) Select(tier Tier, id uuid.UUID) (req FetchRequest, ok bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !tier.Valid() {
		return FetchRequest{}, false, errors.Errorf("cascade: invalid tier %d", int(tier))
	}

	s := &r.slots[tier]
	if s.state != Loaded {
		return FetchRequest{}, false, errors.Wrapf(ErrTierNotLoaded, "tier %s is %s", tier, s.state)
	}
	if !hasOption(s.options, id) {
		return FetchRequest{}, false, errors.Wrapf(ErrUnknownOption, "tier %s id %s", tier, id)
	}

	selected := id
	s.selected = &selected

	for t := int(tier) + 1; t < numTiers; t++ {
		r.slots[t] = slot{}
	}

	next, hasNext := tier.Next()
	if !hasNext {
		return FetchRequest{}, false, nil
	}

	r.epoch++
	r.slots[next] = slot{state: Loading, epoch: r.epoch}

	return FetchRequest{Tier: next, ParentID: id, Epoch: r.epoch}, true, nil
}

// Deliver applies a fetch result. Results whose epoch does not match
// the tier's pending request are stale and ignored; applied reports
// whether the result took effect.
func (r *Resolver) Deliver(res FetchResult) (applied bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !res.Tier.Valid() {
		return false
	}

	s := &r.slots[res.Tier]
	if s.state != Loading || s.epoch != res.Epoch {
		return false
	}

	if res.Err != nil {
		s.state = Failed
		s.options = nil

		return true
	}

	if len(res.Options) == 0 {
		s.state = Empty
		s.options = nil

		return true
	}

	s.state = Loaded
	s.options = append([]Option(nil), res.Options...)

	return true
}

// Retry re-issues the fetch for a failed tier using the parent's current
// selection. ok is false when the tier is not in a Failed state or the
// parent has no selection to fetch under.
func (r *Resolver) Retry(tier Tier) (FetchRequest, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !tier.Valid() || r.slots[tier].state != Failed {
		return FetchRequest{}, false
	}

	parentID := uuid.Nil
	if tier > TierState {
		parent := r.slots[tier-1].selected
		if parent == nil {
			return FetchRequest{}, false
		}
		parentID = *parent
	}

	r.epoch++
	r.slots[tier] = slot{state: Loading, epoch: r.epoch}

	return FetchRequest{Tier: tier, ParentID: parentID, Epoch: r.epoch}, true
}

// Ready reports whether every tier down to leaf has a selection, which
// is the condition for the location chain to be submittable. Student
// registration resolves down to TierSchool; school creation stops at
// TierDistrict.
func (r *Resolver) Ready(leaf Tier) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !leaf.Valid() {
		return false
	}

	for tier := TierState; tier <= leaf; tier++ {
		if r.slots[tier].selected == nil {
			return false
		}
	}

	return true
}

// Selected returns the selected node ID at tier, if any.
func (r *Resolver) Selected(tier Tier) (uuid.UUID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !tier.Valid() || r.slots[tier].selected == nil {
		return uuid.Nil, false
	}

	return *r.slots[tier].selected, true
}

// StateOf returns the fetch state of tier.
func (r *Resolver) StateOf(tier Tier) FetchState {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !tier.Valid() {
		return NotFetched
	}

	return r.slots[tier].state
}

// Snapshot returns the state of every tier, root to leaf.
func (r *Resolver) Snapshot() []TierView {
	r.mu.Lock()
	defer r.mu.Unlock()

	views := make([]TierView, 0, numTiers)
	for t := TierState; t <= TierSchool; t++ {
		s := r.slots[t]
		view := TierView{Tier: t, State: s.state}
		if s.selected != nil {
			id := *s.selected
			view.Selected = &id
		}
		if len(s.options) > 0 {
			view.Options = append([]Option(nil), s.options...)
		}
		views = append(views, view)
	}

	return views
}

func hasOption(options []Option, id uuid.UUID) bool {
	for _, opt := range options {
		if opt.ID == id {
			return true
		}
	}

	return false
}
