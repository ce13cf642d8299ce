package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rshade/ecopulse/internal/config"
	"github.com/rshade/ecopulse/internal/greenops"
	"github.com/rshade/ecopulse/internal/logging"
)

// DashboardDays is the length of the dashboard's daily series.
const DashboardDays = 7

// ErrInvalidDate is returned for a draft date that is not YYYY-MM-DD.
var ErrInvalidDate = errors.New("invalid activity date")

// Store is the persistence port used by Tracker.
type Store interface {
	// Load returns the stored state, or nil when nothing has been saved yet.
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, s State) error
}

// Options configures a Tracker. Zero values select defaults.
type Options struct {
	// Clock defaults to time.Now.
	Clock func() time.Time
	// Location buckets activities into days; defaults to time.Local.
	Location *time.Location
	// IDs defaults to a ULID generator driven by Clock.
	IDs IDGenerator
	// GlobalAverage defaults to greenops.GlobalAverageDailyKg.
	GlobalAverage float64
	Goal          config.GoalConfig
}

// Tracker owns the state and applies every mutation through the reducer,
// then awards badges, refreshes tips and saves.
type Tracker struct {
	mu            sync.Mutex
	store         Store
	reducer       Reducer
	state         State
	now           func() time.Time
	ids           IDGenerator
	globalAverage float64
	goal          config.GoalConfig
}

// NewTracker returns a tracker with an empty state. Call Open to load the
// stored state.
func NewTracker(store Store, opts Options) *Tracker {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.IDs == nil {
		opts.IDs = NewULIDGenerator(opts.Clock)
	}
	if opts.GlobalAverage <= 0 {
		opts.GlobalAverage = greenops.GlobalAverageDailyKg
	}
	return &Tracker{
		store:         store,
		reducer:       Reducer{Location: opts.Location},
		state:         NewState(),
		now:           opts.Clock,
		ids:           opts.IDs,
		globalAverage: opts.GlobalAverage,
		goal:          opts.Goal,
	}
}

// OptionsFromConfig builds tracker options from the tracker and goal sections.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	loc, err := cfg.Tracker.Location()
	if err != nil {
		return Options{}, err
	}
	return Options{
		Location:      loc,
		IDs:           NewIDGenerator(cfg.Tracker.IDScheme, nil),
		GlobalAverage: cfg.Tracker.GlobalAverageDaily,
		Goal:          cfg.Goal,
	}, nil
}

func trackerLogger(ctx context.Context, operation string) zerolog.Logger {
	return logging.FromContext(ctx).With().
		Str("component", "tracker").
		Str("operation", operation).
		Logger()
}

// Open loads the stored state. A nil document is a first run. Badges and
// tips are refreshed afterwards and saved if they changed.
func (t *Tracker) Open(ctx context.Context) error {
	logger := trackerLogger(ctx, "Open")

	loaded, err := t.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading state: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	doc := NewState()
	if loaded != nil {
		doc = *loaded
	}
	t.state = t.reducer.Reduce(t.state, LoadData{State: doc})

	changed := t.applyEffectsLocked(ctx)
	logger.Debug().
		Bool("first_run", loaded == nil).
		Int("activities", len(t.state.Activities)).
		Bool("effects_changed", changed).
		Msg("state loaded")

	if changed {
		return t.saveLocked(ctx)
	}
	return nil
}

// AddActivity prices draft, appends it and saves. The activity is returned
// even when saving fails; the in-memory state keeps it.
func (t *Tracker) AddActivity(ctx context.Context, draft ActivityDraft) (Activity, error) {
	logger := trackerLogger(ctx, "AddActivity")

	t.mu.Lock()
	defer t.mu.Unlock()

	ts := t.now().In(t.reducer.location())
	if draft.Date != "" {
		day, err := time.ParseInLocation(DayKeyLayout, draft.Date, t.reducer.location())
		if err != nil {
			return Activity{}, fmt.Errorf("%w %q: %w", ErrInvalidDate, draft.Date, err)
		}
		ts = time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, day.Location())
	}

	qty := greenops.ParseQuantity(draft.Quantity)
	act := Activity{
		ID:          t.ids.NewID(),
		Category:    draft.Category,
		Subcategory: draft.Subcategory,
		Quantity:    qty,
		Timestamp:   ts,
		Emissions:   greenops.Emissions(draft.Category, draft.Subcategory, qty),
	}

	t.state = t.reducer.Reduce(t.state, AddActivity{Activity: act})
	t.applyEffectsLocked(ctx)

	logger.Info().
		Str("activity_id", act.ID).
		Str("category", act.Category).
		Str("subcategory", act.Subcategory).
		Float64("emissions", act.Emissions).
		Msg("activity added")

	return act, t.saveLocked(ctx)
}

// RemoveActivity deletes the activity with id. It reports false, without
// saving, when no such activity exists.
func (t *Tracker) RemoveActivity(ctx context.Context, id string) (bool, error) {
	logger := trackerLogger(ctx, "RemoveActivity")

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.state.FindActivity(id); !ok {
		logger.Debug().Str("activity_id", id).Msg("activity not found")
		return false, nil
	}

	t.state = t.reducer.Reduce(t.state, RemoveActivity{ID: id})
	t.applyEffectsLocked(ctx)
	logger.Info().Str("activity_id", id).Msg("activity removed")

	return true, t.saveLocked(ctx)
}

// Reset clears all data and saves the empty state.
func (t *Tracker) Reset(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.state = t.reducer.Reduce(t.state, LoadData{State: NewState()})
	t.applyEffectsLocked(ctx)

	logger := trackerLogger(ctx, "Reset")
	logger.Info().Msg("all data cleared")
	return t.saveLocked(ctx)
}

// applyEffectsLocked awards newly earned badges and refreshes tips. It
// reports whether the state changed.
func (t *Tracker) applyEffectsLocked(ctx context.Context) bool {
	now := t.now()
	changed := false

	earned := EvaluateBadges(BadgeInput{
		Activities:     t.state.Activities,
		TodayFootprint: t.state.DailyFootprints[DayKey(now, t.reducer.location())],
		GlobalAverage:  t.globalAverage,
	})
	for _, b := range NewlyEarned(t.state, earned) {
		t.state = t.reducer.Reduce(t.state, AwardBadge{Badge: b, At: now})
		changed = true

		logger := trackerLogger(ctx, "AwardBadge")
		logger.Info().Str("badge_id", b.ID).Msg("badge earned")
	}

	if tips := GenerateTips(t.state.Activities); !slices.Equal(tips, t.state.Tips) {
		t.state = t.reducer.Reduce(t.state, UpdateTips{Tips: tips})
		changed = true
	}
	return changed
}

func (t *Tracker) saveLocked(ctx context.Context) error {
	if err := t.store.Save(ctx, t.state.Clone()); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}

// State returns a deep copy of the current state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Clone()
}

// Location returns the time zone used for day keys.
func (t *Tracker) Location() *time.Location {
	return t.reducer.location()
}

// Now returns the tracker clock's current time in its location.
func (t *Tracker) Now() time.Time {
	return t.now().In(t.reducer.location())
}

// GlobalAverage returns the reference daily footprint.
func (t *Tracker) GlobalAverage() float64 {
	return t.globalAverage
}

// Dashboard is the overview shown by `summary`.
type Dashboard struct {
	GeneratedAt    time.Time          `json:"generatedAt"`
	TotalFootprint float64            `json:"totalFootprint"`
	TodayFootprint float64            `json:"todayFootprint"`
	GlobalAverage  float64            `json:"globalAverage"`
	ActivityCount  int                `json:"activityCount"`
	LongestStreak  int                `json:"longestStreak"`
	LastDays       []DayTotal         `json:"lastDays"`
	Trend          TrendFit           `json:"trend"`
	WhatIf         WhatIfResult       `json:"whatIf"`
	Goal           GoalStatus         `json:"goal"`
	CategoryTotals map[string]float64 `json:"categoryTotals"`
	Monthly        []MonthTotal       `json:"monthly"`
	Badges         []Badge            `json:"badges"`
	Tips           []string           `json:"tips"`
}

// Dashboard computes the overview at now with a what-if reduction percentage.
func (t *Tracker) Dashboard(now time.Time, reduction float64) Dashboard {
	s := t.State()
	now = now.In(t.reducer.location())
	days := LastNDays(s.DailyFootprints, now, DashboardDays)
	values := Values(days)

	return Dashboard{
		GeneratedAt:    now,
		TotalFootprint: s.TotalFootprint,
		TodayFootprint: s.DailyFootprints[DayKey(now, t.reducer.location())],
		GlobalAverage:  t.globalAverage,
		ActivityCount:  len(s.Activities),
		LongestStreak:  LongestStreak(s.DailyFootprints),
		LastDays:       days,
		Trend:          TrendLine(values),
		WhatIf:         WhatIf(values, reduction),
		Goal:           EvaluateGoalWithAlerts(WeekFootprint(s.Activities, now), t.goal, now),
		CategoryTotals: CategoryTotals(s.Activities),
		Monthly:        MonthlyTotals(s.Activities, t.reducer.location()),
		Badges:         s.Badges,
		Tips:           s.Tips,
	}
}

// Profile computes profile statistics for the whole history.
func (t *Tracker) Profile() Profile {
	return ComputeProfile(t.State(), t.globalAverage)
}

// Goal evaluates the weekly goal for the week containing now.
func (t *Tracker) Goal(now time.Time) GoalStatus {
	s := t.State()
	now = now.In(t.reducer.location())
	return EvaluateGoalWithAlerts(WeekFootprint(s.Activities, now), t.goal, now)
}

// Activities returns the activities matching f in log order.
func (t *Tracker) Activities(f ActivityFilter) ([]Activity, error) {
	s := t.State()
	return FilterActivities(s.Activities, f, t.reducer.location())
}
