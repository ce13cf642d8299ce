package engine

import (
	"slices"
	"time"
)

// Action is a state transition accepted by Reduce.
type Action interface {
	isAction()
}

// AddActivity appends an activity.
type AddActivity struct {
	Activity Activity
}

// RemoveActivity deletes the activity with ID. Unknown IDs are a no-op.
type RemoveActivity struct {
	ID string
}

// LoadData replaces the state. Derived fields in the payload are ignored
// and recomputed from its activities.
type LoadData struct {
	State State
}

// AwardBadge adds Badge with EarnedAt set to At unless it is already held.
type AwardBadge struct {
	Badge Badge
	At    time.Time
}

// UpdateTips replaces the tip list.
type UpdateTips struct {
	Tips []string
}

func (AddActivity) isAction()    {}
func (RemoveActivity) isAction() {}
func (LoadData) isAction()       {}
func (AwardBadge) isAction()     {}
func (UpdateTips) isAction()     {}

// Reducer applies actions, bucketing activities into days in Location.
type Reducer struct {
	Location *time.Location
}

// Reduce applies a using the local time zone.
func Reduce(s State, a Action) State {
	return Reducer{Location: time.Local}.Reduce(s, a)
}

// Reduce returns the state after applying a. The input state is not modified.
func (r Reducer) Reduce(s State, a Action) State {
	switch act := a.(type) {
	case AddActivity:
		next := s.Clone()
		next.Activities = append(next.Activities, act.Activity)
		return r.recompute(next)

	case RemoveActivity:
		i := slices.IndexFunc(s.Activities, func(x Activity) bool { return x.ID == act.ID })
		if i < 0 {
			return s
		}
		next := s.Clone()
		next.Activities = slices.Delete(next.Activities, i, i+1)
		return r.recompute(next)

	case LoadData:
		return r.recompute(act.State.Clone())

	case AwardBadge:
		if s.HasBadge(act.Badge.ID) {
			return s
		}
		next := s.Clone()
		b := act.Badge
		b.EarnedAt = act.At
		next.Badges = append(next.Badges, b)
		return next

	case UpdateTips:
		next := s.Clone()
		next.Tips = slices.Clone(act.Tips)
		if next.Tips == nil {
			next.Tips = []string{}
		}
		return next

	default:
		return s
	}
}

func (r Reducer) recompute(s State) State {
	s.TotalFootprint = TotalFootprint(s.Activities)
	s.DailyFootprints = DailyFootprints(s.Activities, r.location())
	return s
}

func (r Reducer) location() *time.Location {
	if r.Location == nil {
		return time.Local
	}
	return r.Location
}
