package behavior

import (
	"fmt"
	"sort"
)

type scheduleEntry struct {
	timestep uint64
	event    *Event
}

// EventScheduler owns the name->event registry and a single ascending
// (timestep, event) schedule built once at construction. One monotonic
// cursor advances as simulation time does; each entry fires exactly once.
type EventScheduler struct {
	svc    Services
	events map[string]*Event

	schedule []scheduleEntry
	cursor   int
}

// NewEventScheduler compiles every event config, links fallback chains,
// and builds the schedule sorted by timestep with construction order
// breaking ties.
func NewEventScheduler(cfgs []EventConfig, svc Services) (*EventScheduler, error) {
	s := &EventScheduler{svc: svc, events: map[string]*Event{}}
	for _, cfg := range cfgs {
		ev, err := NewEvent(cfg)
		if err != nil {
			return nil, err
		}
		if _, dup := s.events[ev.Name]; dup {
			return nil, fmt.Errorf("event %q: duplicate name", ev.Name)
		}
		s.events[ev.Name] = ev
		for _, t := range cfg.Schedule {
			s.schedule = append(s.schedule, scheduleEntry{timestep: t, event: ev})
		}
	}
	for _, cfg := range cfgs {
		if err := s.events[cfg.Name].link(s.events); err != nil {
			return nil, err
		}
	}
	sort.SliceStable(s.schedule, func(i, j int) bool {
		return s.schedule[i].timestep < s.schedule[j].timestep
	})
	return s, nil
}

// Event returns a registered event by name, or nil.
func (s *EventScheduler) Event(name string) *Event { return s.events[name] }

// ProcessTimestep fires every not-yet-fired entry scheduled at or before
// t, in schedule order, and returns how many firings affected at least one
// target. Calling it with an already-passed timestep does nothing: the
// cursor never rewinds.
func (s *EventScheduler) ProcessTimestep(t uint64) int {
	return s.ProcessTimestepFunc(t, nil)
}

// ProcessTimestepFunc is ProcessTimestep with a per-firing callback.
// fn observes every due entry, including those that affected no targets.
func (s *EventScheduler) ProcessTimestepFunc(t uint64, fn func(name string, affected int)) int {
	fired := 0
	for s.cursor < len(s.schedule) && s.schedule[s.cursor].timestep <= t {
		entry := s.schedule[s.cursor]
		s.cursor++
		ctx := s.svc.NewContext(t)
		affected := entry.event.Execute(ctx)
		if affected > 0 {
			fired++
		}
		if fn != nil {
			fn(entry.event.Name, affected)
		}
	}
	return fired
}
