package model

import "strconv"

// Stats is the scoped stat sink: one bucket per agent, one per group, and
// one for the world as a whole. A baseline snapshot supports delta reads
// (value since the snapshot) without a second set of counters.
type Stats struct {
	buckets  map[string]map[string]float64
	baseline map[string]map[string]float64
}

func NewStats() *Stats {
	return &Stats{buckets: map[string]map[string]float64{}}
}

const gameBucket = "game"

func agentBucket(agentID string) string { return "agent:" + agentID }
func groupBucket(groupID int) string    { return "group:" + strconv.Itoa(groupID) }

func (s *Stats) add(bucket, name string, delta float64) {
	if s == nil || name == "" {
		return
	}
	b := s.buckets[bucket]
	if b == nil {
		b = map[string]float64{}
		s.buckets[bucket] = b
	}
	b[name] += delta
}

func (s *Stats) get(bucket, name string) float64 {
	if s == nil {
		return 0
	}
	return s.buckets[bucket][name]
}

func (s *Stats) AgentAdd(agentID, name string, delta float64) {
	s.add(agentBucket(agentID), name, delta)
}

func (s *Stats) GroupAdd(groupID int, name string, delta float64) {
	s.add(groupBucket(groupID), name, delta)
}

func (s *Stats) GameAdd(name string, delta float64) { s.add(gameBucket, name, delta) }

func (s *Stats) AgentGet(agentID, name string) float64 { return s.get(agentBucket(agentID), name) }
func (s *Stats) GroupGet(groupID int, name string) float64 {
	return s.get(groupBucket(groupID), name)
}
func (s *Stats) GameGet(name string) float64 { return s.get(gameBucket, name) }

// SnapshotBaseline records current values; subsequent Delta reads are
// relative to this point.
func (s *Stats) SnapshotBaseline() {
	if s == nil {
		return
	}
	s.baseline = map[string]map[string]float64{}
	for bucket, vals := range s.buckets {
		cp := make(map[string]float64, len(vals))
		for name, v := range vals {
			cp[name] = v
		}
		s.baseline[bucket] = cp
	}
}

func (s *Stats) delta(bucket, name string) float64 {
	if s == nil {
		return 0
	}
	return s.buckets[bucket][name] - s.baseline[bucket][name]
}

func (s *Stats) AgentDelta(agentID, name string) float64 {
	return s.delta(agentBucket(agentID), name)
}

func (s *Stats) GroupDelta(groupID int, name string) float64 {
	return s.delta(groupBucket(groupID), name)
}

func (s *Stats) GameDelta(name string) float64 { return s.delta(gameBucket, name) }
