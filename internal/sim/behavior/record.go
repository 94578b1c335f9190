package behavior

// FiringRecord describes one handler or event application, for the
// firing log, the index database and the trace feed.
type FiringRecord struct {
	Tick     uint64 `json:"tick"`
	Kind     string `json:"kind"` // "handler" or "event"
	Name     string `json:"name"`
	Actor    string `json:"actor,omitempty"`
	Target   string `json:"target,omitempty"`
	Affected int    `json:"affected"`
}

// AuditRecord captures a non-firing engine occurrence worth keeping:
// catalog digests at startup, materialized tag recomputes, entity
// destruction.
type AuditRecord struct {
	Tick   uint64 `json:"tick"`
	Op     string `json:"op"`
	Detail string `json:"detail,omitempty"`
}
