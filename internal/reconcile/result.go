package reconcile

// Level is the taxonomy depth of a provisioned node.
type Level int

const (
	LevelCategory    Level = 1
	LevelSubcategory Level = 2
	LevelNested      Level = 3
)

func (l Level) String() string {
	switch l {
	case LevelCategory:
		return "category"
	case LevelSubcategory:
		return "subcategory"
	case LevelNested:
		return "nested"
	}
	return "unknown"
}

// Entry is one successfully resolved node: either created this run or
// matched against existing remote state.
type Entry struct {
	Name     string
	Path     string
	RemoteID string
	Level    Level
}

// NodeError records one node that could not be provisioned. Skipped
// counts descendants that were never attempted because this node
// failed.
type NodeError struct {
	Name    string
	Path    string
	Level   Level
	Err     string
	Skipped int
}

// Result is the outcome of one reconciliation run. It is merged into
// the user's persisted label map rather than replacing it, so entries
// from earlier runs survive partial failures here.
type Result struct {
	Created []Entry
	Matched []Entry
	Errors  []NodeError
}

// Entries returns created and matched nodes together, the input to the
// friendly-key map builder.
func (r *Result) Entries() []Entry {
	out := make([]Entry, 0, len(r.Created)+len(r.Matched))
	out = append(out, r.Created...)
	out = append(out, r.Matched...)
	return out
}

// Succeeded reports whether the run is overall-successful: every
// category-level node resolved, whatever happened below them.
func (r *Result) Succeeded() bool {
	for _, e := range r.Errors {
		if e.Level == LevelCategory {
			return false
		}
	}
	return true
}
