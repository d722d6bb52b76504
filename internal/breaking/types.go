package breaking

// ChangeKind represents the direction of an API change
type ChangeKind string

const (
	ChangeAdded   ChangeKind = "added"
	ChangeRemoved ChangeKind = "removed"
	ChangeChanged ChangeKind = "changed"
)

// Severity indicates how breaking a change is
type Severity string

const (
	SeverityBreaking    Severity = "breaking"     // Existing clients fail to compile or link
	SeverityWarning     Severity = "warning"      // Compatible removal, worth a look
	SeverityNonBreaking Severity = "non_breaking" // Safe change
)

// APIChange is one classified leaf of a delta tree
type APIChange struct {
	Kind         ChangeKind `json:"kind"`
	Severity     Severity   `json:"severity"`
	Flag         string     `json:"flag"`
	ElementType  string     `json:"elementType"`
	TypeName     string     `json:"typeName,omitempty"`
	Key          string     `json:"key,omitempty"`
	Component    string     `json:"component,omitempty"`
	Description  string     `json:"description"`
	Rule         string     `json:"rule,omitempty"` // Classifier rule; empty when the default applied
	AffectsUsers bool       `json:"affectsUsers"`   // True if existing clients are affected
}

// Options configures the analysis
type Options struct {
	BaseRef        string // Reference baseline name
	TargetRef      string // Profile baseline name
	IncludeMinor   bool   // Keep non-breaking changes in the change list
	CurrentVersion string // Version the advice is applied to, if any
}

// DefaultOptions returns sensible defaults
func DefaultOptions() Options {
	return Options{IncludeMinor: true}
}

// CompareResult contains the classified changes of one delta tree
type CompareResult struct {
	BaseRef      string      `json:"baseRef,omitempty"`
	TargetRef    string      `json:"targetRef,omitempty"`
	Changes      []APIChange `json:"changes"`
	Summary      *Summary    `json:"summary"`
	SemverAdvice string      `json:"semverAdvice,omitempty"` // "major", "minor", "patch"
	NextVersion  string      `json:"nextVersion,omitempty"`
	TotalLeaves  int         `json:"totalLeaves"`
}

// Summary provides an overview of the changes
type Summary struct {
	TotalChanges    int            `json:"totalChanges"`
	BreakingChanges int            `json:"breakingChanges"`
	Warnings        int            `json:"warnings"`
	Additions       int            `json:"additions"`
	ByKind          map[string]int `json:"byKind"`
	ByComponent     map[string]int `json:"byComponent,omitempty"`
}

// HasBreakingChanges returns true if there are any breaking changes
func (r *CompareResult) HasBreakingChanges() bool {
	return r.Summary != nil && r.Summary.BreakingChanges > 0
}
