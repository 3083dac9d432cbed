// Package health recomputes mailbox provisioning state on demand: how
// much of the recorded taxonomy still exists remotely, and how much of
// the remote mailbox the downstream classifier can route. It never
// mutates provisioning state.
package health

import (
	"strings"

	"go.uber.org/zap"

	"github.com/nhle/foldersync/internal/provider"
	"github.com/nhle/foldersync/internal/taxonomy"
)

// DefaultCoverageWarnThreshold is the coverage percentage below which a
// warning (not an error) is surfaced.
const DefaultCoverageWarnThreshold = 90.0

// ExpectedFolder is one entry of the user's recorded label map: a path
// the engine believes it provisioned and the remote ID it recorded.
type ExpectedFolder struct {
	Path     string
	RemoteID string
}

// Coverage reports how much of the remote mailbox the classifier
// vocabulary can map.
type Coverage struct {
	Classifiable   int
	Unclassifiable []string
	Percentage     float64
}

// Report is the outcome of one health check.
type Report struct {
	TotalExpected  int
	TotalFound     int
	MissingFolders []string
	AllPresent     bool

	// NeedsSync is set when the local record is empty but the remote
	// mailbox is not: the record lost its memory of prior
	// provisioning, and re-provisioning must not happen silently.
	NeedsSync bool

	HealthPercentage float64

	Coverage        Coverage
	CoverageWarning bool
}

// Validator computes health reports. The warn threshold is injected so
// the empirically chosen default stays a policy knob.
type Validator struct {
	warnThreshold float64
	logger        *zap.Logger
}

// NewValidator creates a validator. A zero warnThreshold selects the
// default.
func NewValidator(warnThreshold float64, logger *zap.Logger) *Validator {
	if warnThreshold <= 0 {
		warnThreshold = DefaultCoverageWarnThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{warnThreshold: warnThreshold, logger: logger}
}

// Check compares the recorded expected folders against the fetched
// remote index and computes classifier coverage over the vocabulary.
func (v *Validator) Check(expected []ExpectedFolder, idx *provider.Index, vocabulary []string) *Report {
	report := &Report{
		TotalExpected: len(expected),
		Coverage:      v.coverage(idx, vocabulary),
	}
	report.CoverageWarning = report.Coverage.Percentage < v.warnThreshold

	if len(expected) == 0 {
		if idx.Len() > 0 {
			// Manual-deletion drift in the other direction: remote
			// state exists that the record knows nothing about.
			report.NeedsSync = true
			v.logger.Warn("local record empty but remote mailbox is provisioned",
				zap.Int("remote_containers", idx.Len()))
			return report
		}
		report.AllPresent = true
		report.HealthPercentage = 100
		return report
	}

	for _, exp := range expected {
		if v.found(exp, idx) {
			report.TotalFound++
		} else {
			report.MissingFolders = append(report.MissingFolders, exp.Path)
		}
	}

	report.AllPresent = len(report.MissingFolders) == 0
	report.HealthPercentage = percent(report.TotalFound, report.TotalExpected)
	return report
}

// found resolves an expected folder by recorded remote ID first, then
// falls back to path and bare-name matching (a recreated folder keeps
// its name but not its ID).
func (v *Validator) found(exp ExpectedFolder, idx *provider.Index) bool {
	if exp.RemoteID != "" {
		if _, ok := idx.ByID(exp.RemoteID); ok {
			return true
		}
	}
	if _, ok := idx.ByPath(exp.Path); ok {
		return true
	}
	name := exp.Path
	if i := strings.LastIndex(exp.Path, "/"); i >= 0 {
		name = exp.Path[i+1:]
	}
	_, ok := idx.ByName(name)
	return ok
}

// coverage checks every remote container name against the vocabulary,
// case- and separator-insensitive.
func (v *Validator) coverage(idx *provider.Index, vocabulary []string) Coverage {
	cov := Coverage{}
	total := idx.Len()
	if total == 0 {
		cov.Percentage = 100
		return cov
	}

	for _, c := range idx.All() {
		if classifiable(c.DisplayName, vocabulary) {
			cov.Classifiable++
		} else {
			cov.Unclassifiable = append(cov.Unclassifiable, c.DisplayName)
		}
	}
	cov.Percentage = percent(cov.Classifiable, total)
	return cov
}

func classifiable(name string, vocabulary []string) bool {
	norm := taxonomy.NormalizeToken(name)
	if norm == "" {
		return false
	}
	for _, token := range vocabulary {
		if strings.Contains(norm, token) || strings.Contains(token, norm) {
			return true
		}
	}
	return false
}

func percent(part, total int) float64 {
	if total == 0 {
		return 100
	}
	return float64(part) / float64(total) * 100
}
