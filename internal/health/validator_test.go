package health

import (
	"testing"

	"github.com/nhle/foldersync/internal/provider"
)

func indexOf(containers ...provider.RemoteContainer) *provider.Index {
	idx := provider.NewIndex()
	for _, c := range containers {
		idx.Add(c)
	}
	return idx
}

func TestEmptyRecordNonEmptyRemoteNeedsSync(t *testing.T) {
	idx := indexOf(provider.RemoteContainer{RemoteID: "a", DisplayName: "BANKING", FullPath: "BANKING"})

	report := NewValidator(0, nil).Check(nil, idx, []string{"banking"})
	if !report.NeedsSync {
		t.Fatalf("expected needsSync for lost local record")
	}
	if report.AllPresent {
		t.Fatalf("lost record must never report fully provisioned")
	}
}

func TestEmptyRecordEmptyRemoteIsHealthy(t *testing.T) {
	report := NewValidator(0, nil).Check(nil, provider.NewIndex(), nil)
	if report.NeedsSync || !report.AllPresent || report.HealthPercentage != 100 {
		t.Fatalf("fresh mailbox misreported: %+v", report)
	}
}

func TestMissingFoldersLowerHealth(t *testing.T) {
	idx := indexOf(
		provider.RemoteContainer{RemoteID: "a", DisplayName: "BANKING", FullPath: "BANKING"},
		provider.RemoteContainer{RemoteID: "b", DisplayName: "CLIENTS", FullPath: "CLIENTS"},
	)
	expected := []ExpectedFolder{
		{Path: "BANKING", RemoteID: "a"},
		{Path: "CLIENTS", RemoteID: "b"},
		{Path: "SUPPLIERS", RemoteID: "c"}, // manually deleted
		{Path: "SCHEDULING", RemoteID: "d"},
	}

	report := NewValidator(0, nil).Check(expected, idx, []string{"banking", "clients"})
	if report.AllPresent {
		t.Fatalf("missing folders not detected")
	}
	if report.TotalFound != 2 || report.HealthPercentage != 50 {
		t.Fatalf("found=%d health=%.0f, want 2/50", report.TotalFound, report.HealthPercentage)
	}
	if len(report.MissingFolders) != 2 || report.MissingFolders[0] != "SUPPLIERS" {
		t.Fatalf("unexpected missing list %v", report.MissingFolders)
	}
}

func TestFoundByNameWhenIDRotated(t *testing.T) {
	// A folder deleted and recreated by hand keeps its name with a new
	// remote ID; that still counts as present.
	idx := indexOf(provider.RemoteContainer{RemoteID: "new-id", DisplayName: "BANKING", FullPath: "BANKING"})
	expected := []ExpectedFolder{{Path: "BANKING", RemoteID: "old-id"}}

	report := NewValidator(0, nil).Check(expected, idx, nil)
	if !report.AllPresent {
		t.Fatalf("name fallback failed: %+v", report)
	}
}

func TestClassifierCoverage(t *testing.T) {
	idx := indexOf(
		provider.RemoteContainer{RemoteID: "a", DisplayName: "BANKING", FullPath: "BANKING"},
		provider.RemoteContainer{RemoteID: "b", DisplayName: "Frank's Custom Folder", FullPath: "Frank's Custom Folder"},
	)
	expected := []ExpectedFolder{{Path: "BANKING", RemoteID: "a"}}

	report := NewValidator(0, nil).Check(expected, idx, []string{"banking"})
	cov := report.Coverage
	if cov.Classifiable != 1 {
		t.Fatalf("classifiable=%d, want 1", cov.Classifiable)
	}
	if len(cov.Unclassifiable) != 1 || cov.Unclassifiable[0] != "Frank's Custom Folder" {
		t.Fatalf("unexpected unclassifiable %v", cov.Unclassifiable)
	}
	if cov.Percentage != 50 {
		t.Fatalf("coverage=%.0f, want 50", cov.Percentage)
	}
	if !report.CoverageWarning {
		t.Fatalf("coverage below threshold should warn")
	}
}

func TestCoverageIsCaseAndSeparatorInsensitive(t *testing.T) {
	idx := indexOf(
		provider.RemoteContainer{RemoteID: "a", DisplayName: "tax-documents", FullPath: "tax-documents"},
	)
	report := NewValidator(0, nil).Check(nil, idx, []string{"taxdocuments"})
	if report.Coverage.Classifiable != 1 {
		t.Fatalf("separator-insensitive match failed: %+v", report.Coverage)
	}
}

func TestCoverageWarningIsNotAnError(t *testing.T) {
	// Coverage below threshold coexists with a fully healthy record.
	idx := indexOf(
		provider.RemoteContainer{RemoteID: "a", DisplayName: "BANKING", FullPath: "BANKING"},
		provider.RemoteContainer{RemoteID: "b", DisplayName: "Weird One", FullPath: "Weird One"},
		provider.RemoteContainer{RemoteID: "c", DisplayName: "Weird Two", FullPath: "Weird Two"},
	)
	expected := []ExpectedFolder{{Path: "BANKING", RemoteID: "a"}}

	report := NewValidator(90, nil).Check(expected, idx, []string{"banking"})
	if !report.AllPresent {
		t.Fatalf("record health should be independent of coverage")
	}
	if !report.CoverageWarning {
		t.Fatalf("expected coverage warning")
	}
}
