package provision_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/foldersync/internal/model"
	"github.com/nhle/foldersync/internal/provider"
	"github.com/nhle/foldersync/internal/provision"
	"github.com/nhle/foldersync/internal/store"
	"github.com/nhle/foldersync/internal/taxonomy"
	"github.com/nhle/foldersync/tests/testutil"
)

// fakeLabelProvider is a flat, gmail-shaped in-memory backend.
type fakeLabelProvider struct {
	containers []provider.RemoteContainer
	nextID     int
}

func (f *fakeLabelProvider) Type() provider.Type { return provider.TypeGmail }
func (f *fakeLabelProvider) Hierarchical() bool  { return false }

func (f *fakeLabelProvider) ListAll(ctx context.Context, cred string) (*provider.Index, error) {
	idx := provider.NewIndex()
	for _, c := range f.containers {
		idx.Add(c)
	}
	return idx, nil
}

func (f *fakeLabelProvider) Create(ctx context.Context, cred string, req provider.CreateRequest) (*provider.RemoteContainer, error) {
	f.nextID++
	c := provider.RemoteContainer{
		RemoteID:       fmt.Sprintf("Label_%d", f.nextID),
		DisplayName:    req.Name,
		ParentRemoteID: req.ParentID,
		FullPath:       provider.JoinPath(req.ParentPath, req.Name),
	}
	f.containers = append(f.containers, c)
	return &c, nil
}

func (f *fakeLabelProvider) GetByID(ctx context.Context, cred, remoteID string) (*provider.RemoteContainer, error) {
	for _, c := range f.containers {
		if c.RemoteID == remoteID {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("container %s not found", remoteID)
}

// seed populates the fake with an already provisioned tree.
func (f *fakeLabelProvider) seed(paths ...string) {
	for _, p := range paths {
		f.nextID++
		name := p
		for i := len(p) - 1; i >= 0; i-- {
			if p[i] == '/' {
				name = p[i+1:]
				break
			}
		}
		f.containers = append(f.containers, provider.RemoteContainer{
			RemoteID:    fmt.Sprintf("Label_%d", f.nextID),
			DisplayName: name,
			FullPath:    p,
		})
	}
}

type staticCreds struct{}

func (staticCreds) Token(ctx context.Context, user, prov string) (string, error) {
	return "tok", nil
}
func (staticCreds) Refresh(ctx context.Context, user, prov string) (string, error) {
	return "tok", nil
}

func testConfig() model.ProvisionConfig {
	return model.ProvisionConfig{
		ReprovisionThreshold:  70,
		CoverageWarnThreshold: 90,
	}
}

func setupUser(t *testing.T, s store.Store) {
	t.Helper()
	require.NoError(t, s.SetBusinessTypes(context.Background(), "u1", []string{"plumbing"}))
}

func TestProvisionFirstRunCreatesEverything(t *testing.T) {
	s := testutil.NewTestStore(t)
	setupUser(t, s)
	fake := &fakeLabelProvider{}
	engine := provision.NewEngine(s, fake, staticCreds{}, testConfig(), nil)

	summary, err := engine.Provision(context.Background(), "u1", provision.Options{})
	require.NoError(t, err)
	require.False(t, summary.Skipped)

	tax, err := taxonomy.Compile([]string{"plumbing"}, taxonomy.Roster{})
	require.NoError(t, err)

	assert.Equal(t, tax.NodeCount(), len(summary.Result.Created))
	assert.Empty(t, summary.Result.Errors)
	assert.True(t, summary.Run.Succeeded)
	assert.NotEmpty(t, summary.Run.ID)

	entries, err := s.GetLabelMap(context.Background(), "u1", "gmail")
	require.NoError(t, err)
	assert.Len(t, entries, tax.NodeCount())

	last, err := s.GetLastRun(context.Background(), "u1", "gmail")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, tax.NodeCount(), last.Created)
	assert.Equal(t, "[]", last.ErrorsJSON)
	assert.Equal(t, summary.Run.ID, last.ID)
}

func TestProvisionSecondRunSkipsHealthyMailbox(t *testing.T) {
	s := testutil.NewTestStore(t)
	setupUser(t, s)
	fake := &fakeLabelProvider{}
	engine := provision.NewEngine(s, fake, staticCreds{}, testConfig(), nil)
	ctx := context.Background()

	_, err := engine.Provision(ctx, "u1", provision.Options{})
	require.NoError(t, err)

	summary, err := engine.Provision(ctx, "u1", provision.Options{})
	require.NoError(t, err)
	assert.True(t, summary.Skipped)
	assert.Nil(t, summary.Result)
	assert.InDelta(t, 100, summary.Report.HealthPercentage, 0.01)
}

func TestProvisionForceReconcilesHealthyMailbox(t *testing.T) {
	s := testutil.NewTestStore(t)
	setupUser(t, s)
	fake := &fakeLabelProvider{}
	engine := provision.NewEngine(s, fake, staticCreds{}, testConfig(), nil)
	ctx := context.Background()

	first, err := engine.Provision(ctx, "u1", provision.Options{})
	require.NoError(t, err)

	summary, err := engine.Provision(ctx, "u1", provision.Options{Force: true})
	require.NoError(t, err)
	require.False(t, summary.Skipped)
	assert.Empty(t, summary.Result.Created)
	assert.Equal(t, len(first.Result.Created), len(summary.Result.Matched))
}

func TestProvisionRefusesSilentReadoption(t *testing.T) {
	s := testutil.NewTestStore(t)
	setupUser(t, s)
	fake := &fakeLabelProvider{}
	fake.seed("BANKING", "BANKING/Receipts")
	engine := provision.NewEngine(s, fake, staticCreds{}, testConfig(), nil)
	ctx := context.Background()

	// Empty local record, provisioned mailbox: hands off without force.
	summary, err := engine.Provision(ctx, "u1", provision.Options{})
	require.NoError(t, err)
	assert.True(t, summary.Skipped)
	assert.True(t, summary.Report.NeedsSync)
	assert.Contains(t, summary.SkipReason, "--force")

	last, err := s.GetLastRun(ctx, "u1", "gmail")
	require.NoError(t, err)
	assert.Nil(t, last)

	// Forced, the run adopts what exists and creates the rest.
	forced, err := engine.Provision(ctx, "u1", provision.Options{Force: true})
	require.NoError(t, err)
	require.False(t, forced.Skipped)
	assert.GreaterOrEqual(t, len(forced.Result.Matched), 2)
	assert.True(t, forced.Run.Succeeded)
}

func TestProvisionWithoutBusinessTypes(t *testing.T) {
	s := testutil.NewTestStore(t)
	engine := provision.NewEngine(s, &fakeLabelProvider{}, staticCreds{}, testConfig(), nil)

	_, err := engine.Provision(context.Background(), "u1", provision.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no business types")
}

func TestProvisionUsesRosterFromStore(t *testing.T) {
	s := testutil.NewTestStore(t)
	setupUser(t, s)
	ctx := context.Background()
	require.NoError(t, s.UpsertTeamMember(ctx, model.TeamMember{
		UserID: "u1", Name: "Alex", Kind: model.MemberKindManager, Position: 1,
	}))

	fake := &fakeLabelProvider{}
	engine := provision.NewEngine(s, fake, staticCreds{}, testConfig(), nil)

	summary, err := engine.Provision(ctx, "u1", provision.Options{})
	require.NoError(t, err)

	var found bool
	for _, e := range summary.Result.Created {
		if e.Path == "MANAGER/Alex" {
			found = true
		}
	}
	assert.True(t, found, "resolved manager placeholder should be provisioned")
}

func TestLastRunReflectsHistory(t *testing.T) {
	s := testutil.NewTestStore(t)
	setupUser(t, s)
	fake := &fakeLabelProvider{}
	engine := provision.NewEngine(s, fake, staticCreds{}, testConfig(), nil)
	ctx := context.Background()

	last, err := engine.LastRun(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, last)

	summary, err := engine.Provision(ctx, "u1", provision.Options{})
	require.NoError(t, err)

	last, err = engine.LastRun(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, summary.Run.ID, last.ID)
	assert.Equal(t, len(summary.Result.Created), last.Created)
}

func TestHealthReportsWithoutMutating(t *testing.T) {
	s := testutil.NewTestStore(t)
	setupUser(t, s)
	fake := &fakeLabelProvider{}
	engine := provision.NewEngine(s, fake, staticCreds{}, testConfig(), nil)
	ctx := context.Background()

	_, err := engine.Provision(ctx, "u1", provision.Options{})
	require.NoError(t, err)
	provisioned := len(fake.containers)

	report, err := engine.Health(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, report.AllPresent)
	assert.InDelta(t, 100, report.HealthPercentage, 0.01)
	assert.Equal(t, provisioned, len(fake.containers))
}
