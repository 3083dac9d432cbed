// Package provision orchestrates one end-to-end provisioning run:
// compile the taxonomy from the stored roster, fetch remote state,
// decide whether reconciliation is needed, reconcile, and persist the
// friendly-key label map and the run record.
package provision

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nhle/foldersync/internal/credential"
	"github.com/nhle/foldersync/internal/health"
	"github.com/nhle/foldersync/internal/model"
	"github.com/nhle/foldersync/internal/provider"
	"github.com/nhle/foldersync/internal/reconcile"
	"github.com/nhle/foldersync/internal/store"
	"github.com/nhle/foldersync/internal/taxonomy"
)

// Options controls one provisioning run.
type Options struct {
	// Force runs reconciliation even when the health pre-check says the
	// mailbox is already in good shape, and past the needs-sync guard.
	Force bool
}

// Summary is the outcome of one Provision call. When Skipped is set the
// run never reached the provider's write path; SkipReason says why.
type Summary struct {
	Skipped    bool
	SkipReason string

	Report *health.Report
	Result *reconcile.Result
	Run    *model.ProvisioningRun
}

// Engine wires the pipeline together for one provider.
type Engine struct {
	store    store.Store
	provider provider.Provider
	creds    credential.Source
	cfg      model.ProvisionConfig
	logger   *zap.Logger

	fetcher    *reconcile.Fetcher
	reconciler *reconcile.Reconciler
	validator  *health.Validator
}

// NewEngine creates a provisioning engine.
func NewEngine(
	s store.Store,
	p provider.Provider,
	creds credential.Source,
	cfg model.ProvisionConfig,
	logger *zap.Logger,
) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:      s,
		provider:   p,
		creds:      creds,
		cfg:        cfg,
		logger:     logger,
		fetcher:    reconcile.NewFetcher(p, creds, logger),
		reconciler: reconcile.NewReconciler(p, creds, logger),
		validator:  health.NewValidator(cfg.CoverageWarnThreshold, logger),
	}
}

// Provision runs the full pipeline for one user. A mailbox at or above
// the reprovision health threshold is skipped unless forced, and an
// empty local record facing a provisioned remote mailbox is refused
// without force so drift is never papered over silently.
func (e *Engine) Provision(ctx context.Context, user string, opts Options) (*Summary, error) {
	tax, err := e.compile(ctx, user)
	if err != nil {
		return nil, err
	}

	idx, err := e.fetcher.Fetch(ctx, user)
	if err != nil {
		return nil, err
	}

	known, recorded, err := e.recordedState(ctx, user)
	if err != nil {
		return nil, err
	}

	report := e.validator.Check(recorded, idx, tax.Vocabulary())
	if !opts.Force {
		if report.NeedsSync {
			return &Summary{
				Skipped:    true,
				SkipReason: "local record is empty but the mailbox is already provisioned; rerun with --force to adopt the existing structure",
				Report:     report,
			}, nil
		}
		if len(recorded) > 0 && report.HealthPercentage >= e.cfg.ReprovisionThreshold {
			e.logger.Info("mailbox healthy, skipping reconciliation",
				zap.String("user", user),
				zap.Float64("health", report.HealthPercentage))
			return &Summary{
				Skipped:    true,
				SkipReason: fmt.Sprintf("mailbox health %.0f%% meets the %.0f%% threshold", report.HealthPercentage, e.cfg.ReprovisionThreshold),
				Report:     report,
			}, nil
		}
	}

	result, err := e.reconciler.Reconcile(ctx, user, tax, idx, known)
	if err != nil {
		return nil, err
	}

	if err := e.persist(ctx, user, result); err != nil {
		return nil, err
	}

	run, err := e.recordRun(ctx, user, result)
	if err != nil {
		return nil, err
	}

	return &Summary{Report: report, Result: result, Run: run}, nil
}

// Health fetches remote state and computes a report without touching
// anything.
func (e *Engine) Health(ctx context.Context, user string) (*health.Report, error) {
	tax, err := e.compile(ctx, user)
	if err != nil {
		return nil, err
	}

	idx, err := e.fetcher.Fetch(ctx, user)
	if err != nil {
		return nil, err
	}

	_, recorded, err := e.recordedState(ctx, user)
	if err != nil {
		return nil, err
	}

	return e.validator.Check(recorded, idx, tax.Vocabulary()), nil
}

// LastRun returns the most recent recorded run for the user on this
// engine's provider, or nil when none exists.
func (e *Engine) LastRun(ctx context.Context, user string) (*model.ProvisioningRun, error) {
	return e.store.GetLastRun(ctx, user, string(e.provider.Type()))
}

// compile loads the stored business types and roster and compiles the
// taxonomy. No stored business types means the account was never set
// up.
func (e *Engine) compile(ctx context.Context, user string) (*taxonomy.Compiled, error) {
	types, err := e.store.GetBusinessTypes(ctx, user)
	if err != nil {
		return nil, err
	}
	if len(types) == 0 {
		return nil, fmt.Errorf("no business types configured for %s, run roster set-types first", user)
	}

	members, err := e.store.GetTeamMembers(ctx, user)
	if err != nil {
		return nil, err
	}

	return taxonomy.Compile(types, rosterFromMembers(members))
}

// rosterFromMembers splits the stored roster rows, already ordered by
// kind and slot position, into the compiler's view.
func rosterFromMembers(members []model.TeamMember) taxonomy.Roster {
	var r taxonomy.Roster
	for _, m := range members {
		switch m.Kind {
		case model.MemberKindManager:
			r.Managers = append(r.Managers, m.Name)
		case model.MemberKindSupplier:
			r.Suppliers = append(r.Suppliers, m.Name)
		}
	}
	return r
}

// recordedState loads the persisted label map in both shapes the
// pipeline needs: path→ID for the reconciler's known-ID resolution and
// the expected-folder list for the validator.
func (e *Engine) recordedState(ctx context.Context, user string) (map[string]string, []health.ExpectedFolder, error) {
	entries, err := e.store.GetLabelMap(ctx, user, string(e.provider.Type()))
	if err != nil {
		return nil, nil, err
	}

	known := make(map[string]string, len(entries))
	expected := make([]health.ExpectedFolder, 0, len(entries))
	for _, entry := range entries {
		known[entry.Path] = entry.RemoteID
		expected = append(expected, health.ExpectedFolder{Path: entry.Path, RemoteID: entry.RemoteID})
	}
	return known, expected, nil
}

// persist merges this run's resolved nodes into the durable label map.
func (e *Engine) persist(ctx context.Context, user string, result *reconcile.Result) error {
	entries := result.Entries()
	if len(entries) == 0 {
		return nil
	}

	now := time.Now().UTC()
	keyed := reconcile.AssignKeys(entries)
	rows := make([]model.LabelMapEntry, 0, len(keyed))
	for _, k := range keyed {
		rows = append(rows, model.LabelMapEntry{
			UserID:      user,
			Provider:    string(e.provider.Type()),
			FriendlyKey: k.Key,
			Path:        k.Entry.Path,
			RemoteID:    k.Entry.RemoteID,
			UpdatedAt:   now,
		})
	}
	return e.store.MergeLabelMap(ctx, rows)
}

// recordRun appends the run to the history with the itemized failures.
func (e *Engine) recordRun(ctx context.Context, user string, result *reconcile.Result) (*model.ProvisioningRun, error) {
	errorsJSON := "[]"
	if len(result.Errors) > 0 {
		raw, err := json.Marshal(result.Errors)
		if err != nil {
			return nil, fmt.Errorf("encoding run errors: %w", err)
		}
		errorsJSON = string(raw)
	}

	run := model.ProvisioningRun{
		ID:         uuid.New().String(),
		UserID:     user,
		Provider:   string(e.provider.Type()),
		Created:    len(result.Created),
		Matched:    len(result.Matched),
		Errored:    len(result.Errors),
		Succeeded:  result.Succeeded(),
		ErrorsJSON: errorsJSON,
		RanAt:      time.Now().UTC(),
	}
	if err := e.store.RecordRun(ctx, run); err != nil {
		return nil, err
	}
	return &run, nil
}
