package reconcile

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/nhle/foldersync/internal/apierror"
	"github.com/nhle/foldersync/internal/credential"
	"github.com/nhle/foldersync/internal/provider"
	"github.com/nhle/foldersync/internal/taxonomy"
)

// Reconciler drives remote mailbox state toward a compiled taxonomy.
// Processing is strictly sequential in dependency order: a category's
// subtree is handled start to finish before the next category, and no
// child is attempted until its parent holds a verified remote ID.
type Reconciler struct {
	provider provider.Provider
	creds    credential.Source
	retry    *apierror.Retryer
	logger   *zap.Logger
}

// NewReconciler creates a reconciler for one provider.
func NewReconciler(p provider.Provider, creds credential.Source, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		provider: p,
		creds:    creds,
		retry:    apierror.NewRetryer(p.Hierarchical()),
		logger:   logger,
	}
}

// run carries the per-run state: the mutable index, the credential in
// use, and the accumulated result. Nothing here is shared between runs.
type run struct {
	ctx    context.Context
	user   string
	cred   string
	idx    *provider.Index
	known  map[string]string // path -> remote ID recorded by prior runs
	result *Result

	refreshed bool // one credential refresh per run
}

// Reconcile diffs the taxonomy against the fetched index and creates
// every missing node in dependency order. known maps previously
// recorded paths to remote IDs; pass nil on a first run. Per-node
// failures accumulate in the result; only a credential that cannot be
// refreshed aborts the run early.
func (r *Reconciler) Reconcile(
	ctx context.Context,
	user string,
	tax *taxonomy.Compiled,
	idx *provider.Index,
	known map[string]string,
) (*Result, error) {
	cred, err := r.creds.Token(ctx, user, string(r.provider.Type()))
	if err != nil {
		return nil, fmt.Errorf("obtaining credential: %w", err)
	}

	s := &run{
		ctx:    ctx,
		user:   user,
		cred:   cred,
		idx:    idx,
		known:  known,
		result: &Result{},
	}

	for _, category := range tax.OrderedRoots() {
		if err := ctx.Err(); err != nil {
			return s.result, err
		}
		r.reconcileCategory(s, category)
	}

	r.logger.Info("reconciliation finished",
		zap.String("user", user),
		zap.String("provider", string(r.provider.Type())),
		zap.Int("created", len(s.result.Created)),
		zap.Int("matched", len(s.result.Matched)),
		zap.Int("errors", len(s.result.Errors)))

	return s.result, nil
}

func (r *Reconciler) reconcileCategory(s *run, category taxonomy.Node) {
	parent, ok := r.resolveOrCreate(s, category, "", "", LevelCategory)
	if !ok {
		// A child cannot be created under a parent that does not
		// exist; skip the whole subtree and record the count.
		skipped := len(category.Children)
		for _, items := range category.Nested {
			skipped += len(items)
		}
		last := &s.result.Errors[len(s.result.Errors)-1]
		last.Skipped = skipped
		return
	}

	for _, sub := range category.Children {
		subParent, ok := r.resolveOrCreate(s, sub, parent.RemoteID, parent.FullPath, LevelSubcategory)
		if !ok {
			if items := category.Nested[sub.Name]; len(items) > 0 {
				last := &s.result.Errors[len(s.result.Errors)-1]
				last.Skipped = len(items)
			}
			continue
		}
		for _, item := range category.Nested[sub.Name] {
			r.resolveOrCreate(s, item, subParent.RemoteID, subParent.FullPath, LevelNested)
		}
	}
}

// resolveOrCreate resolves one node against the index or creates it
// remotely. On success the container is added to the index and to the
// matched/created lists; on failure a NodeError is appended and ok is
// false.
func (r *Reconciler) resolveOrCreate(
	s *run,
	node taxonomy.Node,
	parentID string,
	parentPath string,
	level Level,
) (provider.RemoteContainer, bool) {
	path := provider.JoinPath(parentPath, node.Name)

	if c, ok := r.resolve(s, node.Name, path, level); ok {
		s.result.Matched = append(s.result.Matched, Entry{
			Name: node.Name, Path: path, RemoteID: c.RemoteID, Level: level,
		})
		return c, true
	}

	c, viaDuplicate, err := r.create(s, provider.CreateRequest{
		Name:       node.Name,
		ParentID:   parentID,
		ParentPath: parentPath,
		Color:      node.Color,
	}, path)
	if err != nil {
		r.logger.Warn("node provisioning failed",
			zap.String("path", path),
			zap.String("class", string(apierror.Classify(err))),
			zap.Error(err))
		s.result.Errors = append(s.result.Errors, NodeError{
			Name: node.Name, Path: path, Level: level, Err: err.Error(),
		})
		return provider.RemoteContainer{}, false
	}

	s.idx.Add(*c)

	// The parent-vanished fallback can land a node at the root; record
	// it under its actual path.
	entry := Entry{Name: node.Name, Path: c.FullPath, RemoteID: c.RemoteID, Level: level}
	if viaDuplicate {
		s.result.Matched = append(s.result.Matched, entry)
	} else {
		s.result.Created = append(s.result.Created, entry)
	}
	return *c, true
}

// resolve checks the three match sources in order: a previously
// recorded remote ID, a full-path match, and a display-name match at
// the expected nesting level. Name matches at the wrong depth are
// rejected so same-named nodes under different parents never collide.
func (r *Reconciler) resolve(s *run, name, path string, level Level) (provider.RemoteContainer, bool) {
	if id, ok := s.known[path]; ok {
		if c, found := s.idx.ByID(id); found {
			return c, true
		}
	}
	if c, ok := s.idx.ByPath(path); ok {
		return c, true
	}
	if c, ok := s.idx.ByName(name); ok && pathDepth(c.FullPath) == int(level) {
		return c, true
	}
	return provider.RemoteContainer{}, false
}

// create issues the remote create with the full fallback ladder:
// transient retries via the policy table, one credential refresh on
// auth rejection, a minimal-payload retry on validation failure, and
// duplicate recovery through a fresh enumeration.
func (r *Reconciler) create(s *run, req provider.CreateRequest, path string) (*provider.RemoteContainer, bool, error) {
	c, err := r.attempt(s, req)
	if err == nil {
		return c, false, nil
	}

	if apierror.IsAuthExpired(err) && !s.refreshed {
		s.refreshed = true
		cred, refreshErr := r.creds.Refresh(s.ctx, s.user, string(r.provider.Type()))
		if refreshErr != nil {
			return nil, false, fmt.Errorf("credential refresh failed, reconnect the account: %w", err)
		}
		s.cred = cred
		c, err = r.attempt(s, req)
		if err == nil {
			return c, false, nil
		}
	}

	if apierror.Classify(err) == apierror.ClassValidation && !req.Minimal {
		r.logger.Info("create rejected, retrying with minimal payload",
			zap.String("path", path))
		minimal := req
		minimal.Minimal = true
		c, minErr := r.attempt(s, minimal)
		if minErr == nil {
			return c, false, nil
		}
		// Surface the raw provider error for diagnosis.
		return nil, false, fmt.Errorf("minimal-payload retry failed: %w", minErr)
	}

	if apierror.IsDuplicate(err) {
		existing, dupErr := r.resolveDuplicate(s, req, path, err)
		if dupErr != nil {
			return nil, false, dupErr
		}
		return existing, true, nil
	}

	return nil, false, err
}

func (r *Reconciler) attempt(s *run, req provider.CreateRequest) (*provider.RemoteContainer, error) {
	var c *provider.RemoteContainer
	err := r.retry.Do(s.ctx, func(ctx context.Context) error {
		var createErr error
		c, createErr = r.provider.Create(ctx, s.cred, req)
		return createErr
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// resolveDuplicate handles the provider telling us the node already
// exists: re-enumerate and look the existing ID up, so the node lands
// in matched rather than errors.
func (r *Reconciler) resolveDuplicate(
	s *run,
	req provider.CreateRequest,
	path string,
	cause error,
) (*provider.RemoteContainer, error) {
	fresh, err := r.provider.ListAll(s.ctx, s.cred)
	if err != nil {
		return nil, fmt.Errorf("resolving duplicate %q: re-fetch failed: %w", req.Name, err)
	}
	s.idx = fresh

	if c, ok := fresh.ByPath(path); ok {
		return &c, nil
	}
	if c, ok := fresh.ByName(req.Name); ok {
		return &c, nil
	}
	return nil, fmt.Errorf("provider reported %q duplicate but re-fetch cannot find it: %w", req.Name, cause)
}

func pathDepth(path string) int {
	return strings.Count(path, "/") + 1
}
