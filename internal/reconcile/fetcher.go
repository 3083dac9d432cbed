package reconcile

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/nhle/foldersync/internal/apierror"
	"github.com/nhle/foldersync/internal/credential"
	"github.com/nhle/foldersync/internal/provider"
)

// ErrFetchIncomplete marks a remote enumeration that could not finish.
// Reconciliation never proceeds on a partial index: missing entries
// would read as "absent remotely" and trigger duplicate creation.
var ErrFetchIncomplete = errors.New("remote state fetch incomplete")

// Fetcher enumerates remote containers through a provider adapter,
// applying the transient-failure retry policy and exactly one
// credential-refresh cycle on auth rejection.
type Fetcher struct {
	provider provider.Provider
	creds    credential.Source
	retry    *apierror.Retryer
	logger   *zap.Logger
}

// NewFetcher creates a remote state fetcher for one provider.
func NewFetcher(p provider.Provider, creds credential.Source, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		provider: p,
		creds:    creds,
		retry:    apierror.NewRetryer(p.Hierarchical()),
		logger:   logger,
	}
}

// Fetch builds the remote index for a user's mailbox. Rate-limit and
// network failures retry per policy; an auth failure triggers one
// refresh-and-retry cycle; anything else is fatal for the run and
// wrapped as ErrFetchIncomplete.
func (f *Fetcher) Fetch(ctx context.Context, user string) (*provider.Index, error) {
	cred, err := f.creds.Token(ctx, user, string(f.provider.Type()))
	if err != nil {
		return nil, fmt.Errorf("%w: obtaining credential: %v", ErrFetchIncomplete, err)
	}

	idx, err := f.listAll(ctx, cred)
	if err == nil {
		return idx, nil
	}

	if apierror.IsAuthExpired(err) {
		f.logger.Info("credential rejected, refreshing once",
			zap.String("user", user),
			zap.String("provider", string(f.provider.Type())))

		cred, refreshErr := f.creds.Refresh(ctx, user, string(f.provider.Type()))
		if refreshErr != nil {
			return nil, fmt.Errorf("%w: credential refresh failed, reconnect the account: %v",
				ErrFetchIncomplete, refreshErr)
		}
		idx, err = f.listAll(ctx, cred)
		if err == nil {
			return idx, nil
		}
	}

	return nil, fmt.Errorf("%w: %v", ErrFetchIncomplete, err)
}

func (f *Fetcher) listAll(ctx context.Context, cred string) (*provider.Index, error) {
	var idx *provider.Index
	err := f.retry.Do(ctx, func(ctx context.Context) error {
		var listErr error
		idx, listErr = f.provider.ListAll(ctx, cred)
		return listErr
	})
	if err != nil {
		return nil, err
	}
	return idx, nil
}
