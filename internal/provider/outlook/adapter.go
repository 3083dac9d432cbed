package outlook

import (
	"context"
	"fmt"

	"github.com/nhle/foldersync/internal/provider"
)

// pageSize is the $top value for folder list requests.
const pageSize = 100

// wellKnownFolders are the standard mailbox folders every account has.
// They are not part of the managed namespace and are excluded from the
// remote index, matching the system-label filter on the Gmail side.
var wellKnownFolders = map[string]bool{
	"Inbox":                true,
	"Drafts":               true,
	"Sent Items":           true,
	"Deleted Items":        true,
	"Junk Email":           true,
	"Outbox":               true,
	"Archive":              true,
	"Conversation History": true,
	"RSS Feeds":            true,
	"Sync Issues":          true,
}

// Adapter implements provider.Provider for the Outlook folder tree via
// Microsoft Graph. Hierarchy is structural: children live in their
// parent's childFolders collection.
type Adapter struct {
	client *Client
}

// NewAdapter creates an Outlook provider adapter. An empty baseURL
// selects the production Graph endpoint.
func NewAdapter(baseURL string) *Adapter {
	return &Adapter{client: NewClient(baseURL)}
}

// Type returns the provider identifier for Outlook.
func (a *Adapter) Type() provider.Type {
	return provider.TypeOutlook
}

// Hierarchical reports true: folders form a real parent/child tree.
func (a *Adapter) Hierarchical() bool {
	return true
}

// ListAll walks the folder tree breadth-first from the root collection,
// following pagination links and descending into childFolders, and
// records each folder under its full path.
func (a *Adapter) ListAll(ctx context.Context, credential string) (*provider.Index, error) {
	idx := provider.NewIndex()

	roots, err := a.listPage(ctx, credential, fmt.Sprintf("/me/mailFolders?$top=%d", pageSize))
	if err != nil {
		return nil, fmt.Errorf("listing root folders: %w", err)
	}

	for _, folder := range roots {
		if wellKnownFolders[folder.DisplayName] || folder.IsHidden {
			continue
		}
		if err := a.walk(ctx, credential, folder, "", idx); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

// walk records one folder and recurses into its children.
func (a *Adapter) walk(
	ctx context.Context,
	credential string,
	folder MailFolder,
	parentPath string,
	idx *provider.Index,
) error {
	fullPath := provider.JoinPath(parentPath, folder.DisplayName)
	idx.Add(provider.RemoteContainer{
		RemoteID:       folder.ID,
		DisplayName:    folder.DisplayName,
		ParentRemoteID: folder.ParentFolderID,
		FullPath:       fullPath,
	})

	if folder.ChildFolderCount == 0 {
		return nil
	}

	path := fmt.Sprintf("/me/mailFolders/%s/childFolders?$top=%d", folder.ID, pageSize)
	children, err := a.listPage(ctx, credential, path)
	if err != nil {
		return fmt.Errorf("listing children of %q: %w", fullPath, err)
	}
	for _, child := range children {
		if err := a.walk(ctx, credential, child, fullPath, idx); err != nil {
			return err
		}
	}
	return nil
}

// listPage fetches one folder collection, following @odata.nextLink
// until the page set is exhausted.
func (a *Adapter) listPage(ctx context.Context, credential, path string) ([]MailFolder, error) {
	var out []MailFolder

	var resp ListResponse
	if err := a.client.Get(ctx, credential, path, &resp); err != nil {
		return nil, err
	}
	out = append(out, resp.Value...)

	for resp.NextLink != "" {
		next := resp.NextLink
		resp = ListResponse{}
		if err := a.client.GetURL(ctx, credential, next, &resp); err != nil {
			return nil, err
		}
		out = append(out, resp.Value...)
	}
	return out, nil
}

// Create makes one folder, against the root collection or a parent's
// childFolders collection. The parent is re-fetched by ID first; if it
// vanished out-of-band the folder is created at the root rather than
// failing the call. Color hints are ignored: Graph folders have no
// color attribute.
func (a *Adapter) Create(
	ctx context.Context,
	credential string,
	req provider.CreateRequest,
) (*provider.RemoteContainer, error) {
	path := "/me/mailFolders"
	parentID := req.ParentID
	parentPath := req.ParentPath

	if req.ParentID != "" {
		if _, err := a.GetByID(ctx, credential, req.ParentID); err != nil {
			// Parent vanished between plan time and create time.
			parentID = ""
			parentPath = ""
		} else {
			path = "/me/mailFolders/" + req.ParentID + "/childFolders"
		}
	}

	var created MailFolder
	body := CreateFolderRequest{DisplayName: req.Name}
	if err := a.client.Post(ctx, credential, path, body, &created); err != nil {
		return nil, fmt.Errorf("creating folder %q: %w", req.Name, err)
	}

	return &provider.RemoteContainer{
		RemoteID:       created.ID,
		DisplayName:    created.DisplayName,
		ParentRemoteID: parentID,
		FullPath:       provider.JoinPath(parentPath, created.DisplayName),
	}, nil
}

// GetByID fetches one folder, used for parent validation. The returned
// container's FullPath is the bare display name; callers needing exact
// paths resolve them through the index instead.
func (a *Adapter) GetByID(
	ctx context.Context,
	credential string,
	remoteID string,
) (*provider.RemoteContainer, error) {
	var folder MailFolder
	if err := a.client.Get(ctx, credential, "/me/mailFolders/"+remoteID, &folder); err != nil {
		return nil, fmt.Errorf("fetching folder %s: %w", remoteID, err)
	}
	return &provider.RemoteContainer{
		RemoteID:       folder.ID,
		DisplayName:    folder.DisplayName,
		ParentRemoteID: folder.ParentFolderID,
		FullPath:       folder.DisplayName,
	}, nil
}
