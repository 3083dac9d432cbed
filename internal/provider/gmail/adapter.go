package gmail

import (
	"context"
	"fmt"
	"strings"

	"github.com/nhle/foldersync/internal/provider"
)

// Adapter implements provider.Provider for the Gmail flat label
// namespace. Hierarchy is purely lexical: a child's create-name is
// "parent/child".
type Adapter struct {
	client *Client
}

// NewAdapter creates a Gmail provider adapter. An empty baseURL selects
// the production API endpoint.
func NewAdapter(baseURL string) *Adapter {
	return &Adapter{client: NewClient(baseURL)}
}

// Type returns the provider identifier for Gmail.
func (a *Adapter) Type() provider.Type {
	return provider.TypeGmail
}

// Hierarchical reports false: Gmail has no real folder tree.
func (a *Adapter) Hierarchical() bool {
	return false
}

// ListAll enumerates every user label. System labels (INBOX, SENT,
// SPAM, ...) are not part of the managed namespace and are skipped.
func (a *Adapter) ListAll(ctx context.Context, credential string) (*provider.Index, error) {
	var resp ListResponse
	if err := a.client.Get(ctx, credential, "/users/me/labels", &resp); err != nil {
		return nil, fmt.Errorf("listing labels: %w", err)
	}

	idx := provider.NewIndex()
	for _, label := range resp.Labels {
		if label.Type == "system" {
			continue
		}
		idx.Add(labelToContainer(label))
	}
	return idx, nil
}

// Create makes one label. For child nodes the parent is re-fetched by
// ID first; if the parent vanished out-of-band the label is created at
// the root rather than failing the call.
func (a *Adapter) Create(
	ctx context.Context,
	credential string,
	req provider.CreateRequest,
) (*provider.RemoteContainer, error) {
	fullName := req.Name
	parentID := req.ParentID

	if req.ParentID != "" {
		parent, err := a.GetByID(ctx, credential, req.ParentID)
		if err != nil {
			// Parent vanished between plan time and create time.
			fullName = req.Name
			parentID = ""
		} else {
			fullName = provider.JoinPath(parent.FullPath, req.Name)
		}
	} else if req.ParentPath != "" {
		fullName = provider.JoinPath(req.ParentPath, req.Name)
	}

	body := CreateLabelRequest{Name: fullName}
	if !req.Minimal {
		body.LabelListVisibility = "labelShow"
		body.MessageListVisibility = "show"
		if req.Color != "" {
			body.Color = &LabelColor{BackgroundColor: req.Color, TextColor: "#ffffff"}
		}
	}

	var created Label
	if err := a.client.Post(ctx, credential, "/users/me/labels", body, &created); err != nil {
		return nil, fmt.Errorf("creating label %q: %w", fullName, err)
	}

	container := labelToContainer(created)
	container.ParentRemoteID = parentID
	return &container, nil
}

// GetByID fetches one label, used for parent validation.
func (a *Adapter) GetByID(
	ctx context.Context,
	credential string,
	remoteID string,
) (*provider.RemoteContainer, error) {
	var label Label
	path := "/users/me/labels/" + remoteID
	if err := a.client.Get(ctx, credential, path, &label); err != nil {
		return nil, fmt.Errorf("fetching label %s: %w", remoteID, err)
	}
	container := labelToContainer(label)
	return &container, nil
}

// labelToContainer maps a Gmail label to the provider-neutral view.
// The display name is the last path segment of the label name.
func labelToContainer(label Label) provider.RemoteContainer {
	display := label.Name
	if i := strings.LastIndex(label.Name, "/"); i >= 0 {
		display = label.Name[i+1:]
	}
	return provider.RemoteContainer{
		RemoteID:    label.ID,
		DisplayName: display,
		FullPath:    label.Name,
	}
}
