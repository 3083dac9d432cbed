package provider

import (
	"context"
	"strings"
)

// Type identifies the kind of mailbox provider.
type Type string

const (
	// TypeGmail is the flat label namespace: hierarchy lives in
	// slash-delimited label names.
	TypeGmail Type = "gmail"

	// TypeOutlook is the real folder tree: hierarchy lives in
	// parent-folder references.
	TypeOutlook Type = "outlook"
)

// RemoteContainer is the provider-neutral view of one label or folder
// as it currently exists remotely. Rebuilt on every fetch; never
// persisted directly.
type RemoteContainer struct {
	RemoteID       string
	DisplayName    string
	ParentRemoteID string
	FullPath       string
}

// CreateRequest describes one container to create. ParentID and
// ParentPath are empty for top-level nodes. Minimal strips every
// optional attribute down to the bare name, the validation-failure
// fallback.
type CreateRequest struct {
	Name       string
	ParentID   string
	ParentPath string
	Color      string
	Minimal    bool
}

// Provider is the contract each mailbox backend implements. Credentials
// are opaque bearer strings supplied per call by an external token
// source; implementations never store them.
type Provider interface {
	// Type returns the provider identifier.
	Type() Type

	// Hierarchical reports whether the provider models a real folder
	// tree (true) or a flat labeled namespace (false).
	Hierarchical() bool

	// ListAll enumerates every container in the mailbox, walking
	// child collections for hierarchical providers.
	ListAll(ctx context.Context, credential string) (*Index, error)

	// Create makes one container. A provider-reported duplicate comes
	// back as an error classified duplicate, carrying the attempted
	// name, so the caller can re-resolve the existing ID. If the
	// requested parent no longer exists the container is created at
	// the root instead.
	Create(ctx context.Context, credential string, req CreateRequest) (*RemoteContainer, error)

	// GetByID fetches a single container, used for parent validation.
	GetByID(ctx context.Context, credential, remoteID string) (*RemoteContainer, error)
}

// Index is the fetched remote state, keyed both by bare display name
// and by full hierarchical path so that same-named nodes under
// different parents stay distinguishable.
type Index struct {
	byName map[string]RemoteContainer
	byPath map[string]RemoteContainer
	all    []RemoteContainer
}

// NewIndex returns an empty remote index.
func NewIndex() *Index {
	return &Index{
		byName: make(map[string]RemoteContainer),
		byPath: make(map[string]RemoteContainer),
	}
}

// Add records a container under both keys. The first container seen
// for a bare name wins that key; the path key is always exact.
func (idx *Index) Add(c RemoteContainer) {
	if c.FullPath == "" {
		c.FullPath = c.DisplayName
	}
	if _, taken := idx.byName[c.DisplayName]; !taken {
		idx.byName[c.DisplayName] = c
	}
	idx.byPath[c.FullPath] = c
	idx.all = append(idx.all, c)
}

// ByName looks a container up by bare display name.
func (idx *Index) ByName(name string) (RemoteContainer, bool) {
	c, ok := idx.byName[name]
	return c, ok
}

// ByPath looks a container up by full hierarchical path.
func (idx *Index) ByPath(path string) (RemoteContainer, bool) {
	c, ok := idx.byPath[path]
	return c, ok
}

// ByID scans for a container with the given remote ID.
func (idx *Index) ByID(remoteID string) (RemoteContainer, bool) {
	for _, c := range idx.all {
		if c.RemoteID == remoteID {
			return c, true
		}
	}
	return RemoteContainer{}, false
}

// All returns every container in fetch order.
func (idx *Index) All() []RemoteContainer {
	return idx.all
}

// Len returns the number of containers in the index.
func (idx *Index) Len() int {
	return len(idx.all)
}

// JoinPath builds a full path from segments using the canonical
// separator shared by both providers' path views.
func JoinPath(segments ...string) string {
	parts := segments[:0:0]
	for _, s := range segments {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}
