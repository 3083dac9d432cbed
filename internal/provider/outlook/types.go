package outlook

// MailFolder represents a single folder from the Graph mailFolders API.
type MailFolder struct {
	ID               string `json:"id"`
	DisplayName      string `json:"displayName"`
	ParentFolderID   string `json:"parentFolderId,omitempty"`
	ChildFolderCount int    `json:"childFolderCount"`
	TotalItemCount   int    `json:"totalItemCount,omitempty"`
	IsHidden         bool   `json:"isHidden,omitempty"`
}

// ListResponse is a page of folders from GET .../mailFolders or
// GET .../childFolders.
type ListResponse struct {
	Value    []MailFolder `json:"value"`
	NextLink string       `json:"@odata.nextLink,omitempty"`
}

// CreateFolderRequest is the body for POST .../mailFolders and
// POST .../childFolders. Graph folders carry no color attribute; any
// color hint from the taxonomy is dropped before this layer.
type CreateFolderRequest struct {
	DisplayName string `json:"displayName"`
}

// ErrorResponse is the standard Graph error envelope.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
