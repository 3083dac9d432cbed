package gmail

// Label represents a single Gmail label from the REST API. Nesting is
// encoded in the slash-delimited Name.
type Label struct {
	ID                    string      `json:"id"`
	Name                  string      `json:"name"`
	Type                  string      `json:"type"` // "system" or "user"
	LabelListVisibility   string      `json:"labelListVisibility,omitempty"`
	MessageListVisibility string      `json:"messageListVisibility,omitempty"`
	Color                 *LabelColor `json:"color,omitempty"`
}

// LabelColor is Gmail's declarative label color pair.
type LabelColor struct {
	TextColor       string `json:"textColor,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
}

// ListResponse is the response from GET /users/me/labels.
type ListResponse struct {
	Labels []Label `json:"labels"`
}

// CreateLabelRequest is the body for POST /users/me/labels.
type CreateLabelRequest struct {
	Name                  string      `json:"name"`
	LabelListVisibility   string      `json:"labelListVisibility,omitempty"`
	MessageListVisibility string      `json:"messageListVisibility,omitempty"`
	Color                 *LabelColor `json:"color,omitempty"`
}

// ErrorResponse is the standard Google API error envelope.
type ErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Message string `json:"message"`
			Domain  string `json:"domain"`
			Reason  string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}
