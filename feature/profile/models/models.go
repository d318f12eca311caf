package models

// ContactProfile is a snapshot of the contact behind a session.
type ContactProfile struct {
	ContactID      string   `json:"contactId"`
	Identifiers    []string `json:"identifiers"`
	FirstName      *string  `json:"firstName,omitempty"`
	LastName       *string  `json:"lastName,omitempty"`
	Emails         []string `json:"emails,omitempty"`
	PreferredEmail *string  `json:"preferredEmail,omitempty"`
}

// ServiceStatus reports whether the contact collection can be reached.
type ServiceStatus struct {
	CollectionAvailable bool   `json:"collectionAvailable"`
	Collection          string `json:"collection"`
}

// ContactDataRequest is the body of PUT /contact.
type ContactDataRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// IdentifyRequest is the body of POST /contact/identify.
type IdentifyRequest struct {
	Identifier string `json:"identifier"`
	Source     string `json:"source"`
}

// SessionState is the response of GET /session.
type SessionState struct {
	Active    bool   `json:"active"`
	SessionID string `json:"sessionId,omitempty"`
}

// ConfigReport is the response of GET /config/validate.
type ConfigReport struct {
	Valid    bool     `json:"valid"`
	Messages []string `json:"messages"`
}
