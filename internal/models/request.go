package models

import "time"

type Request struct {
	ID                 string        `json:"id"`
	ClientID           string        `json:"clientId"`
	Title              string        `json:"title"`
	Description        string        `json:"description"`
	RequestType        RequestType   `json:"requestType"`
	Links              []string      `json:"links"`
	Attachments        []Attachment  `json:"attachments"`
	Status             Status        `json:"status"`
	Priority           int           `json:"priority"`
	StartedAt          *time.Time    `json:"startedAt"`
	CompletedAt        *time.Time    `json:"completedAt"`
	ExtensionHours     int           `json:"extensionHours"`
	ExtensionRequested bool          `json:"extensionRequested"`
	ExtensionNote      string        `json:"extensionNote,omitempty"`
	AdminNotes         string        `json:"adminNotes,omitempty"`
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
	Files              []RequestFile `json:"files,omitempty"`
}

// Attachment is a client-supplied file descriptor stored alongside the
// request. The bytes live in the file store; we only keep the descriptor.
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

// RequestFile is a design-team-supplied working file, ordered by insertion.
type RequestFile struct {
	ID        string    `json:"id"`
	RequestID string    `json:"requestId"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	FileType  string    `json:"fileType"`
	CreatedAt time.Time `json:"createdAt"`
}
