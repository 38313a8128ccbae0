package models

import "time"

type Client struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	Logo            string    `json:"logo,omitempty"`
	Plan            string    `json:"plan"`
	CustomPrice     *int      `json:"customPrice,omitempty"`
	CustomMaxActive *int      `json:"customMaxActive,omitempty"`
	CustomDesigners *string   `json:"customDesigners,omitempty"`
	PasswordEnabled bool      `json:"passwordEnabled"`
	AccessToken     string    `json:"accessToken,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`

	// Populated on admin listings only.
	ActiveCount    int `json:"activeCount"`
	QueuedCount    int `json:"queuedCount"`
	CompletedCount int `json:"completedCount"`
}

type Notification struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"` // new_request | extension_request
	ClientID   string    `json:"clientId"`
	RequestID  string    `json:"requestId"`
	ClientName string    `json:"clientName,omitempty"`
	Message    string    `json:"message"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"createdAt"`
}
