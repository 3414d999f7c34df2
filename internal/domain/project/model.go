package project

import "time"

// Project is a construction project visible to a user on the dashboard.
// Optional fields use the empty string for "not set".
type Project struct {
	ID          string    `json:"id" yaml:"id"`
	UserID      string    `json:"user_id" yaml:"user_id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description"`
	ClientID    string    `json:"client_id,omitempty" yaml:"client_id"`
	Status      string    `json:"status,omitempty" yaml:"status"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}
