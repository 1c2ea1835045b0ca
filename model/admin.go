package model

import "time"

// Admin is a platform operator stored in the admins collection
type Admin struct {
	Key       string    `json:"_key,omitempty"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	CreatedOn time.Time `json:"createdOn"`
	AuthKey   string    `json:"authKey,omitempty"`
}

// AuthAdmin is the credential payload for admin-scoped requests
type AuthAdmin struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
