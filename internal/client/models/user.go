// Package models defines the client-side data model of SafeDocs: the session,
// documents, shared links and upload tasks.
package models

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Role is the tagged role of a user account.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ID is an identifier the backend may encode either as a JSON string or as
// a JSON number.
type ID string

var ErrInvalidID = errors.New("id must be a string or a number")

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return ErrInvalidID
	}
	*id = ID(n.String())
	return nil
}

type User struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Session is the client-held pair of bearer token and user profile.
type Session struct {
	Token string
	User  User
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	User        User   `json:"user"`
}

// RegisterForm is what the registration prompt collects. Only Name, Email
// and Password are sent; confirmation and terms stay on the client.
type RegisterForm struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	// AcceptTerms is nil when the form does not ask for terms at all.
	AcceptTerms *bool
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Payload strips the client-only fields from the form.
func (f RegisterForm) Payload() RegisterRequest {
	return RegisterRequest{Name: f.Name, Email: f.Email, Password: f.Password}
}
