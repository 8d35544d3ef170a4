package models

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

const (
	AuthProviderLocal    = "local"
	AuthProviderGoogle   = "google"
	AuthProviderFacebook = "facebook"
)

type User struct {
	UserID        string    `json:"userid" bson:"userid"`
	FullName      string    `json:"fullName" bson:"fullName"`
	Email         string    `json:"email" bson:"email"`
	Password      string    `json:"-" bson:"password,omitempty"`
	Role          string    `json:"role" bson:"role"`
	AuthProvider  string    `json:"authProvider" bson:"authProvider"`
	Phone         string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Country       string    `json:"country,omitempty" bson:"country,omitempty"`
	RefreshToken  string    `json:"-" bson:"refresh_token,omitempty"`
	RefreshExpiry time.Time `json:"-" bson:"refresh_expiry,omitempty"`
	LastLogin     time.Time `json:"lastLogin,omitempty" bson:"last_login,omitempty"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`
}

// UserDisplay is the projection embedded in order views.
type UserDisplay struct {
	UserID   string `json:"userid" bson:"userid"`
	FullName string `json:"fullName" bson:"fullName"`
	Email    string `json:"email" bson:"email"`
}
