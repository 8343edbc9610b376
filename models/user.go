package models

import "time"

// Roles carried in tokens and user records.
const (
	RoleClient = "client"
	RoleAdmin  = "admin"
)

// User is a client or an admin.
type User struct {
	ID           string    `bson:"id" json:"id"`
	PhoneNumber  string    `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Name         string    `bson:"name,omitempty" json:"name,omitempty"`
	Email        string    `bson:"email,omitempty" json:"email,omitempty"`
	PasswordHash string    `bson:"passwordHash,omitempty" json:"-"`
	Avatar       string    `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Role         string    `bson:"role" json:"role"`
	FCMToken     string    `bson:"fcmToken,omitempty" json:"-"`
	CreatedBy    string    `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	LastLoginAt  time.Time `bson:"lastLoginAt,omitempty" json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Principal is the authenticated caller of an operation.
type Principal struct {
	ID    string `json:"id"`
	Role  string `json:"role"`
	Phone string `json:"phone,omitempty"`
}

// IsAdmin reports whether the caller is an admin.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// AuthResponse is returned after a successful login.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *User     `json:"user"`
	IsNewUser bool      `json:"isNewUser,omitempty"`
}
