package models

import "github.com/golang-jwt/jwt/v5"

// UserRole represents the roles carried by portal access tokens.
type UserRole string

const (
	RoleSuperAdmin UserRole = "SUPERADMIN"
	RoleAdmin      UserRole = "ADMIN"
	RoleTeacher    UserRole = "TEACHER"
	RoleStudent    UserRole = "STUDENT"
)

// IsAdministrator reports whether the role may run administrative operations.
func (r UserRole) IsAdministrator() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// JWTClaims represents the access token payload issued by the portal identity provider.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	jwt.RegisteredClaims
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
