package dto

import "github.com/noah-isme/engage-dash-api/internal/models"

// CreateUserRequest captures the POST /users payload.
type CreateUserRequest struct {
	Email      string          `json:"email" binding:"required,email"`
	Password   string          `json:"password" binding:"required,min=8"`
	FullName   string          `json:"full_name" binding:"required"`
	Role       models.UserRole `json:"role" binding:"required"`
	Department string          `json:"department"`
}

// UpdateUserRequest captures the PATCH /users/:id payload. Absent fields
// leave the stored value unchanged.
type UpdateUserRequest struct {
	FullName   *string          `json:"full_name,omitempty"`
	Role       *models.UserRole `json:"role,omitempty"`
	Department *string          `json:"department,omitempty"`
	Active     *bool            `json:"active,omitempty"`
}
