package account

import (
	"time"

	domain "fastloan-backend/internal/domain/user"
)

type RegisterInput struct {
	FirstName   string  `json:"first_name" validate:"required,max=64"`
	LastName    string  `json:"last_name" validate:"required,max=64"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	PhoneNumber string  `json:"phone_number" validate:"required,phone"`
	Password    string  `json:"password" validate:"required,min=8,max=72"`
}

// LoginInput.Identifier is an email address or a phone number.
type LoginInput struct {
	Identifier string `json:"identifier" validate:"required,max=255"`
	Password   string `json:"password" validate:"required,max=72"`
}

// Nil fields are left unchanged.
type UpdateProfileInput struct {
	FirstName        *string `json:"first_name,omitempty" validate:"omitempty,min=1,max=64"`
	LastName         *string `json:"last_name,omitempty" validate:"omitempty,min=1,max=64"`
	Email            *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	ProfileImage     *string `json:"profile_image,omitempty" validate:"omitempty,url,max=2048"`
	Gender           *string `json:"gender,omitempty" validate:"omitempty,oneof=male female"`
	MaritalStatus    *string `json:"marital_status,omitempty" validate:"omitempty,oneof=single married divorced widowed"`
	EmploymentStatus *string `json:"employment_status,omitempty" validate:"omitempty,oneof=employed self-employed unemployed student retired"`
	IDDocument       *string `json:"id_document,omitempty" validate:"omitempty,max=2048"`
}

type UserDTO struct {
	UserID           string    `json:"user_id"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Email            *string   `json:"email,omitempty"`
	PhoneNumber      string    `json:"phone_number"`
	ProfileImage     *string   `json:"profile_image,omitempty"`
	Gender           *string   `json:"gender,omitempty"`
	MaritalStatus    *string   `json:"marital_status,omitempty"`
	EmploymentStatus *string   `json:"employment_status,omitempty"`
	IDDocument       *string   `json:"id_document,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type SessionDTO struct {
	User      UserDTO   `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func toDTO(u *domain.User) UserDTO {
	dto := UserDTO{
		UserID:           u.UserID,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Email:            u.Email,
		PhoneNumber:      u.PhoneNumber,
		ProfileImage:     u.ProfileImage,
		MaritalStatus:    u.MaritalStatus,
		EmploymentStatus: u.EmploymentStatus,
		IDDocument:       u.IDDocument,
		CreatedAt:        u.CreatedAt,
	}
	if u.Gender != nil {
		g := string(*u.Gender)
		dto.Gender = &g
	}
	return dto
}
