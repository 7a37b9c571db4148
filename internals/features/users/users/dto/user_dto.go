package dto

import (
	"encoding/json"
	"strings"
	"time"

	"ilmhub_backend/internals/features/users/users/model"
)

/* ===================== Clerk webhook ===================== */

type ClerkEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type ClerkEmail struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

type ClerkUser struct {
	ID                    string         `json:"id"`
	FirstName             *string        `json:"first_name"`
	LastName              *string        `json:"last_name"`
	ImageURL              string         `json:"image_url"`
	PrimaryEmailAddressID *string        `json:"primary_email_address_id"`
	EmailAddresses        []ClerkEmail   `json:"email_addresses"`
	PublicMetadata        map[string]any `json:"public_metadata"`
	Deleted               bool           `json:"deleted"`
}

// PrimaryEmail picks the primary address, else the first one, lowercased.
func (u ClerkUser) PrimaryEmail() string {
	if len(u.EmailAddresses) == 0 {
		return ""
	}
	pick := u.EmailAddresses[0].EmailAddress
	if u.PrimaryEmailAddressID != nil {
		for _, e := range u.EmailAddresses {
			if e.ID == *u.PrimaryEmailAddressID {
				pick = e.EmailAddress
				break
			}
		}
	}
	return strings.ToLower(strings.TrimSpace(pick))
}

func (u ClerkUser) MetadataAdmin() bool {
	switch v := u.PublicMetadata["isAdmin"].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	}
	return false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func (u ClerkUser) ToModel(isAdmin bool) model.UserModel {
	return model.UserModel{
		ID:        u.ID,
		Email:     u.PrimaryEmail(),
		FirstName: deref(u.FirstName),
		LastName:  deref(u.LastName),
		ImageURL:  u.ImageURL,
		IsAdmin:   isAdmin,
	}
}

/* ===================== Requests ===================== */

type UpdateRoleRequest struct {
	IsAdmin *bool `json:"is_admin" validate:"required"`
}

/* ===================== Responses ===================== */

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	FullName  string    `json:"full_name"`
	ImageURL  string    `json:"image_url"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromModel(u *model.UserModel) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName(),
		ImageURL:  u.ImageURL,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func FromModelList(users []model.UserModel) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, FromModel(&users[i]))
	}
	return out
}
