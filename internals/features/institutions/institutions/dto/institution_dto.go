package dto

import (
	"time"

	"github.com/google/uuid"

	"ilmhub_backend/internals/features/institutions/institutions/model"
)

type CreateInstitutionRequest struct {
	InstitutionName        string   `json:"institution_name" validate:"required,max=200"`
	InstitutionSlug        string   `json:"institution_slug" validate:"omitempty,max=180"`
	InstitutionType        string   `json:"institution_type" validate:"required,oneof=mosque madrasa school university other"`
	InstitutionDescription string   `json:"institution_description"`
	InstitutionAddress     string   `json:"institution_address"`
	InstitutionDistrict    string   `json:"institution_district" validate:"omitempty,max=80"`
	InstitutionDivision    string   `json:"institution_division" validate:"omitempty,max=80"`
	InstitutionLatitude    *float64 `json:"institution_latitude" validate:"omitempty,latitude"`
	InstitutionLongitude   *float64 `json:"institution_longitude" validate:"omitempty,longitude"`
	InstitutionPhone       string   `json:"institution_phone" validate:"omitempty,max=40"`
	InstitutionEmail       string   `json:"institution_email" validate:"omitempty,email"`
	InstitutionWebsite     string   `json:"institution_website" validate:"omitempty,url"`
	InstitutionImageURL    string   `json:"institution_image_url" validate:"omitempty,url"`
	InstitutionIsVerified  bool     `json:"institution_is_verified"`
}

type UpdateInstitutionRequest struct {
	InstitutionName        *string  `json:"institution_name" validate:"omitempty,max=200"`
	InstitutionSlug        *string  `json:"institution_slug" validate:"omitempty,max=180"`
	InstitutionType        *string  `json:"institution_type" validate:"omitempty,oneof=mosque madrasa school university other"`
	InstitutionDescription *string  `json:"institution_description"`
	InstitutionAddress     *string  `json:"institution_address"`
	InstitutionDistrict    *string  `json:"institution_district" validate:"omitempty,max=80"`
	InstitutionDivision    *string  `json:"institution_division" validate:"omitempty,max=80"`
	InstitutionLatitude    *float64 `json:"institution_latitude" validate:"omitempty,latitude"`
	InstitutionLongitude   *float64 `json:"institution_longitude" validate:"omitempty,longitude"`
	InstitutionPhone       *string  `json:"institution_phone" validate:"omitempty,max=40"`
	InstitutionEmail       *string  `json:"institution_email" validate:"omitempty,email"`
	InstitutionWebsite     *string  `json:"institution_website" validate:"omitempty,url"`
	InstitutionImageURL    *string  `json:"institution_image_url" validate:"omitempty,url"`
	InstitutionIsVerified  *bool    `json:"institution_is_verified"`
}

type InstitutionResponse struct {
	InstitutionID          uuid.UUID `json:"institution_id"`
	InstitutionName        string    `json:"institution_name"`
	InstitutionSlug        string    `json:"institution_slug"`
	InstitutionType        string    `json:"institution_type"`
	InstitutionDescription string    `json:"institution_description,omitempty"`
	InstitutionAddress     string    `json:"institution_address"`
	InstitutionDistrict    string    `json:"institution_district"`
	InstitutionDivision    string    `json:"institution_division"`
	InstitutionLatitude    *float64  `json:"institution_latitude,omitempty"`
	InstitutionLongitude   *float64  `json:"institution_longitude,omitempty"`
	InstitutionPhone       string    `json:"institution_phone"`
	InstitutionEmail       string    `json:"institution_email"`
	InstitutionWebsite     string    `json:"institution_website"`
	InstitutionImageURL    string    `json:"institution_image_url"`
	InstitutionIsVerified  bool      `json:"institution_is_verified"`
	InstitutionCreatedAt   time.Time `json:"institution_created_at"`
	InstitutionUpdatedAt   time.Time `json:"institution_updated_at"`
}

func ToInstitutionResponse(m model.InstitutionModel) InstitutionResponse {
	return InstitutionResponse{
		InstitutionID:          m.InstitutionID,
		InstitutionName:        m.InstitutionName,
		InstitutionSlug:        m.InstitutionSlug,
		InstitutionType:        m.InstitutionType,
		InstitutionDescription: m.InstitutionDescription,
		InstitutionAddress:     m.InstitutionAddress,
		InstitutionDistrict:    m.InstitutionDistrict,
		InstitutionDivision:    m.InstitutionDivision,
		InstitutionLatitude:    m.InstitutionLatitude,
		InstitutionLongitude:   m.InstitutionLongitude,
		InstitutionPhone:       m.InstitutionPhone,
		InstitutionEmail:       m.InstitutionEmail,
		InstitutionWebsite:     m.InstitutionWebsite,
		InstitutionImageURL:    m.InstitutionImageURL,
		InstitutionIsVerified:  m.InstitutionIsVerified,
		InstitutionCreatedAt:   m.InstitutionCreatedAt,
		InstitutionUpdatedAt:   m.InstitutionUpdatedAt,
	}
}

// ToInstitutionListItem leaves the long description out of list pages.
func ToInstitutionListItem(m model.InstitutionModel) InstitutionResponse {
	r := ToInstitutionResponse(m)
	r.InstitutionDescription = ""
	return r
}
