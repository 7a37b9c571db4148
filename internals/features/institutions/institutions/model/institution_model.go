package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TypeMosque     = "mosque"
	TypeMadrasa    = "madrasa"
	TypeSchool     = "school"
	TypeUniversity = "university"
	TypeOther      = "other"
)

type InstitutionModel struct {
	InstitutionID          uuid.UUID `gorm:"column:institution_id;type:uuid;primaryKey" json:"institution_id"`
	InstitutionName        string    `gorm:"column:institution_name;type:varchar(200);not null" json:"institution_name"`
	InstitutionSlug        string    `gorm:"column:institution_slug;type:varchar(200);not null;uniqueIndex" json:"institution_slug"`
	InstitutionType        string    `gorm:"column:institution_type;type:varchar(20);not null;index" json:"institution_type"`
	InstitutionDescription string    `gorm:"column:institution_description;type:text" json:"institution_description"`

	// location
	InstitutionAddress   string   `gorm:"column:institution_address;type:text" json:"institution_address"`
	InstitutionDistrict  string   `gorm:"column:institution_district;type:varchar(80);index" json:"institution_district"`
	InstitutionDivision  string   `gorm:"column:institution_division;type:varchar(80);index" json:"institution_division"`
	InstitutionLatitude  *float64 `gorm:"column:institution_latitude;type:decimal(9,6)" json:"institution_latitude,omitempty"`
	InstitutionLongitude *float64 `gorm:"column:institution_longitude;type:decimal(9,6)" json:"institution_longitude,omitempty"`

	// contact
	InstitutionPhone   string `gorm:"column:institution_phone;type:varchar(40)" json:"institution_phone"`
	InstitutionEmail   string `gorm:"column:institution_email;type:varchar(255)" json:"institution_email"`
	InstitutionWebsite string `gorm:"column:institution_website;type:text" json:"institution_website"`

	InstitutionImageURL   string `gorm:"column:institution_image_url;type:text" json:"institution_image_url"`
	InstitutionIsVerified bool   `gorm:"column:institution_is_verified;not null" json:"institution_is_verified"`

	InstitutionCreatedAt time.Time      `gorm:"column:institution_created_at;autoCreateTime" json:"institution_created_at"`
	InstitutionUpdatedAt time.Time      `gorm:"column:institution_updated_at;autoUpdateTime" json:"institution_updated_at"`
	InstitutionDeletedAt gorm.DeletedAt `gorm:"column:institution_deleted_at;index" json:"-"`
}

func (InstitutionModel) TableName() string {
	return "institutions"
}

func (m *InstitutionModel) BeforeCreate(tx *gorm.DB) error {
	if m.InstitutionID == uuid.Nil {
		m.InstitutionID = uuid.New()
	}
	return nil
}
