package dto

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"ilmhub_backend/internals/features/home/masalah/model"
)

type CreateMasalahRequest struct {
	MasalahTitle       string     `json:"masalah_title" validate:"required,max=255"`
	MasalahSlug        string     `json:"masalah_slug" validate:"omitempty,max=160"`
	MasalahQuestion    string     `json:"masalah_question" validate:"required"`
	MasalahAnswer      string     `json:"masalah_answer" validate:"required"`
	MasalahReferences  string     `json:"masalah_references"`
	MasalahMufti       string     `json:"masalah_mufti" validate:"omitempty,max=160"`
	MasalahCategoryID  *uuid.UUID `json:"masalah_category_id"`
	MasalahTags        []string   `json:"masalah_tags" validate:"omitempty,max=20,dive,max=40"`
	MasalahIsPublished *bool      `json:"masalah_is_published"`
}

type UpdateMasalahRequest struct {
	MasalahTitle       *string    `json:"masalah_title" validate:"omitempty,max=255"`
	MasalahSlug        *string    `json:"masalah_slug" validate:"omitempty,max=160"`
	MasalahQuestion    *string    `json:"masalah_question"`
	MasalahAnswer      *string    `json:"masalah_answer"`
	MasalahReferences  *string    `json:"masalah_references"`
	MasalahMufti       *string    `json:"masalah_mufti" validate:"omitempty,max=160"`
	MasalahCategoryID  *uuid.UUID `json:"masalah_category_id"`
	MasalahTags        *[]string  `json:"masalah_tags" validate:"omitempty,max=20,dive,max=40"`
	MasalahIsPublished *bool      `json:"masalah_is_published"`
}

type MasalahResponse struct {
	MasalahID          uuid.UUID  `json:"masalah_id"`
	MasalahTitle       string     `json:"masalah_title"`
	MasalahSlug        string     `json:"masalah_slug"`
	MasalahQuestion    string     `json:"masalah_question"`
	MasalahAnswer      string     `json:"masalah_answer,omitempty"`
	MasalahReferences  string     `json:"masalah_references,omitempty"`
	MasalahMufti       string     `json:"masalah_mufti"`
	MasalahCategoryID  *uuid.UUID `json:"masalah_category_id"`
	MasalahTags        []string   `json:"masalah_tags"`
	MasalahViews       int64      `json:"masalah_views"`
	MasalahIsPublished bool       `json:"masalah_is_published"`
	MasalahLikeCount   int64      `json:"masalah_like_count"`
	MasalahCreatedAt   time.Time  `json:"masalah_created_at"`
	MasalahUpdatedAt   time.Time  `json:"masalah_updated_at"`
}

// NormalizeTags lowercases, trims and de-duplicates.
func NormalizeTags(in []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func TagsJSON(tags []string) datatypes.JSON {
	raw, _ := json.Marshal(NormalizeTags(tags))
	return datatypes.JSON(raw)
}

func decodeTags(raw datatypes.JSON) []string {
	out := []string{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return out
}

func ToMasalahResponse(m model.MasalahModel) MasalahResponse {
	return MasalahResponse{
		MasalahID:          m.MasalahID,
		MasalahTitle:       m.MasalahTitle,
		MasalahSlug:        m.MasalahSlug,
		MasalahQuestion:    m.MasalahQuestion,
		MasalahAnswer:      m.MasalahAnswer,
		MasalahReferences:  m.MasalahReferences,
		MasalahMufti:       m.MasalahMufti,
		MasalahCategoryID:  m.MasalahCategoryID,
		MasalahTags:        decodeTags(m.MasalahTags),
		MasalahViews:       m.MasalahViews,
		MasalahIsPublished: m.MasalahIsPublished,
		MasalahCreatedAt:   m.MasalahCreatedAt,
		MasalahUpdatedAt:   m.MasalahUpdatedAt,
	}
}

// ToMasalahListItem drops the long answer/references for list views.
func ToMasalahListItem(m model.MasalahModel, likes int64) MasalahResponse {
	r := ToMasalahResponse(m)
	r.MasalahAnswer = ""
	r.MasalahReferences = ""
	r.MasalahLikeCount = likes
	return r
}
