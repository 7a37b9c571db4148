package helper_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	helper "ilmhub_backend/internals/helpers"
	"ilmhub_backend/internals/testkit"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"  Riyad as-Salihin  ":   "riyad-as-salihin",
		"Muwaṭṭaʾ Imām Mālik":    "muwatta-imam-malik",
		"Fiqh & Usul -- Vol. 2!": "fiqh-usul-vol-2",
		"!!!":                    "item",
		"":                       "item",
	}
	for in, want := range cases {
		assert.Equal(t, want, helper.Slugify(in, 100), in)
	}
	assert.Equal(t, "abc", helper.Slugify("abc-def", 4), "no trailing hyphen after the cut")
}

type slugRow struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Kind string
	Slug string
}

func TestUniqueSlug(t *testing.T) {
	db := testkit.NewDB(t, &slugRow{})
	ctx := context.Background()
	add := func(kind, slug string) {
		require.NoError(t, db.Create(&slugRow{ID: uuid.New(), Kind: kind, Slug: slug}).Error)
	}

	s, err := helper.UniqueSlug(ctx, db, "slug_rows", "slug", "tafsir", 50)
	require.NoError(t, err)
	assert.Equal(t, "tafsir", s)

	add("book", "tafsir")
	add("book", "Tafsir-2")
	add("book", "tafsir-ibn-kathir")
	s, err = helper.UniqueSlug(ctx, db, "slug_rows", "slug", "tafsir", 50)
	require.NoError(t, err)
	assert.Equal(t, "tafsir-3", s, "case-insensitive and skips taken suffixes")

	onlyVideos := func(q *gorm.DB) *gorm.DB { return q.Where("kind = ?", "video") }
	s, err = helper.UniqueSlug(ctx, db, "slug_rows", "slug", "tafsir", 50, onlyVideos)
	require.NoError(t, err)
	assert.Equal(t, "tafsir", s)

	long := strings.Repeat("a", 20)
	add("book", long)
	s, err = helper.UniqueSlug(ctx, db, "slug_rows", "slug", long, 20)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 18)+"-2", s)
	assert.LessOrEqual(t, len(s), 20)
}
