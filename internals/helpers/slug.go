package helper

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

var reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify keeps [a-z0-9] from s (diacritics folded, "Muwaṭṭaʾ" -> "muwatta")
// joined by single hyphens, at most maxLen runes. Empty input gives "item".
func Slugify(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = 100
	}
	folded := strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		return unicode.ToLower(r)
	}, norm.NFKD.String(strings.TrimSpace(s)))

	s = strings.Trim(reNonAlnum.ReplaceAllString(folded, "-"), "-")
	if utf8.RuneCountInString(s) > maxLen {
		s = clip(s, maxLen)
	}
	if s == "" {
		return "item"
	}
	return s
}

// UniqueSlug returns base, or base-2, base-3... whichever is still free in
// table.column (case-insensitive). Soft-deleted rows keep their slug since the
// unique index covers them. scopes narrow the check (eg. category kind).
func UniqueSlug(ctx context.Context, db *gorm.DB, table, column, base string, maxLen int, scopes ...func(*gorm.DB) *gorm.DB) (string, error) {
	if maxLen <= 0 {
		maxLen = 100
	}
	base = strings.ToLower(base)

	// every candidate starts with this prefix, so one query sees them all
	prefix := clip(base, maxLen-slugSuffixRoom)
	var taken []string
	q := db.WithContext(ctx).Table(table).Scopes(scopes...)
	if err := q.Where(fmt.Sprintf("LOWER(%s) LIKE ?", column), prefix+"%").
		Pluck(column, &taken).Error; err != nil {
		return "", err
	}
	used := make(map[string]struct{}, len(taken))
	for _, t := range taken {
		used[strings.ToLower(t)] = struct{}{}
	}

	if _, ok := used[base]; !ok {
		return base, nil
	}
	for n := 2; n < 1000; n++ {
		suffix := "-" + strconv.Itoa(n)
		cand := clip(base, maxLen-len(suffix)) + suffix
		if _, ok := used[cand]; !ok {
			return cand, nil
		}
	}
	return "", fmt.Errorf("no free slug for %q in %s", base, table)
}

// slugSuffixRoom is the space reserved for "-999".
const slugSuffixRoom = 4

// clip cuts s to n runes without leaving a trailing "-".
func clip(s string, n int) string {
	if n < 1 {
		n = 1
	}
	rs := []rune(s)
	if len(rs) > n {
		rs = rs[:n]
	}
	out := strings.TrimRight(string(rs), "-")
	if out == "" {
		return "x"
	}
	return out
}
