package dto

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"ilmhub_backend/internals/features/home/videos/model"
)

type CreateVideoRequest struct {
	VideoTitle       string     `json:"video_title" validate:"required,max=255"`
	VideoSlug        string     `json:"video_slug" validate:"omitempty,max=160"`
	VideoDescription string     `json:"video_description"`
	VideoYoutube     string     `json:"video_youtube" validate:"required"` // id or any youtube url
	VideoSpeaker     string     `json:"video_speaker" validate:"omitempty,max=160"`
	VideoCategoryID  *uuid.UUID `json:"video_category_id"`
	VideoDuration    int        `json:"video_duration" validate:"gte=0"`
	VideoIsPublished *bool      `json:"video_is_published"`
}

type UpdateVideoRequest struct {
	VideoTitle       *string    `json:"video_title" validate:"omitempty,max=255"`
	VideoSlug        *string    `json:"video_slug" validate:"omitempty,max=160"`
	VideoDescription *string    `json:"video_description"`
	VideoYoutube     *string    `json:"video_youtube"`
	VideoSpeaker     *string    `json:"video_speaker" validate:"omitempty,max=160"`
	VideoCategoryID  *uuid.UUID `json:"video_category_id"`
	VideoDuration    *int       `json:"video_duration" validate:"omitempty,gte=0"`
	VideoIsPublished *bool      `json:"video_is_published"`
}

type VideoResponse struct {
	VideoID          uuid.UUID  `json:"video_id"`
	VideoTitle       string     `json:"video_title"`
	VideoSlug        string     `json:"video_slug"`
	VideoDescription string     `json:"video_description"`
	VideoYoutubeID   string     `json:"video_youtube_id"`
	VideoEmbedURL    string     `json:"video_embed_url"`
	VideoThumbnail   string     `json:"video_thumbnail"`
	VideoSpeaker     string     `json:"video_speaker"`
	VideoCategoryID  *uuid.UUID `json:"video_category_id"`
	VideoDuration    int        `json:"video_duration"`
	VideoViews       int64      `json:"video_views"`
	VideoIsPublished bool       `json:"video_is_published"`
	VideoLikeCount   int64      `json:"video_like_count"`
	VideoCreatedAt   time.Time  `json:"video_created_at"`
	VideoUpdatedAt   time.Time  `json:"video_updated_at"`
}

func ToVideoResponse(m model.VideoModel) VideoResponse {
	return VideoResponse{
		VideoID:          m.VideoID,
		VideoTitle:       m.VideoTitle,
		VideoSlug:        m.VideoSlug,
		VideoDescription: m.VideoDescription,
		VideoYoutubeID:   m.VideoYoutubeID,
		VideoEmbedURL:    "https://www.youtube.com/embed/" + m.VideoYoutubeID,
		VideoThumbnail:   "https://i.ytimg.com/vi/" + m.VideoYoutubeID + "/hqdefault.jpg",
		VideoSpeaker:     m.VideoSpeaker,
		VideoCategoryID:  m.VideoCategoryID,
		VideoDuration:    m.VideoDuration,
		VideoViews:       m.VideoViews,
		VideoIsPublished: m.VideoIsPublished,
		VideoCreatedAt:   m.VideoCreatedAt,
		VideoUpdatedAt:   m.VideoUpdatedAt,
	}
}

// ToVideoResponseList fills like counts from likes (may be nil).
func ToVideoResponseList(list []model.VideoModel, likes map[uuid.UUID]int64) []VideoResponse {
	out := make([]VideoResponse, 0, len(list))
	for _, m := range list {
		r := ToVideoResponse(m)
		r.VideoLikeCount = likes[m.VideoID]
		out = append(out, r)
	}
	return out
}

var reYoutubeID = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ParseYoutubeID accepts a bare id, a watch/embed/shorts url or a youtu.be link.
func ParseYoutubeID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if reYoutubeID.MatchString(raw) {
		return raw, true
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	var id string
	switch host {
	case "youtu.be":
		id = strings.Trim(u.Path, "/")
	case "youtube.com", "m.youtube.com", "music.youtube.com":
		if v := u.Query().Get("v"); v != "" {
			id = v
		} else {
			parts := strings.Split(strings.Trim(u.Path, "/"), "/")
			if len(parts) == 2 && (parts[0] == "embed" || parts[0] == "shorts" || parts[0] == "live") {
				id = parts[1]
			}
		}
	}
	if reYoutubeID.MatchString(id) {
		return id, true
	}
	return "", false
}
