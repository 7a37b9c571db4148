package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ilmhub_backend/internals/constants"
	eventModel "ilmhub_backend/internals/features/programme/events/model"
	reactionService "ilmhub_backend/internals/features/reactions/reactions/service"
	userModel "ilmhub_backend/internals/features/users/users/model"
	helper "ilmhub_backend/internals/helpers"
	"ilmhub_backend/internals/helpers/mailer"
)

// Job names shared by the cron endpoints, the scheduler and ilmctl.
const (
	JobAutoCreateWeeklies = "auto-create-weeklies"
	JobMarkComplete       = "mark-complete"
	JobRemindersDaily     = "reminders-daily"
	JobRemindersHourly    = "reminders-hourly"
	JobPurgeDeleted       = "purge-deleted"
)

var JobNames = []string{JobAutoCreateWeeklies, JobMarkComplete, JobRemindersDaily, JobRemindersHourly, JobPurgeDeleted}

// JobTimeout bounds one run, whether started by the scheduler or over HTTP.
const JobTimeout = 4 * time.Minute

type Window string

const (
	WindowDaily  Window = "daily"
	WindowHourly Window = "hourly"
)

type Options struct {
	AppName    string
	AppBaseURL string
	Loc        *time.Location
	// WeeksAhead is how many future weekly occurrences are kept materialized.
	WeeksAhead int
	// Retention before soft-deleted rows are hard-deleted.
	Retention time.Duration
}

type JobService struct {
	DB        *gorm.DB
	Mailer    mailer.Mailer
	Reactions *reactionService.ReactionService
	Opt       Options
	Now       func() time.Time
}

func NewJobService(db *gorm.DB, m mailer.Mailer, opt Options) *JobService {
	if opt.Loc == nil {
		opt.Loc = time.UTC
	}
	if opt.WeeksAhead <= 0 {
		opt.WeeksAhead = 1
	}
	if opt.Retention <= 0 {
		opt.Retention = 30 * 24 * time.Hour
	}
	return &JobService{
		DB:        db,
		Mailer:    m,
		Reactions: reactionService.NewReactionService(db),
		Opt:       opt,
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

// Run dispatches a job by name and returns its result for logging or JSON.
func (s *JobService) Run(ctx context.Context, name string) (any, error) {
	switch name {
	case JobAutoCreateWeeklies:
		return s.AutoCreateWeeklies(ctx)
	case JobMarkComplete:
		return s.MarkComplete(ctx)
	case JobRemindersDaily:
		return s.SendReminders(ctx, WindowDaily)
	case JobRemindersHourly:
		return s.SendReminders(ctx, WindowHourly)
	case JobPurgeDeleted:
		return s.PurgeDeleted(ctx)
	}
	return nil, fmt.Errorf("unknown job %q (want one of %s)", name, strings.Join(JobNames, ", "))
}

/* ===================== weekly occurrences ===================== */

type WeekliesResult struct {
	Templates int `json:"templates"`
	Created   int `json:"created"`
}

// AutoCreateWeeklies makes sure every weekly template has its next WeeksAhead
// occurrences. An occurrence is identified by (parent_id, start_at), so re-runs create nothing.
func (s *JobService) AutoCreateWeeklies(ctx context.Context) (WeekliesResult, error) {
	var res WeekliesResult
	db := s.DB.WithContext(ctx)

	var templates []eventModel.EventModel
	if err := db.Where("event_is_weekly = ? AND event_parent_id IS NULL AND event_status <> ?",
		true, eventModel.StatusCancelled).Find(&templates).Error; err != nil {
		return res, err
	}
	res.Templates = len(templates)
	now := s.Now()

	for _, tpl := range templates {
		for _, start := range nextOccurrences(tpl.EventStartAt, now, s.Opt.WeeksAhead, s.Opt.Loc) {
			if start.Equal(tpl.EventStartAt) {
				continue
			}
			var n int64
			if err := db.Model(&eventModel.EventModel{}).
				Where("event_parent_id = ? AND event_start_at = ?", tpl.EventID, start).
				Count(&n).Error; err != nil {
				return res, err
			}
			if n > 0 {
				continue
			}

			occ := occurrenceOf(tpl, start, s.Opt.Loc)
			base := helper.Slugify(tpl.EventSlug+"-"+start.In(s.Opt.Loc).Format("2006-01-02"), 170)
			slug, err := helper.UniqueSlug(ctx, s.DB, "events", "event_slug", base, 170)
			if err != nil {
				return res, err
			}
			occ.EventSlug = slug
			if err := db.Create(&occ).Error; err != nil {
				return res, fmt.Errorf("create occurrence of %s: %w", tpl.EventID, err)
			}
			res.Created++
		}
	}
	log.Printf("[JOBS] %s templates=%d created=%d", JobAutoCreateWeeklies, res.Templates, res.Created)
	return res, nil
}

// nextOccurrences returns the first n weekly starts after now, keeping the
// template's wall-clock time in loc.
func nextOccurrences(first, now time.Time, n int, loc *time.Location) []time.Time {
	f := first.In(loc)
	t := f
	k := 0
	for !t.After(now) {
		k++
		t = f.AddDate(0, 0, 7*k)
	}
	out := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, f.AddDate(0, 0, 7*(k+i)).UTC())
	}
	return out
}

func occurrenceOf(tpl eventModel.EventModel, start time.Time, loc *time.Location) eventModel.EventModel {
	parent := tpl.EventID
	occ := eventModel.EventModel{
		EventTitle:       tpl.EventTitle,
		EventDescription: tpl.EventDescription,
		EventLocation:    tpl.EventLocation,
		EventImageURL:    tpl.EventImageURL,
		EventSpeaker:     tpl.EventSpeaker,
		EventStartAt:     start,
		EventStatus:      eventModel.StatusUpcoming,
		EventWeekday:     int(start.In(loc).Weekday()),
		EventParentID:    &parent,
	}
	if tpl.EventEndAt != nil {
		end := start.Add(tpl.EventEndAt.Sub(tpl.EventStartAt))
		occ.EventEndAt = &end
	}
	return occ
}

/* ===================== status ===================== */

type MarkResult struct {
	Ongoing   int64 `json:"ongoing"`
	Completed int64 `json:"completed"`
}

// MarkComplete closes events whose end (or start + 2h) has passed and flags
// started ones as ongoing. Cancelled and completed events are left alone.
func (s *JobService) MarkComplete(ctx context.Context) (MarkResult, error) {
	var res MarkResult
	now := s.Now()
	open := []string{eventModel.StatusUpcoming, eventModel.StatusOngoing}
	db := s.DB.WithContext(ctx)

	done := db.Model(&eventModel.EventModel{}).
		Where("event_status IN ?", open).
		Where("(event_end_at IS NOT NULL AND event_end_at < ?) OR (event_end_at IS NULL AND event_start_at < ?)",
			now, now.Add(-2*time.Hour)).
		Update("event_status", eventModel.StatusCompleted)
	if done.Error != nil {
		return res, done.Error
	}
	res.Completed = done.RowsAffected

	started := db.Model(&eventModel.EventModel{}).
		Where("event_status = ? AND event_start_at <= ?", eventModel.StatusUpcoming, now).
		Update("event_status", eventModel.StatusOngoing)
	if started.Error != nil {
		return res, started.Error
	}
	res.Ongoing = started.RowsAffected

	log.Printf("[JOBS] %s completed=%d ongoing=%d", JobMarkComplete, res.Completed, res.Ongoing)
	return res, nil
}

/* ===================== reminders ===================== */

type ReminderResult struct {
	Window Window `json:"window"`
	Events int    `json:"events"`
	Emails int    `json:"emails"`
	Failed int    `json:"failed"`
}

// SendReminders emails interested users of events starting inside the window.
// Each event is claimed by setting its *_reminder_sent_at only while it is
// still NULL, so overlapping or repeated runs send each reminder once. An
// hourly claim also fills the daily column so a late event gets one email.
// A claim whose every email failed is released for the next run.
func (s *JobService) SendReminders(ctx context.Context, w Window) (ReminderResult, error) {
	res := ReminderResult{Window: w}
	col, span := "event_daily_reminder_sent_at", 24*time.Hour
	if w == WindowHourly {
		col, span = "event_hourly_reminder_sent_at", time.Hour
	}
	now := s.Now()
	db := s.DB.WithContext(ctx)

	var due []eventModel.EventModel
	if err := db.Where("event_status = ? AND event_start_at > ? AND event_start_at <= ? AND "+col+" IS NULL",
		eventModel.StatusUpcoming, now, now.Add(span)).
		Order("event_start_at ASC").
		Find(&due).Error; err != nil {
		return res, err
	}

	claimed := map[string]any{col: now}
	if w == WindowHourly {
		claimed["event_daily_reminder_sent_at"] = gorm.Expr("COALESCE(event_daily_reminder_sent_at, ?)", now)
	}

	for _, ev := range due {
		// unclaimed events are picked up by the next run
		if err := ctx.Err(); err != nil {
			return res, err
		}
		claim := db.Model(&eventModel.EventModel{}).
			Where("event_id = ? AND "+col+" IS NULL", ev.EventID).
			Updates(claimed)
		if claim.Error != nil {
			return res, claim.Error
		}
		if claim.RowsAffected == 0 {
			continue
		}
		res.Events++

		sent, failed := s.remind(ctx, ev, w)
		res.Emails += sent
		res.Failed += failed
		if failed > 0 && sent == 0 {
			rel := s.DB.Model(&eventModel.EventModel{}).
				Where("event_id = ?", ev.EventID).
				Update(col, nil)
			if rel.Error != nil {
				log.Printf("[ERROR] release %s reminder for %s: %v", w, ev.EventID, rel.Error)
			}
		}
	}
	log.Printf("[JOBS] reminders-%s events=%d emails=%d failed=%d", w, res.Events, res.Emails, res.Failed)
	if res.Failed > 0 {
		return res, fmt.Errorf("reminders-%s: %d of %d emails failed", w, res.Failed, res.Emails+res.Failed)
	}
	return res, nil
}

// remind emails one event's interested users and counts delivered and
// failed messages.
func (s *JobService) remind(ctx context.Context, ev eventModel.EventModel, w Window) (sent, failed int) {
	emails, err := s.interestedEmails(ctx, ev.EventID)
	if err != nil {
		log.Printf("[ERROR] reminder recipients for %s: %v", ev.EventID, err)
		return 0, 1
	}
	if len(emails) == 0 {
		return 0, 0
	}
	html, err := mailer.Render(mailer.TplEventReminder, map[string]any{
		"AppName":  s.Opt.AppName,
		"Event":    map[string]any{"Title": ev.EventTitle, "Location": ev.EventLocation},
		"Window":   string(w),
		"StartsAt": ev.EventStartAt.In(s.Opt.Loc).Format("Mon, 02 Jan 2006 15:04"),
		"Link":     s.Opt.AppBaseURL + "/programme/" + ev.EventSlug,
	})
	if err != nil {
		log.Printf("[ERROR] render reminder: %v", err)
		return 0, len(emails)
	}
	subject := "Reminder: " + ev.EventTitle
	// one message per recipient so addresses are not disclosed to each other
	for _, to := range emails {
		if mailer.SendLogged(ctx, s.Mailer, mailer.Message{To: []string{to}, Subject: subject, HTML: html}) {
			sent++
		} else {
			failed++
		}
	}
	return sent, failed
}

func (s *JobService) interestedEmails(ctx context.Context, eventID uuid.UUID) ([]string, error) {
	userIDs, err := s.Reactions.ActiveUserIDs(ctx, constants.ReactionInterest, constants.TargetEvent, eventID)
	if err != nil || len(userIDs) == 0 {
		return nil, err
	}
	var emails []string
	err = s.DB.WithContext(ctx).Model(&userModel.UserModel{}).
		Where("id IN ? AND email <> ''", userIDs).
		Pluck("email", &emails).Error
	return emails, err
}

/* ===================== purge ===================== */

type PurgeResult struct {
	Deleted map[string]int64 `json:"deleted"`
}

// soft-deleted tables and their deleted_at column; users are kept so a
// re-created clerk account can be revived.
var purgeTargets = []struct{ Table, Col string }{
	{"books", "book_deleted_at"},
	{"book_reviews", "review_deleted_at"},
	{"categories", "category_deleted_at"},
	{"videos", "video_deleted_at"},
	{"masalah", "masalah_deleted_at"},
	{"questions", "question_deleted_at"},
	{"comments", "comment_deleted_at"},
	{"events", "event_deleted_at"},
	{"institutions", "institution_deleted_at"},
}

// PurgeDeleted hard-deletes rows soft-deleted longer than the retention.
func (s *JobService) PurgeDeleted(ctx context.Context) (PurgeResult, error) {
	res := PurgeResult{Deleted: map[string]int64{}}
	cutoff := s.Now().Add(-s.Opt.Retention)
	for _, t := range purgeTargets {
		r := s.DB.WithContext(ctx).Exec(
			`DELETE FROM `+t.Table+` WHERE `+t.Col+` IS NOT NULL AND `+t.Col+` < ?`, cutoff)
		if r.Error != nil {
			log.Printf("[JOBS] purge %s: %v", t.Table, r.Error)
			continue
		}
		if r.RowsAffected > 0 {
			res.Deleted[t.Table] = r.RowsAffected
		}
	}
	log.Printf("[JOBS] %s cutoff=%s deleted=%v", JobPurgeDeleted, cutoff.Format(time.RFC3339), res.Deleted)
	return res, nil
}
