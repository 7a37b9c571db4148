package constants

// Reaction kinds
const (
	ReactionLike     = "like"
	ReactionBookmark = "bookmark"
	ReactionInterest = "interest"
)

// Target types shared by reactions and comments
const (
	TargetVideo    = "video"
	TargetMasalah  = "masalah"
	TargetQuestion = "question"
	TargetEvent    = "event"
	TargetBook     = "book"
	TargetComment  = "comment"
)

// CommentTargets are the things a comment can hang off.
var CommentTargets = []string{TargetVideo, TargetMasalah, TargetQuestion, TargetEvent, TargetBook}

// Category kinds
const (
	CategoryBook    = "book"
	CategoryMasalah = "masalah"
	CategoryVideo   = "video"
)

// Upload folders accepted by the image upload endpoint
var UploadFolders = map[string]bool{
	"books":        true,
	"events":       true,
	"institutions": true,
	"videos":       true,
}

// Audit entities
const (
	AuditUser        = "user"
	AuditCategory    = "category"
	AuditBook        = "book"
	AuditVideo       = "video"
	AuditMasalah     = "masalah"
	AuditQuestion    = "question"
	AuditEvent       = "event"
	AuditInstitution = "institution"
	AuditOrder       = "order"
)
