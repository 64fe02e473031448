package models

import "time"

// ContentPlatform enumerates the targets a job-application post can be
// generated for.
type ContentPlatform string

const (
	PlatformEmail       ContentPlatform = "email"
	PlatformLinkedIn    ContentPlatform = "linkedin"
	PlatformCoverLetter ContentPlatform = "coverLetter"
	PlatformInstagram   ContentPlatform = "instagram"
)

func ValidContentPlatform(v string) bool {
	switch ContentPlatform(v) {
	case PlatformEmail, PlatformLinkedIn, PlatformCoverLetter, PlatformInstagram:
		return true
	}
	return false
}

type ContentStatus string

const (
	ContentDraft        ContentStatus = "draft"
	ContentNotPublished ContentStatus = "notPublished"
	ContentPublished    ContentStatus = "published"
)

// GeneratedContent is an AI-written job-application post bound to a user
// and a platform.
type GeneratedContent struct {
	ID        string          `json:"id" bson:"_id,omitempty"`
	UserID    string          `json:"user_id" bson:"user_id"`
	Platform  ContentPlatform `json:"platform" bson:"platform"`
	JobTitle  string          `json:"job_title" bson:"job_title"`
	Body      string          `json:"body" bson:"body"`
	Status    ContentStatus   `json:"status" bson:"status"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
}
