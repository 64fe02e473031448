package models

import "time"

// LocationPreference is the user-declared job-location preference attached
// to a search request.
type LocationPreference string

const (
	PrefOnLocation LocationPreference = "onLocation"
	PrefRemote     LocationPreference = "remote"
	PrefHybrid     LocationPreference = "hybrid"
)

func ValidLocationPreference(v string) bool {
	switch LocationPreference(v) {
	case PrefOnLocation, PrefRemote, PrefHybrid:
		return true
	}
	return false
}

// ContactInfo holds the best-effort contact details scraped from a
// company's own website. Emails and Phones are de-duplicated, comma
// joined for presentation; the NotFound/Error markers are part of the
// API contract.
type ContactInfo struct {
	Emails string `json:"emails" bson:"emails"`
	Phones string `json:"phones" bson:"phones"`
}

const (
	NoEmailFound   = "No email found"
	NoPhoneFound   = "No phone found"
	EmailScrapeErr = "Error retrieving emails"
	PhoneScrapeErr = "Error retrieving phones"
)

// Posting is one scraped job listing. Within a result set postings are
// unique per company name; the last listing seen for a company wins.
type Posting struct {
	Title    string       `json:"title" bson:"title"`
	Company  string       `json:"company" bson:"company"`
	Location string       `json:"location,omitempty" bson:"location,omitempty"`
	Link     string       `json:"link,omitempty" bson:"link,omitempty"`
	ImageURL string       `json:"imageUrl,omitempty" bson:"image_url,omitempty"`
	Contact  *ContactInfo `json:"contactInfo,omitempty" bson:"contact,omitempty"`
}

// ScrapeRun records one completed scrape invocation and its surviving
// postings, for history and debugging.
type ScrapeRun struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	UserKey    string    `json:"user_key" bson:"user_key"`
	Provider   string    `json:"provider" bson:"provider"`
	Skill      string    `json:"skill" bson:"skill"`
	Location   string    `json:"location" bson:"location"`
	Experience string    `json:"experience" bson:"experience"`
	Postings   []Posting `json:"postings" bson:"postings"`
	Err        string    `json:"error,omitempty" bson:"error,omitempty"`
	StartedAt  time.Time `json:"started_at" bson:"started_at"`
	FinishedAt time.Time `json:"finished_at" bson:"finished_at"`
}
