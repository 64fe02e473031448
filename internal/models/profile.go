package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// ExperienceLevel is the closed enumeration the extractor is allowed to
// return for a candidate's seniority.
type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceSenior       ExperienceLevel = "senior"
)

func ValidExperience(v string) bool {
	switch ExperienceLevel(v) {
	case ExperienceBeginner, ExperienceIntermediate, ExperienceSenior:
		return true
	}
	return false
}

// Profile holds the structured facts inferred from a user's resume.
// Skill is a single general job category, not a framework name; JobTitle
// is the role the user would apply for, which is distinct from Skill.
type Profile struct {
	UserID     string `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	FullName   string `gorm:"column:full_name;type:text" json:"full_name"`
	Location   string `gorm:"column:location;type:text" json:"location"`
	JobTitle   string `gorm:"column:job_title;type:text" json:"job_title"`
	Skill      string `gorm:"column:skill;type:text" json:"skill"`
	Experience string `gorm:"column:experience;type:text" json:"experience"`

	Skills pq.StringArray `gorm:"column:skills;type:text[]" json:"skills"`

	ResumeText string `gorm:"column:resume_text;type:text" json:"-"`
	PDFPath    string `gorm:"column:pdf_path;type:text" json:"pdf_path"`

	// Raw JSON of the last successful AI extraction, kept to diagnose
	// extraction drift.
	RawExtraction datatypes.JSON `gorm:"column:raw_extraction;type:jsonb" json:"-"`

	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }
