package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Stage is the closed pipeline-state domain a posting occupies.
type Stage string

const (
	StageApplied   Stage = "APPLIED"
	StageInterview Stage = "INTERVIEW"
	StageOffer     Stage = "OFFER"
	StageRejected  Stage = "REJECTED"
)

// Stages is the fixed total order over the domain. Both the advance
// affordance and drag-between-columns derive transitions from it.
var Stages = []Stage{StageApplied, StageInterview, StageOffer, StageRejected}

// ParseStage maps a raw value to a Stage. Unrecognized input reports ok=false
// so callers can fall back to StageApplied.
func ParseStage(raw string) (Stage, bool) {
	s := Stage(raw)
	for _, known := range Stages {
		if s == known {
			return s, true
		}
	}
	return "", false
}

// Next returns the stage that follows in the fixed cyclic order.
func (s Stage) Next() Stage {
	for i, known := range Stages {
		if s == known {
			return Stages[(i+1)%len(Stages)]
		}
	}
	return StageApplied
}

// Label is the display name for a stage.
func (s Stage) Label() string {
	switch s {
	case StageApplied:
		return "Applied"
	case StageInterview:
		return "Interview"
	case StageOffer:
		return "Offer"
	case StageRejected:
		return "Rejected"
	}
	return string(s)
}

// Posting is one tracked pipeline item. UserID is set at creation and never
// reassigned; every mutation is scoped by (user_id, id).
type Posting struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title   string `gorm:"size:255;not null" json:"title"`
	Company string `gorm:"size:255;not null" json:"company"`
	Stage   Stage  `gorm:"size:20;not null" json:"stage"`

	Notes       string `json:"notes,omitempty"`
	CompanyLink string `gorm:"size:512" json:"companyLink,omitempty"`
	VacancyLink string `gorm:"size:512" json:"vacancyLink,omitempty"`
	Salary      string `gorm:"size:255" json:"salary,omitempty"`
	Location    string `gorm:"size:255" json:"location,omitempty"`
	Contact     string `gorm:"size:255" json:"contact,omitempty"`
	NextStep    string `gorm:"size:255" json:"nextStep,omitempty"`
}

func (p *Posting) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
