package services

import (
	"fmt"
	"strings"

	"github.com/diewo77/jobtrack/internal/models"
	"github.com/diewo77/jobtrack/validation"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PipelineService is the authoritative store for postings. Every operation is
// scoped to the owning user; a (userID, postingID) pair matching zero rows is
// ErrNotFound regardless of whether the row exists for someone else.
type PipelineService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewPipelineService(db *gorm.DB, logger *zap.Logger) *PipelineService {
	return &PipelineService{db: db, logger: logger}
}

// CreatePostingInput carries the fields of an add operation. Stage is the raw
// form value; anything unrecognized defaults to Applied.
type CreatePostingInput struct {
	Title       string
	Company     string
	Stage       string
	Notes       string
	CompanyLink string
	VacancyLink string
	Salary      string
	Location    string
	Contact     string
	NextStep    string
}

// PostingPatch applies only the supplied fields. A nil pointer is a no-op; a
// pointer to the empty string clears an optional field.
type PostingPatch struct {
	Title       *string
	Company     *string
	Stage       *models.Stage
	Notes       *string
	CompanyLink *string
	VacancyLink *string
	Salary      *string
	Location    *string
	Contact     *string
	NextStep    *string
}

func (p PostingPatch) updates() map[string]any {
	u := map[string]any{}
	if p.Title != nil {
		u["title"] = *p.Title
	}
	if p.Company != nil {
		u["company"] = *p.Company
	}
	if p.Stage != nil {
		u["stage"] = *p.Stage
	}
	if p.Notes != nil {
		u["notes"] = *p.Notes
	}
	if p.CompanyLink != nil {
		u["company_link"] = *p.CompanyLink
	}
	if p.VacancyLink != nil {
		u["vacancy_link"] = *p.VacancyLink
	}
	if p.Salary != nil {
		u["salary"] = *p.Salary
	}
	if p.Location != nil {
		u["location"] = *p.Location
	}
	if p.Contact != nil {
		u["contact"] = *p.Contact
	}
	if p.NextStep != nil {
		u["next_step"] = *p.NextStep
	}
	return u
}

// List returns the user's postings, newest first. One snapshot, no paging.
func (s *PipelineService) List(userID uint) ([]models.Posting, error) {
	var postings []models.Posting
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&postings).Error; err != nil {
		return nil, fmt.Errorf("list postings: %w", err)
	}
	return postings, nil
}

// Create validates required fields and inserts the posting for userID.
func (s *PipelineService) Create(userID uint, in CreatePostingInput) (*models.Posting, error) {
	v := validation.Violations{}
	validation.Required("title", in.Title, v)
	validation.Required("company", in.Company, v)
	if !v.Empty() {
		return nil, &ValidationError{Violations: v}
	}

	stage, ok := models.ParseStage(in.Stage)
	if !ok {
		stage = models.StageApplied
	}
	posting := models.Posting{
		UserID:      userID,
		Title:       strings.TrimSpace(in.Title),
		Company:     strings.TrimSpace(in.Company),
		Stage:       stage,
		Notes:       in.Notes,
		CompanyLink: in.CompanyLink,
		VacancyLink: in.VacancyLink,
		Salary:      in.Salary,
		Location:    in.Location,
		Contact:     in.Contact,
		NextStep:    in.NextStep,
	}
	if err := s.db.Create(&posting).Error; err != nil {
		return nil, fmt.Errorf("create posting: %w", err)
	}
	s.logger.Debug("posting created", zap.String("posting_id", posting.ID), zap.Uint("user_id", userID))
	return &posting, nil
}

// Patch applies the supplied fields to one owned posting. Required fields may
// not be cleared; optional fields are cleared by an explicit empty value.
func (s *PipelineService) Patch(userID uint, postingID string, patch PostingPatch) error {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return &ValidationError{Violations: validation.Violations{"title": "required"}}
	}
	if patch.Company != nil && strings.TrimSpace(*patch.Company) == "" {
		return &ValidationError{Violations: validation.Violations{"company": "required"}}
	}

	updates := patch.updates()
	if len(updates) == 0 {
		// Nothing to apply, but the not-found contract still holds.
		var count int64
		if err := s.db.Model(&models.Posting{}).Where("id = ? AND user_id = ?", postingID, userID).Count(&count).Error; err != nil {
			return fmt.Errorf("patch posting: %w", err)
		}
		if count == 0 {
			return ErrNotFound
		}
		return nil
	}

	res := s.db.Model(&models.Posting{}).Where("id = ? AND user_id = ?", postingID, userID).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("patch posting: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Remove deletes one owned posting with the same not-found semantics as Patch.
func (s *PipelineService) Remove(userID uint, postingID string) error {
	res := s.db.Where("id = ? AND user_id = ?", postingID, userID).Delete(&models.Posting{})
	if res.Error != nil {
		return fmt.Errorf("remove posting: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.logger.Debug("posting removed", zap.String("posting_id", postingID), zap.Uint("user_id", userID))
	return nil
}
