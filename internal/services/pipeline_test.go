package services

import (
	"errors"
	"testing"
	"time"

	"github.com/diewo77/jobtrack/internal/models"
)

func strptr(s string) *string { return &s }

func TestCreateDefaultsStage(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPipelineService(db, testLogger())
	user := seedUser(t, db, "a@b.com", "alice")

	p, err := svc.Create(user.ID, CreatePostingInput{Title: "X", Company: "Y"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Stage != models.StageApplied {
		t.Fatalf("unspecified stage must default to Applied, got %s", p.Stage)
	}
	if p.ID == "" {
		t.Fatal("expected generated posting id")
	}

	p2, err := svc.Create(user.ID, CreatePostingInput{Title: "X", Company: "Y", Stage: "GHOSTED"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p2.Stage != models.StageApplied {
		t.Fatalf("unrecognized stage must default to Applied, got %s", p2.Stage)
	}

	p3, err := svc.Create(user.ID, CreatePostingInput{Title: "X", Company: "Y", Stage: "OFFER"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p3.Stage != models.StageOffer {
		t.Fatalf("expected Offer, got %s", p3.Stage)
	}
}

func TestCreateValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPipelineService(db, testLogger())
	user := seedUser(t, db, "a@b.com", "alice")

	_, err := svc.Create(user.ID, CreatePostingInput{Title: "", Company: "Y"})
	if _, ok := AsValidationError(err); !ok {
		t.Fatalf("expected validation error for empty title, got %v", err)
	}
	_, err = svc.Create(user.ID, CreatePostingInput{Title: "X", Company: "   "})
	if _, ok := AsValidationError(err); !ok {
		t.Fatalf("expected validation error for blank company, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPipelineService(db, testLogger())
	user := seedUser(t, db, "a@b.com", "alice")
	other := seedUser(t, db, "b@b.com", "bob")

	older := models.Posting{UserID: user.ID, Title: "old", Company: "C", Stage: models.StageApplied, CreatedAt: time.Now().Add(-time.Hour)}
	newer := models.Posting{UserID: user.ID, Title: "new", Company: "C", Stage: models.StageApplied, CreatedAt: time.Now()}
	theirs := models.Posting{UserID: other.ID, Title: "theirs", Company: "C", Stage: models.StageApplied}
	for _, p := range []*models.Posting{&older, &newer, &theirs} {
		if err := db.Create(p).Error; err != nil {
			t.Fatalf("seed posting: %v", err)
		}
	}

	list, err := svc.List(user.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 postings for owner, got %d", len(list))
	}
	if list[0].Title != "new" || list[1].Title != "old" {
		t.Fatalf("expected newest first, got %s then %s", list[0].Title, list[1].Title)
	}
}

func TestPatchPartialUpdate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPipelineService(db, testLogger())
	user := seedUser(t, db, "a@b.com", "alice")

	p, err := svc.Create(user.ID, CreatePostingInput{Title: "X", Company: "Y", Notes: "call back", Salary: "100k"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Supplied fields are applied, absent fields untouched, empty clears.
	stage := models.StageInterview
	err = svc.Patch(user.ID, p.ID, PostingPatch{Stage: &stage, Salary: strptr("")})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}

	var got models.Posting
	if err := db.First(&got, "id = ?", p.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Stage != models.StageInterview {
		t.Fatalf("expected stage Interview, got %s", got.Stage)
	}
	if got.Salary != "" {
		t.Fatalf("present-but-empty salary must clear, got %q", got.Salary)
	}
	if got.Notes != "call back" || got.Title != "X" {
		t.Fatalf("absent fields must stay untouched, got %+v", got)
	}
}

func TestPatchRejectsClearingRequiredFields(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPipelineService(db, testLogger())
	user := seedUser(t, db, "a@b.com", "alice")
	p, _ := svc.Create(user.ID, CreatePostingInput{Title: "X", Company: "Y"})

	err := svc.Patch(user.ID, p.ID, PostingPatch{Title: strptr("  ")})
	if _, ok := AsValidationError(err); !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPatchOwnershipCollapsesToNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPipelineService(db, testLogger())
	owner := seedUser(t, db, "a@b.com", "alice")
	intruder := seedUser(t, db, "b@b.com", "bob")
	p, _ := svc.Create(owner.ID, CreatePostingInput{Title: "X", Company: "Y"})

	stage := models.StageOffer
	if err := svc.Patch(intruder.ID, p.ID, PostingPatch{Stage: &stage}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign posting must look not-found, got %v", err)
	}
	if err := svc.Patch(owner.ID, "no-such-id", PostingPatch{Stage: &stage}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing posting must be not-found, got %v", err)
	}
	// Empty patch still honors the not-found contract.
	if err := svc.Patch(intruder.ID, p.ID, PostingPatch{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty patch on foreign posting must be not-found, got %v", err)
	}
	if err := svc.Patch(owner.ID, p.ID, PostingPatch{}); err != nil {
		t.Fatalf("empty patch on owned posting is a no-op, got %v", err)
	}

	// The intruder's attempt must not have changed anything.
	var got models.Posting
	db.First(&got, "id = ?", p.ID)
	if got.Stage != models.StageApplied {
		t.Fatalf("stage must be unchanged, got %s", got.Stage)
	}
}

func TestRemove(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPipelineService(db, testLogger())
	owner := seedUser(t, db, "a@b.com", "alice")
	intruder := seedUser(t, db, "b@b.com", "bob")
	p, _ := svc.Create(owner.ID, CreatePostingInput{Title: "X", Company: "Y"})

	if err := svc.Remove(intruder.ID, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign remove must be not-found, got %v", err)
	}
	if err := svc.Remove(owner.ID, p.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := svc.Remove(owner.ID, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second remove must be not-found, got %v", err)
	}
}
