package services

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"idea-engine/models"
)

func TestSubmit_RequiresFields(t *testing.T) {
	svc := NewIdeaService(openTestDB(t), zap.NewNop())
	cases := []IdeaSubmission{
		{Description: "d", Category: "c"},
		{Title: "t", Category: "c"},
		{Title: "t", Description: "d"},
		{Title: "   ", Description: "d", Category: "c"},
	}
	for i, in := range cases {
		if _, err := svc.Submit(background(), in); !errors.Is(err, ErrMissingIdeaFields) {
			t.Errorf("case %d: expected ErrMissingIdeaFields, got %v", i, err)
		}
	}
	var count int64
	svc.DB.Model(&models.UserSubmittedIdea{}).Count(&count)
	if count != 0 {
		t.Fatalf("invalid submissions must not be stored, found %d", count)
	}
}

func TestSubmit_StoresIdea(t *testing.T) {
	db := openTestDB(t)
	svc := NewIdeaService(db, zap.NewNop())

	id, err := svc.Submit(background(), IdeaSubmission{
		Title:          "Shared grocery lists",
		Description:    "Real-time lists for households",
		Category:       "productivity",
		PainPoints:     []string{"forgotten items"},
		CompetitorURLs: []string{"https://example.com"},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if id == 0 {
		t.Fatal("expected a generated id")
	}

	var stored models.UserSubmittedIdea
	if err := db.First(&stored, id).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if stored.Title != "Shared grocery lists" || stored.Category != "productivity" {
		t.Errorf("unexpected row %+v", stored)
	}
	if len(stored.PainPoints) != 1 || stored.PainPoints[0] != "forgotten items" {
		t.Errorf("unexpected pain points %v", stored.PainPoints)
	}
	if stored.Features == nil || len(stored.Features) != 0 {
		t.Errorf("expected empty features, got %#v", stored.Features)
	}
	if stored.EstimatedBudget != 0 || stored.SubmitterEmail != "" || stored.CreatedAt.IsZero() {
		t.Errorf("unexpected defaults %+v", stored)
	}

	var raw string
	db.Raw("SELECT features FROM user_submitted_ideas WHERE id = ?", id).Scan(&raw)
	if raw != "[]" {
		t.Errorf("expected features stored as [], got %q", raw)
	}
}

func TestSubmit_StoresListsVerbatim(t *testing.T) {
	db := openTestDB(t)
	svc := NewIdeaService(db, zap.NewNop())

	painPoints := []string{"  slow   sync ", "", "\ufb01le upload"}
	features := []string{" offline mode", "   "}
	id, err := svc.Submit(background(), IdeaSubmission{
		Title:       "Sync fixer",
		Description: "Keeps folders in sync",
		Category:    "productivity",
		PainPoints:  painPoints,
		Features:    features,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	var row struct {
		PainPoints     string `gorm:"column:pain_points"`
		Features       string `gorm:"column:features"`
		CompetitorURLs string `gorm:"column:competitor_urls"`
	}
	db.Raw("SELECT pain_points, features, competitor_urls FROM user_submitted_ideas WHERE id = ?", id).Scan(&row)

	for column, tc := range map[string]struct {
		raw  string
		want []string
	}{
		"pain_points":     {row.PainPoints, painPoints},
		"features":        {row.Features, features},
		"competitor_urls": {row.CompetitorURLs, []string{}},
	} {
		var got []string
		if err := json.Unmarshal([]byte(tc.raw), &got); err != nil {
			t.Fatalf("%s: decode %q: %v", column, tc.raw, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("%s: stored %q, want %q", column, got, tc.want)
		}
	}
}
