package models

import (
	"errors"
	"testing"
)

func strPtr(s string) *string { return &s }

func validProject() NewProject {
	return NewProject{
		Title:        "Portfolio",
		Description:  "A project description.",
		Category:     CategoryWebApp,
		Technologies: []string{"Go", "React"},
	}
}

func TestValidateNewProject(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *NewProject)
		field  string
	}{
		{name: "valid"},
		{name: "short title", mutate: func(p *NewProject) { p.Title = "X" }, field: "title"},
		{name: "short description", mutate: func(p *NewProject) { p.Description = "too short" }, field: "description"},
		{name: "missing category", mutate: func(p *NewProject) { p.Category = "" }, field: "category"},
		{name: "no technologies", mutate: func(p *NewProject) { p.Technologies = []string{} }, field: "technologies"},
		{name: "blank technology", mutate: func(p *NewProject) { p.Technologies = []string{"Go", ""} }, field: "technologies[1]"},
		{name: "bad image url", mutate: func(p *NewProject) { p.ImageURL = strPtr("not a url") }, field: "imageUrl"},
		{name: "empty image url allowed", mutate: func(p *NewProject) { p.ImageURL = strPtr("") }},
		{name: "bad screenshot", mutate: func(p *NewProject) { p.Screenshots = []string{"https://example.com/a.png", "nope"} }, field: "screenshots[1]"},
		{name: "good project url", mutate: func(p *NewProject) { p.ProjectURL = strPtr("https://example.com/x") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProject()
			if tt.mutate != nil {
				tt.mutate(&p)
			}
			err := Validate(p)
			if tt.field == "" {
				if err != nil {
					t.Fatalf("expected valid payload, got %v", err)
				}
				return
			}
			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %v", err)
			}
			if len(verrs) != 1 || verrs[0].Field != tt.field {
				t.Fatalf("expected error on %q, got %+v", tt.field, verrs)
			}
		})
	}
}

func TestValidateProjectPatch(t *testing.T) {
	if err := Validate(ProjectPatch{}); err != nil {
		t.Fatalf("empty patch should be valid: %v", err)
	}
	if err := Validate(ProjectPatch{Title: strPtr("Y")}); err == nil {
		t.Fatal("expected one-character title to be rejected")
	}
	if err := Validate(ProjectPatch{Technologies: []string{}}); err == nil {
		t.Fatal("expected empty technologies to be rejected")
	}
	if err := Validate(ProjectPatch{Title: strPtr("Renamed")}); err != nil {
		t.Fatalf("expected valid patch, got %v", err)
	}
}

func TestValidateNewMessage(t *testing.T) {
	ok := NewMessage{Name: "Ada", Email: "ada@example.com", Message: "Hello there, nice work!"}
	if err := Validate(ok); err != nil {
		t.Fatalf("expected valid message: %v", err)
	}

	bad := ok
	bad.Email = "ada"
	bad.Message = "hi"
	var verrs ValidationErrors
	if !errors.As(Validate(bad), &verrs) || len(verrs) != 2 {
		t.Fatalf("expected two field errors, got %v", verrs)
	}
}

func TestProjectPatchApply(t *testing.T) {
	base := validProject().Build(7, fixedTime)
	patched := ProjectPatch{Title: strPtr("New"), Technologies: []string{"Rust"}}.Apply(base)

	if patched.ID != 7 || !patched.CreatedAt.Equal(fixedTime) {
		t.Fatalf("identity changed: %+v", patched)
	}
	if patched.Title != "New" || patched.Description != base.Description {
		t.Fatalf("unexpected merge result: %+v", patched)
	}
	if len(patched.Technologies) != 1 || patched.Technologies[0] != "Rust" {
		t.Fatalf("technologies not replaced: %v", patched.Technologies)
	}
	if base.Title != "Portfolio" || base.Technologies[0] != "Go" {
		t.Fatal("Apply mutated the original project")
	}
}
