package models

import (
	"slices"
	"time"
)

// Project categories offered by the admin form. The set is open: storage
// accepts any non-empty category.
const (
	CategoryWebApp    = "Web App"
	CategoryMobileApp = "Mobile App"
	Category3DApp     = "3D App"
	CategoryDashboard = "Dashboard"
	CategoryOther     = "Other"
)

// Project represents a portfolio project as returned to callers
type Project struct {
	ID                  int64     `json:"id"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	Category            string    `json:"category"`
	ImageURL            *string   `json:"imageUrl"`
	Technologies        []string  `json:"technologies"`
	ProjectURL          *string   `json:"projectUrl"`
	Screenshots         []string  `json:"screenshots"`
	DetailedDescription *string   `json:"detailedDescription"`
	CreatedAt           time.Time `json:"createdAt"`
}

// NewProject is the insert payload for a project. ID and CreatedAt are
// assigned by storage.
type NewProject struct {
	Title               string   `json:"title" validate:"required,min=2"`
	Description         string   `json:"description" validate:"required,min=10"`
	Category            string   `json:"category" validate:"required"`
	ImageURL            *string  `json:"imageUrl" validate:"omitempty,weburl"`
	Technologies        []string `json:"technologies" validate:"required,min=1,dive,required"`
	ProjectURL          *string  `json:"projectUrl" validate:"omitempty,weburl"`
	Screenshots         []string `json:"screenshots" validate:"omitempty,dive,required,weburl"`
	DetailedDescription *string  `json:"detailedDescription"`
}

// ProjectPatch carries a partial project update. Nil fields are left as they are.
type ProjectPatch struct {
	Title               *string  `json:"title" validate:"omitempty,min=2"`
	Description         *string  `json:"description" validate:"omitempty,min=10"`
	Category            *string  `json:"category" validate:"omitempty,min=1"`
	ImageURL            *string  `json:"imageUrl" validate:"omitempty,weburl"`
	Technologies        []string `json:"technologies" validate:"omitempty,min=1,dive,required"`
	ProjectURL          *string  `json:"projectUrl" validate:"omitempty,weburl"`
	Screenshots         []string `json:"screenshots" validate:"omitempty,dive,required,weburl"`
	DetailedDescription *string  `json:"detailedDescription"`
}

// IsEmpty reports whether the patch changes nothing.
func (p ProjectPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Category == nil &&
		p.ImageURL == nil && p.Technologies == nil && p.ProjectURL == nil &&
		p.Screenshots == nil && p.DetailedDescription == nil
}

// Build returns the full project for payload n with the given identity.
func (n NewProject) Build(id int64, createdAt time.Time) Project {
	return Project{
		ID:                  id,
		Title:               n.Title,
		Description:         n.Description,
		Category:            n.Category,
		ImageURL:            cloneString(n.ImageURL),
		Technologies:        Technologies(n.Technologies),
		ProjectURL:          cloneString(n.ProjectURL),
		Screenshots:         slices.Clone(n.Screenshots),
		DetailedDescription: cloneString(n.DetailedDescription),
		CreatedAt:           createdAt,
	}
}

// Apply merges the patch onto p and returns the result. p is not modified.
func (p ProjectPatch) Apply(project Project) Project {
	out := project.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Category != nil {
		out.Category = *p.Category
	}
	if p.ImageURL != nil {
		out.ImageURL = cloneString(p.ImageURL)
	}
	if p.Technologies != nil {
		out.Technologies = Technologies(p.Technologies)
	}
	if p.ProjectURL != nil {
		out.ProjectURL = cloneString(p.ProjectURL)
	}
	if p.Screenshots != nil {
		out.Screenshots = slices.Clone(p.Screenshots)
	}
	if p.DetailedDescription != nil {
		out.DetailedDescription = cloneString(p.DetailedDescription)
	}
	return out
}

// Clone returns a deep copy of the project.
func (p Project) Clone() Project {
	out := p
	out.ImageURL = cloneString(p.ImageURL)
	out.Technologies = Technologies(p.Technologies)
	out.ProjectURL = cloneString(p.ProjectURL)
	out.Screenshots = slices.Clone(p.Screenshots)
	out.DetailedDescription = cloneString(p.DetailedDescription)
	return out
}

// Technologies copies list, turning nil into an empty list so the field
// always serializes as an array.
func Technologies(list []string) []string {
	if list == nil {
		return []string{}
	}
	return slices.Clone(list)
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
