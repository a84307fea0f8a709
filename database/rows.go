package database

import (
	"time"

	"github.com/rpupo63/portfolio-site-backend/models"
	"github.com/rpupo63/portfolio-site-backend/storage"
)

// Rows mirror the physical tables. They never leave this package: every read
// goes through a toModel step and every write through a from* step.

type userRow struct {
	ID       int64  `gorm:"column:id;primaryKey"`
	Username string `gorm:"column:username"`
	Password string `gorm:"column:password"`
}

func (userRow) TableName() string { return "users" }

func (r userRow) toModel() models.User {
	return models.User{ID: r.ID, Username: r.Username, Password: r.Password}
}

type projectRow struct {
	ID                  int64     `gorm:"column:id;primaryKey"`
	Title               string    `gorm:"column:title"`
	Description         string    `gorm:"column:description"`
	Category            string    `gorm:"column:category"`
	ImageURL            *string   `gorm:"column:image_url"`
	Technologies        string    `gorm:"column:technologies"`
	ProjectURL          *string   `gorm:"column:project_url"`
	Screenshots         *string   `gorm:"column:screenshots"`
	DetailedDescription *string   `gorm:"column:detailed_description"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime:false"`
}

func (projectRow) TableName() string { return "projects" }

func newProjectRow(dialect storage.Dialect, p models.NewProject, createdAt time.Time) (projectRow, error) {
	technologies, err := encodeStringList(dialect, p.Technologies)
	if err != nil {
		return projectRow{}, err
	}
	screenshots, err := encodeOptionalStringList(dialect, p.Screenshots)
	if err != nil {
		return projectRow{}, err
	}
	return projectRow{
		Title:               p.Title,
		Description:         p.Description,
		Category:            p.Category,
		ImageURL:            p.ImageURL,
		Technologies:        technologies,
		ProjectURL:          p.ProjectURL,
		Screenshots:         screenshots,
		DetailedDescription: p.DetailedDescription,
		CreatedAt:           createdAt,
	}, nil
}

func (r projectRow) toModel(dialect storage.Dialect) (models.Project, error) {
	technologies, err := decodeStringList(dialect, r.Technologies)
	if err != nil {
		return models.Project{}, err
	}
	screenshots, err := decodeOptionalStringList(dialect, r.Screenshots)
	if err != nil {
		return models.Project{}, err
	}
	return models.Project{
		ID:                  r.ID,
		Title:               r.Title,
		Description:         r.Description,
		Category:            r.Category,
		ImageURL:            r.ImageURL,
		Technologies:        technologies,
		ProjectURL:          r.ProjectURL,
		Screenshots:         screenshots,
		DetailedDescription: r.DetailedDescription,
		CreatedAt:           r.CreatedAt.UTC(),
	}, nil
}

// projectPatchColumns returns the column updates for a patch, encoded for dialect.
func projectPatchColumns(dialect storage.Dialect, p models.ProjectPatch) (map[string]any, error) {
	columns := make(map[string]any)
	if p.Title != nil {
		columns["title"] = *p.Title
	}
	if p.Description != nil {
		columns["description"] = *p.Description
	}
	if p.Category != nil {
		columns["category"] = *p.Category
	}
	if p.ImageURL != nil {
		columns["image_url"] = *p.ImageURL
	}
	if p.Technologies != nil {
		technologies, err := encodeStringList(dialect, p.Technologies)
		if err != nil {
			return nil, err
		}
		columns["technologies"] = technologies
	}
	if p.ProjectURL != nil {
		columns["project_url"] = *p.ProjectURL
	}
	if p.Screenshots != nil {
		screenshots, err := encodeStringList(dialect, p.Screenshots)
		if err != nil {
			return nil, err
		}
		columns["screenshots"] = screenshots
	}
	if p.DetailedDescription != nil {
		columns["detailed_description"] = *p.DetailedDescription
	}
	return columns, nil
}

// messageRow.Read is INTEGER 0/1 on SQLite and BOOLEAN on Postgres; both
// drivers convert to and from bool.
type messageRow struct {
	ID              int64     `gorm:"column:id;primaryKey"`
	Name            string    `gorm:"column:name"`
	Email           string    `gorm:"column:email"`
	Message         string    `gorm:"column:message"`
	ProjectInterest *string   `gorm:"column:project_interest"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime:false"`
	Read            bool      `gorm:"column:read"`
}

func (messageRow) TableName() string { return "messages" }

func newMessageRow(m models.NewMessage, createdAt time.Time) messageRow {
	return messageRow{
		Name:            m.Name,
		Email:           m.Email,
		Message:         m.Message,
		ProjectInterest: m.ProjectInterest,
		CreatedAt:       createdAt,
	}
}

func (r messageRow) toModel() models.Message {
	return models.Message{
		ID:              r.ID,
		Name:            r.Name,
		Email:           r.Email,
		Message:         r.Message,
		ProjectInterest: r.ProjectInterest,
		CreatedAt:       r.CreatedAt.UTC(),
		Read:            r.Read,
	}
}
