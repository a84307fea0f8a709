package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-site-backend/models"
)

type ProjectRepo struct {
	conn
}

func NewProjectRepo(c conn) *ProjectRepo {
	return &ProjectRepo{c}
}

// FindAll returns all projects, newest first
func (r *ProjectRepo) FindAll(ctx context.Context) ([]models.Project, error) {
	var rows []projectRow
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	projects := make([]models.Project, 0, len(rows))
	for _, row := range rows {
		p, err := row.toModel(r.dialect)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// FindByID returns a project by its ID, or nil if there is none
func (r *ProjectRepo) FindByID(ctx context.Context, id int64) (*models.Project, error) {
	var row projectRow
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.model(row)
}

// Add inserts a new project and returns it as stored
func (r *ProjectRepo) Add(ctx context.Context, project models.NewProject) (*models.Project, error) {
	row, err := newProjectRow(r.dialect, project, r.timestamp())
	if err != nil {
		return nil, err
	}
	if err := r.insert(ctx, &row); err != nil {
		return nil, err
	}
	return r.model(row)
}

// Update merges patch onto an existing project. It returns nil if the project does not exist.
func (r *ProjectRepo) Update(ctx context.Context, id int64, patch models.ProjectPatch) (*models.Project, error) {
	columns, err := projectPatchColumns(r.dialect, patch)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return r.FindByID(ctx, id)
	}

	var row projectRow
	found, err := r.update(ctx, &row, id, columns)
	if err != nil || !found {
		return nil, err
	}
	return r.model(row)
}

// Delete removes a project by id and reports whether it existed
func (r *ProjectRepo) Delete(ctx context.Context, id int64) (bool, error) {
	return r.remove(ctx, &projectRow{}, id)
}

func (r *ProjectRepo) model(row projectRow) (*models.Project, error) {
	p, err := row.toModel(r.dialect)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
