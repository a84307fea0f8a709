package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-site-backend/models"
	"github.com/rpupo63/portfolio-site-backend/storage"
)

type UserRepo struct {
	conn
}

func NewUserRepo(c conn) *UserRepo {
	return &UserRepo{c}
}

// FindByID returns the user with the given id, or nil if there is none
func (r *UserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByUsername returns the user with the given username, or nil if there is none
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *UserRepo) findOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var row userRow
	err := r.db.WithContext(ctx).Where(query, arg).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	user := row.toModel()
	return &user, nil
}

// Add inserts a new user. A taken username is reported as storage.ErrConflict.
func (r *UserRepo) Add(ctx context.Context, user models.NewUser) (*models.User, error) {
	row := userRow{Username: user.Username, Password: user.Password}
	if err := r.insert(ctx, &row); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, storage.Conflict("user", err)
		}
		return nil, err
	}
	created := row.toModel()
	return &created, nil
}
