package database

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rpupo63/portfolio-site-backend/storage"
)

// conn is the handle shared by every repo: the gorm session, the dialect it
// was opened with, and the clock used for CreatedAt.
type conn struct {
	db      *gorm.DB
	dialect storage.Dialect
	now     func() time.Time
}

type keyed interface {
	key() int64
}

func (r *userRow) key() int64    { return r.ID }
func (r *projectRow) key() int64 { return r.ID }
func (r *messageRow) key() int64 { return r.ID }

func (c conn) timestamp() time.Time {
	return c.now().UTC().Truncate(time.Microsecond)
}

// insert writes row and reloads it as stored. Postgres returns the created
// row in the same round trip. SQLite yields only the generated id, so the row
// is read back by it.
func (c conn) insert(ctx context.Context, row keyed) error {
	db := c.db.WithContext(ctx)
	if c.dialect == storage.DialectPostgres {
		return db.Clauses(clause.Returning{}).Create(row).Error
	}
	if err := db.Create(row).Error; err != nil {
		return err
	}
	return db.Where("id = ?", row.key()).Take(row).Error
}

// update applies columns to the row with the given id and loads the result
// into dest. It reports false when no row matched.
func (c conn) update(ctx context.Context, dest keyed, id int64, columns map[string]any) (bool, error) {
	db := c.db.WithContext(ctx)
	if c.dialect == storage.DialectPostgres {
		res := db.Model(dest).Clauses(clause.Returning{}).Where("id = ?", id).Updates(columns)
		if res.Error != nil {
			return false, res.Error
		}
		return res.RowsAffected > 0, nil
	}
	res := db.Model(dest).Where("id = ?", id).Updates(columns)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, db.Where("id = ?", id).Take(dest).Error
}

// remove deletes the row with the given id and reports whether one existed.
func (c conn) remove(ctx context.Context, model any, id int64) (bool, error) {
	res := c.db.WithContext(ctx).Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
