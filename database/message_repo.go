package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-site-backend/models"
)

type MessageRepo struct {
	conn
}

func NewMessageRepo(c conn) *MessageRepo {
	return &MessageRepo{c}
}

// FindAll returns all messages, newest first
func (r *MessageRepo) FindAll(ctx context.Context) ([]models.Message, error) {
	var rows []messageRow
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	messages := make([]models.Message, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, row.toModel())
	}
	return messages, nil
}

// FindByID returns a message by its ID, or nil if there is none
func (r *MessageRepo) FindByID(ctx context.Context, id int64) (*models.Message, error) {
	var row messageRow
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	message := row.toModel()
	return &message, nil
}

// Add inserts a new, unread message
func (r *MessageRepo) Add(ctx context.Context, message models.NewMessage) (*models.Message, error) {
	row := newMessageRow(message, r.timestamp())
	if err := r.insert(ctx, &row); err != nil {
		return nil, err
	}
	created := row.toModel()
	return &created, nil
}

// MarkRead sets the read flag. Marking a read message again changes nothing.
func (r *MessageRepo) MarkRead(ctx context.Context, id int64) (*models.Message, error) {
	var row messageRow
	found, err := r.update(ctx, &row, id, map[string]any{"read": true})
	if err != nil || !found {
		return nil, err
	}
	message := row.toModel()
	return &message, nil
}

// Delete removes a message by id and reports whether it existed
func (r *MessageRepo) Delete(ctx context.Context, id int64) (bool, error) {
	return r.remove(ctx, &messageRow{}, id)
}
