package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-site-backend/models"
	"github.com/rpupo63/portfolio-site-backend/storage"
)

// Database is the relational storage backend. It serves either SQLite or
// Postgres, chosen when it is constructed and fixed afterwards.
type Database struct {
	db          *gorm.DB
	dialect     storage.Dialect
	userRepo    *UserRepo
	projectRepo *ProjectRepo
	messageRepo *MessageRepo
}

var _ storage.Storage = (*Database)(nil)

// Option configures a Database.
type Option func(*conn)

// WithClock overrides the clock used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(c *conn) {
		c.now = now
	}
}

// New initializes a new Database with each repository using a shared GORM
// database instance. db must already be connected to dialect.
func New(db *gorm.DB, dialect storage.Dialect, opts ...Option) (*Database, error) {
	if dialect != storage.DialectSQLite && dialect != storage.DialectPostgres {
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}
	c := conn{db: db, dialect: dialect, now: time.Now}
	for _, opt := range opts {
		opt(&c)
	}
	return &Database{
		db:          db,
		dialect:     dialect,
		userRepo:    NewUserRepo(c),
		projectRepo: NewProjectRepo(c),
		messageRepo: NewMessageRepo(c),
	}, nil
}

// DB returns the underlying gorm handle.
func (d *Database) DB() *gorm.DB {
	return d.db
}

func (d *Database) Backend() storage.Backend {
	return storage.Backend{Kind: storage.KindRelational, Dialect: d.dialect}
}

func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
	}
	return nil
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// storage.Storage

func (d *Database) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return d.userRepo.FindByID(ctx, id)
}

func (d *Database) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return d.userRepo.FindByUsername(ctx, username)
}

func (d *Database) CreateUser(ctx context.Context, user models.NewUser) (*models.User, error) {
	return d.userRepo.Add(ctx, user)
}

func (d *Database) GetProjects(ctx context.Context) ([]models.Project, error) {
	return d.projectRepo.FindAll(ctx)
}

func (d *Database) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	return d.projectRepo.FindByID(ctx, id)
}

func (d *Database) CreateProject(ctx context.Context, project models.NewProject) (*models.Project, error) {
	return d.projectRepo.Add(ctx, project)
}

func (d *Database) UpdateProject(ctx context.Context, id int64, patch models.ProjectPatch) (*models.Project, error) {
	return d.projectRepo.Update(ctx, id, patch)
}

func (d *Database) DeleteProject(ctx context.Context, id int64) (bool, error) {
	return d.projectRepo.Delete(ctx, id)
}

func (d *Database) GetMessages(ctx context.Context) ([]models.Message, error) {
	return d.messageRepo.FindAll(ctx)
}

func (d *Database) GetMessage(ctx context.Context, id int64) (*models.Message, error) {
	return d.messageRepo.FindByID(ctx, id)
}

func (d *Database) CreateMessage(ctx context.Context, message models.NewMessage) (*models.Message, error) {
	return d.messageRepo.Add(ctx, message)
}

func (d *Database) MarkMessageAsRead(ctx context.Context, id int64) (*models.Message, error) {
	return d.messageRepo.MarkRead(ctx, id)
}

func (d *Database) DeleteMessage(ctx context.Context, id int64) (bool, error) {
	return d.messageRepo.Delete(ctx, id)
}
