package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-site/pkg/site"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements site.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS content (
	id UUID PRIMARY KEY,
	path TEXT NOT NULL UNIQUE,
	parent_path TEXT NOT NULL,
	name TEXT NOT NULL DEFAULT '',
	display_name TEXT NOT NULL DEFAULT '',
	type TEXT NOT NULL DEFAULT '',
	data JSONB,
	page JSONB,
	attachment JSONB,
	permissions JSONB,
	inherit_permissions BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL,
	modified_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS content_parent_path_idx ON content (parent_path);
`

// Migrate creates the content table when it does not exist.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaSQL); err != nil {
		return r.handlePostgresError("migrate", err)
	}
	return nil
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return site.ErrContentExists
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return site.ErrContentNotFound
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

const selectColumns = `
	SELECT id, path, name, display_name, type, data, page, attachment,
	       permissions, inherit_permissions, created_at, modified_at
	FROM content`

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*site.Content, error) {
	row := r.db.QueryRow(ctx, selectColumns+` WHERE id = $1`, id)
	content, err := scanContent(row)
	if err != nil {
		return nil, r.handlePostgresError("get content by id", err)
	}
	return content, nil
}

func (r *Repository) GetByPath(ctx context.Context, path string) (*site.Content, error) {
	row := r.db.QueryRow(ctx, selectColumns+` WHERE path = $1`, site.CleanPath(path))
	content, err := scanContent(row)
	if err != nil {
		return nil, r.handlePostgresError("get content by path", err)
	}
	return content, nil
}

func (r *Repository) Children(ctx context.Context, parentPath string) ([]*site.Content, error) {
	rows, err := r.db.Query(ctx, selectColumns+` WHERE parent_path = $1 AND path <> '/' ORDER BY path`, site.CleanPath(parentPath))
	if err != nil {
		return nil, r.handlePostgresError("list children", err)
	}
	defer rows.Close()

	var result []*site.Content
	for rows.Next() {
		content, err := scanContent(rows)
		if err != nil {
			return nil, r.handlePostgresError("scan child", err)
		}
		result = append(result, content)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("list children", err)
	}
	return result, nil
}

func (r *Repository) Exists(ctx context.Context, path string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM content WHERE path = $1)`, site.CleanPath(path)).Scan(&exists)
	if err != nil {
		return false, r.handlePostgresError("content exists", err)
	}
	return exists, nil
}

func (r *Repository) Create(ctx context.Context, content *site.Content) error {
	if content.ID == uuid.Nil {
		content.ID = uuid.New()
	}
	content.Path = site.CleanPath(content.Path)
	now := time.Now().UTC()
	if content.CreatedAt.IsZero() {
		content.CreatedAt = now
	}
	content.ModifiedAt = now

	cols, err := encodeColumns(content)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO content (
			id, path, parent_path, name, display_name, type, data, page,
			attachment, permissions, inherit_permissions, created_at, modified_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err = r.db.Exec(ctx, query,
		content.ID, content.Path, parentOf(content.Path), content.Name, content.DisplayName, content.Type,
		cols.data, cols.page, cols.attachment, cols.permissions, content.InheritPermissions,
		content.CreatedAt, content.ModifiedAt)
	if err != nil {
		return r.handlePostgresError("create content", err)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, content *site.Content) error {
	content.Path = site.CleanPath(content.Path)
	content.ModifiedAt = time.Now().UTC()

	cols, err := encodeColumns(content)
	if err != nil {
		return err
	}

	query := `
		UPDATE content SET
			path = $2, parent_path = $3, name = $4, display_name = $5, type = $6,
			data = $7, page = $8, attachment = $9, permissions = $10,
			inherit_permissions = $11, modified_at = $12
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		content.ID, content.Path, parentOf(content.Path), content.Name, content.DisplayName, content.Type,
		cols.data, cols.page, cols.attachment, cols.permissions, content.InheritPermissions,
		content.ModifiedAt)
	if err != nil {
		return r.handlePostgresError("update content", err)
	}
	if tag.RowsAffected() == 0 {
		return site.ErrContentNotFound
	}
	return nil
}

// parentOf stores the root's parent as "" so Children("/") never returns the root itself.
func parentOf(path string) string {
	if path == "/" {
		return ""
	}
	return site.ParentPath(path)
}

type jsonColumns struct {
	data, page, attachment, permissions []byte
}

func encodeColumns(content *site.Content) (jsonColumns, error) {
	var cols jsonColumns
	var err error
	if cols.data, err = marshalNullable(content.Data, content.Data == nil); err != nil {
		return cols, fmt.Errorf("failed to encode data: %w", err)
	}
	if cols.page, err = marshalNullable(content.Page, content.Page == nil); err != nil {
		return cols, fmt.Errorf("failed to encode page: %w", err)
	}
	if cols.attachment, err = marshalNullable(content.Attachment, content.Attachment == nil); err != nil {
		return cols, fmt.Errorf("failed to encode attachment: %w", err)
	}
	if cols.permissions, err = marshalNullable(content.Permissions, content.Permissions == nil); err != nil {
		return cols, fmt.Errorf("failed to encode permissions: %w", err)
	}
	return cols, nil
}

func marshalNullable(v any, isNil bool) ([]byte, error) {
	if isNil {
		return nil, nil
	}
	return json.Marshal(v)
}

func scanContent(row pgx.Row) (*site.Content, error) {
	var (
		content                                 site.Content
		data, page, attachment, permissionsJSON []byte
	)
	err := row.Scan(
		&content.ID, &content.Path, &content.Name, &content.DisplayName, &content.Type,
		&data, &page, &attachment, &permissionsJSON, &content.InheritPermissions,
		&content.CreatedAt, &content.ModifiedAt)
	if err != nil {
		return nil, err
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &content.Data); err != nil {
			return nil, fmt.Errorf("failed to decode data: %w", err)
		}
	}
	if len(page) > 0 {
		content.Page = &site.Component{}
		if err := json.Unmarshal(page, content.Page); err != nil {
			return nil, fmt.Errorf("failed to decode page: %w", err)
		}
	}
	if len(attachment) > 0 {
		content.Attachment = &site.Attachment{}
		if err := json.Unmarshal(attachment, content.Attachment); err != nil {
			return nil, fmt.Errorf("failed to decode attachment: %w", err)
		}
	}
	if len(permissionsJSON) > 0 {
		if err := json.Unmarshal(permissionsJSON, &content.Permissions); err != nil {
			return nil, fmt.Errorf("failed to decode permissions: %w", err)
		}
	}
	return &content, nil
}
