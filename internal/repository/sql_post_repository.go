package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	blogapi "github.com/klass-lk/blog-api"
	"github.com/klass-lk/blog-api/internal/model"
)

const sqlPostColumns = "id, title, content, author, created"

// authorDocument stores an author as a JSONB document.
type authorDocument model.Author

func (a authorDocument) Value() (driver.Value, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (a *authorDocument) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	case nil:
		*a = authorDocument{}
		return nil
	default:
		return fmt.Errorf("unsupported author column type %T", src)
	}
	return json.Unmarshal(raw, a)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// SQLPostRepository stores posts in a PostgreSQL table. The author keeps its
// structured form in a JSONB column.
type SQLPostRepository struct {
	db        *sql.DB
	tableName string
}

func NewSQLPostRepository(db *sql.DB) *SQLPostRepository {
	return &SQLPostRepository{
		db:        db,
		tableName: model.Post{}.GetCollectionName(),
	}
}

func (r *SQLPostRepository) CreateTable(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, blogapi.SingleDocumentTimeout)
	defer cancel()

	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		author JSONB NOT NULL DEFAULT '{}'::jsonb,
		created TIMESTAMPTZ NOT NULL
	)`, r.tableName)
	_, err := r.db.ExecContext(ctx, query)
	return err
}

func (r *SQLPostRepository) scanPost(row rowScanner) (model.Post, error) {
	var post model.Post
	var author authorDocument
	if err := row.Scan(&post.ID, &post.Title, &post.Content, &author, &post.Created); err != nil {
		return model.Post{}, err
	}
	post.Author = model.Author(author)
	post.Created = post.Created.UTC()
	return post, nil
}

func (r *SQLPostRepository) List(ctx context.Context) ([]model.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, blogapi.ScanTimeout)
	defer cancel()

	query := fmt.Sprintf("SELECT %s FROM %s", sqlPostColumns, r.tableName)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		post, err := r.scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (r *SQLPostRepository) FindByID(ctx context.Context, id string) (model.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, blogapi.SingleDocumentTimeout)
	defer cancel()

	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", sqlPostColumns, r.tableName)
	post, err := r.scanPost(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Post{}, ErrPostNotFound
	}
	if err != nil {
		return model.Post{}, fmt.Errorf("find post %s: %w", id, err)
	}
	return post, nil
}

func (r *SQLPostRepository) Create(ctx context.Context, post model.Post) (model.Post, error) {
	post = post.WithDefaults(uuid.NewString(), time.Now())
	if err := post.Validate(); err != nil {
		return model.Post{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, blogapi.SingleDocumentTimeout)
	defer cancel()

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5)", r.tableName, sqlPostColumns)
	_, err := r.db.ExecContext(ctx, query, post.ID, post.Title, post.Content, authorDocument(post.Author), post.Created)
	if err != nil {
		return model.Post{}, fmt.Errorf("insert post: %w", err)
	}
	return post, nil
}

func (r *SQLPostRepository) Update(ctx context.Context, id string, update model.PostUpdate) (model.Post, error) {
	if err := update.Validate(); err != nil {
		return model.Post{}, err
	}
	if update.IsEmpty() {
		return r.FindByID(ctx, id)
	}

	var sets []string
	var args []interface{}
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if update.Title != nil {
		add("title", *update.Title)
	}
	if update.Content != nil {
		add("content", *update.Content)
	}
	if update.Author != nil {
		add("author", authorDocument(*update.Author))
	}
	args = append(args, id)

	ctx, cancel := context.WithTimeout(ctx, blogapi.SingleDocumentTimeout)
	defer cancel()

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		r.tableName, strings.Join(sets, ", "), len(args), sqlPostColumns)
	post, err := r.scanPost(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Post{}, ErrPostNotFound
	}
	if err != nil {
		return model.Post{}, fmt.Errorf("update post %s: %w", id, err)
	}
	return post, nil
}

func (r *SQLPostRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, blogapi.SingleDocumentTimeout)
	defer cancel()

	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.tableName)
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	return nil
}
