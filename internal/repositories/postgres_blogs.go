package repositories

import (
	"context"
	"fmt"
	"time"

	crdbpgxv5 "github.com/cockroachdb/cockroach-go/v2/crdb/crdbpgxv5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dailyreadnest/backend/internal/blogs"
	"github.com/dailyreadnest/backend/internal/db"
	"github.com/dailyreadnest/backend/internal/models"
)

// PostgresBlogRepository persists per-user blog collections and comments.
type PostgresBlogRepository struct {
	pool db.Pool
}

// NewPostgresBlogRepository constructs a blog repository backed by PostgreSQL.
func NewPostgresBlogRepository(pool db.Pool) *PostgresBlogRepository {
	return &PostgresBlogRepository{pool: pool}
}

// Add appends a new blog for the owner and returns the updated collection.
// The owner row is locked before the cap check so two concurrent inserts
// cannot both pass under the limit.
func (r *PostgresBlogRepository) Add(ctx context.Context, ownerID, content string) ([]models.Blog, error) {
	var collection []models.Blog

	err := crdbpgxv5.ExecuteTx(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if err := lockOwner(ctx, tx, ownerID); err != nil {
			return err
		}

		var count int
		if err := tx.QueryRow(ctx, `
            SELECT count(*) FROM blogs WHERE owner_id = $1
        `, ownerID).Scan(&count); err != nil {
			return fmt.Errorf("count blogs: %w", err)
		}
		if count >= blogs.MaxPerUser {
			return blogs.ErrLimitReached
		}

		if _, err := tx.Exec(ctx, `
            INSERT INTO blogs (id, owner_id, content, seq, created_at)
            VALUES ($1, $2, $3, (SELECT COALESCE(MAX(seq), 0) + 1 FROM blogs WHERE owner_id = $2), now())
        `, uuid.NewString(), ownerID, content); err != nil {
			return fmt.Errorf("insert blog: %w", err)
		}

		var err error
		collection, err = listTx(ctx, tx, ownerID, 0, -1)
		return err
	})
	if err != nil {
		return nil, err
	}

	return collection, nil
}

// Update replaces a blog's content in place; id and createdAt are untouched.
func (r *PostgresBlogRepository) Update(ctx context.Context, ownerID, blogID, content string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE blogs SET content = $3
        WHERE owner_id = $1 AND id = $2
    `, ownerID, blogID, content)
	if err != nil {
		return fmt.Errorf("update blog: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return blogs.ErrNotFound
	}
	return nil
}

// Delete removes a blog and its comments. Sequence numbers of the remaining
// blogs keep their values; ids are never reused.
func (r *PostgresBlogRepository) Delete(ctx context.Context, ownerID, blogID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        DELETE FROM blogs
        WHERE owner_id = $1 AND id = $2
    `, ownerID, blogID)
	if err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return blogs.ErrNotFound
	}
	return nil
}

// List returns one page of the owner's blogs in insertion order plus the
// total count. An out-of-range page yields an empty page, not an error.
func (r *PostgresBlogRepository) List(ctx context.Context, ownerID string, page, pageSize int) (blogs.Page, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return blogs.Page{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var total int
	if err := conn.QueryRow(ctx, `
        SELECT count(*) FROM blogs WHERE owner_id = $1
    `, ownerID).Scan(&total); err != nil {
		return blogs.Page{}, fmt.Errorf("count blogs: %w", err)
	}

	offset, limit := blogs.Bounds(page, pageSize)
	window, err := listTx(ctx, conn, ownerID, offset, limit)
	if err != nil {
		return blogs.Page{}, err
	}

	return blogs.Page{Blogs: window, TotalBlogs: total}, nil
}

// AddComment appends a comment to a blog owned by ownerID.
func (r *PostgresBlogRepository) AddComment(ctx context.Context, ownerID, blogID, authorID, text string) (models.Comment, error) {
	var comment models.Comment

	err := crdbpgxv5.ExecuteTx(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `
            SELECT EXISTS (SELECT 1 FROM blogs WHERE owner_id = $1 AND id = $2)
        `, ownerID, blogID).Scan(&exists); err != nil {
			return fmt.Errorf("check blog: %w", err)
		}
		if !exists {
			return blogs.ErrNotFound
		}

		comment = models.Comment{
			ID:       uuid.NewString(),
			BlogID:   blogID,
			AuthorID: authorID,
			Text:     text,
		}
		row := tx.QueryRow(ctx, `
            INSERT INTO comments (id, blog_id, author_id, text, created_at)
            VALUES ($1, $2, $3, $4, now())
            RETURNING created_at, (SELECT name FROM users WHERE id = $3)
        `, comment.ID, comment.BlogID, comment.AuthorID, comment.Text)
		if err := row.Scan(&comment.CreatedAt, &comment.AuthorName); err != nil {
			return fmt.Errorf("insert comment: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Comment{}, err
	}

	return comment, nil
}

// rowQuerier is satisfied by transactions and pooled connections.
type rowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// listTx loads a window of the owner's blogs with their comments attached.
// A negative limit loads the whole collection.
func listTx(ctx context.Context, q rowQuerier, ownerID string, offset, limit int) ([]models.Blog, error) {
	query := `
        SELECT id, owner_id, content, created_at
        FROM blogs
        WHERE owner_id = $1
        ORDER BY seq
    `
	args := []any{ownerID}
	if limit >= 0 {
		query += ` OFFSET $2 LIMIT $3`
		args = append(args, offset, limit)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query blogs: %w", err)
	}
	defer rows.Close()

	var result []models.Blog
	var ids []string
	for rows.Next() {
		var blog models.Blog
		if err := rows.Scan(&blog.ID, &blog.OwnerID, &blog.Content, &blog.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan blog: %w", err)
		}
		blog.Comments = []models.Comment{}
		result = append(result, blog)
		ids = append(ids, blog.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blogs: %w", err)
	}

	if len(ids) == 0 {
		return result, nil
	}

	commentRows, err := q.Query(ctx, `
        SELECT c.id, c.blog_id, c.author_id, u.name, c.text, c.created_at
        FROM comments c
        JOIN users u ON u.id = c.author_id
        WHERE c.blog_id = ANY($1)
        ORDER BY c.created_at, c.id
    `, ids)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer commentRows.Close()

	byBlog := make(map[string]int, len(result))
	for i, blog := range result {
		byBlog[blog.ID] = i
	}

	for commentRows.Next() {
		var c models.Comment
		var createdAt time.Time
		if err := commentRows.Scan(&c.ID, &c.BlogID, &c.AuthorID, &c.AuthorName, &c.Text, &createdAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		c.CreatedAt = createdAt.UTC()
		if i, ok := byBlog[c.BlogID]; ok {
			result[i].Comments = append(result[i].Comments, c)
		}
	}
	if err := commentRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	return result, nil
}

// lockOwner locks the owner's user row for the duration of the transaction.
func lockOwner(ctx context.Context, tx pgx.Tx, ownerID string) error {
	var id string
	if err := tx.QueryRow(ctx, `
        SELECT id FROM users WHERE id = $1 FOR UPDATE
    `, ownerID).Scan(&id); err != nil {
		if err == pgx.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("lock owner: %w", err)
	}
	return nil
}

var _ BlogRepository = (*PostgresBlogRepository)(nil)
