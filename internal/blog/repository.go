package blog

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed persistence for posts.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const postColumns = `id, slug, title_en, title_ar, body_en, body_ar, published, created_at, updated_at`

// ListPosts returns all posts, newest first.
func (r *Repository) ListPosts(ctx context.Context) ([]Post, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+postColumns+` FROM blog_posts ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var post Post
		if err := rows.Scan(&post.ID, &post.Slug, &post.TitleEn, &post.TitleAr, &post.BodyEn, &post.BodyAr, &post.Published, &post.CreatedAt, &post.UpdatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}

// CreatePost inserts a new post.
func (r *Repository) CreatePost(ctx context.Context, post Post) (Post, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO blog_posts (slug, title_en, title_ar, body_en, body_ar, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING `+postColumns,
		post.Slug, post.TitleEn, post.TitleAr, post.BodyEn, post.BodyAr, post.Published)
	var created Post
	err := row.Scan(&created.ID, &created.Slug, &created.TitleEn, &created.TitleAr, &created.BodyEn, &created.BodyAr, &created.Published, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return Post{}, err
	}
	return created, nil
}

// DeletePost removes a post by id.
func (r *Repository) DeletePost(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
