// Package product provides the repository interface and PostgreSQL implementation
// for the catalog's products.
package product

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("product not found")

// PageSize is the fixed catalog page size.
const PageSize = 9

// Sort keys accepted by List. Anything else falls back to newest-first.
const (
	SortNewest    = "newest"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
)

type Query struct {
	CategoryID string
	Search     string
	Sort       string
	Page       int // 1-based
}

type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, q Query) ([]Product, int, error)
	Update(ctx context.Context, p *Product, updatePrice, updateStock bool) error
	Delete(ctx context.Context, id string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, p *Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO products (id, name, description, price, stock, category_id, sub_category, image_url, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,NULLIF($6,'')::uuid,$7,$8,NOW(),NOW())
	`, p.ID, p.Name, p.Description, p.Price, p.Stock, p.CategoryID, p.SubCategory, p.ImageURL)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p Product
	var catID, catName *string
	err := r.db.QueryRow(ctx, `
		SELECT p.id, p.name, p.description, p.price::text, p.stock,
		       p.category_id::text, c.name, p.sub_category, p.image_url,
		       p.created_at, p.updated_at
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id=$1
	`, id).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock,
		&catID, &catName, &p.SubCategory, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if catID != nil {
		p.CategoryID = *catID
	}
	if catName != nil {
		p.CategoryName = *catName
	}
	return &p, nil
}

// List returns one page of matching products plus the total match count.
func (r *PGRepo) List(ctx context.Context, q Query) ([]Product, int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	page := q.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * PageSize
	search := strings.TrimSpace(q.Search)

	orderBy := "p.created_at DESC"
	switch q.Sort {
	case SortPriceLow:
		orderBy = "p.price ASC, p.created_at DESC"
	case SortPriceHigh:
		orderBy = "p.price DESC, p.created_at DESC"
	}

	where := `
		WHERE ($1 = '' OR p.category_id::text = $1)
		  AND ($2 = '' OR p.name ILIKE '%'||$2||'%')
	`

	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM products p`+where, q.CategoryID, search).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT p.id, p.name, p.description, p.price::text, p.stock,
		       p.category_id::text, c.name, p.sub_category, p.image_url,
		       p.created_at, p.updated_at
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
	`+where+`
		ORDER BY `+orderBy+`
		LIMIT $3 OFFSET $4
	`, q.CategoryID, search, PageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		var catID, catName *string
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock,
			&catID, &catName, &p.SubCategory, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		if catID != nil {
			p.CategoryID = *catID
		}
		if catName != nil {
			p.CategoryName = *catName
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, p *Product, updatePrice, updateStock bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET name = COALESCE(NULLIF($2,''), name),
		    description = COALESCE(NULLIF($3,''), description),
		    price = CASE WHEN $4 THEN $5::numeric ELSE price END,
		    stock = CASE WHEN $6 THEN $7 ELSE stock END,
		    category_id = COALESCE(NULLIF($8,'')::uuid, category_id),
		    sub_category = COALESCE(NULLIF($9,''), sub_category),
		    image_url = COALESCE(NULLIF($10,''), image_url),
		    updated_at = NOW()
		WHERE id = $1
	`, p.ID, p.Name, p.Description, updatePrice, nullIfEmpty(p.Price), updateStock, p.Stock,
		p.CategoryID, p.SubCategory, p.ImageURL)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

// nullIfEmpty keeps the CASE arm castable when no price was supplied.
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
