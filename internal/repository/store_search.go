package repository

import (
	"context"
	"database/sql"
	"strings"
)

// StoreListPageSize is the fixed page size for the public store listings.
const StoreListPageSize = 10

// StoreRow is the public projection of a store returned by keyword search.
type StoreRow struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

// StoreListingRow extends StoreRow with the review aggregate used by the
// sorted listings: the average star rating (null until the store has at
// least one review) and the review texts.  Unreviewed reservations carry
// empty review strings in the database; those are filtered out here.
type StoreListingRow struct {
	ID           uint64   `json:"id"`
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	Description  string   `json:"description"`
	AverageStars *float64 `json:"average_stars"`
	Reviews      []string `json:"reviews"`
}

// Search returns stores whose name, address or description contains the
// keyword, case-insensitively.  Result order is unspecified.
func (r *StoreRepo) Search(ctx context.Context, keyword string) ([]StoreRow, error) {
	kw := "%" + strings.ToLower(keyword) + "%"
	const q = `SELECT id, name, address, description
	           FROM stores
	           WHERE LOWER(name) LIKE ? OR LOWER(address) LIKE ? OR LOWER(description) LIKE ?`
	rows, err := r.db.QueryContext(ctx, q, kw, kw, kw)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]StoreRow, 0)
	for rows.Next() {
		var d StoreRow
		if err := rows.Scan(&d.ID, &d.Name, &d.Address, &d.Description); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByName returns one page of all stores sorted by name ascending.
// Pages are zero-based with a fixed size of StoreListPageSize.
func (r *StoreRepo) ListByName(ctx context.Context, page int) ([]StoreListingRow, int64, error) {
	const orderBy = "ORDER BY s.name ASC, s.id ASC"
	return r.listPage(ctx, page, orderBy)
}

// ListByStars returns one page of all stores sorted by average star rating
// descending.  Stores without any review sort last.
func (r *StoreRepo) ListByStars(ctx context.Context, page int) ([]StoreListingRow, int64, error) {
	const orderBy = "ORDER BY avg_stars IS NULL, avg_stars DESC, s.id ASC"
	return r.listPage(ctx, page, orderBy)
}

func (r *StoreRepo) listPage(ctx context.Context, page int, orderBy string) ([]StoreListingRow, int64, error) {
	if page < 0 {
		page = 0
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM stores").Scan(&total); err != nil {
		return nil, 0, err
	}

	// NULLIF maps the stars=0 sentinel of unreviewed reservations to NULL
	// so AVG only aggregates real ratings.
	dataSQL := `SELECT s.id, s.name, s.address, s.description,
			AVG(NULLIF(r.stars, 0)) AS avg_stars
		FROM stores s
		LEFT JOIN reservations r ON r.store_id = s.id
		GROUP BY s.id, s.name, s.address, s.description
		` + orderBy + `
		LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, dataSQL, StoreListPageSize, page*StoreListPageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]StoreListingRow, 0, StoreListPageSize)
	index := make(map[uint64]int)
	for rows.Next() {
		var d StoreListingRow
		var avg sql.NullFloat64
		if err := rows.Scan(&d.ID, &d.Name, &d.Address, &d.Description, &avg); err != nil {
			return nil, 0, err
		}
		if avg.Valid {
			v := avg.Float64
			d.AverageStars = &v
		}
		d.Reviews = []string{}
		index[d.ID] = len(out)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(out) == 0 {
		return out, total, nil
	}

	// Populate review texts for the page in a single query.  Empty reviews
	// (unreviewed reservations) are excluded.
	ids := make([]interface{}, 0, len(out))
	placeholders := make([]string, 0, len(out))
	for _, d := range out {
		ids = append(ids, d.ID)
		placeholders = append(placeholders, "?")
	}
	reviewSQL := `SELECT store_id, review FROM reservations
		WHERE store_id IN (` + strings.Join(placeholders, ",") + `) AND review <> ''
		ORDER BY store_id, id`
	rrows, err := r.db.QueryContext(ctx, reviewSQL, ids...)
	if err != nil {
		return nil, 0, err
	}
	defer rrows.Close()
	for rrows.Next() {
		var storeID uint64
		var review string
		if err := rrows.Scan(&storeID, &review); err != nil {
			return nil, 0, err
		}
		if idx, ok := index[storeID]; ok {
			out[idx].Reviews = append(out[idx].Reviews, review)
		}
	}
	if err := rrows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
