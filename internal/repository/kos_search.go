package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ngekosaja/ngekosaja-api/internal/model"
)

// KosSearchQuery defines filters & pagination for the public kos list.
// MinPrice and MaxPrice apply to the cheapest room of each kos; a kos
// without rooms only matches when neither bound is set.
type KosSearchQuery struct {
	Q        string // matches name, address or city
	City     string
	KosType  string
	MinPrice *int64
	MaxPrice *int64
	Page     int
	PageSize int
}

// KosListing is one row of the public list.
type KosListing struct {
	model.Kos
	StartingPrice  *int64 `json:"starting_price"`
	TotalRooms     int    `json:"total_rooms"`
	AvailableRooms int    `json:"available_rooms"`
}

// MaxPageSize caps page_size on public lists.
const MaxPageSize = 100

// Search returns one page of listings and the total match count.
func (r *KosRepo) Search(ctx context.Context, q KosSearchQuery) ([]KosListing, int64, error) {
	where := []string{}
	args := []any{}

	if s := strings.TrimSpace(q.Q); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		where = append(where, "(LOWER(k.name) LIKE ? OR LOWER(k.address) LIKE ? OR LOWER(k.city) LIKE ?)")
		args = append(args, like, like, like)
	}
	if c := strings.TrimSpace(q.City); c != "" {
		where = append(where, "LOWER(k.city) = ?")
		args = append(args, strings.ToLower(c))
	}
	if q.KosType != "" {
		where = append(where, "k.kos_type = ?")
		args = append(args, q.KosType)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	having := []string{}
	if q.MinPrice != nil {
		having = append(having, "MIN(r.price_per_month) >= ?")
		args = append(args, *q.MinPrice)
	}
	if q.MaxPrice != nil {
		having = append(having, "MIN(r.price_per_month) <= ?")
		args = append(args, *q.MaxPrice)
	}
	havingSQL := ""
	if len(having) > 0 {
		havingSQL = " HAVING " + strings.Join(having, " AND ")
	}

	from := ` FROM boarding_houses k
		LEFT JOIN rooms r ON r.kos_id = k.id
		WHERE ` + cond + `
		GROUP BY k.id` + havingSQL

	var total int64
	countSQL := `SELECT COUNT(*) FROM (SELECT k.id` + from + `) t`
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	_, limit, offset := normPage(q.Page, q.PageSize, MaxPageSize)
	dataSQL := `SELECT ` + kosColumns + `,
			MIN(r.price_per_month), COUNT(r.id), COALESCE(SUM(r.is_occupied = 0), 0)` + from + `
		ORDER BY k.created_at DESC, k.id DESC
		LIMIT ? OFFSET ?`
	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]KosListing, 0, limit)
	for rows.Next() {
		var (
			l        KosListing
			minPrice sql.NullInt64
		)
		k, err := scanKos(rows, &minPrice, &l.TotalRooms, &l.AvailableRooms)
		if err != nil {
			return nil, 0, err
		}
		l.Kos = k
		if minPrice.Valid {
			v := minPrice.Int64
			l.StartingPrice = &v
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
