// Package repositories provides PostgreSQL-backed implementations of the
// domain repository interfaces. All statistics and listings for one domain
// go through a single repository so every surface shares the same join
// shape, and every query is parameterised.
package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/PatentLens/internal/domain/analytics"
	"github.com/turtacn/PatentLens/internal/domain/patent"
	"github.com/turtacn/PatentLens/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/PatentLens/pkg/errors"
)

const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return stderrAs(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// patentColumns is the shared select list for patent rows.
const patentColumns = `p.kind, p.reg_number, p.reg_date, p.appl_date, p.appl_number,
       p.name, p.author_raw, p.owner_raw, p.country_code, p.address,
       p.subcategory, p.actual, p.start_date, p.publication_url, p.author_count`

// holderAgg aggregates the joined owners of a patent into a JSON array; it
// yields '[]' for patents without holders.
const holderAgg = `COALESCE(
           jsonb_agg(DISTINCT jsonb_build_object('tax_number', pr.tax_number, 'full_name', pr.full_name))
               FILTER (WHERE pr.tax_number IS NOT NULL),
           '[]'
       )`

// listJoin is the one join shape every listing and count runs on: patents
// left-joined to ownerships and persons. Filtered queries narrow it with a
// tax-number predicate, never with a different join.
const listJoin = `FROM patents p
       LEFT JOIN ownerships o
           ON o.patent_kind = p.kind AND o.patent_reg_number = p.reg_number
       LEFT JOIN persons pr
           ON pr.tax_number = o.person_tax_number`

// PatentRepository is the PostgreSQL implementation of patent.Repository.
type PatentRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewPatentRepository constructs a ready-to-use PatentRepository.
func NewPatentRepository(pool *pgxpool.Pool, logger logging.Logger) *PatentRepository {
	return &PatentRepository{pool: pool, logger: logger}
}

func (r *PatentRepository) Save(ctx context.Context, p *patent.Patent) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO patents (
			kind, reg_number, reg_date, appl_date, appl_number,
			name, author_raw, owner_raw, country_code, address,
			subcategory, actual, start_date, publication_url, author_count
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		int(p.Kind), p.RegNumber, p.RegDate, p.ApplDate, p.ApplNumber,
		p.Name, p.AuthorRaw, p.OwnerRaw, p.CountryCode, p.Address,
		p.Subcategory, p.Actual, p.StartDate, p.PublicationURL, p.AuthorCount,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.New(apperrors.ErrCodePatentAlreadyExists,
				fmt.Sprintf("patent %s already exists", p.Key()))
		}
		r.logger.Error("insert patent failed",
			logging.String("key", p.Key().String()), logging.Err(err))
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "insert patent")
	}
	return nil
}

func (r *PatentRepository) Update(ctx context.Context, key patent.Key, upd *patent.PartialUpdate) (*patent.Patent, error) {
	var (
		sets   []string
		args   []interface{}
		argIdx int
	)
	nextArg := func(v interface{}) string {
		argIdx++
		args = append(args, v)
		return fmt.Sprintf("$%d", argIdx)
	}

	if upd.Name != nil {
		sets = append(sets, "name = "+nextArg(*upd.Name))
	}
	if upd.AuthorRaw != nil {
		sets = append(sets, "author_raw = "+nextArg(*upd.AuthorRaw))
		sets = append(sets, "author_count = "+nextArg(patent.CountAuthors(*upd.AuthorRaw)))
	}
	if upd.OwnerRaw != nil {
		sets = append(sets, "owner_raw = "+nextArg(*upd.OwnerRaw))
	}
	if upd.CountryCode != nil {
		sets = append(sets, "country_code = "+nextArg(strings.ToUpper(strings.TrimSpace(*upd.CountryCode))))
	}
	if upd.Address != nil {
		sets = append(sets, "address = "+nextArg(*upd.Address))
	}
	if upd.Subcategory != nil {
		sets = append(sets, "subcategory = "+nextArg(*upd.Subcategory))
	}
	if upd.Actual != nil {
		sets = append(sets, "actual = "+nextArg(*upd.Actual))
	}
	if upd.PublicationURL != nil {
		sets = append(sets, "publication_url = "+nextArg(*upd.PublicationURL))
	}
	if len(sets) == 0 {
		return nil, apperrors.InvalidParam("update carries no fields")
	}

	phKind := nextArg(int(key.Kind))
	phReg := nextArg(key.RegNumber)
	sql := fmt.Sprintf(`
		UPDATE patents SET %s
		WHERE kind = %s AND reg_number = %s
		RETURNING kind, reg_number, reg_date, appl_date, appl_number,
		          name, author_raw, owner_raw, country_code, address,
		          subcategory, actual, start_date, publication_url, author_count`,
		strings.Join(sets, ", "), phKind, phReg)

	p, err := scanPatent(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if stderrIs(err, pgx.ErrNoRows) {
			return nil, apperrors.New(apperrors.ErrCodePatentNotFound,
				fmt.Sprintf("patent %s not found", key))
		}
		r.logger.Error("update patent failed",
			logging.String("key", key.String()), logging.Err(err))
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "update patent")
	}
	return p, nil
}

func (r *PatentRepository) FindByKey(ctx context.Context, key patent.Key) (*patent.Detail, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s,
		       %s AS holders,
		       COALESCE(string_agg(DISTINCT NULLIF(pr.short_name, ''), ', '), '') AS owner_names
		%s
		WHERE p.kind = $1 AND p.reg_number = $2
		GROUP BY p.kind, p.reg_number`, patentColumns, holderAgg, listJoin),
		int(key.Kind), key.RegNumber)

	detail, err := scanDetail(row)
	if err != nil {
		if stderrIs(err, pgx.ErrNoRows) {
			return nil, apperrors.New(apperrors.ErrCodePatentNotFound,
				fmt.Sprintf("patent %s not found", key))
		}
		r.logger.Error("find patent failed",
			logging.String("key", key.String()), logging.Err(err))
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "find patent")
	}
	return detail, nil
}

func (r *PatentRepository) Delete(ctx context.Context, key patent.Key) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM patents WHERE kind = $1 AND reg_number = $2`,
		int(key.Kind), key.RegNumber)
	if err != nil {
		r.logger.Error("delete patent failed",
			logging.String("key", key.String()), logging.Err(err))
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "delete patent")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.New(apperrors.ErrCodePatentNotFound,
			fmt.Sprintf("patent %s not found", key))
	}
	return nil
}

func (r *PatentRepository) List(ctx context.Context, q patent.ListQuery) ([]*patent.WithHolders, int64, error) {
	var (
		conditions []string
		args       []interface{}
		argIdx     int
	)
	nextArg := func(v interface{}) string {
		argIdx++
		args = append(args, v)
		return fmt.Sprintf("$%d", argIdx)
	}

	if q.Kind != nil {
		conditions = append(conditions, "p.kind = "+nextArg(int(*q.Kind)))
	}
	if q.Actual != nil {
		conditions = append(conditions, "p.actual = "+nextArg(*q.Actual))
	}
	if q.TaxNumbers != nil {
		// Narrowing to a tax-number set also drops patents without a
		// matching owner; an empty set matches nothing.
		conditions = append(conditions, "o.person_tax_number = ANY("+nextArg(q.TaxNumbers)+")")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	// The total counts distinct patents, not (patent, owner) pairs.
	countSQL := fmt.Sprintf(
		`SELECT COUNT(DISTINCT (p.kind, p.reg_number)) %s %s`, listJoin, whereClause)
	var total int64
	if err := r.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		r.logger.Error("count patents failed", logging.Err(err))
		return nil, 0, apperrors.Wrap(err, apperrors.CodeDatabaseError, "count patents")
	}

	phLimit := nextArg(q.PageSize)
	phOffset := nextArg(q.Offset())
	dataSQL := fmt.Sprintf(`
		SELECT %s, %s AS holders
		%s
		%s
		GROUP BY p.kind, p.reg_number
		ORDER BY p.actual DESC, p.reg_number ASC, p.kind ASC
		LIMIT %s OFFSET %s`,
		patentColumns, holderAgg, listJoin, whereClause, phLimit, phOffset)

	rows, err := r.pool.Query(ctx, dataSQL, args...)
	if err != nil {
		r.logger.Error("list patents failed", logging.Err(err))
		return nil, 0, apperrors.Wrap(err, apperrors.CodeDatabaseError, "list patents")
	}
	defer rows.Close()

	items, err := scanWithHolders(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *PatentRepository) CountOwnershipPairs(ctx context.Context, taxNumbers []string) (int64, error) {
	sql := `SELECT COUNT(*) FROM ownerships o`
	var args []interface{}
	if taxNumbers != nil {
		sql += ` WHERE o.person_tax_number = ANY($1)`
		args = append(args, taxNumbers)
	}
	var total int64
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, apperrors.Wrap(err, apperrors.CodeDatabaseError, "count ownership pairs")
	}
	return total, nil
}

// CollectStats runs every statistic count inside one repeatable-read
// read-only transaction so all numbers describe the same snapshot.
func (r *PatentRepository) CollectStats(ctx context.Context, taxNumbers []string) (*patent.Stats, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "begin stats transaction")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// ownedPred keeps only patents with at least one matching owner.
	ownedPred := `EXISTS (
		SELECT 1 FROM ownerships o
		WHERE o.patent_kind = p.kind AND o.patent_reg_number = p.reg_number)`
	filterPred := ""
	var args []interface{}
	if taxNumbers != nil {
		ownedPred = `EXISTS (
			SELECT 1 FROM ownerships o
			WHERE o.patent_kind = p.kind AND o.patent_reg_number = p.reg_number
			  AND o.person_tax_number = ANY($1))`
		filterPred = " WHERE " + ownedPred
		args = append(args, taxNumbers)
	}

	stats := &patent.Stats{
		ByAuthorCount: map[string]int64{},
		ByKind:        map[int]int64{},
	}

	count := func(sql string) (int64, error) {
		var n int64
		err := tx.QueryRow(ctx, sql, args...).Scan(&n)
		return n, err
	}

	if stats.TotalPatents, err = count(`SELECT COUNT(*) FROM patents p` + filterPred); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "count patents")
	}
	ruCond := ` WHERE p.country_code = 'RU'`
	if filterPred != "" {
		ruCond = filterPred + ` AND p.country_code = 'RU'`
	}
	if stats.TotalRUPatents, err = count(`SELECT COUNT(*) FROM patents p` + ruCond); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "count ru patents")
	}
	if stats.TotalWithHolders, err = count(`SELECT COUNT(*) FROM patents p WHERE ` + ownedPred); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "count patents with holders")
	}
	if stats.TotalRUWithHolders, err = count(
		`SELECT COUNT(*) FROM patents p WHERE p.country_code = 'RU' AND ` + ownedPred); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "count ru patents with holders")
	}

	bucketSQL := `
		SELECT CASE
		         WHEN p.author_count = 0 THEN '0'
		         WHEN p.author_count = 1 THEN '1'
		         WHEN p.author_count BETWEEN 2 AND 5 THEN '2–5'
		         ELSE '5+'
		       END AS bucket, COUNT(*)
		FROM patents p` + filterPred + `
		GROUP BY bucket`
	rows, err := tx.Query(ctx, bucketSQL, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "count author buckets")
	}
	for rows.Next() {
		var bucket string
		var n int64
		if err := rows.Scan(&bucket, &n); err != nil {
			rows.Close()
			return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "scan author bucket")
		}
		stats.ByAuthorCount[bucket] = n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "iterate author buckets")
	}

	kindSQL := `SELECT p.kind, COUNT(*) FROM patents p` + filterPred + ` GROUP BY p.kind`
	rows, err = tx.Query(ctx, kindSQL, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "count patents by kind")
	}
	for rows.Next() {
		var kind int
		var n int64
		if err := rows.Scan(&kind, &n); err != nil {
			rows.Close()
			return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "scan kind count")
		}
		stats.ByKind[kind] = n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "iterate kind counts")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "commit stats transaction")
	}
	return stats, nil
}

func (r *PatentRepository) SubcategoryCounts(ctx context.Context, kinds []patent.Kind) ([]analytics.Entry, error) {
	kindInts := make([]int, len(kinds))
	for i, k := range kinds {
		kindInts[i] = int(k)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT p.subcategory, COUNT(*) AS cnt
		FROM patents p
		WHERE p.kind = ANY($1) AND p.subcategory <> ''
		GROUP BY p.subcategory
		ORDER BY cnt DESC, p.subcategory ASC`, kindInts)
	if err != nil {
		r.logger.Error("subcategory counts failed", logging.Err(err))
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "count subcategories")
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanPatent(row pgx.Row) (*patent.Patent, error) {
	var p patent.Patent
	var kind int
	err := row.Scan(&kind, &p.RegNumber, &p.RegDate, &p.ApplDate, &p.ApplNumber,
		&p.Name, &p.AuthorRaw, &p.OwnerRaw, &p.CountryCode, &p.Address,
		&p.Subcategory, &p.Actual, &p.StartDate, &p.PublicationURL, &p.AuthorCount)
	if err != nil {
		return nil, err
	}
	p.Kind = patent.Kind(kind)
	return &p, nil
}

func scanWithHolders(rows pgx.Rows) ([]*patent.WithHolders, error) {
	items := []*patent.WithHolders{}
	for rows.Next() {
		var item patent.WithHolders
		var kind int
		var holdersJSON []byte
		err := rows.Scan(&kind, &item.RegNumber, &item.RegDate, &item.ApplDate, &item.ApplNumber,
			&item.Name, &item.AuthorRaw, &item.OwnerRaw, &item.CountryCode, &item.Address,
			&item.Subcategory, &item.Actual, &item.StartDate, &item.PublicationURL, &item.AuthorCount,
			&holdersJSON)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "scan patent row")
		}
		item.Kind = patent.Kind(kind)
		if err := json.Unmarshal(holdersJSON, &item.Holders); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "decode holders")
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "iterate patent rows")
	}
	return items, nil
}

func scanDetail(row pgx.Row) (*patent.Detail, error) {
	var d patent.Detail
	var kind int
	var holdersJSON []byte
	err := row.Scan(&kind, &d.RegNumber, &d.RegDate, &d.ApplDate, &d.ApplNumber,
		&d.Name, &d.AuthorRaw, &d.OwnerRaw, &d.CountryCode, &d.Address,
		&d.Subcategory, &d.Actual, &d.StartDate, &d.PublicationURL, &d.AuthorCount,
		&holdersJSON, &d.OwnerNames)
	if err != nil {
		return nil, err
	}
	d.Kind = patent.Kind(kind)
	if err := json.Unmarshal(holdersJSON, &d.Holders); err != nil {
		return nil, err
	}
	return &d, nil
}

func scanEntries(rows pgx.Rows) ([]analytics.Entry, error) {
	entries := []analytics.Entry{}
	for rows.Next() {
		var e analytics.Entry
		if err := rows.Scan(&e.Name, &e.Count); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "scan count row")
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "iterate count rows")
	}
	return entries, nil
}

var _ patent.Repository = (*PatentRepository)(nil)
