package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/PatentLens/internal/domain/analytics"
	"github.com/turtacn/PatentLens/internal/domain/person"
	"github.com/turtacn/PatentLens/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/PatentLens/pkg/errors"
)

const personColumns = `pr.kind, pr.tax_number, pr.full_name, pr.short_name,
       pr.legal_address, pr.fact_address, pr.region, pr.reg_date,
       pr.ogrn, pr.inn, pr.category, pr.okopf, pr.okvad,
       pr.uk, COALESCE(pr.support_type, ''), pr.active`

// patentCountExpr derives the held-patent count from the ownerships table
// so it never drifts from the edges.
const patentCountExpr = `(SELECT COUNT(*) FROM ownerships o WHERE o.person_tax_number = pr.tax_number)`

// moscowPred narrows person queries to the Moscow region.
const moscowPred = `pr.region ILIKE '%москва%'`

// PersonRepository is the PostgreSQL implementation of person.Repository.
type PersonRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewPersonRepository constructs a ready-to-use PersonRepository.
func NewPersonRepository(pool *pgxpool.Pool, logger logging.Logger) *PersonRepository {
	return &PersonRepository{pool: pool, logger: logger}
}

func (r *PersonRepository) Save(ctx context.Context, p *person.Person) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO persons (
			kind, tax_number, full_name, short_name,
			legal_address, fact_address, region, reg_date,
			ogrn, inn, category, okopf, okvad,
			uk, support_type, active
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,NULLIF($15,''),$16)`,
		int(p.Kind), p.TaxNumber, p.FullName, p.ShortName,
		p.LegalAddress, p.FactAddress, p.Region, p.RegDate,
		p.OGRN, p.INN, p.Category, p.OKOPF, p.OKVAD,
		p.InCluster, p.SupportType, p.Active,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.New(apperrors.ErrCodePersonAlreadyExists,
				fmt.Sprintf("person with tax number %s or the same ogrn already exists", p.TaxNumber))
		}
		r.logger.Error("insert person failed",
			logging.String("tax_number", p.TaxNumber), logging.Err(err))
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "insert person")
	}
	return nil
}

func (r *PersonRepository) Update(ctx context.Context, taxNumber string, upd *person.PartialUpdate) error {
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

	if upd.Kind != nil {
		sets = append(sets, "kind = "+nextArg(int(*upd.Kind)))
	}
	if upd.FullName != nil {
		sets = append(sets, "full_name = "+nextArg(*upd.FullName))
	}
	if upd.ShortName != nil {
		sets = append(sets, "short_name = "+nextArg(*upd.ShortName))
	}
	if upd.LegalAddress != nil {
		sets = append(sets, "legal_address = "+nextArg(*upd.LegalAddress))
	}
	if upd.FactAddress != nil {
		sets = append(sets, "fact_address = "+nextArg(*upd.FactAddress))
	}
	if upd.Region != nil {
		sets = append(sets, "region = "+nextArg(*upd.Region))
	}
	if upd.RegDate != nil {
		sets = append(sets, "reg_date = "+nextArg(*upd.RegDate))
	}
	if upd.OGRN != nil {
		sets = append(sets, "ogrn = "+nextArg(strings.TrimSpace(*upd.OGRN)))
	}
	if upd.INN != nil {
		sets = append(sets, "inn = "+nextArg(strings.TrimSpace(*upd.INN)))
	}
	if upd.Category != nil {
		sets = append(sets, "category = "+nextArg(*upd.Category))
	}
	if upd.OKOPF != nil {
		sets = append(sets, "okopf = "+nextArg(*upd.OKOPF))
	}
	if upd.OKVAD != nil {
		sets = append(sets, "okvad = "+nextArg(*upd.OKVAD))
	}
	if upd.InCluster != nil {
		sets = append(sets, "uk = "+nextArg(*upd.InCluster))
	}
	if upd.SupportType != nil {
		sets = append(sets, "support_type = NULLIF("+nextArg(*upd.SupportType)+", '')")
	}
	if upd.Active != nil {
		sets = append(sets, "active = "+nextArg(*upd.Active))
	}
	if len(sets) == 0 {
		return apperrors.InvalidParam("update carries no fields")
	}

	ph := nextArg(taxNumber)
	tag, err := r.pool.Exec(ctx, fmt.Sprintf(
		`UPDATE persons SET %s WHERE tax_number = %s`, strings.Join(sets, ", "), ph), args...)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.New(apperrors.ErrCodePersonAlreadyExists, "ogrn already taken")
		}
		r.logger.Error("update person failed",
			logging.String("tax_number", taxNumber), logging.Err(err))
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "update person")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.New(apperrors.ErrCodePersonNotFound,
			fmt.Sprintf("person %s not found", taxNumber))
	}
	return nil
}

func (r *PersonRepository) FindByTaxNumber(ctx context.Context, taxNumber string) (*person.Detail, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s, %s AS patent_count
		FROM persons pr
		WHERE pr.tax_number = $1`, personColumns, patentCountExpr), taxNumber)

	p, err := scanPerson(row)
	if err != nil {
		if stderrIs(err, pgx.ErrNoRows) {
			return nil, apperrors.New(apperrors.ErrCodePersonNotFound,
				fmt.Sprintf("person %s not found", taxNumber))
		}
		r.logger.Error("find person failed",
			logging.String("tax_number", taxNumber), logging.Err(err))
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "find person")
	}

	detail := &person.Detail{Person: *p, Patents: []person.PatentRef{}}
	rows, err := r.pool.Query(ctx, `
		SELECT p.kind, p.reg_number, p.name, p.actual
		FROM ownerships o
		JOIN patents p ON p.kind = o.patent_kind AND p.reg_number = o.patent_reg_number
		WHERE o.person_tax_number = $1
		ORDER BY p.actual DESC, p.reg_number ASC, p.kind ASC`, taxNumber)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "list person patents")
	}
	defer rows.Close()
	for rows.Next() {
		var ref person.PatentRef
		if err := rows.Scan(&ref.Kind, &ref.RegNumber, &ref.Name, &ref.Actual); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "scan person patent")
		}
		detail.Patents = append(detail.Patents, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "iterate person patents")
	}
	return detail, nil
}

func (r *PersonRepository) Delete(ctx context.Context, taxNumber string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM persons WHERE tax_number = $1`, taxNumber)
	if err != nil {
		r.logger.Error("delete person failed",
			logging.String("tax_number", taxNumber), logging.Err(err))
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "delete person")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.New(apperrors.ErrCodePersonNotFound,
			fmt.Sprintf("person %s not found", taxNumber))
	}
	return nil
}

func (r *PersonRepository) List(ctx context.Context, q person.ListQuery) ([]*person.Person, int64, error) {
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
		conditions = append(conditions, "pr.kind = "+nextArg(int(*q.Kind)))
	}
	if q.TaxNumbers != nil {
		conditions = append(conditions, "pr.tax_number = ANY("+nextArg(q.TaxNumbers)+")")
	}
	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countSQL := fmt.Sprintf(`SELECT COUNT(*) FROM persons pr %s`, whereClause)
	if err := r.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		r.logger.Error("count persons failed", logging.Err(err))
		return nil, 0, apperrors.Wrap(err, apperrors.CodeDatabaseError, "count persons")
	}

	phLimit := nextArg(q.PageSize)
	phOffset := nextArg(q.Offset())
	dataSQL := fmt.Sprintf(`
		SELECT %s, %s AS patent_count
		FROM persons pr
		%s
		ORDER BY pr.tax_number ASC
		LIMIT %s OFFSET %s`, personColumns, patentCountExpr, whereClause, phLimit, phOffset)

	rows, err := r.pool.Query(ctx, dataSQL, args...)
	if err != nil {
		r.logger.Error("list persons failed", logging.Err(err))
		return nil, 0, apperrors.Wrap(err, apperrors.CodeDatabaseError, "list persons")
	}
	defer rows.Close()

	items := []*person.Person{}
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, 0, apperrors.Wrap(err, apperrors.CodeDatabaseError, "scan person row")
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.Wrap(err, apperrors.CodeDatabaseError, "iterate person rows")
	}
	return items, total, nil
}

func (r *PersonRepository) Totals(ctx context.Context, taxNumbers []string) (*person.Totals, error) {
	return r.collectTotals(ctx, taxNumbers, "")
}

func (r *PersonRepository) MoscowStats(ctx context.Context, taxNumbers []string) (*person.MoscowStats, error) {
	totals, err := r.collectTotals(ctx, taxNumbers, moscowPred)
	if err != nil {
		return nil, err
	}

	stats := &person.MoscowStats{Totals: *totals}
	pred := moscowPred
	var args []interface{}
	if taxNumbers != nil {
		pred += ` AND pr.tax_number = ANY($1)`
		args = append(args, taxNumbers)
	}

	err = r.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT COUNT(*) FILTER (WHERE pr.uk),
		       COUNT(*) FILTER (WHERE COALESCE(pr.support_type, '') <> '')
		FROM persons pr WHERE %s`, pred), args...).
		Scan(&stats.ClusterMembers, &stats.WithSupport)
	if err != nil {
		r.logger.Error("moscow cluster counts failed", logging.Err(err))
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "count moscow cluster members")
	}
	return stats, nil
}

// collectTotals runs the shared totals queries, optionally narrowed by a
// fixed predicate and a tax-number set.
func (r *PersonRepository) collectTotals(ctx context.Context, taxNumbers []string, extraPred string) (*person.Totals, error) {
	var conditions []string
	var args []interface{}
	if extraPred != "" {
		conditions = append(conditions, extraPred)
	}
	if taxNumbers != nil {
		args = append(args, taxNumbers)
		conditions = append(conditions, fmt.Sprintf("pr.tax_number = ANY($%d)", len(args)))
	}
	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	totals := &person.Totals{
		ByKind:     map[int]int64{},
		ByCategory: map[string]int64{},
	}

	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM persons pr`+whereClause, args...).Scan(&totals.TotalPersons); err != nil {
		r.logger.Error("count persons failed", logging.Err(err))
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "count persons")
	}

	rows, err := r.pool.Query(ctx,
		`SELECT pr.kind, COUNT(*) FROM persons pr`+whereClause+` GROUP BY pr.kind`, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "count persons by kind")
	}
	for rows.Next() {
		var kind int
		var n int64
		if err := rows.Scan(&kind, &n); err != nil {
			rows.Close()
			return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "scan kind count")
		}
		totals.ByKind[kind] = n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "iterate kind counts")
	}

	catWhere := whereClause
	if catWhere == "" {
		catWhere = ` WHERE pr.category <> ''`
	} else {
		catWhere += ` AND pr.category <> ''`
	}
	rows, err = r.pool.Query(ctx,
		`SELECT pr.category, COUNT(*) FROM persons pr`+catWhere+` GROUP BY pr.category`, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "count persons by category")
	}
	for rows.Next() {
		var category string
		var n int64
		if err := rows.Scan(&category, &n); err != nil {
			rows.Close()
			return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "scan category count")
		}
		totals.ByCategory[category] = n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "iterate category counts")
	}
	return totals, nil
}

func (r *PersonRepository) OkopfCounts(ctx context.Context) ([]analytics.Entry, error) {
	return r.labelCounts(ctx, "okopf")
}

func (r *PersonRepository) OkvadCounts(ctx context.Context) ([]analytics.Entry, error) {
	return r.labelCounts(ctx, "okvad")
}

func (r *PersonRepository) labelCounts(ctx context.Context, column string) ([]analytics.Entry, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT pr.%s, COUNT(*) AS cnt
		FROM persons pr
		WHERE pr.%s <> ''
		GROUP BY pr.%s
		ORDER BY cnt DESC, pr.%s ASC`, column, column, column, column))
	if err != nil {
		r.logger.Error("label counts failed", logging.String("column", column), logging.Err(err))
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "count "+column)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanPerson(row pgx.Row) (*person.Person, error) {
	var p person.Person
	var kind int
	err := row.Scan(&kind, &p.TaxNumber, &p.FullName, &p.ShortName,
		&p.LegalAddress, &p.FactAddress, &p.Region, &p.RegDate,
		&p.OGRN, &p.INN, &p.Category, &p.OKOPF, &p.OKVAD,
		&p.InCluster, &p.SupportType, &p.Active, &p.PatentCount)
	if err != nil {
		return nil, err
	}
	p.Kind = person.Kind(kind)
	return &p, nil
}

var _ person.Repository = (*PersonRepository)(nil)
