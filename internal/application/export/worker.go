package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/turtacn/PatentLens/internal/domain/filter"
	"github.com/turtacn/PatentLens/internal/domain/patent"
	"github.com/turtacn/PatentLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentLens/pkg/errors"
)

var csvHeader = []string{
	"kind", "reg_number", "name", "reg_date", "appl_number",
	"country_code", "subcategory", "actual", "author_count", "holders",
}

// Options bound a single export run.
type Options struct {
	// PageSize is the listing page size used while streaming rows.
	PageSize int
	// MaxRows caps the number of exported rows.
	MaxRows int
	// LinkExpiry is the lifetime of the presigned download link.
	LinkExpiry time.Duration
}

// Processor turns a consumed Job into an uploaded CSV artifact. It is the
// worker-side counterpart of Service and reads the repository directly so
// page sizes are not bound by the interactive listing cap.
type Processor struct {
	repo      patent.Repository
	filters   filter.Repository
	artifacts ArtifactStore
	statuses  StatusStore
	opts      Options
	logger    logging.Logger
}

// NewProcessor creates an export processor.
func NewProcessor(repo patent.Repository, filters filter.Repository, artifacts ArtifactStore, statuses StatusStore, opts Options, logger logging.Logger) *Processor {
	if opts.PageSize < 1 {
		opts.PageSize = 1000
	}
	if opts.MaxRows < opts.PageSize {
		opts.MaxRows = opts.PageSize
	}
	if opts.LinkExpiry <= 0 {
		opts.LinkExpiry = 24 * time.Hour
	}
	return &Processor{
		repo:      repo,
		filters:   filters,
		artifacts: artifacts,
		statuses:  statuses,
		opts:      opts,
		logger:    logger,
	}
}

// Process runs one export job end to end. Failures are recorded in the
// status store and returned so the consumer can decide about redelivery.
func (p *Processor) Process(ctx context.Context, job *Job) error {
	p.setState(ctx, job.ID, StateRunning, "", "", 0)

	rows, err := p.collectRows(ctx, job)
	if err != nil {
		p.setState(ctx, job.ID, StateFailed, "", err.Error(), 0)
		return errors.Wrap(err, errors.ErrCodeExportFailed, "collect export rows")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err == nil {
		err = w.WriteAll(rows)
	}
	if err != nil {
		p.setState(ctx, job.ID, StateFailed, "", err.Error(), 0)
		return errors.Wrap(err, errors.ErrCodeExportFailed, "encode export csv")
	}

	objectName := fmt.Sprintf("exports/%s.csv", job.ID)
	if err := p.artifacts.Upload(ctx, objectName, &buf, int64(buf.Len()), "text/csv"); err != nil {
		p.setState(ctx, job.ID, StateFailed, "", err.Error(), 0)
		return errors.Wrap(err, errors.ErrCodeExportFailed, "upload export artifact")
	}

	url, err := p.artifacts.PresignedURL(ctx, objectName, p.opts.LinkExpiry)
	if err != nil {
		p.setState(ctx, job.ID, StateFailed, "", err.Error(), 0)
		return errors.Wrap(err, errors.ErrCodeExportFailed, "presign export artifact")
	}

	p.setState(ctx, job.ID, StateDone, url, "", len(rows))
	p.logger.Info("export job finished",
		logging.String("job_id", job.ID), logging.Int("rows", len(rows)))
	return nil
}

// collectRows streams the filtered listing page by page up to MaxRows.
func (p *Processor) collectRows(ctx context.Context, job *Job) ([][]string, error) {
	q := patent.ListQuery{PageSize: p.opts.PageSize, Actual: job.Actual}
	if job.Kind != nil {
		k := patent.Kind(*job.Kind)
		if !k.Valid() {
			return nil, errors.New(errors.ErrCodePatentKindInvalid,
				fmt.Sprintf("unknown patent kind %d", *job.Kind))
		}
		q.Kind = &k
	}
	if job.FilterID != nil {
		taxNumbers, err := p.filters.ResolveTaxNumbers(ctx, *job.FilterID)
		if err != nil {
			return nil, err
		}
		if taxNumbers == nil {
			taxNumbers = []string{}
		}
		q.TaxNumbers = taxNumbers
	}

	var rows [][]string
	for page := 1; len(rows) < p.opts.MaxRows; page++ {
		q.Page = page
		items, total, err := p.repo.List(ctx, q)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			rows = append(rows, csvRow(item))
			if len(rows) >= p.opts.MaxRows {
				break
			}
		}
		if int64(page*p.opts.PageSize) >= total || len(items) == 0 {
			break
		}
	}
	return rows, nil
}

func csvRow(item *patent.WithHolders) []string {
	regDate := ""
	if item.RegDate != nil {
		regDate = item.RegDate.Format("2006-01-02")
	}
	holders := make([]string, len(item.Holders))
	for i, h := range item.Holders {
		holders[i] = h.TaxNumber + " " + h.FullName
	}
	return []string{
		strconv.Itoa(int(item.Kind)),
		strconv.FormatInt(item.RegNumber, 10),
		item.Name,
		regDate,
		item.ApplNumber,
		item.CountryCode,
		item.Subcategory,
		strconv.FormatBool(item.Actual),
		strconv.Itoa(item.AuthorCount),
		strings.Join(holders, "; "),
	}
}

func (p *Processor) setState(ctx context.Context, id, state, url, errMsg string, rows int) {
	st := &Status{
		ID:        id,
		State:     state,
		URL:       url,
		Error:     errMsg,
		RowCount:  rows,
		UpdatedAt: time.Now().UTC(),
	}
	if err := p.statuses.Set(ctx, st); err != nil {
		p.logger.Warn("export status update failed",
			logging.String("job_id", id), logging.String("state", state), logging.Err(err))
	}
}
