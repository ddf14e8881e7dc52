// Package filters provides the application-level service for persisted
// tax-number filters, including CSV upload parsing.
package filters

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/turtacn/PatentLens/internal/domain/filter"
	"github.com/turtacn/PatentLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentLens/pkg/errors"
)

// Service defines the filter application operations.
type Service interface {
	Create(ctx context.Context, name string, taxNumbers []string) (*filter.Filter, error)
	CreateFromCSV(ctx context.Context, name string, r io.Reader) (*filter.Filter, error)
	List(ctx context.Context) ([]*filter.Filter, error)
	Get(ctx context.Context, id int64) (*filter.Filter, error)
	Delete(ctx context.Context, id int64) error
}

type serviceImpl struct {
	repo   filter.Repository
	logger logging.Logger
}

// NewService creates the filter application service.
func NewService(repo filter.Repository, logger logging.Logger) Service {
	return &serviceImpl{repo: repo, logger: logger}
}

func (s *serviceImpl) Create(ctx context.Context, name string, taxNumbers []string) (*filter.Filter, error) {
	f := &filter.Filter{Name: name, TaxNumbers: taxNumbers}
	f.Normalize()
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, f); err != nil {
		s.logger.Error("filter create failed", logging.String("name", name), logging.Err(err))
		return nil, err
	}
	return f, nil
}

// CreateFromCSV builds a filter from the first column of a CSV document. A
// header row whose first cell is "tax_number" is skipped.
func (s *serviceImpl) CreateFromCSV(ctx context.Context, name string, r io.Reader) (*filter.Filter, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var taxNumbers []string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.InvalidParam("malformed CSV: " + err.Error())
		}
		if len(record) == 0 {
			continue
		}
		cell := strings.TrimSpace(record[0])
		if strings.EqualFold(cell, "tax_number") {
			continue
		}
		if cell != "" {
			taxNumbers = append(taxNumbers, cell)
		}
	}
	return s.Create(ctx, name, taxNumbers)
}

func (s *serviceImpl) List(ctx context.Context) ([]*filter.Filter, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*filter.Filter{}
	}
	return items, nil
}

func (s *serviceImpl) Get(ctx context.Context, id int64) (*filter.Filter, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *serviceImpl) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
