// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Dmitry Kotelnikov

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/dkotelnikov/sos-vault/internal/logger"
	"github.com/dkotelnikov/sos-vault/internal/validators"
	"github.com/dkotelnikov/sos-vault/models"
)

// rowScanner is the common surface of *sql.Row and *sql.Rows the entity
// scan functions read from.
type rowScanner interface {
	Scan(dest ...any) error
}

// entityDescriptor fixes the persistence shape of one entity type: its
// table, column set, listing order and how a row scans back into a
// [models.Record].
type entityDescriptor struct {
	kind    models.EntityKind
	table   string
	columns []string
	orderBy string
	scan    func(rowScanner) (models.Record, error)
}

// recordStore is the single implementation of [RecordStore]. Entity
// managers are nothing but recordStore instances constructed with
// different descriptors and validators; they add no behavior of their
// own.
type recordStore struct {
	db        *DB
	desc      entityDescriptor
	validator validators.Validator
	logger    *logger.Logger
}

func newRecordStore(db *DB, desc entityDescriptor, validator validators.Validator, log *logger.Logger) RecordStore {
	log.Debug().Str("entity", string(desc.kind)).Msg("creating record store")
	return &recordStore{
		db:        db,
		desc:      desc,
		validator: validator,
		logger:    log,
	}
}

// Kind implements [RecordStore].
func (s *recordStore) Kind() models.EntityKind {
	return s.desc.kind
}

// Get implements [RecordStore]. It returns the first record matching
// filters or [ErrRecordNotFound].
func (s *recordStore) Get(ctx context.Context, filters models.Filters) (models.Record, error) {
	log := logger.FromContext(ctx)

	builder := sq.Select(s.desc.columns...).
		From(s.desc.table).
		PlaceholderFormat(s.db.placeholder).
		Limit(1)
	if len(filters) > 0 {
		builder = builder.Where(sq.Eq(filters))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).Str("func", "*recordStore.Get").Msg("error building select query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	record, err := s.desc.scan(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		log.Err(err).Str("func", "*recordStore.Get").Str("entity", string(s.desc.kind)).Msg("error scanning record")
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return record, nil
}

// GetMany implements [RecordStore]. The result is ordered by the
// entity's display column so listings are stable across engines.
func (s *recordStore) GetMany(ctx context.Context, filters models.Filters) ([]models.Record, error) {
	log := logger.FromContext(ctx)

	builder := sq.Select(s.desc.columns...).
		From(s.desc.table).
		PlaceholderFormat(s.db.placeholder).
		OrderBy(s.desc.orderBy)
	if len(filters) > 0 {
		builder = builder.Where(sq.Eq(filters))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).Str("func", "*recordStore.GetMany").Msg("error building select query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*recordStore.GetMany").Msg("error executing select query")
		return nil, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}
	defer rows.Close()

	var records []models.Record
	for rows.Next() {
		record, scanErr := s.desc.scan(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "*recordStore.GetMany").Msg("error scanning record row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	return records, nil
}

// Create implements [RecordStore]. The payload is validated before
// anything touches the database, so a rejected payload leaves the store
// untouched by construction. A fresh UUID surrogate key is assigned
// unless the caller provided one.
func (s *recordStore) Create(ctx context.Context, data models.Fields) error {
	log := logger.FromContext(ctx)

	if err := s.validator.Validate(ctx, data); err != nil {
		log.Debug().Err(err).Str("func", "*recordStore.Create").Str("entity", string(s.desc.kind)).Msg("payload rejected by schema validation")
		return err
	}

	payload := data.Clone()
	if _, ok := payload[models.FieldID]; !ok {
		payload[models.FieldID] = uuid.NewString()
	}

	query, args, err := sq.Insert(s.desc.table).
		PlaceholderFormat(s.db.placeholder).
		SetMap(payload).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*recordStore.Create").Msg("error building insert query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	// A single INSERT is its own transaction in both engines.
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		log.Err(err).Str("func", "*recordStore.Create").Str("entity", string(s.desc.kind)).Msg("error executing insert")
		return fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	return nil
}

// Update implements [RecordStore]. Zero matched rows is success.
func (s *recordStore) Update(ctx context.Context, filters models.Filters, data models.Fields) error {
	log := logger.FromContext(ctx)

	if len(data) == 0 {
		return ErrNoFieldsToUpdate
	}

	builder := sq.Update(s.desc.table).
		PlaceholderFormat(s.db.placeholder).
		SetMap(data)
	if len(filters) > 0 {
		builder = builder.Where(sq.Eq(filters))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).Str("func", "*recordStore.Update").Msg("error building update query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		log.Err(err).Str("func", "*recordStore.Update").Str("entity", string(s.desc.kind)).Msg("error executing update")
		return fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	return nil
}

// Delete implements [RecordStore]. Zero matched rows is success.
// Referential side effects (owner cascade, category nullify) are
// enforced by the schema, not here.
func (s *recordStore) Delete(ctx context.Context, filters models.Filters) error {
	log := logger.FromContext(ctx)

	builder := sq.Delete(s.desc.table).
		PlaceholderFormat(s.db.placeholder)
	if len(filters) > 0 {
		builder = builder.Where(sq.Eq(filters))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).Str("func", "*recordStore.Delete").Msg("error building delete query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*recordStore.Delete").Str("entity", string(s.desc.kind)).Msg("error executing delete")
		return fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	return nil
}
