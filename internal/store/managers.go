// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Dmitry Kotelnikov

package store

import (
	"database/sql"

	"github.com/dkotelnikov/sos-vault/internal/logger"
	"github.com/dkotelnikov/sos-vault/internal/validators"
	"github.com/dkotelnikov/sos-vault/models"
)

// Entity managers are record stores fixed to one entity type and its
// schema. They exist so the vault proxy can be rebound to a different
// entity without changing its call surface; binding is the only thing
// they add.

// NewUserManager returns the record store bound to the users table.
func NewUserManager(db *DB, log *logger.Logger) RecordStore {
	return newRecordStore(db, userDescriptor, validators.NewUserValidator(), log)
}

// NewCategoryManager returns the record store bound to the categories
// table.
func NewCategoryManager(db *DB, log *logger.Logger) RecordStore {
	return newRecordStore(db, categoryDescriptor, validators.NewCategoryValidator(), log)
}

// NewUnitManager returns the record store bound to the units table.
func NewUnitManager(db *DB, log *logger.Logger) RecordStore {
	return newRecordStore(db, unitDescriptor, validators.NewUnitValidator(), log)
}

var userDescriptor = entityDescriptor{
	kind:    models.KindUser,
	table:   "users",
	columns: []string{models.FieldID, models.FieldUsername, models.FieldPasswordVerifier},
	orderBy: models.FieldUsername,
	scan: func(row rowScanner) (models.Record, error) {
		var u models.User
		if err := row.Scan(&u.ID, &u.Username, &u.PasswordVerifier); err != nil {
			return nil, err
		}
		return u, nil
	},
}

var categoryDescriptor = entityDescriptor{
	kind:    models.KindCategory,
	table:   "categories",
	columns: []string{models.FieldID, models.FieldName},
	orderBy: models.FieldName,
	scan: func(row rowScanner) (models.Record, error) {
		var c models.Category
		if err := row.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		return c, nil
	},
}

var unitDescriptor = entityDescriptor{
	kind:  models.KindUnit,
	table: "units",
	columns: []string{
		models.FieldID, models.FieldOwnerID, models.FieldLogin, models.FieldSecret,
		models.FieldCategoryID, models.FieldURL, models.FieldAlias,
	},
	orderBy: models.FieldLogin,
	scan: func(row rowScanner) (models.Record, error) {
		var (
			u        models.Unit
			category sql.NullString
			url      sql.NullString
			alias    sql.NullString
		)
		if err := row.Scan(&u.ID, &u.OwnerID, &u.Login, &u.Secret, &category, &url, &alias); err != nil {
			return nil, err
		}
		u.CategoryID = nullableString(category)
		u.URL = nullableString(url)
		u.Alias = nullableString(alias)
		return u, nil
	},
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
