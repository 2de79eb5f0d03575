// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Dmitry Kotelnikov

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"github.com/dkotelnikov/sos-vault/internal/store"
	"github.com/dkotelnikov/sos-vault/models"
)

// defaultCategoryName is the literal the front end accepts for "no
// category". It is normalized to an absent category before anything
// reaches the core.
const defaultCategoryName = "default"

// credentials resolves the username and password of the calling user
// from flags, falling back to the environment for the username and to a
// hidden prompt for the password.
func credentials(user, password string) (string, string, error) {
	if user == "" {
		user = defaultUsername()
	}
	if user == "" {
		entered, err := prompt("Username", false)
		if err != nil {
			return "", "", err
		}
		user = entered
	}

	if password == "" {
		entered, err := promptPassword("Password")
		if err != nil {
			return "", "", err
		}
		password = entered
	}

	return user, password, nil
}

// requireAuth verifies the credentials against the users table through
// the user-bound proxy and prints the canonical error message when they
// do not check out.
func (a *app) requireAuth(ctx context.Context, user, password string) error {
	ok, err := a.proxy.CheckPassword(ctx, user, password)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New(color.RedString("Error: incorrect login or password"))
	}
	return nil
}

// ownerID resolves the surrogate key of an authenticated user.
func (a *app) ownerID(ctx context.Context, user string) (string, error) {
	record, err := a.users.Get(ctx, models.Filters{models.FieldUsername: user})
	if err != nil {
		return "", err
	}
	return record.RecordID(), nil
}

// resolveCategory maps a category name to its surrogate key, creating
// the category on first use. The "default" literal and the empty string
// mean "no category" and resolve to nil.
func (a *app) resolveCategory(ctx context.Context, name string) (*string, error) {
	if name == "" || name == defaultCategoryName {
		return nil, nil
	}

	record, err := a.categories.Get(ctx, models.Filters{models.FieldName: name})
	if err == nil {
		id := record.RecordID()
		return &id, nil
	}
	if !errors.Is(err, store.ErrRecordNotFound) {
		return nil, err
	}

	if err := a.categories.Create(ctx, models.Fields{models.FieldName: name}); err != nil {
		return nil, err
	}

	record, err = a.categories.Get(ctx, models.Filters{models.FieldName: name})
	if err != nil {
		return nil, err
	}
	id := record.RecordID()
	return &id, nil
}

// categoryName resolves a category id back to its display name; an
// absent category renders as the "default" literal.
func (a *app) categoryName(ctx context.Context, id *string) string {
	if id == nil {
		return defaultCategoryName
	}
	record, err := a.categories.Get(ctx, models.Filters{models.FieldID: *id})
	if err != nil {
		return defaultCategoryName
	}
	category, ok := record.(models.Category)
	if !ok {
		return defaultCategoryName
	}
	return category.Name
}

func printSuccess(format string, args ...any) {
	fmt.Println(color.GreenString(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(color.RedString("Error: "+format, args...))
}
