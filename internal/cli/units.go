// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Dmitry Kotelnikov

package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/dkotelnikov/sos-vault/internal/crypto"
	"github.com/dkotelnikov/sos-vault/internal/store"
	"github.com/dkotelnikov/sos-vault/models"
)

var (
	addUser        string
	addPassword    string
	addLogin       string
	addLoginSecret string
	addCategory    string
	addURL         string
	addAlias       string

	addCmd = &cobra.Command{
		Use:   "add",
		Short: "add login and password command",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openVault(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := a.log.WithContext(cmd.Context())

			user, password, err := credentials(addUser, addPassword)
			if err != nil {
				return err
			}
			if err := a.requireAuth(ctx, user, password); err != nil {
				return err
			}

			login := addLogin
			if login == "" {
				if login, err = prompt("Login", false); err != nil {
					return err
				}
			}
			secret := addLoginSecret
			if secret == "" {
				if secret, err = promptPassword("Password for login"); err != nil {
					return err
				}
			}

			owner, err := a.ownerID(ctx, user)
			if err != nil {
				return err
			}
			if _, err := a.units.Get(ctx, models.Filters{models.FieldOwnerID: owner, models.FieldLogin: login}); err == nil {
				printError("login %q already exists", login)
				return nil
			} else if !errors.Is(err, store.ErrRecordNotFound) {
				return err
			}

			categoryID, err := a.resolveCategory(ctx, addCategory)
			if err != nil {
				return err
			}

			data := models.Fields{
				models.FieldUsername: user,
				models.FieldPassword: password,
				models.FieldLogin:    login,
				models.FieldSecret:   secret,
			}
			if categoryID != nil {
				data[models.FieldCategoryID] = *categoryID
			}
			if addURL != "" {
				data[models.FieldURL] = addURL
			}
			if addAlias != "" {
				data[models.FieldAlias] = addAlias
			}

			a.proxy.Rebind(a.units)
			if err := a.proxy.CreateRecord(ctx, data); err != nil {
				if errors.Is(err, store.ErrAlreadyExists) {
					printError("login %q already exists", login)
					return nil
				}
				return err
			}

			printSuccess("login %q added", login)
			return nil
		},
	}
)

var (
	showUser         string
	showPassword     string
	showCategory     string
	showWithAlias    bool
	showWithCategory bool
	showWithURL      bool

	showCmd = &cobra.Command{
		Use:   "show",
		Short: "show logins command",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openVault(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := a.log.WithContext(cmd.Context())

			user, password, err := credentials(showUser, showPassword)
			if err != nil {
				return err
			}
			if err := a.requireAuth(ctx, user, password); err != nil {
				return err
			}

			owner, err := a.ownerID(ctx, user)
			if err != nil {
				return err
			}

			filters := models.Filters{models.FieldOwnerID: owner}
			switch showCategory {
			case "":
				// all logins
			case defaultCategoryName:
				filters[models.FieldCategoryID] = nil // IS NULL
			default:
				record, catErr := a.categories.Get(ctx, models.Filters{models.FieldName: showCategory})
				if catErr != nil {
					if errors.Is(catErr, store.ErrRecordNotFound) {
						printError("category %q not exists", showCategory)
						return nil
					}
					return catErr
				}
				filters[models.FieldCategoryID] = record.RecordID()
			}

			records, err := a.units.GetMany(ctx, filters)
			if err != nil {
				return err
			}
			for _, record := range records {
				unit, ok := record.(models.Unit)
				if !ok {
					continue
				}
				fmt.Println(formatUnitLine(ctx, a, unit))
			}
			return nil
		},
	}
)

var (
	getUser     string
	getPassword string
	getLogin    string

	getCmd = &cobra.Command{
		Use:   "get",
		Short: "get password by login command",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openVault(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := a.log.WithContext(cmd.Context())

			user, password, err := credentials(getUser, getPassword)
			if err != nil {
				return err
			}
			if err := a.requireAuth(ctx, user, password); err != nil {
				return err
			}

			login := getLogin
			if login == "" {
				if login, err = prompt("Login", false); err != nil {
					return err
				}
			}

			a.proxy.Rebind(a.units)
			secret, err := a.proxy.RevealSecret(ctx, models.Filters{
				models.FieldUsername: user,
				models.FieldPassword: password,
				models.FieldLogin:    login,
			})
			if err != nil {
				switch {
				case errors.Is(err, store.ErrRecordNotFound):
					printError("login %q not exists", login)
					return nil
				case errors.Is(err, crypto.ErrDecryptionFailed):
					printError("stored secret for %q cannot be decrypted with these credentials", login)
					return nil
				}
				return err
			}

			if err := clipboard.WriteAll(secret); err != nil {
				return fmt.Errorf("copying to clipboard: %w", err)
			}

			printSuccess("Password is placed on the clipboard")
			return nil
		},
	}
)

var (
	updateUser      string
	updatePassword  string
	updateLogin     string
	updateNewSecret string

	updateCmd = &cobra.Command{
		Use:   "update",
		Short: "update password for login command",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openVault(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := a.log.WithContext(cmd.Context())

			user, password, err := credentials(updateUser, updatePassword)
			if err != nil {
				return err
			}
			if err := a.requireAuth(ctx, user, password); err != nil {
				return err
			}

			login := updateLogin
			if login == "" {
				if login, err = prompt("Login", false); err != nil {
					return err
				}
			}

			owner, err := a.ownerID(ctx, user)
			if err != nil {
				return err
			}
			if _, err := a.units.Get(ctx, models.Filters{models.FieldOwnerID: owner, models.FieldLogin: login}); err != nil {
				if errors.Is(err, store.ErrRecordNotFound) {
					printError("login %q not exists", login)
					return nil
				}
				return err
			}

			newSecret := updateNewSecret
			if newSecret == "" {
				if newSecret, err = promptPassword("New password for login"); err != nil {
					return err
				}
			}

			a.proxy.Rebind(a.units)
			if err := a.proxy.UpdateSecret(ctx, models.Filters{models.FieldLogin: login}, user, password, newSecret); err != nil {
				return err
			}

			printSuccess("login %q updated", login)
			return nil
		},
	}
)

var (
	deleteUser     string
	deletePassword string
	deleteLogin    string

	deleteCmd = &cobra.Command{
		Use:   "delete",
		Short: "delete login and password command",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openVault(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := a.log.WithContext(cmd.Context())

			user, password, err := credentials(deleteUser, deletePassword)
			if err != nil {
				return err
			}
			if err := a.requireAuth(ctx, user, password); err != nil {
				return err
			}

			login := deleteLogin
			if login == "" {
				if login, err = prompt("Login", false); err != nil {
					return err
				}
			}

			owner, err := a.ownerID(ctx, user)
			if err != nil {
				return err
			}
			if _, err := a.units.Get(ctx, models.Filters{models.FieldOwnerID: owner, models.FieldLogin: login}); err != nil {
				if errors.Is(err, store.ErrRecordNotFound) {
					printError("login %q not exists", login)
					return nil
				}
				return err
			}

			a.proxy.Rebind(a.units)
			if err := a.proxy.DeleteRecord(ctx, models.Filters{models.FieldOwnerID: owner, models.FieldLogin: login}); err != nil {
				return err
			}

			printSuccess("login %q deleted", login)
			return nil
		},
	}
)

// formatUnitLine renders one row of the show listing, honoring the
// optional column toggles.
func formatUnitLine(ctx context.Context, a *app, unit models.Unit) string {
	parts := []string{unit.Login}
	if showWithAlias && unit.Alias != nil {
		parts = append(parts, *unit.Alias)
	}
	if showWithCategory {
		parts = append(parts, a.categoryName(ctx, unit.CategoryID))
	}
	if showWithURL && unit.URL != nil {
		parts = append(parts, *unit.URL)
	}
	return strings.Join(parts, "\t")
}

func init() {
	addCmd.Flags().StringVarP(&addUser, "user", "u", "", "Provide your username")
	addCmd.Flags().StringVarP(&addPassword, "password", "p", "", "Provide your password")
	addCmd.Flags().StringVarP(&addLogin, "login", "l", "", "Provide login")
	addCmd.Flags().StringVar(&addLoginSecret, "login-password", "", "Provide password for login")
	addCmd.Flags().StringVarP(&addCategory, "category", "c", "", `"default" or skip for default category, optional`)
	addCmd.Flags().StringVar(&addURL, "url", "", "url, optional")
	addCmd.Flags().StringVarP(&addAlias, "alias", "a", "", "alias, optional")

	showCmd.Flags().StringVarP(&showUser, "user", "u", "", "Provide your username")
	showCmd.Flags().StringVarP(&showPassword, "password", "p", "", "Provide your password")
	showCmd.Flags().StringVarP(&showCategory, "category", "c", "", `"default" for default category, skip for all logins, optional`)
	showCmd.Flags().BoolVar(&showWithAlias, "with-alias", false, "print alias column")
	showCmd.Flags().BoolVar(&showWithCategory, "with-category", false, "print category column")
	showCmd.Flags().BoolVar(&showWithURL, "with-url", false, "print url column")

	getCmd.Flags().StringVarP(&getUser, "user", "u", "", "Provide your username")
	getCmd.Flags().StringVarP(&getPassword, "password", "p", "", "Provide your password")
	getCmd.Flags().StringVarP(&getLogin, "login", "l", "", "Provide login")

	updateCmd.Flags().StringVarP(&updateUser, "user", "u", "", "Provide your username")
	updateCmd.Flags().StringVarP(&updatePassword, "password", "p", "", "Provide your password")
	updateCmd.Flags().StringVarP(&updateLogin, "login", "l", "", "Provide login")
	updateCmd.Flags().StringVar(&updateNewSecret, "login-password", "", "Provide new password for login")

	deleteCmd.Flags().StringVarP(&deleteUser, "user", "u", "", "Provide your username")
	deleteCmd.Flags().StringVarP(&deletePassword, "password", "p", "", "Provide your password")
	deleteCmd.Flags().StringVarP(&deleteLogin, "login", "l", "", "Provide login")
}
