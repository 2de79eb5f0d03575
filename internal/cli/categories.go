// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Dmitry Kotelnikov

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dkotelnikov/sos-vault/internal/store"
	"github.com/dkotelnikov/sos-vault/models"
)

var (
	caddName string

	caddCmd = &cobra.Command{
		Use:   "cadd",
		Short: "add category command",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openVault(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := a.log.WithContext(cmd.Context())

			name := caddName
			if name == "" {
				if name, err = prompt("Category", false); err != nil {
					return err
				}
			}
			if name == defaultCategoryName {
				printError("%q is reserved for uncategorized logins", defaultCategoryName)
				return nil
			}

			a.proxy.Rebind(a.categories)
			if err := a.proxy.CreateRecord(ctx, models.Fields{models.FieldName: name}); err != nil {
				if errors.Is(err, store.ErrAlreadyExists) {
					printError("category %q already exists", name)
					return nil
				}
				return err
			}

			printSuccess("category %q created", name)
			return nil
		},
	}
)

var cshowCmd = &cobra.Command{
	Use:   "cshow",
	Short: "show categories command",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openVault(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := a.log.WithContext(cmd.Context())

		records, err := a.categories.GetMany(ctx, nil)
		if err != nil {
			return err
		}
		for _, record := range records {
			if category, ok := record.(models.Category); ok {
				fmt.Println(category.Name)
			}
		}
		return nil
	},
}

var (
	cdeleteName string

	cdeleteCmd = &cobra.Command{
		Use:   "cdelete",
		Short: "delete category command (logins are kept and become uncategorized)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openVault(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := a.log.WithContext(cmd.Context())

			name := cdeleteName
			if name == "" {
				if name, err = prompt("Category", false); err != nil {
					return err
				}
			}

			a.proxy.Rebind(a.categories)
			if err := a.proxy.DeleteRecord(ctx, models.Filters{models.FieldName: name}); err != nil {
				return err
			}

			printSuccess("category %q deleted", name)
			return nil
		},
	}
)

func init() {
	caddCmd.Flags().StringVarP(&caddName, "name", "n", "", "Provide category name")
	cdeleteCmd.Flags().StringVarP(&cdeleteName, "name", "n", "", "Provide category name")
}
