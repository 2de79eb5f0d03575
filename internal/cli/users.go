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
	uaddUser     string
	uaddPassword string

	uaddCmd = &cobra.Command{
		Use:   "uadd",
		Short: "add user command",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openVault(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := a.log.WithContext(cmd.Context())

			user, password, err := credentials(uaddUser, uaddPassword)
			if err != nil {
				return err
			}

			exists, err := a.proxy.CheckExists(ctx, models.Filters{models.FieldUsername: user})
			if err != nil {
				return err
			}
			if exists {
				printError("User named %q already exists", user)
				return nil
			}

			if err := a.proxy.CreateRecord(ctx, models.Fields{
				models.FieldUsername: user,
				models.FieldPassword: password,
			}); err != nil {
				return err
			}

			printSuccess("User named %q created", user)
			return nil
		},
	}
)

var (
	uupdateUser        string
	uupdatePassword    string
	uupdateNewUsername string
	uupdateNewPassword string

	uupdateCmd = &cobra.Command{
		Use:   "uupdate",
		Short: "update username (and password) command",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openVault(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := a.log.WithContext(cmd.Context())

			user, password, err := credentials(uupdateUser, uupdatePassword)
			if err != nil {
				return err
			}
			if err := a.requireAuth(ctx, user, password); err != nil {
				return err
			}

			newUsername := uupdateNewUsername
			if newUsername == "" {
				if newUsername, err = prompt("NewUsername", false); err != nil {
					return err
				}
			}

			if newUsername != user {
				exists, err := a.proxy.CheckExists(ctx, models.Filters{models.FieldUsername: newUsername})
				if err != nil {
					return err
				}
				if exists {
					printError("User named %q already exists", newUsername)
					return nil
				}
			}

			// Rotation needs unit access to re-wrap every owned secret.
			a.proxy.Rebind(a.units)
			if err := a.proxy.RotateCredentials(ctx, user, password, newUsername, uupdateNewPassword); err != nil {
				if errors.Is(err, store.ErrAlreadyExists) {
					printError("User named %q already exists", newUsername)
					return nil
				}
				return err
			}

			printSuccess("User named %q updated", newUsername)
			return nil
		},
	}
)

var (
	udeleteUser     string
	udeletePassword string

	udeleteCmd = &cobra.Command{
		Use:   "udelete",
		Short: "delete user command",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openVault(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := a.log.WithContext(cmd.Context())

			user, password, err := credentials(udeleteUser, udeletePassword)
			if err != nil {
				return err
			}
			if err := a.requireAuth(ctx, user, password); err != nil {
				return err
			}

			// Units fall with their owner through the schema cascade.
			if err := a.proxy.DeleteRecord(ctx, models.Filters{models.FieldUsername: user}); err != nil {
				return err
			}

			printSuccess("User named %q deleted", user)
			return nil
		},
	}
)

var ushowCmd = &cobra.Command{
	Use:   "ushow",
	Short: "show users command",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openVault(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := a.log.WithContext(cmd.Context())

		records, err := a.users.GetMany(ctx, nil)
		if err != nil {
			return err
		}
		for _, record := range records {
			if user, ok := record.(models.User); ok {
				fmt.Println(user.Username)
			}
		}
		return nil
	},
}

func init() {
	uaddCmd.Flags().StringVarP(&uaddUser, "user", "u", "", "Provide your username")
	uaddCmd.Flags().StringVarP(&uaddPassword, "password", "p", "", "Provide your password")

	uupdateCmd.Flags().StringVarP(&uupdateUser, "user", "u", "", "Provide your username")
	uupdateCmd.Flags().StringVarP(&uupdatePassword, "password", "p", "", "Provide your password")
	uupdateCmd.Flags().StringVarP(&uupdateNewUsername, "new-username", "l", "", "Provide new username")
	uupdateCmd.Flags().StringVar(&uupdateNewPassword, "new-password", "", "Provide password for new username (keeps the old one when omitted)")

	udeleteCmd.Flags().StringVarP(&udeleteUser, "user", "u", "", "Provide your username")
	udeleteCmd.Flags().StringVarP(&udeletePassword, "password", "p", "", "Provide your password")
}
