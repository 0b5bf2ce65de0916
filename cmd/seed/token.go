package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/geekcommerce/geek-commerce-backend/internal/app/model"
	"github.com/geekcommerce/geek-commerce-backend/internal/app/repository"
	"github.com/geekcommerce/geek-commerce-backend/internal/db"
	"github.com/geekcommerce/geek-commerce-backend/pkg/util"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	tokenName   string
	tokenRole   string
	tokenExpiry time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token <email>",
	Short: "Create or update a user and print an access token for it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email := args[0]
		role := model.UserRole(tokenRole)
		if role != model.RoleUser && role != model.RoleAdmin {
			return fmt.Errorf("role must be %q or %q", model.RoleUser, model.RoleAdmin)
		}

		cfg, err := connect()
		if err != nil {
			return err
		}
		defer db.Close()

		user, err := upsertUser(repository.NewUserRepository(db.GetDB()), email, tokenName, role)
		if err != nil {
			return err
		}

		expiry := tokenExpiry
		if expiry == 0 {
			expiry = cfg.JWT.AccessTokenExpiry
		}
		token, err := util.GenerateAccessToken(user.ID, user.Email, string(user.Role), cfg.JWT.Secret, expiry)
		if err != nil {
			return fmt.Errorf("failed to sign token: %w", err)
		}

		fmt.Println(token)
		return nil
	},
}

func upsertUser(users repository.UserRepository, email, name string, role model.UserRole) (*model.User, error) {
	user, err := users.FindByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if name == "" {
			name = email
		}
		user = &model.User{Email: email, Name: name, Role: role}
		if err := users.Create(user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		return user, nil
	}
	if err != nil {
		return nil, err
	}

	changed := false
	if user.Role != role {
		user.Role = role
		changed = true
	}
	if name != "" && user.Name != name {
		user.Name = name
		changed = true
	}
	if changed {
		if err := users.Update(user); err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}
	return user, nil
}

func init() {
	tokenCmd.Flags().StringVar(&tokenName, "name", "", "display name (defaults to the email)")
	tokenCmd.Flags().StringVar(&tokenRole, "role", string(model.RoleUser), "user or admin")
	tokenCmd.Flags().DurationVar(&tokenExpiry, "expiry", 0, "token lifetime (defaults to the configured access token expiry)")
	rootCmd.AddCommand(tokenCmd)
}
