package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/models"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/services"
)

var (
	newUsername string
	newRole     string
	newPassword string
	newFullName string
)

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create a portal account",
	Long: `Creates an active account. The password is read from --password or,
when the flag is empty, from BPS_USER_PASSWORD.`,
	RunE: runCreateUser,
}

func init() {
	createUserCmd.Flags().StringVar(&newUsername, "username", "", "sign-in name")
	createUserCmd.Flags().StringVar(&newRole, "role", string(models.RoleStaff), "admin, secretary or staff")
	createUserCmd.Flags().StringVar(&newPassword, "password", "", "password")
	createUserCmd.Flags().StringVar(&newFullName, "full-name", "", "display name")
	_ = createUserCmd.MarkFlagRequired("username")
	rootCmd.AddCommand(createUserCmd)
}

func runCreateUser(cmd *cobra.Command, _ []string) error {
	password := newPassword
	if password == "" {
		password = os.Getenv("BPS_USER_PASSWORD")
	}
	if password == "" {
		return errors.New("a password is required, pass --password or set BPS_USER_PASSWORD")
	}

	cfg, db, err := session()
	if err != nil {
		return err
	}
	users := services.NewUserService(db, cfg, nil)
	user, err := users.CreateUser(context.Background(), services.CreateUserInput{
		Username: newUsername,
		Password: password,
		FullName: newFullName,
		Role:     models.Role(newRole),
	})
	if err != nil {
		return err
	}
	cmd.Printf("Created %s account %q (id %d).\n", user.Role, user.Username, user.ID)
	return nil
}
