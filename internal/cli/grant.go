package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var grantCmd = &cobra.Command{
	Use:   "grant <user> <connector> <level>",
	Short: "Set a user's permission level (0-3) for a connector",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, connector := args[0], args[1]
		level, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("level must be a number 0-3: %w", err)
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.SetConnectorLevel(userID, connector, level); err != nil {
			return err
		}
		log.Infow("permission updated", "user", userID, "connector", connector, "level", level)
		fmt.Printf("Set %s level %d for user %s\n", connector, level, userID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(grantCmd)
}
