package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IAMSamuelRodda/zero-agent-sub002/internal/policy"
)

var toolsCmd = &cobra.Command{
	Use:   "tools <user>",
	Short: "List the connector tools a user's current permission levels allow",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID := args[0]

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		gate := policy.NewGate(store)
		allowed, err := gate.VisibleTools(userID, policy.ConnectorTools())
		if err != nil {
			return err
		}

		if len(allowed) == 0 {
			fmt.Printf("No connector tools available to user %s\n", userID)
			return nil
		}
		for _, name := range allowed {
			fmt.Println(name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}
