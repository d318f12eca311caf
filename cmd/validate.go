package cmd

import (
	"fmt"

	"profile-sync/feature/profile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration needed for contact tracking",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logg.Sync()

		messages := profile.ValidateConfig(cfg.Settings())
		if len(messages) == 0 {
			logg.Info("Configuration is valid.")
			return nil
		}
		for _, msg := range messages {
			logg.Warn("Configuration problem", zap.String("problem", msg))
		}
		return fmt.Errorf("%d configuration problem(s) found", len(messages))
	},
}

func init() {
	RootCmd.AddCommand(validateCmd)
}
