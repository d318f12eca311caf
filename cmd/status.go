package cmd

import (
	"fmt"

	"profile-sync/core/facet/collection"
	"profile-sync/core/session"
	"profile-sync/feature/profile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	statusSource     string
	statusIdentifier string
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Probe the contact collection",
	Long:  `Resolves an identifier against the contact collection and reports whether the collection is reachable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logg.Sync()

		// The probe only reads the first identifier, so an unsaved session is enough.
		sess := session.New()
		if statusIdentifier != "" {
			sess.IdentifyAs(statusSource, statusIdentifier)
		}

		svc := profile.NewService(nil, nil, collection.NewOpener(cfg.Settings()), cfg.Settings(), logg)
		status := svc.GetStatus(cmd.Context(), sess)

		fmt.Println(status.Collection)
		if !status.CollectionAvailable {
			return fmt.Errorf("collection is not available")
		}
		logg.Info("Collection reachable", zap.String("identifier", sess.Identifiers[0].String()))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(statusCmd)
	statusCmd.Flags().StringVar(&statusSource, "source", "website", "Identifier source")
	statusCmd.Flags().StringVar(&statusIdentifier, "identifier", "", "Identifier to resolve (defaults to a fresh anonymous one)")
}
