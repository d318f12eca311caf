package cmd

import (
	"fmt"

	"profile-sync/core/facet/collection"
	"profile-sync/core/facet/sqlstore"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var checkOnly bool

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Prepare the contact collection",
	Long:  `Creates or updates the SQL tables, or creates the bucket for object storage. With --check the SQL schema is only inspected.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logg.Sync()

		conn := cfg.Settings().GetConnectionString(collection.Name)
		if !checkOnly {
			msg, err := collection.Migrate(cmd.Context(), conn)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			logg.Info(msg)
		}

		target, err := collection.Parse(conn)
		if err != nil {
			return err
		}
		if target.Kind != collection.KindSQL {
			return nil
		}

		store, err := sqlstore.Open(target.Database)
		if err != nil {
			return err
		}
		defer store.Close()

		logg.Info("Checking collection schema...", zap.String("driver", target.Database.Driver))
		report, err := store.CheckSchema()
		if err != nil {
			return fmt.Errorf("schema check failed: %w", err)
		}
		if report.Matched {
			logg.Info("Collection schema matches expected definition.")
			return nil
		}

		for table, tblReport := range report.Tables {
			if tblReport.Status == "ok" {
				continue
			}
			if len(tblReport.MissingColumns) > 0 {
				logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tblReport.MissingColumns))
			}
			if len(tblReport.TypeMismatches) > 0 {
				logg.Warn("Type Mismatches", zap.String("table", table), zap.Strings("mismatches", tblReport.TypeMismatches))
			}
		}
		for _, e := range report.Errors {
			logg.Error("Inspection Error", zap.String("error", e))
		}
		return fmt.Errorf("collection schema does not match")
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().BoolVar(&checkOnly, "check", false, "Only inspect the SQL schema")
}
