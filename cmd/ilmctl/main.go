package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"slices"
	"time"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"ilmhub_backend/internals/configs"
	database "ilmhub_backend/internals/databases"
	jobService "ilmhub_backend/internals/features/programme/jobs/service"
	"ilmhub_backend/internals/helpers/mailer"
	"ilmhub_backend/internals/seeds"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ilmctl",
		Short:         "IlmHub maintenance commands (migrations, seeds, jobs)",
		SilenceUsage: true,
	}
	root.AddCommand(migrateCmd(), seedCmd(), jobCmd())
	return root
}

// openDB loads .env and connects with the seeder connection.
func openDB() (configs.AppConfig, *gorm.DB) {
	conf := configs.LoadEnv()
	return conf, configs.InitSeederDB()
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update every table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, db := openDB()
			defer closeDB(db)
			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			log.Println("✅ migrations applied")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert reference data (categories); existing rows are kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, db := openDB()
			defer closeDB(db)
			if err := seeds.RunAllSeeds(db); err != nil {
				return err
			}
			log.Println("✅ seeding done")
			return nil
		},
	}
}

func jobCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:       "job <name>",
		Short:     "Run one background job now and print its result",
		Args:      cobra.ExactArgs(1),
		ValidArgs: jobService.JobNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !slices.Contains(jobService.JobNames, name) {
				return fmt.Errorf("unknown job %q, want one of %v", name, jobService.JobNames)
			}
			conf, db := openDB()
			defer closeDB(db)

			svc := jobService.NewJobService(db, mailer.New(conf), jobService.Options{
				AppName:    conf.AppName,
				AppBaseURL: conf.AppBaseURL,
				Loc:        conf.Location(),
				WeeksAhead: 4,
				Retention:  30 * 24 * time.Hour,
			})
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			res, err := svc.Run(ctx, name)
			if err != nil {
				return fmt.Errorf("job %s: %w", name, err)
			}
			out, err := sonic.ConfigDefault.MarshalIndent(res, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "abort the job after this long")
	return cmd
}
