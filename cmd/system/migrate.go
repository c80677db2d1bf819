package system

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/hospital_backend/config"
	"github.com/Alijeyrad/hospital_backend/internal/repo/migrations"
	"github.com/Alijeyrad/hospital_backend/pkg/authorize"
	"github.com/Alijeyrad/hospital_backend/pkg/database"
)

func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return fmt.Errorf("failed to get config flag: %w", err)
			}
			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}

			db, err := database.OpenSQL(cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()

			timeout := time.Duration(cfg.Server.TimeoutSeconds) * time.Second
			if timeout <= 0 {
				timeout = time.Minute
			}
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			fmt.Println("Running migrations...")
			applied, err := database.Migrate(ctx, db, migrations.FS)
			if err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			for _, v := range applied {
				fmt.Printf("  applied %s\n", v)
			}
			if len(applied) == 0 {
				fmt.Println("  schema already up to date")
			}

			// Policies live in memory and are seeded on every start; print them
			// so operators can review what the running API will enforce.
			if cfg.Authorization.Enabled {
				auth, err := authorize.New(cfg.Authorization)
				if err != nil {
					return fmt.Errorf("failed to build authorization: %w", err)
				}
				for _, p := range auth.Policies() {
					slog.Info("casbin policy", "rule", p)
				}
			}

			fmt.Println("Migrations executed successfully.")
			return nil
		},
	}

	return cmd
}
