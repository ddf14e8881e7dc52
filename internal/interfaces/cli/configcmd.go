package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newConfigCommand validates the effective configuration without starting
// anything, so deployments can check a config before rollout.
func newConfigCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration helpers",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Load and validate the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "configuration is valid")
			fmt.Fprintf(out, "  server:   :%d (%s)\n", cfg.Server.Port, cfg.Server.Mode)
			fmt.Fprintf(out, "  database: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
			fmt.Fprintf(out, "  redis:    %s\n", cfg.Redis.Addr)
			fmt.Fprintf(out, "  kafka:    %v\n", cfg.Kafka.Brokers)
			fmt.Fprintf(out, "  minio:    %s/%s\n", cfg.MinIO.Endpoint, cfg.MinIO.Bucket)
			return nil
		},
	})
	return cmd
}
