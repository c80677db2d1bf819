package system

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/hospital_backend/config"
	"github.com/Alijeyrad/hospital_backend/pkg/util/password"
)

func NewHashPasswordCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print an argon2id hash for authentication.admin.password_hash",
		Long: `Reads a password from the first line of stdin and prints its argon2id
hash using the password parameters from the config file.`,
		Example: `  echo -n 's3cret' | hospital system hash-password`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return fmt.Errorf("failed to get config flag: %w", err)
			}
			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}

			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("failed to read password from stdin: %w", err)
			}
			plain := strings.TrimRight(line, "\r\n")
			if plain == "" {
				return fmt.Errorf("password must not be empty")
			}

			hash, err := password.HashWithParams(plain, password.ParamsFromConfig(cfg.Password))
			if err != nil {
				return err
			}
			fmt.Println(hash)
			return nil
		},
	}

	return cmd
}
