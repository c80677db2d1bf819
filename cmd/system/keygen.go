package system

import (
	"fmt"

	"github.com/spf13/cobra"

	pasetotoken "github.com/Alijeyrad/hospital_backend/pkg/paseto"
)

func NewKeygenCommand() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate PASETO v4 keys for authentication.paseto",
		RunE: func(cmd *cobra.Command, args []string) error {
			var keys pasetotoken.Keys
			switch pasetotoken.Mode(mode) {
			case pasetotoken.ModeLocal:
				keys = pasetotoken.NewLocalKeys()
			case pasetotoken.ModePublic:
				keys = pasetotoken.NewPublicKeys()
			default:
				return fmt.Errorf("unknown mode %q (use local|public)", mode)
			}

			s := keys.Strings()
			fmt.Printf("mode: %s\n", s.Mode)
			if s.SymmetricHex != "" {
				fmt.Printf("local_key_hex: %s\n", s.SymmetricHex)
			}
			if s.SecretHex != "" {
				fmt.Printf("secret_key_hex: %s\npublic_key_hex: %s\n", s.SecretHex, s.PublicHex)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(pasetotoken.ModeLocal), "local or public")

	return cmd
}
