package system

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Alijeyrad/hospital_backend/config"
	"github.com/Alijeyrad/hospital_backend/internal/service/auth"
	"github.com/Alijeyrad/hospital_backend/pkg/authorize"
	pasetotoken "github.com/Alijeyrad/hospital_backend/pkg/paseto"
	"github.com/Alijeyrad/hospital_backend/pkg/util/phone"
)

// NewTokenCommand mints an access token without a session, for local testing
// against the API.
func NewTokenCommand() *cobra.Command {
	var (
		subject string
		mobile  string
		role    string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development access token",
		Example: `  hospital system token --mobile 9876543210 --role patient
  hospital system token --subject 6f1c... --role admin --ttl 1h`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return fmt.Errorf("failed to get config flag: %w", err)
			}
			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}

			if role != string(authorize.RoleAdmin) && role != string(authorize.RolePatient) {
				return fmt.Errorf("unknown role %q", role)
			}

			var id uuid.UUID
			switch {
			case subject != "":
				if id, err = uuid.Parse(subject); err != nil {
					return fmt.Errorf("invalid --subject: %w", err)
				}
			case mobile != "":
				e164, err := phone.Normalize(mobile, cfg.Authentication.DefaultRegion)
				if err != nil {
					return err
				}
				id = auth.PatientID(e164)
			default:
				return fmt.Errorf("one of --subject or --mobile is required")
			}

			if ttl > 0 {
				cfg.Authentication.Paseto.AccessTTLMinutes = int(ttl.Minutes())
			}
			mgr, err := pasetotoken.NewPasetoManager(cfg)
			if err != nil {
				return err
			}

			token, err := mgr.IssueAccess(pasetotoken.Subject{UserID: id, Role: role})
			if err != nil {
				return err
			}
			fmt.Printf("subject: %s\nrole:    %s\nexpires: %s\n\n%s\n", id, role, mgr.AccessTTL(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "user id (uuid) to put in the token")
	cmd.Flags().StringVar(&mobile, "mobile", "", "patient mobile; the subject is derived from it")
	cmd.Flags().StringVar(&role, "role", string(authorize.RolePatient), "admin or patient")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime, defaults to the configured access TTL")

	return cmd
}
