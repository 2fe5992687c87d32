package main

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"hotelpms/internal/config"
	"hotelpms/internal/database"
	"hotelpms/internal/logging"
	"hotelpms/internal/modules/auth"
	"hotelpms/internal/modules/booking"
	"hotelpms/internal/modules/ledger"
	"hotelpms/internal/pkg/jwt"
)

// env is what every subcommand needs once the database is open.
type env struct {
	cfg *config.Config
	log *logrus.Logger
	db  *gorm.DB
}

func newRootCmd() *cobra.Command {
	e := &env{}
	var dsn string

	root := &cobra.Command{
		Use:           "hotelctl",
		Short:         "Hotel PMS maintenance tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dsn != "" {
				cfg.DatabaseURL = dsn
			}
			e.cfg = cfg
			e.log = logging.New(cfg.LogLevel, cfg.AppEnv)
			e.db, err = database.Connect(cfg.DatabaseURL, e.log)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if e.db == nil {
				return nil
			}
			sqlDB, err := e.db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
	root.PersistentFlags().StringVar(&dsn, "db", "", "database DSN (overrides DATABASE_URL)")

	root.AddCommand(
		migrateCmd(e),
		seedCmd(e),
		createAdminCmd(e),
		reconcileRoomsCmd(e),
		verifyLedgerCmd(e),
	)
	return root
}

func migrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := database.Migrate(e.db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}

func seedCmd(e *env) *cobra.Command {
	var adminEmail, adminPassword string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo rooms, menu and an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := database.Migrate(e.db); err != nil {
				return err
			}
			res, err := seed(cmd.Context(), e.db, e.log, adminEmail, adminPassword)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rooms: %d, menu items: %d, admin: %s\n", res.Rooms, res.MenuItems, adminEmail)
			return nil
		},
	}
	cmd.Flags().StringVar(&adminEmail, "admin-email", "admin@hotel.local", "admin login")
	cmd.Flags().StringVar(&adminPassword, "admin-password", "admin12345", "admin password")
	return cmd
}

func createAdminCmd(e *env) *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account or reset its password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				return errors.New("--email and --password are required")
			}
			svc := auth.NewService(e.db, jwt.New(e.cfg.JWTSecret, e.cfg.JWTTTL), e.log)
			u, created, err := svc.EnsureAdmin(cmd.Context(), name, email, password)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "admin %s created (id %d)\n", u.Email, u.ID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "password reset for %s\n", u.Email)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "Administrator", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "password (min 8 characters)")
	return cmd
}

func reconcileRoomsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile-rooms",
		Short: "Re-derive every room status from its active bookings",
		RunE: func(cmd *cobra.Command, args []string) error {
			l := ledger.NewService(e.db, e.log)
			svc := booking.NewService(e.db, l, e.cfg.ReportLocation, e.log)
			changes, err := svc.ReconcileRoomStatuses(cmd.Context())
			if err != nil {
				return err
			}
			for _, ch := range changes {
				fmt.Fprintf(cmd.OutOrStdout(), "room %s: %s -> %s\n", ch.RoomNumber, ch.From, ch.To)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d room(s) corrected\n", len(changes))
			return nil
		},
	}
}

func verifyLedgerCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "verify-ledger",
		Short: "Check that every amount_paid equals its ledger sum",
		RunE: func(cmd *cobra.Command, args []string) error {
			mismatches, err := ledger.NewService(e.db, e.log).VerifyAll(cmd.Context())
			if err != nil {
				return err
			}
			for _, m := range mismatches {
				fmt.Fprintln(cmd.OutOrStdout(), m.String())
			}
			if len(mismatches) > 0 {
				return fmt.Errorf("%d ledger mismatch(es)", len(mismatches))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ledger consistent")
			return nil
		},
	}
}
