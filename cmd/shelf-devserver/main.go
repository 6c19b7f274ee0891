package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/five82/shelf/internal/devserver"
)

// settings may also come from SHELF_DEV_* environment variables.
type settings struct {
	Addr          string  `envconfig:"ADDR" default:"127.0.0.1:8080"`
	Secret        string  `envconfig:"SECRET"`
	RPS           float64 `envconfig:"RPS" default:"50"`
	Seed          bool    `envconfig:"SEED" default:"true"`
	AdminEmail    string  `envconfig:"ADMIN_EMAIL" default:"admin@library.local"`
	AdminPassword string  `envconfig:"ADMIN_PASSWORD" default:"admin123"`
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "shelf-devserver: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var s settings
	cmd := &cobra.Command{
		Use:          "shelf-devserver",
		Short:        "Serve an in-memory library catalog API for local development",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PreRunE: func(*cobra.Command, []string) error {
			return envconfig.Process("SHELF_DEV", &s)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&s.Addr, "addr", "", "listen address (default 127.0.0.1:8080)")
	flags.StringVar(&s.Secret, "secret", "", "token signing key (random when empty)")
	flags.BoolVar(&s.Seed, "seed", true, "load sample books and an admin account")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		applyFlags(cmd, &s)

		log, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer func() { _ = log.Sync() }()

		if s.Secret == "" {
			s.Secret = uuid.NewString()
		}
		srv, err := devserver.New(devserver.Options{
			Secret: s.Secret,
			RPS:    s.RPS,
			Log:    log.Named("devserver"),
		})
		if err != nil {
			return err
		}
		if s.Seed {
			if err := srv.Seed(s.AdminEmail, s.AdminPassword); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			log.Info("seeded", zap.String("admin", s.AdminEmail))
		}

		log.Info("listening", zap.String("addr", s.Addr))
		return srv.ListenAndServe(cmd.Context(), s.Addr)
	}
	return cmd
}

// applyFlags lets explicitly set flags win over the environment.
func applyFlags(cmd *cobra.Command, s *settings) {
	flags := cmd.Flags()
	if flags.Changed("addr") {
		s.Addr, _ = flags.GetString("addr")
	}
	if flags.Changed("secret") {
		s.Secret, _ = flags.GetString("secret")
	}
	if flags.Changed("seed") {
		s.Seed, _ = flags.GetBool("seed")
	}
}
