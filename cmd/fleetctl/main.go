// Command fleetctl is the operator console for a fleetflow server.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"fleetflow/internal/client"
	"fleetflow/internal/console"
)

const defaultServer = "http://localhost:8000"

// cli carries the state shared by all commands.
type cli struct {
	server  string
	file    sessionFile
	out     io.Writer
	errOut  io.Writer
	session *client.Session
	api     *client.Client
}

func main() {
	os.Exit(run())
}

func run() int {
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	log.SetOutput(os.Stderr)
	if lvl, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(lvl)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := &cli{out: os.Stdout, errOut: os.Stderr}
	if err := c.rootCmd().ExecuteContext(ctx); err != nil {
		log.WithError(err).Debug("command failed")
		fmt.Fprintln(os.Stderr, "Error:", console.Message(err))
		return 1
	}
	return 0
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fleetctl",
		Short:         "Operate a fleetflow server from the terminal",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.connect()
		},
	}

	server := os.Getenv("FLEETCTL_SERVER")
	if server == "" {
		server = defaultServer
	}
	root.PersistentFlags().StringVar(&c.server, "server", server, "fleetflow server URL")
	root.PersistentFlags().StringVar(&c.file.path, "session", defaultSessionPath(), "session file")

	root.AddCommand(
		c.loginCmd(),
		c.logoutCmd(),
		c.registerCmd(),
		c.forgotPasswordCmd(),
		c.resetPasswordCmd(),
		c.vehiclesCmd(),
		c.driversCmd(),
		c.tripsCmd(),
		c.maintenanceCmd(),
		c.expensesCmd(),
		c.fuelCmd(),
		c.statsCmd(),
		c.roiCmd(),
		c.fuelEfficiencyCmd(),
		c.exportCmd(),
	)
	return root
}

// connect restores the saved login. A stored session for another server
// is ignored.
func (c *cli) connect() error {
	stored, err := c.file.load()
	if err != nil {
		return err
	}
	token, email := "", ""
	if stored.Server == c.server {
		token, email = stored.AccessToken, stored.Email
	}

	c.session = client.NewSession(token, email, func() {
		if err := c.file.clear(); err != nil {
			log.WithError(err).Warn("failed to remove session file")
		}
		fmt.Fprintln(c.errOut, "Session expired. Run `fleetctl login` to sign in again.")
	})
	c.api = client.New(c.server, c.session)
	return nil
}

func (c *cli) saveSession() error {
	return c.file.save(storedSession{
		Server:      c.server,
		AccessToken: c.session.Token(),
		Email:       c.session.Email(),
	})
}
