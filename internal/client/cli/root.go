package cli

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/client/config"
)

// runner is what the command tree drives: the REPL commands plus the
// interactive loop and cleanup.
type runner interface {
	execIface
	Chat(ctx context.Context) error
	AskIn(ctx context.Context, ref, text string) error
	Close() error
}

// newRunner builds the application for a command invocation. Tests replace it.
var newRunner = func(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) (runner, error) {
	a, err := NewApp(ctx, cfg, in, out)
	if err != nil {
		return nil, err
	}
	return a, nil
}

type rootState struct {
	flags *config.Flags
	app   runner
}

func (s *rootState) close() error {
	if s.app == nil {
		return nil
	}
	err := s.app.Close()
	s.app = nil
	return err
}

// Execute runs the command tree with args and always releases the
// application afterwards.
func Execute(ctx context.Context, args []string) error {
	if args == nil {
		args = []string{}
	}
	root, st := newRootCommand()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if cerr := st.close(); err == nil {
		err = cerr
	}
	return err
}

func newRootCommand() (*cobra.Command, *rootState) {
	st := &rootState{}

	root := &cobra.Command{
		Use:   "trip-planner",
		Short: "Chat with the seasonal travel assistant",
		Long: `trip-planner is a terminal client for the seasonal travel recommender.

Run it without a subcommand to start an interactive chat. Trips are saved on
the server; the login token and an install id are kept in a local database.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := st.flags.Load()
			if err != nil {
				return err
			}
			app, err := newRunner(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			st.app = app
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return st.app.Chat(cmd.Context())
		},
	}
	st.flags = config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		&cobra.Command{
			Use:   "chat",
			Short: "Start the interactive chat (default)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return st.app.Chat(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "login",
			Short: "Log in and remember the session",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return st.app.Login(cmd.Context())
			},
		},
		&cobra.Command{
			Use:     "signup",
			Aliases: []string{"register"},
			Short:   "Create an account",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return st.app.Signup(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "logout",
			Short: "Forget the stored session",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return st.app.Logout(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "whoami",
			Short: "Show the logged-in user",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return st.app.Whoami(cmd.Context())
			},
		},
		&cobra.Command{
			Use:     "trips",
			Aliases: []string{"list"},
			Short:   "List your trips",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return st.app.Trips(cmd.Context())
			},
		},
		newDeleteTripCommand(st),
		newDeleteAccountCommand(st),
		newAskCommand(st),
	)

	return root, st
}

func newDeleteTripCommand(st *rootState) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete-trip <id>",
		Short: "Delete a trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return st.app.DeleteTrip(cmd.Context(), args[0], yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newDeleteAccountCommand(st *rootState) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete-account",
		Short: "Delete your account and all trips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return st.app.DeleteAccount(cmd.Context(), yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newAskCommand(st *rootState) *cobra.Command {
	var trip string
	cmd := &cobra.Command{
		Use:   "ask <message...>",
		Short: "Send one message and print the reply",
		Long: `Send one message to the assistant and print the reply.

Without --trip a new trip is started and titled from the message.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return st.app.AskIn(cmd.Context(), trip, strings.Join(args, " "))
		},
	}
	cmd.Flags().StringVarP(&trip, "trip", "t", "", "continue the trip with this id")
	return cmd
}
