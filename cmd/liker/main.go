package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/liker/internal/app"
	"github.com/five82/liker/internal/engagement"
	"github.com/five82/liker/internal/opener"
	"github.com/five82/liker/internal/prefs"
)

// cliOptions holds the persistent flags shared by every command.
type cliOptions struct {
	configPath  string
	prefsPath   string
	referrer    string
	buttonType  string
	integration string
	amount      int
	verbose     bool
	dryRun      bool
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		var nf *engagement.NotFoundError
		if errors.As(err, &nf) {
			fmt.Fprintf(os.Stderr, "liker: %v (HTTP %d)\n", err, nf.StatusCode())
			return 1
		}
		fmt.Fprintf(os.Stderr, "liker: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:   "liker [creator]",
		Short: "A LikeCoin like button for the terminal",
		Long: `liker mounts a creator's like button in the terminal.

Like up to five times, super like, bookmark the referrer and follow the
creator. Without a creator argument the last opened creator is used.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			creator, err := resolveCreator(args, opts.prefsPath)
			if err != nil {
				return err
			}
			return runTUI(cmd.Context(), cmd.OutOrStdout(), opts, creator)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.config/liker/config.toml)")
	flags.StringVar(&opts.prefsPath, "prefs", "", "preferences file (default ~/.config/liker/prefs.toml)")
	flags.StringVar(&opts.referrer, "referrer", "", "URL of the page the button is embedded in")
	flags.StringVar(&opts.buttonType, "type", "", "button type, e.g. medium or wp")
	flags.StringVar(&opts.integration, "integration", "", "integration tag sent with every action")
	flags.IntVar(&opts.amount, "amount", 0, "display amount carried into the super like link")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "print links instead of opening the browser")

	root.AddCommand(
		newStatusCmd(opts),
		newLikeCmd(opts),
		newSuperLikeCmd(opts),
		newBookmarkCmd(opts),
		newFollowCmd(opts),
		newLinksCmd(opts),
		newMockCmd(opts),
	)
	return root
}

func (o *cliOptions) target(creator string) engagement.Target {
	return engagement.Target{
		CreatorID:   creator,
		Amount:      o.amount,
		Referrer:    o.referrer,
		ButtonType:  o.buttonType,
		Integration: o.integration,
	}
}

func (o *cliOptions) appOptions(creator string, stderr bool) app.Options {
	return app.Options{
		ConfigPath: o.configPath,
		PrefsPath:  o.prefsPath,
		Target:     o.target(creator),
		Verbose:    o.verbose,
		Stderr:     stderr,
	}
}

func resolveCreator(args []string, prefsPath string) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return strings.TrimSpace(args[0]), nil
	}
	if last := prefs.Load(prefsPath).LastCreator; last != "" {
		return last, nil
	}
	return "", errors.New("no creator given and none opened before")
}

func runTUI(ctx context.Context, out io.Writer, opts *cliOptions, creator string) error {
	appOpts := opts.appOptions(creator, false)
	var rec *opener.Recorder
	if opts.dryRun {
		rec = &opener.Recorder{}
		appOpts.Opener = rec
	}
	err := app.Run(ctx, appOpts)
	if rec != nil {
		for _, call := range rec.Calls() {
			fmt.Fprintf(out, "%s\t%s\n", call.Popup.Name, call.URL)
		}
	}
	return err
}
