package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/five82/liker/internal/app"
	"github.com/five82/liker/internal/config"
	"github.com/five82/liker/internal/engagement"
	"github.com/five82/liker/internal/logging"
	"github.com/five82/liker/internal/mockapi"
	"github.com/five82/liker/internal/opener"
)

// withSession mounts the creator's button, runs fn and closes the session,
// which sends any likes fn left unsent.
func withSession(cmd *cobra.Command, opts *cliOptions, creator string, fn func(s *app.Session) error) error {
	ctx := cmd.Context()
	s, err := app.Open(ctx, opts.appOptions(creator, opts.verbose))
	if err != nil {
		return err
	}
	defer s.Close(ctx)
	return fn(s)
}

func newStatusCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status <creator>",
		Short: "Show the button state for a creator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, args[0], func(s *app.Session) error {
				printStatus(cmd.OutOrStdout(), s.Widget.Snapshot(), s.Store.Snapshot().LastError)
				return nil
			})
		},
	}
}

func newLikeCmd(opts *cliOptions) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "like <creator>",
		Short: "Like a creator's content",
		Long: `Like a creator's content. Likes are capped at five per viewer; the
clicks are sent together in one request, as the button does after its quiet
period.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1, got %d", count)
			}
			return withSession(cmd, opts, args[0], func(s *app.Session) error {
				if err := requireViewer(s); err != nil {
					return err
				}
				for i := 0; i < count; i++ {
					s.Widget.Like()
				}
				s.Widget.Flush(cmd.Context())
				printStatus(cmd.OutOrStdout(), s.Widget.Snapshot(), nil)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of likes to add")
	return cmd
}

func newSuperLikeCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "superlike <creator>",
		Short: "Super like a creator's content and share it with your followers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, args[0], func(s *app.Session) error {
				if err := requireViewer(s); err != nil {
					return err
				}
				st := s.Widget.Snapshot()
				switch {
				case st.SuperLike.CooldownProgress > 0:
					s.Widget.MarkCooldownClicked()
					printStatus(cmd.OutOrStdout(), s.Widget.Snapshot(), nil)
					return fmt.Errorf("super like is cooling down")
				case !st.SuperLike.CanSuperLike:
					return fmt.Errorf("cannot super like yet, see %s", s.Links.SuperLike())
				}
				if err := s.Widget.SuperLike(cmd.Context()); err != nil {
					return fmt.Errorf("super like: %w", err)
				}
				printStatus(cmd.OutOrStdout(), s.Widget.Snapshot(), nil)
				return nil
			})
		},
	}
}

func newBookmarkCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "bookmark <creator>",
		Short: "Toggle the bookmark of the --referrer page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, args[0], func(s *app.Session) error {
				if err := requireViewer(s); err != nil {
					return err
				}
				if s.Widget.Snapshot().Bookmark.Loading {
					return errStatusUnavailable
				}
				if err := s.Widget.ToggleBookmark(cmd.Context()); err != nil {
					return fmt.Errorf("bookmark: %w", err)
				}
				printStatus(cmd.OutOrStdout(), s.Widget.Snapshot(), nil)
				return nil
			})
		},
	}
}

func newFollowCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "follow <creator>",
		Short: "Follow a creator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, args[0], func(s *app.Session) error {
				if err := requireViewer(s); err != nil {
					return err
				}
				if s.Widget.Snapshot().Follow.Loading {
					return errStatusUnavailable
				}
				if err := s.Widget.ToggleFollow(cmd.Context()); err != nil {
					return fmt.Errorf("follow: %w", err)
				}
				printStatus(cmd.OutOrStdout(), s.Widget.Snapshot(), nil)
				return nil
			})
		},
	}
}

func newLinksCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "links <creator>",
		Short: "Print the pages the button links to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return fmt.Errorf("load liker config: %w", err)
			}
			links := engagement.NewLinks(engagement.Hosts{
				LikeCo:    cfg.LikeCoHost,
				LikerLand: cfg.LikerLandURL,
				Button:    cfg.ButtonBase,
			}, opts.target(args[0]))
			printLinks(cmd.OutOrStdout(), links)
			return nil
		},
	}
}

func newMockCmd(opts *cliOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Serve an in-memory LikeCoin API with demo creators",
		Long: `Serve an in-memory LikeCoin API for local testing.

The bearer token is the viewer's liker id. Demo creators: alice, bob, dave.
Demo viewers: alice, bob, carol, dave. Point liker at it with
LIKER_API_BASE=http://<addr> LIKER_AUTH_TOKEN=carol.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return fmt.Errorf("load liker config: %w", err)
			}
			if addr == "" {
				addr = cfg.MockAddr
			}
			logger, err := logging.New(logging.Options{Stderr: true, Verbose: opts.verbose})
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			gin.SetMode(gin.ReleaseMode)
			srv := mockapi.New(mockapi.DemoStore(), logger)
			fmt.Fprintf(cmd.OutOrStdout(), "mock api on http://%s (creators: %s)\n", addr, strings.Join(mockapi.DemoStore().Creators(), ", "))
			return srv.Serve(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default mock_addr from config)")
	return cmd
}

var errStatusUnavailable = errors.New("button status unavailable, try again later")

// requireViewer fails when the first sync did not complete, and
// when the viewer is signed out.
func requireViewer(s *app.Session) error {
	if err := s.Store.Snapshot().LastError; err != nil {
		return fmt.Errorf("%w: %v", errStatusUnavailable, err)
	}
	if !s.Widget.Snapshot().Session.IsLoggedIn {
		return errSignedOut(s)
	}
	return nil
}

func errSignedOut(s *app.Session) error {
	return fmt.Errorf("not signed in: set auth_token or sign up at %s", s.Links.SignUp())
}

// printStatus writes the button state as aligned key/value lines.
func printStatus(w io.Writer, st engagement.State, syncErr error) {
	row := func(k, v string) { fmt.Fprintf(w, "%-10s%s\n", k, v) }

	creator := st.Profile.DisplayName
	if creator != st.Profile.ID {
		creator += " (@" + st.Profile.ID + ")"
	}
	if st.IsCreatorCivicLiker() {
		creator += " civic liker"
	}
	row("creator", creator)

	viewer := "signed out"
	if st.Session.IsLoggedIn {
		viewer = st.Session.Liker
		if st.Session.IsCreator {
			viewer += " (creator)"
		}
	}
	row("viewer", viewer)
	row("likes", fmt.Sprintf("%d/%d (%s)", st.Like.Count, engagement.MaxLike, st.LikeButtonLabel()))

	if st.Session.IsLoggedIn {
		row("super", superLikeSummary(st))
		row("bookmark", yesNo(st.Bookmark.Bookmarked))
		if !st.Session.IsCreator {
			row("follow", yesNo(st.Follow.Followed))
		}
		if st.IsCreatorCivicLiker() {
			row("support", fmt.Sprintf("%s (%d)", st.CTALabel(), st.Support.Quantity))
		}
	}
	if hint := st.Hint(); hint != engagement.HintNone {
		row("hint", hint.String())
	}
	if syncErr != nil {
		row("sync", "failed: "+syncErr.Error())
	}
}

func superLikeSummary(st engagement.State) string {
	sl := st.SuperLike
	switch {
	case sl.CooldownProgress > 0:
		s := fmt.Sprintf("cooldown %d%%", int(sl.CooldownProgress*100+0.5))
		if sl.HasSuperLiked {
			s = "super liked, " + s
		}
		return s
	case st.CanSuperLikeNow():
		return "ready"
	case !sl.IsSuperLiker:
		return "not a super liker"
	default:
		return "unavailable"
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func printLinks(w io.Writer, l engagement.Links) {
	rows := []struct {
		name string
		url  string
		p    opener.Popup
	}{
		{"sign up", l.SignUp(), opener.SignUp},
		{"super like", l.SuperLike(), opener.SuperLike},
		{"like stats", l.LikeStats(), opener.LikeStats},
		{"civic", l.CTA(false), opener.CTA},
		{"portfolio", l.Portfolio(), opener.Portfolio},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%-11s%s\n", r.name, r.url)
		if f := r.p.Features(); f != "" {
			fmt.Fprintf(w, "%-11s%s %s\n", "", r.p.Name, f)
		}
	}
}
