package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"listkeeper/internal/config"
	"listkeeper/internal/domain/entity"
	"listkeeper/internal/infra/remote"
	"listkeeper/internal/service/auth"
	"listkeeper/internal/session"
	"listkeeper/internal/usecase/mutation"
	"listkeeper/internal/usecase/snapshot"
	"listkeeper/internal/usecase/view"
)

var errUsage = errors.New("usage")

// app wires the core together for one CLI invocation.
type app struct {
	cfg      *config.AppConfig
	logger   *slog.Logger
	out      io.Writer
	json     bool
	now      func() time.Time
	password func() string

	sessions *session.Manager
	files    *session.FileStore
	gate     *auth.Gate
	snaps    *snapshot.Store
	coord    *mutation.Coordinator
}

func newApp(cfg *config.AppConfig, client *remote.Client, logger *slog.Logger, out io.Writer) *app {
	snaps := snapshot.NewStore(client.Lists(), client.Articles(), logger)
	a := &app{
		cfg:      cfg,
		logger:   logger,
		out:      out,
		now:      time.Now,
		password: func() string { return os.Getenv("LISTKEEPER_PASSWORD") },
		sessions: session.NewManager(logger),
		files:    session.NewFileStore(cfg.SessionFile),
		gate:     auth.NewGate(auth.NewDirectoryVerifier(client.Users()), logger),
		snaps:    snaps,
		coord:    mutation.NewCoordinator(client.Lists(), client.Articles(), snaps, logger),
	}
	a.sessions.OnClear(snaps.Clear)
	return a
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return a.login(ctx, rest)
	case "logout":
		return a.logout()
	}

	// every other command needs the saved session
	saved, err := a.files.Load()
	if err != nil {
		return err
	}
	if err := a.sessions.Resume(saved); err != nil {
		return errors.New("not logged in; run `listkeeper login -user NAME` first")
	}

	switch cmd {
	case "lists":
		return a.lists(ctx)
	case "show":
		return a.show(ctx, rest)
	case "new-list":
		return a.newList(ctx, rest)
	case "rename-list":
		return a.renameList(ctx, rest)
	case "rm-list":
		return a.removeList(ctx, rest)
	case "add":
		return a.addArticle(ctx, rest)
	case "edit":
		return a.editArticle(ctx, rest)
	case "rm":
		return a.removeArticle(ctx, rest)
	default:
		return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	user := fs.String("user", "", "user name")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil || *user == "" {
		return errUsage
	}
	if *password == "" {
		*password = a.password()
	}

	res, err := a.gate.Authenticate(ctx, *user, *password)
	if err != nil {
		return err
	}
	if !res.Authorized {
		return errors.New("invalid user name or password")
	}
	s, err := a.sessions.Login(res)
	if err != nil {
		return err
	}
	if err := a.files.Save(s); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s (user %d)\n", s.UserName, s.UserID)
	return nil
}

func (a *app) logout() error {
	a.sessions.Logout()
	if err := a.files.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *app) load(ctx context.Context) (*snapshot.Snapshot, error) {
	return a.snaps.Load(ctx, a.sessions.Current())
}

func (a *app) lists(ctx context.Context) error {
	snap, err := a.load(ctx)
	if err != nil {
		return err
	}
	cards := view.Grid(snap, a.cfg.PreviewSize)
	if a.json {
		return a.writeJSON(gridJSON(cards))
	}
	if len(cards) == 0 {
		fmt.Fprintln(a.out, "No lists yet. Create one with `listkeeper new-list NAME`.")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLIST\tCREATED\tARTICLES\tPREVIEW")
	for _, c := range cards {
		preview := make([]string, 0, len(c.Preview))
		for _, art := range c.Preview {
			preview = append(preview, art.Name)
		}
		if c.Remaining > 0 {
			preview = append(preview, fmt.Sprintf("+%d more", c.Remaining))
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", c.List.ID, c.List.Name, c.List.CreationDate, c.ArticleCount, strings.Join(preview, ", "))
	}
	return tw.Flush()
}

func (a *app) show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	listID, err := parseID(args[0])
	if err != nil {
		return err
	}
	snap, err := a.load(ctx)
	if err != nil {
		return err
	}
	detail, err := view.Detail(snap, listID)
	if errors.Is(err, entity.ErrNotFound) {
		return fmt.Errorf("list %d not found", listID)
	}
	if err != nil {
		return err
	}
	if a.json {
		return a.writeJSON(detailJSON(detail))
	}
	fmt.Fprintf(a.out, "%s (list %d, created %s)\n", detail.List.Name, detail.List.ID, detail.List.CreationDate)
	if len(detail.Articles) == 0 {
		fmt.Fprintln(a.out, "  (no articles)")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, art := range detail.Articles {
		fmt.Fprintf(tw, "  %d\t%s\t%s\n", art.ID, art.Name, art.Content)
	}
	return tw.Flush()
}

func (a *app) newList(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	created, err := a.coord.CreateList(ctx, a.sessions.Current(), strings.Join(args, " "), a.now())
	if err := a.report(err); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created list %d %q\n", created.ID, created.Name)
	return nil
}

func (a *app) renameList(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errUsage
	}
	listID, err := parseID(args[0])
	if err != nil {
		return err
	}
	updated, err := a.coord.RenameList(ctx, a.sessions.Current(), listID, strings.Join(args[1:], " "))
	if err := a.report(err); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Renamed list %d to %q\n", updated.ID, updated.Name)
	return nil
}

func (a *app) removeList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("rm-list", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	yes := fs.Bool("yes", false, "confirm deletion")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return errUsage
	}
	listID, err := parseID(fs.Arg(0))
	if err != nil {
		return err
	}
	if !*yes {
		return fmt.Errorf("deleting list %d needs confirmation: pass -yes", listID)
	}
	if err := a.report(a.coord.DeleteList(ctx, a.sessions.Current(), listID)); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted list %d\n", listID)
	return nil
}

func (a *app) addArticle(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	lists := fs.String("list", "", "comma-separated list ids; the first is the originating list")
	content := fs.String("content", "", "free text")
	if err := fs.Parse(args); err != nil || fs.NArg() == 0 || *lists == "" {
		return errUsage
	}
	var listIDs []int64
	for _, raw := range strings.Split(*lists, ",") {
		id, err := parseID(strings.TrimSpace(raw))
		if err != nil {
			return err
		}
		listIDs = append(listIDs, id)
	}

	created, err := a.coord.CreateArticle(ctx, a.sessions.Current(), mutation.ArticleDraft{
		Name:    strings.Join(fs.Args(), " "),
		Content: *content,
		ListIDs: listIDs,
	})
	if err := a.report(err); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created article %d %q\n", created.ID, created.Name)
	return nil
}

func (a *app) editArticle(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	content := fs.String("content", "", "free text")
	if err := fs.Parse(args); err != nil || fs.NArg() < 2 {
		return errUsage
	}
	articleID, err := parseID(fs.Arg(0))
	if err != nil {
		return err
	}
	// renames are limited to articles the user can see
	if _, err := a.load(ctx); err != nil {
		return err
	}
	updated, err := a.coord.RenameArticle(ctx, a.sessions.Current(), articleID, strings.Join(fs.Args()[1:], " "), *content)
	if err := a.report(err); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated article %d %q\n", updated.ID, updated.Name)
	return nil
}

func (a *app) removeArticle(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	articleID, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := a.report(a.coord.DeleteArticle(ctx, a.sessions.Current(), articleID)); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted article %d\n", articleID)
	return nil
}

// report turns a mutation outcome into CLI behavior. A stale snapshot only
// warns: the change itself went through.
func (a *app) report(err error) error {
	switch mutation.Classify(err) {
	case mutation.OutcomeOK:
		return nil
	case mutation.OutcomeStaleSnapshot:
		fmt.Fprintf(a.out, "Warning: change saved, but refreshing failed: %v\n", err)
		return nil
	case mutation.OutcomeAlreadyInFlight:
		return errors.New("that item is already being changed")
	default:
		return err
	}
}

func (a *app) writeJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
