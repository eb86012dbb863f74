package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/lepinkainen/shelf/internal/catalog"
	"github.com/lepinkainen/shelf/internal/config"
	"github.com/lepinkainen/shelf/internal/datastore"
	"github.com/lepinkainen/shelf/internal/engine"
	"github.com/lepinkainen/shelf/internal/tui"
)

var runBrowser = tui.Run

// AuthFlags log in before a request that needs a session.
type AuthFlags struct {
	Username string `short:"u" help:"Log in as this user first"`
	Password string `help:"Password for --username (defaults to SHELF_PASSWORD)"`
}

func (a AuthFlags) login(ctx context.Context, e *engine.Engine) error {
	if a.Username == "" {
		return nil
	}
	e.Login(ctx, a.Username, password(a.Password))
	return accountErr(e)
}

func password(flag string) string {
	if flag != "" {
		return flag
	}
	return config.Password
}

// lastErr turns the failure recorded by the last catalog operation into an
// error for the exit status.
func lastErr(snap engine.Snapshot) error {
	if snap.Err == nil {
		return nil
	}
	return errors.New(snap.Err.Message)
}

func accountErr(e *engine.Engine) error {
	if f := e.Accounts().Err; f != nil {
		return errors.New(f.Message)
	}
	return nil
}

// loadThrough fetches every page up to and including page so the ordered
// sequence covers it.
func loadThrough(ctx context.Context, e *engine.Engine, page int) error {
	for p := 0; p <= page; p++ {
		e.SetPage(ctx, p)
		if err := lastErr(e.Snapshot()); err != nil {
			return err
		}
	}
	return nil
}

func printBooks(w io.Writer, books []catalog.Book) {
	if len(books) == 0 {
		_, _ = fmt.Fprintln(w, "No books found")
		return
	}
	for _, b := range books {
		line := fmt.Sprintf("%6d  %s", b.ID, b.Title)
		if b.PublicationYear != 0 {
			line += fmt.Sprintf(" (%d)", b.PublicationYear)
		}
		if len(b.Authors) > 0 {
			line += "  by " + strings.Join(b.Authors, ", ")
		}
		line += fmt.Sprintf("  [%.2f]", b.AverageRating)
		_, _ = fmt.Fprintln(w, line)
	}
}

// ListCmd represents the list command
type ListCmd struct {
	Page int `short:"p" help:"Page to show, starting at 0" default:"0"`
}

func (l *ListCmd) Run(ctx context.Context) error {
	e := newEngine()
	defer e.Close()

	if err := loadThrough(ctx, e, l.Page); err != nil {
		return err
	}
	snap := e.Snapshot()
	_, _ = fmt.Fprintf(stdout, "Page %d\n", snap.CurrentPage)
	printBooks(stdout, snap.Visible)
	return nil
}

// SearchCmd represents the search command
type SearchCmd struct {
	Term string `arg:"" help:"Title to search for"`
	Page int    `short:"p" help:"Result page to show, starting at 0" default:"0"`
}

func (s *SearchCmd) Run(ctx context.Context) error {
	e := newEngine()
	defer e.Close()

	e.Search(ctx, s.Term)
	if err := lastErr(e.Snapshot()); err != nil {
		return err
	}
	if err := loadThrough(ctx, e, s.Page); err != nil {
		return err
	}
	snap := e.Snapshot()
	_, _ = fmt.Fprintf(stdout, "Results for %q, page %d\n", snap.SearchTerm, snap.CurrentPage)
	printBooks(stdout, snap.Visible)
	return nil
}

// RecommendCmd represents the recommend command
type RecommendCmd struct {
	Title string `arg:"" help:"Exact title of a catalog book"`
}

func (r *RecommendCmd) Run(ctx context.Context) error {
	e := newEngine()
	defer e.Close()

	e.FetchRecommendations(ctx, r.Title)
	snap := e.Snapshot()
	if err := lastErr(snap); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(stdout, "Recommendations for %s\n", r.Title)
	printBooks(stdout, snap.Recommendations[r.Title])
	return nil
}

// AddBookCmd represents the add-book command
type AddBookCmd struct {
	AuthFlags `embed:""`

	Title         string   `required:"" help:"Title"`
	OriginalTitle string   `help:"Original title (defaults to the title)"`
	Authors       []string `name:"author" required:"" sep:"none" help:"Author, repeat for several"`
	Year          int      `required:"" help:"Publication year"`
	Rating        float64  `help:"Average rating between 0 and 5" default:"0"`
	Image         string   `required:"" help:"Cover image URL"`
}

func (a *AddBookCmd) Run(ctx context.Context) error {
	e := newEngine()
	defer e.Close()

	if err := a.login(ctx, e); err != nil {
		return err
	}

	book := catalog.NewBook{
		Title:           a.Title,
		OriginalTitle:   a.OriginalTitle,
		Authors:         a.Authors,
		PublicationYear: a.Year,
		AverageRating:   a.Rating,
		ImageURL:        a.Image,
	}
	if book.OriginalTitle == "" {
		book.OriginalTitle = book.Title
	}

	e.CreateBook(ctx, book)
	snap := e.Snapshot()
	if err := lastErr(snap); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(stdout, "Created book")
	if snap.Created != nil {
		printBooks(stdout, []catalog.Book{*snap.Created})
	}
	return nil
}

// RateCmd represents the rate command
type RateCmd struct {
	AuthFlags `embed:""`

	BookID int `arg:"" name:"book-id" help:"Book to rate"`
	Rating int `arg:"" help:"Rating from 1 to 5"`
	User   int `help:"Rate on behalf of this user id"`
}

func (r *RateCmd) Run(ctx context.Context) error {
	e := newEngine()
	defer e.Close()

	if err := r.login(ctx, e); err != nil {
		return err
	}

	var userID *int
	if r.User > 0 {
		userID = &r.User
	}
	e.RateBook(ctx, r.BookID, r.Rating, userID)
	if err := lastErr(e.Snapshot()); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(stdout, "Rated book %d with %d\n", r.BookID, r.Rating)
	return nil
}

// UsersCmd represents the users command
type UsersCmd struct {
	AuthFlags `embed:""`
}

func (u *UsersCmd) Run(ctx context.Context) error {
	e := newEngine()
	defer e.Close()

	if err := u.login(ctx, e); err != nil {
		return err
	}

	e.LoadUsers(ctx)
	if err := accountErr(e); err != nil {
		return err
	}
	users := e.Accounts().Users
	if len(users) == 0 {
		_, _ = fmt.Fprintln(stdout, "No users found")
		return nil
	}
	for _, user := range users {
		_, _ = fmt.Fprintf(stdout, "%6d  %s\n", user.ID, user.Username)
	}
	return nil
}

// LoginCmd represents the login command
type LoginCmd struct {
	Username string `arg:"" help:"User name"`
	Password string `help:"Password (defaults to SHELF_PASSWORD)"`
}

func (l *LoginCmd) Run(ctx context.Context) error {
	e := newEngine()
	defer e.Close()

	e.Login(ctx, l.Username, password(l.Password))
	if err := accountErr(e); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(stdout, "Logged in as %s\n", l.Username)
	return nil
}

// RegisterCmd represents the register command
type RegisterCmd struct {
	Username string `arg:"" help:"User name"`
	Password string `help:"Password (defaults to SHELF_PASSWORD)"`
}

func (r *RegisterCmd) Run(ctx context.Context) error {
	e := newEngine()
	defer e.Close()

	pw := password(r.Password)
	if pw == "" {
		return fmt.Errorf("password is required (provide via --password flag or SHELF_PASSWORD)")
	}
	e.Register(ctx, r.Username, pw)
	if err := accountErr(e); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(stdout, "Registered %s\n", r.Username)
	return nil
}

// BrowseCmd represents the browse command
type BrowseCmd struct{}

func (b *BrowseCmd) Run(ctx context.Context) error {
	inbox := tui.NewInbox()
	e := newEngine(
		engine.WithNotifier(inbox),
		engine.WithContext(ctx),
		// the terminal belongs to the browser
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	defer e.Close()

	return runBrowser(ctx, e, inbox)
}

// ExportCmd represents the export command
type ExportCmd struct {
	Pages int    `help:"Number of browse pages to export" default:"1"`
	DB    string `name:"db" help:"SQLite file to write (defaults to export.dbfile)"`
}

func (x *ExportCmd) Run(ctx context.Context) error {
	if x.Pages < 1 {
		return fmt.Errorf("--pages must be at least 1")
	}
	dbFile := x.DB
	if dbFile == "" {
		dbFile = config.ExportDBFile
	}

	e := newEngine()
	defer e.Close()

	if err := loadThrough(ctx, e, x.Pages-1); err != nil {
		return err
	}
	books := e.Snapshot().Books

	store := datastore.NewSQLiteStore(dbFile)
	if err := store.Connect(); err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := datastore.ExportBooks(store, books); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(stdout, "Exported %d books to %s\n", len(books), dbFile)
	return nil
}
