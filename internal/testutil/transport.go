package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/lepinkainen/shelf/internal/account"
	"github.com/lepinkainen/shelf/internal/catalog"
	"github.com/lepinkainen/shelf/internal/notify"
)

// Operation names recorded by FakeTransport.
const (
	OpList      = "list"
	OpSearch    = "search"
	OpRecommend = "recommend"
	OpCreate    = "create"
	OpRate      = "rate"
	OpUsers     = "users"
	OpLogin     = "login"
	OpRegister  = "register"
)

// Call is one request seen by FakeTransport.
type Call struct {
	Op    string
	Page  int
	Query string
	Title string
}

// FakeTransport is an in-memory catalog server. Responses are configured
// per page, search term or title; unknown keys answer with an empty list.
type FakeTransport struct {
	// Before runs before every response without holding any lock. Tests use
	// it to block a call or to control completion order.
	Before func(Call)

	mu       sync.Mutex
	pages    map[int][]catalog.Book
	searches map[string]map[int][]catalog.Book
	recs     map[string][]catalog.Book
	users    []account.User
	errs     map[string]error
	calls    []Call
	nextID   int
	created  []catalog.NewBook
	ratings  []catalog.RatingRequest
}

// NewFakeTransport returns an empty fake server.
func NewFakeTransport() *FakeTransport {
	return &FakeTransport{
		pages:    make(map[int][]catalog.Book),
		searches: make(map[string]map[int][]catalog.Book),
		recs:     make(map[string][]catalog.Book),
		errs:     make(map[string]error),
		nextID:   1000,
	}
}

// SetPage configures the browse listing for page.
func (f *FakeTransport) SetPage(page int, books ...catalog.Book) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[page] = books
}

// SetSearch configures the results of term for page.
func (f *FakeTransport) SetSearch(term string, page int, books ...catalog.Book) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.searches[term] == nil {
		f.searches[term] = make(map[int][]catalog.Book)
	}
	f.searches[term][page] = books
}

// SetRecommendations configures the recommendations for title.
func (f *FakeTransport) SetRecommendations(title string, books ...catalog.Book) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recs[title] = books
}

// SetUsers configures the user list.
func (f *FakeTransport) SetUsers(users ...account.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = users
}

// Fail makes every call of op return err. A nil err clears the failure.
func (f *FakeTransport) Fail(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.errs, op)
		return
	}
	f.errs[op] = err
}

// Calls returns the recorded calls of op, or all calls when op is empty.
func (f *FakeTransport) Calls(op string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Call
	for _, c := range f.calls {
		if op == "" || c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// SetNextID makes the next CreateBook return id.
func (f *FakeTransport) SetNextID(id int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID = id - 1
}

// Created returns the books submitted through CreateBook.
func (f *FakeTransport) Created() []catalog.NewBook {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]catalog.NewBook(nil), f.created...)
}

// Ratings returns the ratings submitted through CreateRating.
func (f *FakeTransport) Ratings() []catalog.RatingRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]catalog.RatingRequest(nil), f.ratings...)
}

func (f *FakeTransport) record(ctx context.Context, c Call) error {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	before := f.Before
	f.mu.Unlock()

	if before != nil {
		before(c)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errs[c.Op]
}

// ListBooks implements the browse listing.
func (f *FakeTransport) ListBooks(ctx context.Context, page int) ([]catalog.Book, error) {
	if err := f.record(ctx, Call{Op: OpList, Page: page}); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]catalog.Book(nil), f.pages[page]...), nil
}

// SearchBooks implements search.
func (f *FakeTransport) SearchBooks(ctx context.Context, query string, page int) ([]catalog.Book, error) {
	if err := f.record(ctx, Call{Op: OpSearch, Page: page, Query: query}); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]catalog.Book(nil), f.searches[query][page]...), nil
}

// Recommendations implements the recommendation lookup.
func (f *FakeTransport) Recommendations(ctx context.Context, title string) ([]catalog.Book, error) {
	if err := f.record(ctx, Call{Op: OpRecommend, Title: title}); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]catalog.Book(nil), f.recs[title]...), nil
}

// CreateBook assigns the next id and echoes the book back.
func (f *FakeTransport) CreateBook(ctx context.Context, book catalog.NewBook) (catalog.Book, error) {
	if err := f.record(ctx, Call{Op: OpCreate, Title: book.Title}); err != nil {
		return catalog.Book{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, book)
	f.nextID++
	return catalog.Book{
		ID:              f.nextID,
		Title:           book.Title,
		OriginalTitle:   book.OriginalTitle,
		Authors:         append([]string(nil), book.Authors...),
		PublicationYear: book.PublicationYear,
		AverageRating:   book.AverageRating,
		ImageURL:        book.ImageURL,
	}, nil
}

// CreateRating records the rating.
func (f *FakeTransport) CreateRating(ctx context.Context, rating catalog.RatingRequest) (catalog.Rating, error) {
	if err := f.record(ctx, Call{Op: OpRate, Page: rating.BookID}); err != nil {
		return catalog.Rating{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ratings = append(f.ratings, rating)
	out := catalog.Rating{BookID: rating.BookID, Rating: rating.Rating}
	if rating.UserID != nil {
		out.UserID = *rating.UserID
	}
	return out, nil
}

// LoadUsers returns the configured users.
func (f *FakeTransport) LoadUsers(ctx context.Context) ([]account.User, error) {
	if err := f.record(ctx, Call{Op: OpUsers}); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]account.User(nil), f.users...), nil
}

// Login accepts any credentials unless a failure is configured.
func (f *FakeTransport) Login(ctx context.Context, username, password string) error {
	return f.record(ctx, Call{Op: OpLogin, Query: username})
}

// Register accepts any credentials unless a failure is configured.
func (f *FakeTransport) Register(ctx context.Context, username, password string) error {
	return f.record(ctx, Call{Op: OpRegister, Query: username})
}

// Notifications records every notification it receives.
type Notifications struct {
	mu   sync.Mutex
	list []notify.Notification
}

// Notify implements notify.Notifier.
func (n *Notifications) Notify(msg notify.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.list = append(n.list, msg)
}

// All returns the notifications received so far.
func (n *Notifications) All() []notify.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Notification(nil), n.list...)
}

// Messages returns the texts of notifications with the given severity.
func (n *Notifications) Messages(severity notify.Severity) []string {
	var out []string
	for _, msg := range n.All() {
		if msg.Severity == severity {
			out = append(out, msg.Message)
		}
	}
	return out
}

// Books builds n books with consecutive ids starting at first.
func Books(first, n int) []catalog.Book {
	out := make([]catalog.Book, 0, n)
	for id := first; id < first+n; id++ {
		out = append(out, catalog.Book{ID: id, Title: fmt.Sprintf("Book %d", id)})
	}
	return out
}
