package engine

import (
	"context"

	"github.com/lepinkainen/shelf/internal/account"
	"github.com/lepinkainen/shelf/internal/catalog"
)

// Default notification texts for failures that carry no message.
const (
	msgFetchBooks      = "Could not fetch books"
	msgRecommendations = "Could not fetch recommendations"
	msgCreateBook      = "Could not create book"
	msgRateBook        = "Could not rate book"
	msgLogin           = "Could not login"
	msgRegister        = "Could not register"
	msgLoadUsers       = "Could not load users"
	msgLoggedIn        = "Logged in"
)

// LoadPage fetches page p of the active mode: the browse listing, or page p
// of the current search.
func (e *Engine) LoadPage(ctx context.Context, page int) {
	if page < 0 {
		page = 0
	}
	var (
		mode catalog.Mode
		term string
	)
	e.read(func(s *catalog.State) {
		mode = s.Mode()
		term = s.SearchTerm()
	})
	if mode == catalog.ModeSearch {
		e.searchPage(ctx, term, page)
		return
	}
	e.browsePage(ctx, page)
}

func (e *Engine) browsePage(ctx context.Context, page int) {
	var seq uint64
	run(ctx, e, operation[[]catalog.Book]{
		name:     "list books",
		fallback: msgFetchBooks,
		start:    func() { seq = e.state.StartLoading(page) },
		call: func(ctx context.Context) ([]catalog.Book, error) {
			return e.transport.ListBooks(ctx, page)
		},
		succeed: func(books []catalog.Book) bool { return e.state.LoadSucceeded(seq, page, books) },
		fail:    func(err error) bool { return e.state.LoadFailed(seq, page, err) },
	})
}

// searchPage fetches a further page of term. Page 0 starts a new search.
func (e *Engine) searchPage(ctx context.Context, term string, page int) {
	var seq uint64
	run(ctx, e, operation[[]catalog.Book]{
		name:     "search books",
		fallback: msgFetchBooks,
		start: func() {
			if page == 0 {
				seq = e.state.StartSearching()
				return
			}
			seq = e.state.StartSearchingPage(page)
		},
		call: func(ctx context.Context) ([]catalog.Book, error) {
			return e.transport.SearchBooks(ctx, term, page)
		},
		succeed: func(books []catalog.Book) bool { return e.state.SearchSucceeded(seq, page, books) },
		fail:    func(err error) bool { return e.state.SearchFailed(seq, page, err) },
	})
}

// SetPage navigates to page p (clamped at 0) and loads it unless the store
// already covers it.
func (e *Engine) SetPage(ctx context.Context, page int) {
	var satisfied bool
	e.update(func() {
		page = e.state.SetPage(page)
		satisfied = e.state.PageSatisfied(page)
	})
	if !satisfied {
		e.LoadPage(ctx, page)
	}
}

// NextPage moves one page forward.
func (e *Engine) NextPage(ctx context.Context) {
	e.SetPage(ctx, e.Snapshot().CurrentPage+1)
}

// PrevPage moves one page back; it stays on page 0.
func (e *Engine) PrevPage(ctx context.Context) {
	e.SetPage(ctx, e.Snapshot().CurrentPage-1)
}

// SetSearchTerm updates the visible term immediately and schedules the search
// for when typing pauses. Each call cancels the previously scheduled one.
func (e *Engine) SetSearchTerm(term string) {
	e.update(func() { e.state.SetSearchTerm(term) })
	e.debouncer.Trigger(e.fireSearch)
}

// Search sets term and searches right away, dropping any search still
// waiting for the debounce window. An empty term reloads the first browse
// page.
func (e *Engine) Search(ctx context.Context, term string) {
	e.debouncer.Cancel()
	e.update(func() { e.state.SetSearchTerm(term) })
	if term == "" {
		e.browsePage(ctx, 0)
		return
	}
	e.searchPage(ctx, term, 0)
}

// fireSearch runs when the debounce window closes. It acts on the term
// current at that moment: an empty term reloads the first browse page.
func (e *Engine) fireSearch() {
	var term string
	e.read(func(s *catalog.State) { term = s.SearchTerm() })
	if e.ctx.Err() != nil {
		return
	}
	if term == "" {
		e.browsePage(e.ctx, 0)
		return
	}
	e.searchPage(e.ctx, term, 0)
}

// FetchRecommendations selects title and shows its recommendations, asking
// the server only when the list is not cached. Concurrent requests for one
// title share a single server call.
func (e *Engine) FetchRecommendations(ctx context.Context, title string) {
	var cached bool
	e.update(func() {
		e.state.StartRecommend(title)
		if _, cached = e.state.CachedRecommendations(title); cached {
			e.state.RecommendServedFromCache(title)
		}
	})
	if cached {
		e.logger.Debug("Recommendations served from cache", "title", title)
		return
	}

	_, _, _ = e.recommendations.Do(title, func() (any, error) {
		var resolved bool
		e.read(func(s *catalog.State) { _, resolved = s.CachedRecommendations(title) })
		if resolved {
			// an earlier flight finished after this caller missed the cache
			e.update(func() { e.state.RecommendServedFromCache(title) })
			return nil, nil
		}
		run(ctx, e, operation[[]catalog.Book]{
			name:     "get recommendations",
			fallback: msgRecommendations,
			call: func(ctx context.Context) ([]catalog.Book, error) {
				return e.transport.Recommendations(ctx, title)
			},
			succeed: always(func(books []catalog.Book) { e.state.RecommendSucceeded(title, books) }),
			fail:    always(func(err error) { e.state.RecommendFailed(title, err) }),
		})
		return nil, nil
	})
}

// ClearSelection closes the recommendation panel. The cache is kept.
func (e *Engine) ClearSelection() {
	e.update(e.state.ClearSelection)
}

// CreateBook submits a new book. Input is validated before anything is sent.
func (e *Engine) CreateBook(ctx context.Context, book catalog.NewBook) {
	run(ctx, e, operation[catalog.Book]{
		name:     "create book",
		fallback: msgCreateBook,
		start:    e.state.StartCreating,
		call: func(ctx context.Context) (catalog.Book, error) {
			if err := catalog.ValidateNewBook(book); err != nil {
				return catalog.Book{}, err
			}
			return e.transport.CreateBook(ctx, book)
		},
		succeed: always(e.state.CreateSucceeded),
		fail:    always(e.state.CreateFailed),
	})
}

// RateBook records a 1 to 5 rating for bookID. userID may be nil to rate as
// the session user.
func (e *Engine) RateBook(ctx context.Context, bookID, rating int, userID *int) {
	req := catalog.RatingRequest{BookID: bookID, Rating: rating, UserID: userID}
	run(ctx, e, operation[catalog.Rating]{
		name:     "rate book",
		fallback: msgRateBook,
		start:    e.state.StartRating,
		call: func(ctx context.Context) (catalog.Rating, error) {
			if err := catalog.ValidateRating(req); err != nil {
				return catalog.Rating{}, err
			}
			return e.transport.CreateRating(ctx, req)
		},
		succeed: always(func(catalog.Rating) { e.state.RateSucceeded() }),
		fail:    always(e.state.RateFailed),
	})
}

// Accounts returns a copy of the session state.
func (e *Engine) Accounts() account.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.accounts.Clone()
}

// Login opens a session. The transport keeps the session cookie.
func (e *Engine) Login(ctx context.Context, username, password string) {
	run(ctx, e, operation[struct{}]{
		name:     "login",
		fallback: msgLogin,
		success:  msgLoggedIn,
		start:    e.accounts.StartLogin,
		call: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, e.transport.Login(ctx, username, password)
		},
		succeed: always(func(struct{}) { e.accounts.LoginSucceeded() }),
		fail:    always(e.accounts.LoginFailed),
	})
}

// Register creates an account and logs it in.
func (e *Engine) Register(ctx context.Context, username, password string) {
	run(ctx, e, operation[struct{}]{
		name:     "register",
		fallback: msgRegister,
		success:  msgLoggedIn,
		start:    e.accounts.StartRegistration,
		call: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, e.transport.Register(ctx, username, password)
		},
		succeed: always(func(struct{}) { e.accounts.RegistrationSucceeded() }),
		fail:    always(e.accounts.RegistrationFailed),
	})
}

// LoadUsers fetches the admin user list.
func (e *Engine) LoadUsers(ctx context.Context) {
	run(ctx, e, operation[[]account.User]{
		name:     "load users",
		fallback: msgLoadUsers,
		start:    e.accounts.StartLoadingUsers,
		call:     e.transport.LoadUsers,
		succeed:  always(e.accounts.UsersLoaded),
		fail:     always(e.accounts.LoadingUsersFailed),
	})
}
