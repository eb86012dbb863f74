package transport

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/lepinkainen/shelf/internal/catalog"
)

// ListBooks fetches one page of the catalog listing.
func (c *Client) ListBooks(ctx context.Context, page int) ([]catalog.Book, error) {
	return c.SearchBooks(ctx, "", page)
}

// SearchBooks fetches one page of books matching query. An empty query
// lists the catalog.
func (c *Client) SearchBooks(ctx context.Context, query string, page int) ([]catalog.Book, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	op := "list books"
	if query != "" {
		params.Set("q", query)
		op = "search books"
	}

	var books []catalog.Book
	if err := c.do(ctx, op, http.MethodGet, c.paths.Books, params, nil, &books); err != nil {
		return nil, err
	}
	return nonNil(books), nil
}

// Recommendations fetches the books recommended for a title.
func (c *Client) Recommendations(ctx context.Context, title string) ([]catalog.Book, error) {
	params := url.Values{}
	params.Set("title", title)

	var books []catalog.Book
	if err := c.do(ctx, "get recommendations", http.MethodGet, c.paths.Recommendation, params, nil, &books); err != nil {
		return nil, err
	}
	return nonNil(books), nil
}

// CreateBook creates a book and returns it with its server-assigned ID.
func (c *Client) CreateBook(ctx context.Context, book catalog.NewBook) (catalog.Book, error) {
	var created catalog.Book
	if err := c.do(ctx, "create book", http.MethodPost, c.paths.CreateBook, nil, book, &created); err != nil {
		return catalog.Book{}, err
	}
	return created, nil
}

// CreateRating submits a rating and returns the stored record.
func (c *Client) CreateRating(ctx context.Context, rating catalog.RatingRequest) (catalog.Rating, error) {
	var stored catalog.Rating
	if err := c.do(ctx, "rate book", http.MethodPost, c.paths.CreateRating, nil, rating, &stored); err != nil {
		return catalog.Rating{}, err
	}
	return stored, nil
}

func nonNil(books []catalog.Book) []catalog.Book {
	if books == nil {
		return []catalog.Book{}
	}
	return books
}
