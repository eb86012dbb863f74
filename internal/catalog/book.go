// Package catalog holds the normalized in-memory book catalog and the state
// transitions that keep it consistent across overlapping requests.
package catalog

// PageSize is the number of books the server returns per page.
const PageSize = 24

// Book is a catalog record. IDs are assigned by the server and never change.
type Book struct {
	ID              int      `json:"id"`
	Title           string   `json:"title"`
	OriginalTitle   string   `json:"originalTitle"`
	Authors         []string `json:"authors"`
	PublicationYear int      `json:"publicationYear"`
	AverageRating   float64  `json:"averageRating"`
	ImageURL        string   `json:"imageUrl"`
}

// NewBook carries the fields of a book that has not been created yet.
type NewBook struct {
	Title           string   `json:"title" validate:"required"`
	OriginalTitle   string   `json:"originalTitle" validate:"required"`
	Authors         []string `json:"authors" validate:"required,min=1,dive,required"`
	PublicationYear int      `json:"publicationYear" validate:"required"`
	AverageRating   float64  `json:"averageRating" validate:"gte=0,lte=5"`
	ImageURL        string   `json:"imageUrl" validate:"required,url"`
}

// RatingRequest is a user rating submitted for a book.
type RatingRequest struct {
	BookID int  `json:"book_id" validate:"required,gt=0"`
	Rating int  `json:"rating" validate:"required,min=1,max=5"`
	UserID *int `json:"user_id,omitempty"`
}

// Rating is the rating record echoed back by the server.
type Rating struct {
	BookID int `json:"book_id"`
	UserID int `json:"user_id"`
	Rating int `json:"rating"`
}

func cloneBook(b Book) Book {
	if b.Authors != nil {
		b.Authors = append([]string(nil), b.Authors...)
	}
	return b
}

func cloneBooks(books []Book) []Book {
	if books == nil {
		return nil
	}
	out := make([]Book, len(books))
	for i, b := range books {
		out[i] = cloneBook(b)
	}
	return out
}
