package datastore

import (
	"log/slog"

	"github.com/lepinkainen/shelf/internal/catalog"
)

// BooksTable is the table written by ExportBooks.
const BooksTable = "books"

// BooksSchema is the schema of BooksTable.
const BooksSchema = `CREATE TABLE IF NOT EXISTS books (
	id INTEGER PRIMARY KEY,
	title TEXT NOT NULL,
	original_title TEXT,
	authors TEXT,
	publication_year INTEGER,
	average_rating REAL,
	image_url TEXT
)`

var bookRecordOptions = RecordOptions{SliceSeparator: ", "}

// ExportBooks writes books to store, replacing rows with the same id.
// Authors are stored comma separated.
func ExportBooks(store Store, books []catalog.Book) error {
	if err := store.CreateTable(BooksSchema); err != nil {
		return err
	}

	records := ToRecords(books, bookRecordOptions)
	if err := store.BatchInsert(BooksTable, records); err != nil {
		return err
	}
	slog.Info("Exported books", "count", len(records))
	return nil
}
