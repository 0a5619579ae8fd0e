// model/book.go
package model

import "time"

type BookStatus string

const (
	BookAvailable BookStatus = "available"
	BookBorrowed  BookStatus = "borrowed"
)

type Book struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Author    string     `json:"author"`
	Category  string     `json:"category"`
	Status    BookStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}
