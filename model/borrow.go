// model/borrow.go
package model

import "time"

type BorrowStatus string

const (
	BorrowActive   BorrowStatus = "borrowed"
	BorrowReturned BorrowStatus = "returned"
)

// BorrowRecord is one ledger entry. ReturnDate is the caller-supplied due
// date, not the moment the book actually came back; only Status moves
// after insert.
type BorrowRecord struct {
	ID         int64        `json:"id"`
	BookID     int64        `json:"book_id"`
	UserID     int64        `json:"user_id"`
	BorrowDate time.Time    `json:"borrow_date"`
	ReturnDate *string      `json:"return_date,omitempty"`
	Status     BorrowStatus `json:"status"`
}
