package borrow

// BorrowReq carries the book to borrow and an optional due date
// (YYYY-MM-DD, caller supplied).
type BorrowReq struct {
	BookID     int64   `json:"book_id" validate:"required,gt=0"`
	ReturnDate *string `json:"return_date"`
}

// UpdateBorrowReq only ever moves a record to returned.
type UpdateBorrowReq struct {
	Status string `json:"status" validate:"required,eq=returned"`
}
