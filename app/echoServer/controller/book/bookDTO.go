package book

// BookReq is the create/update payload. Category is optional, matching
// the catalog form.
type BookReq struct {
	Title    string `json:"title" validate:"required"`
	Author   string `json:"author" validate:"required"`
	Category string `json:"category"`
}
