package domain

import "fmt"

const (
	NoticeMissingFields   = "Please enter a name and a quantity"
	NoticeInvalidQuantity = "Please enter a valid quantity"
)

// Submission holds the raw text of the two form fields.
type Submission struct {
	Product  string
	Quantity string
}

// Result describes an accepted submission.
type Result struct {
	Product   string
	Added     int
	Total     int
	Inventory Inventory
	Display   string
	Notice    string
}

func NoticeAdded(product string) string {
	return fmt.Sprintf("Product added: %s", product)
}
