package usecase

const (
	// DefaultPageLimit は limit 未指定時の件数です。
	DefaultPageLimit = 20
	// MaxPageLimit はページサイズの上限です。
	MaxPageLimit = 100
)

// Page is a 1-based page request.
type Page struct {
	Number int
	Limit  int
}

// NewPage は number と limit を有効な範囲に丸めます。
func NewPage(number, limit int) Page {
	if number < 1 {
		number = 1
	}
	switch {
	case limit <= 0:
		limit = DefaultPageLimit
	case limit > MaxPageLimit:
		limit = MaxPageLimit
	}
	return Page{Number: number, Limit: limit}
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}
