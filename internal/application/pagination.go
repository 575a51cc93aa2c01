package application

const (
	DefaultItemsPerPage = 30
	MaxItemsPerPage     = 100
)

// Page is one slice of a collection plus the numbers needed to fetch the next.
type Page[T any] struct {
	Items        []T
	Total        int
	Page         int
	ItemsPerPage int
}

// paginate normalizes page/itemsPerPage and returns limit and offset.
func paginate(page, perPage int) (limit, offset, normPage, normPerPage int, err error) {
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return 0, 0, 0, 0, NewValidationError("page", "must be at least 1")
	}
	if perPage == 0 {
		perPage = DefaultItemsPerPage
	}
	if perPage < 1 {
		return 0, 0, 0, 0, NewValidationError("itemsPerPage", "must be at least 1")
	}
	if perPage > MaxItemsPerPage {
		perPage = MaxItemsPerPage
	}
	return perPage, (page - 1) * perPage, page, perPage, nil
}
