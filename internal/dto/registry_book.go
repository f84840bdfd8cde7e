package dto

// OpenRegistryBookRequest payload for opening a new registry book.
type OpenRegistryBookRequest struct {
	BookNumber      string `json:"book_number" validate:"required"`
	Year            int    `json:"year" validate:"required,gte=1900,lte=2200"`
	StorageLocation string `json:"storage_location"`
}

// RegistryBookQuery mirrors supported listing filters.
type RegistryBookQuery struct {
	Year     int
	IsClosed *bool
	Page     int
	PageSize int
}
