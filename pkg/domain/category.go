package domain

// Category groups destinations.
type Category struct {
	ID          int    `json:"id_kategori"`
	Name        string `json:"nama_kategori"`
	Description string `json:"deskripsi,omitempty"`
}
