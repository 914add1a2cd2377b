package domain

// Destination is a tourist location listed in the catalog.
type Destination struct {
	ID          int       `json:"id_destinasi"`
	Name        string    `json:"nama_destinasi"`
	Description string    `json:"deskripsi"`
	Location    string    `json:"lokasi"`
	ImageURL    string    `json:"url_gambar,omitempty"`
	OpeningTime string    `json:"jam_buka,omitempty"`
	TicketPrice float64   `json:"harga_tiket"`
	CategoryID  int       `json:"id_kategori"`
	Category    *Category `json:"kategori,omitempty"`
}

// CategoryName returns the embedded category name, if the backend sent one.
func (d Destination) CategoryName() string {
	if d.Category == nil {
		return ""
	}
	return d.Category.Name
}
