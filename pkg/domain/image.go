package domain

// Image is a gallery picture attached to a destination.
type Image struct {
	ID            int    `json:"id_gambar"`
	DestinationID int    `json:"id_destinasi"`
	URL           string `json:"url_gambar"`
	Caption       string `json:"keterangan,omitempty"`
}
