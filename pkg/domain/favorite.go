package domain

// Favorite is a user's bookmark of a destination.
type Favorite struct {
	ID            int        `json:"id_favorit"`
	DestinationID int        `json:"id_destinasi"`
	UserID        int        `json:"id_pengguna"`
	Destination   *Reference `json:"destinasi,omitempty"`
}
