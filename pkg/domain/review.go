package domain

import "time"

// Rating bounds for a review.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a star rating plus comment left by a user on a destination.
type Review struct {
	ID            int        `json:"id_ulasan"`
	DestinationID int        `json:"id_destinasi"`
	UserID        int        `json:"id_pengguna"`
	Rating        int        `json:"rating"`
	Comment       string     `json:"komentar"`
	CreatedAt     time.Time  `json:"tanggal"`
	Author        *Author    `json:"pengguna,omitempty"`
	Destination   *Reference `json:"destinasi,omitempty"`
}

// Author is the reviewer summary embedded in review responses.
type Author struct {
	Name string `json:"nama"`
}

// Reference is a destination summary embedded in favorite and review responses.
type Reference struct {
	Name string `json:"nama_destinasi"`
}

// RatingStat is one row of the backend's per-destination rating statistics.
type RatingStat struct {
	DestinationID   int     `json:"id_destinasi"`
	DestinationName string  `json:"nama_destinasi"`
	Average         float64 `json:"rata_rata"`
	Count           int     `json:"jumlah_ulasan"`
}

// AuthorName returns the embedded reviewer name or a placeholder.
func (r Review) AuthorName() string {
	if r.Author == nil || r.Author.Name == "" {
		return "anonim"
	}
	return r.Author.Name
}
