package catalog

import (
	"fmt"

	"github.com/naveenspark/wisata/pkg/domain"
)

// Rating accumulates review scores for one destination.
type Rating struct {
	Count int
	Sum   int
}

// Add records one score.
func (r *Rating) Add(score int) {
	r.Count++
	r.Sum += score
}

// tenths is the average in tenths, rounded half-up.
func (r Rating) tenths() int {
	if r.Count == 0 {
		return 0
	}
	return (20*r.Sum + r.Count) / (2 * r.Count)
}

// Average returns the mean score rounded to one decimal. Zero when there are no reviews.
func (r Rating) Average() float64 {
	return float64(r.tenths()) / 10
}

// String formats the average with exactly one decimal, e.g. "4.5" or "0.0".
func (r Rating) String() string {
	t := r.tenths()
	return fmt.Sprintf("%d.%d", t/10, t%10)
}

// Stars renders the average as a five-slot star bar.
func (r Rating) Stars() string {
	full := (r.tenths() + 5) / 10
	out := make([]rune, 0, domain.MaxRating)
	for i := 0; i < domain.MaxRating; i++ {
		if i < full {
			out = append(out, '★')
		} else {
			out = append(out, '☆')
		}
	}
	return string(out)
}

// RatingOf sums a review list.
func RatingOf(reviews []domain.Review) Rating {
	var r Rating
	for _, rv := range reviews {
		r.Add(rv.Rating)
	}
	return r
}

// Summarize groups reviews by destination.
func Summarize(reviews []domain.Review) map[int]Rating {
	out := make(map[int]Rating)
	for _, rv := range reviews {
		r := out[rv.DestinationID]
		r.Add(rv.Rating)
		out[rv.DestinationID] = r
	}
	return out
}
