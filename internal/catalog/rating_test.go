package catalog

import (
	"testing"

	"github.com/naveenspark/wisata/pkg/domain"
)

func TestRatingString(t *testing.T) {
	tests := []struct {
		scores []int
		want   string
	}{
		{nil, "0.0"},
		{[]int{5}, "5.0"},
		{[]int{4, 5}, "4.5"},
		{[]int{4, 4, 4, 5}, "4.3"},
		{[]int{1, 1, 2}, "1.3"},
		{[]int{2, 2, 1}, "1.7"},
		{[]int{3, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4}, "4.0"},
		// 4.25 rounds up
		{[]int{4, 4, 4, 5, 4, 4, 4, 5}, "4.3"},
		{[]int{4, 4, 5, 4}, "4.3"},
		{[]int{1, 1, 1, 2}, "1.3"},
	}
	for _, tt := range tests {
		var r Rating
		for _, s := range tt.scores {
			r.Add(s)
		}
		if got := r.String(); got != tt.want {
			t.Errorf("Rating%v = %q, want %q", tt.scores, got, tt.want)
		}
	}
}

func TestRatingAverage(t *testing.T) {
	r := Rating{Count: 2, Sum: 9}
	if got := r.Average(); got != 4.5 {
		t.Errorf("Average() = %v, want 4.5", got)
	}
	if got := (Rating{}).Average(); got != 0 {
		t.Errorf("empty Average() = %v, want 0", got)
	}
}

func TestRatingStars(t *testing.T) {
	if got := (Rating{Count: 2, Sum: 9}).Stars(); got != "★★★★★" {
		t.Errorf("Stars(4.5) = %q", got)
	}
	if got := (Rating{Count: 1, Sum: 3}).Stars(); got != "★★★☆☆" {
		t.Errorf("Stars(3.0) = %q", got)
	}
	if got := (Rating{}).Stars(); got != "☆☆☆☆☆" {
		t.Errorf("Stars(0) = %q", got)
	}
}

func TestSummarize(t *testing.T) {
	reviews := []domain.Review{
		{DestinationID: 1, Rating: 4},
		{DestinationID: 2, Rating: 2},
		{DestinationID: 1, Rating: 5},
	}
	got := Summarize(reviews)
	if got[1] != (Rating{Count: 2, Sum: 9}) {
		t.Errorf("destination 1 = %+v", got[1])
	}
	if got[2] != (Rating{Count: 1, Sum: 2}) {
		t.Errorf("destination 2 = %+v", got[2])
	}
	if _, ok := got[3]; ok {
		t.Error("destination 3 should be absent")
	}
}
