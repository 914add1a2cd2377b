package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestValidateLogin(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		password  string
		wantField string
	}{
		{"ok", "a@b.com", "secret1", ""},
		{"empty email", "", "secret1", "email"},
		{"no at", "ab.com", "secret1", "email"},
		{"trailing at", "ab@", "secret1", "email"},
		{"empty password", "a@b.com", "", "kata_sandi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLogin(tt.email, tt.password)
			checkField(t, err, tt.wantField)
		})
	}
}

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name      string
		nama      string
		email     string
		password  string
		confirm   string
		wantField string
	}{
		{"ok", "Budi", "budi@x.id", "rahasia", "rahasia", ""},
		{"short name", "Bu", "budi@x.id", "rahasia", "rahasia", "nama"},
		{"bad email", "Budi", "budi", "rahasia", "rahasia", "email"},
		{"short password", "Budi", "budi@x.id", "123", "123", "kata_sandi"},
		{"mismatch", "Budi", "budi@x.id", "rahasia", "rahasia2", "konfirmasi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegistration(tt.nama, tt.email, tt.password, tt.confirm)
			checkField(t, err, tt.wantField)
		})
	}
}

func TestValidateDestination(t *testing.T) {
	ok := Destination{Name: "Pantai Kuta", Description: "Pantai pasir putih", Location: "Bali", TicketPrice: 10000, CategoryID: 1}
	checkField(t, ValidateDestination(ok), "")

	noCat := ok
	noCat.CategoryID = 0
	checkField(t, ValidateDestination(noCat), "id_kategori")

	negative := ok
	negative.TicketPrice = -1
	checkField(t, ValidateDestination(negative), "harga_tiket")

	noLoc := ok
	noLoc.Location = "  "
	checkField(t, ValidateDestination(noLoc), "lokasi")
}

func TestValidateReview(t *testing.T) {
	tests := []struct {
		rating    int
		comment   string
		wantField string
	}{
		{5, "Bagus sekali", ""},
		{0, "Bagus sekali", "rating"},
		{6, "Bagus sekali", "rating"},
		{3, "ok", "komentar"},
	}
	for _, tt := range tests {
		checkField(t, ValidateReview(tt.rating, tt.comment), tt.wantField)
	}
}

func TestValidateImageAndCategory(t *testing.T) {
	checkField(t, ValidateImage(Image{DestinationID: 1, URL: "https://img.example/a.jpg"}), "")
	checkField(t, ValidateImage(Image{DestinationID: 1, URL: "ftp://img"}), "url_gambar")
	checkField(t, ValidateImage(Image{URL: "https://img"}), "id_destinasi")
	checkField(t, ValidateCategory(Category{Name: "Alam"}), "")
	checkField(t, ValidateCategory(Category{Name: "Al"}), "nama_kategori")
}

func TestValidateUser(t *testing.T) {
	base := User{Name: "Sari", Email: "sari@x.id"}
	checkField(t, ValidateUser(base), "")

	withRole := base
	withRole.Role = "superuser"
	checkField(t, ValidateUser(withRole), "peran")

	withPassword := base
	withPassword.Password = "abc"
	checkField(t, ValidateUser(withPassword), "kata_sandi")
}

func TestSessionSerializesFlat(t *testing.T) {
	s := Session{User: User{ID: 1, Name: "A", Email: "a@b.com", Role: RoleUser}, Token: "tok123"}
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(data)
	for _, want := range []string{`"id_pengguna":1`, `"peran":"pengguna"`, `"token":"tok123"`} {
		if !strings.Contains(got, want) {
			t.Errorf("session JSON %s missing %s", got, want)
		}
	}
	if strings.Contains(got, "kata_sandi") {
		t.Errorf("session JSON leaks password field: %s", got)
	}
}

func checkField(t *testing.T, err error, wantField string) {
	t.Helper()
	if wantField == "" {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want *ValidationError on %q", err, wantField)
	}
	if verr.Field != wantField {
		t.Errorf("field = %q, want %q", verr.Field, wantField)
	}
}
