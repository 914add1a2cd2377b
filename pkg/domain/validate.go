package domain

import (
	"strings"
	"unicode/utf8"
)

// Minimum lengths enforced before anything is sent to the backend.
const (
	MinNameLen     = 3
	MinPasswordLen = 6
	MinCommentLen  = 5
)

// ValidationError reports a client-side check that failed before submission.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

func tooShort(s string, n int) bool {
	return utf8.RuneCountInString(strings.TrimSpace(s)) < n
}

func validEmail(email string) bool {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1
}

// ValidateLogin checks the login form.
func ValidateLogin(email, password string) error {
	if strings.TrimSpace(email) == "" {
		return invalid("email", "Email wajib diisi")
	}
	if !validEmail(email) {
		return invalid("email", "Format email tidak valid")
	}
	if password == "" {
		return invalid("kata_sandi", "Kata sandi wajib diisi")
	}
	return nil
}

// ValidateRegistration checks the registration form, including the
// password confirmation which is never sent to the backend.
func ValidateRegistration(name, email, password, confirm string) error {
	if tooShort(name, MinNameLen) {
		return invalid("nama", "Nama minimal 3 karakter")
	}
	if !validEmail(email) {
		return invalid("email", "Format email tidak valid")
	}
	if utf8.RuneCountInString(password) < MinPasswordLen {
		return invalid("kata_sandi", "Kata sandi minimal 6 karakter")
	}
	if password != confirm {
		return invalid("konfirmasi", "Konfirmasi kata sandi tidak cocok")
	}
	return nil
}

// ValidateDestination checks a destination before create or update.
func ValidateDestination(d Destination) error {
	switch {
	case strings.TrimSpace(d.Name) == "":
		return invalid("nama_destinasi", "Nama destinasi wajib diisi")
	case strings.TrimSpace(d.Description) == "":
		return invalid("deskripsi", "Deskripsi wajib diisi")
	case strings.TrimSpace(d.Location) == "":
		return invalid("lokasi", "Lokasi wajib diisi")
	case d.TicketPrice < 0:
		return invalid("harga_tiket", "Harga tiket tidak boleh negatif")
	case d.CategoryID <= 0:
		return invalid("id_kategori", "Kategori wajib dipilih")
	}
	return nil
}

// ValidateCategory checks a category before create or update.
func ValidateCategory(c Category) error {
	if tooShort(c.Name, MinNameLen) {
		return invalid("nama_kategori", "Nama kategori minimal 3 karakter")
	}
	return nil
}

// ValidateImage checks an image before upload of its URL.
func ValidateImage(img Image) error {
	if img.DestinationID <= 0 {
		return invalid("id_destinasi", "Destinasi wajib dipilih")
	}
	u := strings.TrimSpace(img.URL)
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return invalid("url_gambar", "URL gambar harus diawali http:// atau https://")
	}
	return nil
}

// ValidateReview checks a review before submission.
func ValidateReview(rating int, comment string) error {
	if rating < MinRating || rating > MaxRating {
		return invalid("rating", "Rating harus antara 1 dan 5")
	}
	if tooShort(comment, MinCommentLen) {
		return invalid("komentar", "Komentar minimal 5 karakter")
	}
	return nil
}

// ValidateUser checks an admin or profile edit. An empty password or role
// means "leave unchanged".
func ValidateUser(u User) error {
	if tooShort(u.Name, MinNameLen) {
		return invalid("nama", "Nama minimal 3 karakter")
	}
	if !validEmail(u.Email) {
		return invalid("email", "Format email tidak valid")
	}
	if u.Role != "" && !ValidRole(u.Role) {
		return invalid("peran", "Peran harus admin atau pengguna")
	}
	if u.Password != "" && utf8.RuneCountInString(u.Password) < MinPasswordLen {
		return invalid("kata_sandi", "Kata sandi minimal 6 karakter")
	}
	return nil
}
