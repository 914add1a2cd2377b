package tui

import (
	"errors"

	"github.com/naveenspark/wisata/internal/catalog"
	"github.com/naveenspark/wisata/internal/session"
	"github.com/naveenspark/wisata/pkg/client"
	"github.com/naveenspark/wisata/pkg/domain"
)

const (
	msgLoading        = "memuat…"
	msgSessionExpired = "Sesi Anda telah berakhir, silakan login kembali"
	msgForbidden      = "Anda tidak memiliki izin untuk aksi ini"
	msgAdminRequired  = "Akses admin diperlukan"
	msgUnreachable    = "Tidak dapat terhubung ke server"
	msgNotFound       = "Data tidak ditemukan"
	msgGeneric        = "Terjadi kesalahan, silakan coba lagi"
	msgLoadFailed     = "Gagal memuat data"
	msgDeleteFailed   = "Gagal menghapus data"
	msgSaved          = "Data berhasil disimpan"
	msgDeleted        = "Data berhasil dihapus"
	msgLoginFirst     = "Silakan login terlebih dahulu"
	msgLoggedOut      = "Anda telah keluar"
)

// common covers the failures every action reports the same way.
func common(err error) (string, bool) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr.Message, true
	}
	var fail *session.Failure
	if errors.As(err, &fail) {
		return fail.Message, true
	}
	switch client.Classify(err) {
	case client.KindLoginRequired:
		return client.ErrLoginRequired.Error(), true
	case client.KindUnauthorized:
		return msgSessionExpired, true
	case client.KindNetwork:
		return msgUnreachable, true
	}
	return "", false
}

// formMessage maps a submission failure to what a form shows.
func formMessage(err error) string {
	if msg, ok := common(err); ok {
		return msg
	}
	switch client.Classify(err) {
	case client.KindForbidden:
		return msgForbidden
	case client.KindValidation:
		if m := client.ServerMessage(err); m != "" {
			return m
		}
	case client.KindNotFound:
		return msgNotFound
	}
	return msgGeneric
}

// deleteMessage maps a failed delete.
func deleteMessage(err error) string {
	if msg, ok := common(err); ok {
		return msg
	}
	if client.Classify(err) == client.KindForbidden {
		return msgAdminRequired
	}
	return msgDeleteFailed
}

// loadMessage maps a failed fetch.
func loadMessage(err error) string {
	if msg, ok := common(err); ok {
		return msg
	}
	switch {
	case errors.Is(err, catalog.ErrNotFound), client.Classify(err) == client.KindNotFound:
		return msgNotFound
	case client.Classify(err) == client.KindForbidden:
		return msgAdminRequired
	}
	return msgLoadFailed
}
