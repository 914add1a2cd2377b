package tui

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/naveenspark/wisata/internal/apitest"
	"github.com/naveenspark/wisata/internal/catalog"
	"github.com/naveenspark/wisata/pkg/client"
	"github.com/naveenspark/wisata/pkg/domain"
)

func TestCategoryDeleteWithoutSessionMakesNoRequest(t *testing.T) {
	srv := apitest.New(t)
	cat := srv.AddCategory("Pantai")
	deps := newTestDeps(t, srv, nil)

	var p page = newAdminListPage(testBase(deps), categoriesResource)
	p, _ = p.Update(rowsLoadedMsg{rows: []row{{id: cat.ID, cells: []string{"Pantai", ""}}}})
	p, _ = p.Update(key("d"))
	if !p.Capturing() {
		t.Fatal("delete should ask for confirmation first")
	}
	p, cmd := p.Update(key("y"))
	p, _ = runPage(t, p, cmd)

	if !strings.Contains(p.View(), "Anda harus login untuk melakukan aksi ini") {
		t.Errorf("missing login message:\n%s", p.View())
	}
	if n := srv.TotalHits(); n != 0 {
		t.Errorf("requests = %d, want 0", n)
	}
	if _, ok := srv.Category(cat.ID); !ok {
		t.Error("category should still exist")
	}
}

func TestCategoryDeleteCancelled(t *testing.T) {
	srv := apitest.New(t)
	admin := loginAs(srv, "Sari", "sari@example.com", domain.RoleAdmin)
	cat := srv.AddCategory("Pantai")
	deps := newTestDeps(t, srv, admin)

	var p page = newAdminListPage(testBase(deps), categoriesResource)
	p, _ = runPage(t, p, p.Init())
	p, _ = p.Update(key("d"))
	p, cmd := p.Update(key("n"))

	if cmd != nil {
		t.Error("cancel should not issue a request")
	}
	if p.Capturing() {
		t.Error("confirmation should be closed")
	}
	if _, ok := srv.Category(cat.ID); !ok {
		t.Error("category should still exist")
	}
}

func TestCategoryDeleteAsAdminRefetches(t *testing.T) {
	srv := apitest.New(t)
	admin := loginAs(srv, "Sari", "sari@example.com", domain.RoleAdmin)
	cat := srv.AddCategory("Pantai")
	srv.AddCategory("Gunung")
	deps := newTestDeps(t, srv, admin)

	var p page = newAdminListPage(testBase(deps), categoriesResource)
	p, _ = runPage(t, p, p.Init())
	p, _ = p.Update(key("d"))
	p, cmd := p.Update(key("y"))
	p, _ = runPage(t, p, cmd)

	if _, ok := srv.Category(cat.ID); ok {
		t.Error("category should be deleted")
	}
	if n := srv.Hits("GET", "/api/kategori"); n != 2 {
		t.Errorf("list fetches = %d, want 2 (initial + refetch)", n)
	}
	view := p.View()
	if strings.Contains(view, "Pantai") || !strings.Contains(view, "Gunung") {
		t.Errorf("list not refreshed:\n%s", view)
	}
	if !strings.Contains(view, msgDeleted) {
		t.Errorf("missing success message:\n%s", view)
	}
}

func TestDeleteForbiddenShowsAdminRequired(t *testing.T) {
	srv := apitest.New(t)
	user := loginAs(srv, "Budi", "budi@example.com", domain.RoleUser)
	cat := srv.AddCategory("Pantai")
	deps := newTestDeps(t, srv, user)

	var p page = newAdminListPage(testBase(deps), categoriesResource)
	p, _ = p.Update(rowsLoadedMsg{rows: []row{{id: cat.ID, cells: []string{"Pantai", ""}}}})
	p, _ = p.Update(key("d"))
	p, cmd := p.Update(key("y"))
	p, _ = runPage(t, p, cmd)

	if !strings.Contains(p.View(), msgAdminRequired) {
		t.Errorf("missing 403 message:\n%s", p.View())
	}
	if n := srv.Hits("GET", "/api/kategori"); n != 0 {
		t.Errorf("failed delete should not refetch, got %d fetches", n)
	}
}

func TestAdminListLoadFailureShowsInlineError(t *testing.T) {
	srv := apitest.New(t)
	admin := loginAs(srv, "Sari", "sari@example.com", domain.RoleAdmin)
	srv.AddDestination(domain.Destination{Name: "Kuta"})
	srv.Fail("GET", "/api/destinasi", http.StatusInternalServerError)
	deps := newTestDeps(t, srv, admin)

	var p page = newAdminListPage(testBase(deps), destinationsResource)
	p, _ = runPage(t, p, p.Init())

	view := p.View()
	if !strings.Contains(view, msgLoadFailed) {
		t.Errorf("missing inline error:\n%s", view)
	}
	if strings.Contains(view, "Kuta") {
		t.Errorf("failed load should show an empty list:\n%s", view)
	}
	if n := srv.Hits("GET", "/api/destinasi"); n != 1 {
		t.Errorf("fetches = %d, want 1 (no automatic retry)", n)
	}
}

func TestAdminListNavigation(t *testing.T) {
	srv := apitest.New(t)
	admin := loginAs(srv, "Sari", "sari@example.com", domain.RoleAdmin)
	srv.AddCategory("Pantai")
	c2 := srv.AddCategory("Gunung")
	deps := newTestDeps(t, srv, admin)

	var p page = newAdminListPage(testBase(deps), categoriesResource)
	p, _ = runPage(t, p, p.Init())
	p, _ = p.Update(key("j"))

	_, cmd := p.Update(key("e"))
	if msg, ok := cmd().(navigateMsg); !ok || msg.path != "/admin/kategori/"+itoa(c2.ID)+"/edit" {
		t.Errorf("edit navigates to %+v", msg)
	}
	_, cmd = p.Update(key("n"))
	if msg, ok := cmd().(navigateMsg); !ok || msg.path != "/admin/kategori/baru" {
		t.Errorf("new navigates to %+v", msg)
	}
}

func TestReviewsListHasNoCreate(t *testing.T) {
	srv := apitest.New(t)
	deps := newTestDeps(t, srv, nil)
	var p page = newAdminListPage(testBase(deps), reviewsResource)
	if _, cmd := p.Update(key("n")); cmd != nil {
		t.Error("reviews table should not offer create")
	}
}

func TestCategoryFormValidatesBeforeSubmit(t *testing.T) {
	srv := apitest.New(t)
	admin := loginAs(srv, "Sari", "sari@example.com", domain.RoleAdmin)
	deps := newTestDeps(t, srv, admin)

	var p page = newEntityFormPage(testBase(deps), categoryEntity, 0)
	p = typeText(p, "ab")
	p, cmd := p.Update(key("ctrl+s"))

	if cmd != nil {
		t.Error("invalid form should not submit")
	}
	if !strings.Contains(p.View(), "Nama kategori minimal 3 karakter") {
		t.Errorf("missing validation message:\n%s", p.View())
	}
	if srv.TotalHits() != 0 {
		t.Errorf("requests = %d, want 0", srv.TotalHits())
	}
}

func TestCategoryFormCreate(t *testing.T) {
	srv := apitest.New(t)
	admin := loginAs(srv, "Sari", "sari@example.com", domain.RoleAdmin)
	deps := newTestDeps(t, srv, admin)

	var p page = newEntityFormPage(testBase(deps), categoryEntity, 0)
	p = typeText(p, "Air Terjun")
	p, _ = p.Update(key("tab"))
	p = typeText(p, "Curug dan air terjun")
	p, cmd := p.Update(key("ctrl+s"))

	if _, again := p.Update(key("ctrl+s")); again != nil {
		t.Error("second submit while in flight should be ignored")
	}

	_, escaped := runPage(t, p, cmd)
	if len(escaped) != 1 {
		t.Fatalf("expected a redirect, got %v", escaped)
	}
	nav, ok := escaped[0].(navigateMsg)
	if !ok || nav.path != "/admin/kategori" || !nav.replace {
		t.Errorf("redirect = %+v", escaped[0])
	}
	if n := srv.Hits("POST", "/api/kategori"); n != 1 {
		t.Errorf("creates = %d, want 1", n)
	}
}

func TestCategoryFormEditPrefills(t *testing.T) {
	srv := apitest.New(t)
	admin := loginAs(srv, "Sari", "sari@example.com", domain.RoleAdmin)
	cat := srv.AddCategory("Pantai")
	deps := newTestDeps(t, srv, admin)

	var p page = newEntityFormPage(testBase(deps), categoryEntity, cat.ID)
	p, _ = runPage(t, p, p.Init())
	if !strings.Contains(p.View(), "Pantai") {
		t.Fatalf("form not pre-filled:\n%s", p.View())
	}

	p = typeText(p, " Selatan")
	p, cmd := p.Update(key("ctrl+s"))
	runPage(t, p, cmd)

	got, _ := srv.Category(cat.ID)
	if got.Name != "Pantai Selatan" {
		t.Errorf("name = %q", got.Name)
	}
}

func TestFormStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   string
	}{
		{"unauthorized", http.StatusUnauthorized, msgSessionExpired},
		{"forbidden", http.StatusForbidden, msgForbidden},
		{"validation", http.StatusBadRequest, "Bad Request"},
		{"server", http.StatusInternalServerError, msgGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := apitest.New(t)
			admin := loginAs(srv, "Sari", "sari@example.com", domain.RoleAdmin)
			deps := newTestDeps(t, srv, admin)
			srv.Fail("POST", "/api/kategori", tt.status)

			var p page = newEntityFormPage(testBase(deps), categoryEntity, 0)
			p = typeText(p, "Pantai")
			p, cmd := p.Update(key("ctrl+s"))
			p, _ = runPage(t, p, cmd)

			if !strings.Contains(p.View(), tt.want) {
				t.Errorf("want %q in:\n%s", tt.want, p.View())
			}
		})
	}
}

func TestDestinationFormRejectsBadPrice(t *testing.T) {
	f := newForm(destinationEntity.fields()...)
	f.set("nama_destinasi", "Kuta")
	f.set("deskripsi", "Pantai pasir putih")
	f.set("lokasi", "Bali")
	f.set("harga_tiket", "murah")
	f.set("id_kategori", "1")

	_, err := destinationEntity.build(f)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Field != "harga_tiket" {
		t.Fatalf("err = %v, want harga_tiket validation error", err)
	}

	f.set("harga_tiket", "25.000")
	payload, err := destinationEntity.build(f)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if d := payload.(domain.Destination); d.TicketPrice != 25000 || d.CategoryID != 1 {
		t.Errorf("payload = %+v", d)
	}
}

func TestUserFormBuildsPatch(t *testing.T) {
	f := newForm(userEntity.fields()...)
	f.set("nama", "Budi")
	f.set("email", "budi@example.com")
	f.set("peran", "ADMIN")

	payload, err := userEntity.build(f)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	patch := payload.(client.UserPatch)
	if patch.Role != domain.RoleAdmin || patch.Password != "" {
		t.Errorf("patch = %+v", patch)
	}

	f.set("peran", "raja")
	if _, err := userEntity.build(f); err == nil {
		t.Error("unknown role should fail validation")
	}
}

func TestDetailFavoriteToggle(t *testing.T) {
	srv := apitest.New(t)
	sess := loginAs(srv, "Budi", "budi@example.com", domain.RoleUser)
	dest := srv.AddDestination(domain.Destination{Name: "Kuta", Location: "Bali"})
	deps := newTestDeps(t, srv, sess)

	var p page = newDetailPage(testBase(deps), dest.ID)
	p, _ = runPage(t, p, p.Init())
	if got := p.(detailPage).detail.Favorite; got != catalog.NotFavorite {
		t.Fatalf("initial = %v", got)
	}

	p, cmd := p.Update(key("f"))
	if _, again := p.Update(key("f")); again != nil {
		t.Error("toggle while in flight should be ignored")
	}
	p, _ = runPage(t, p, cmd)
	if got := p.(detailPage).detail.Favorite; got != catalog.Favorite {
		t.Fatalf("after first toggle = %v", got)
	}

	p, cmd = p.Update(key("f"))
	p, _ = runPage(t, p, cmd)
	if got := p.(detailPage).detail.Favorite; got != catalog.NotFavorite {
		t.Fatalf("after second toggle = %v", got)
	}
	if n := len(srv.Favorites(sess.ID)); n != 0 {
		t.Errorf("stored favorites = %d", n)
	}
}

func TestDetailAnonymousFavoriteAsksForLogin(t *testing.T) {
	srv := apitest.New(t)
	dest := srv.AddDestination(domain.Destination{Name: "Kuta"})
	deps := newTestDeps(t, srv, nil)

	var p page = newDetailPage(testBase(deps), dest.ID)
	p, _ = runPage(t, p, p.Init())
	before := srv.TotalHits()

	p, cmd := p.Update(key("f"))
	if cmd != nil {
		t.Error("anonymous toggle should not issue a request")
	}
	if !strings.Contains(p.View(), client.ErrLoginRequired.Error()) {
		t.Errorf("missing login prompt:\n%s", p.View())
	}
	if srv.TotalHits() != before {
		t.Error("unexpected request")
	}
	if _, cmd := p.Update(key("l")); cmd == nil {
		t.Error("l should offer the login page")
	}
}

func TestDetailNotFound(t *testing.T) {
	srv := apitest.New(t)
	deps := newTestDeps(t, srv, nil)

	var p page = newDetailPage(testBase(deps), 42)
	p, _ = runPage(t, p, p.Init())
	if !strings.Contains(p.View(), "Halaman tidak ditemukan") {
		t.Errorf("expected not-found view:\n%s", p.View())
	}
}

func TestDetailCopyAndOpen(t *testing.T) {
	srv := apitest.New(t)
	dest := srv.AddDestination(domain.Destination{Name: "Kuta", Location: "Jl. Pantai Kuta, Bali", ImageURL: "https://img.example/kuta.jpg"})
	srv.AddImage(dest.ID, "https://img.example/kuta-2.jpg")
	deps := newTestDeps(t, srv, nil)

	var copied string
	var opened []string
	origCopy, origOpen := copyToClipboard, openURL
	copyToClipboard = func(s string) error { copied = s; return nil }
	openURL = func(u string) error { opened = append(opened, u); return nil }
	t.Cleanup(func() { copyToClipboard, openURL = origCopy, origOpen })

	var p page = newDetailPage(testBase(deps), dest.ID)
	p, _ = runPage(t, p, p.Init())
	p, _ = p.Update(key("y"))
	p, _ = p.Update(key("o"))
	p, _ = p.Update(key("o"))

	if copied != "Jl. Pantai Kuta, Bali" {
		t.Errorf("copied %q", copied)
	}
	if len(opened) != 2 || opened[0] != "https://img.example/kuta.jpg" || opened[1] != "https://img.example/kuta-2.jpg" {
		t.Errorf("opened %v", opened)
	}
}

func TestDetailWriteReview(t *testing.T) {
	srv := apitest.New(t)
	sess := loginAs(srv, "Budi", "budi@example.com", domain.RoleUser)
	dest := srv.AddDestination(domain.Destination{Name: "Kuta"})
	deps := newTestDeps(t, srv, sess)

	var p page = newDetailPage(testBase(deps), dest.ID)
	p, _ = runPage(t, p, p.Init())
	p, _ = p.Update(key("w"))
	if !p.Capturing() {
		t.Fatal("writing a review should capture keys")
	}
	p, _ = p.Update(key("4"))
	p = typeText(p, "Ombak bagus")
	p, cmd := p.Update(key("ctrl+s"))
	p, _ = runPage(t, p, cmd)

	d := p.(detailPage)
	if d.writing {
		t.Error("form should close after posting")
	}
	if len(d.detail.Reviews) != 1 || d.detail.Reviews[0].Rating != 4 {
		t.Errorf("reviews = %+v", d.detail.Reviews)
	}
	if d.detail.Rating.String() != "4.0" {
		t.Errorf("rating = %s", d.detail.Rating)
	}
}

func TestDetailReviewTooShort(t *testing.T) {
	srv := apitest.New(t)
	sess := loginAs(srv, "Budi", "budi@example.com", domain.RoleUser)
	dest := srv.AddDestination(domain.Destination{Name: "Kuta"})
	deps := newTestDeps(t, srv, sess)

	var p page = newDetailPage(testBase(deps), dest.ID)
	p, _ = runPage(t, p, p.Init())
	p, _ = p.Update(key("w"))
	p = typeText(p, "ok")
	p, cmd := p.Update(key("ctrl+s"))

	if cmd != nil {
		t.Error("short review should not be sent")
	}
	if !strings.Contains(p.View(), "Komentar minimal 5 karakter") {
		t.Errorf("missing validation message:\n%s", p.View())
	}
}

func TestHomeSearchAndCategoryFilter(t *testing.T) {
	srv := apitest.New(t)
	pantai := srv.AddCategory("Pantai")
	gunung := srv.AddCategory("Gunung")
	srv.AddDestination(domain.Destination{Name: "Kuta", Location: "Bali", CategoryID: pantai.ID})
	srv.AddDestination(domain.Destination{Name: "Bromo", Location: "Jawa Timur", CategoryID: gunung.ID})
	deps := newTestDeps(t, srv, nil)

	var p page = newHomePage(testBase(deps))
	p, _ = runPage(t, p, p.Init())

	p, _ = p.Update(key("/"))
	if !p.Capturing() {
		t.Fatal("search should capture keys")
	}
	p = typeText(p, "jawa")
	p, _ = p.Update(key("enter"))
	if view := p.View(); strings.Contains(view, "Kuta") || !strings.Contains(view, "Bromo") {
		t.Errorf("search by location failed:\n%s", view)
	}

	p, _ = p.Update(key("/"))
	p, _ = p.Update(key("esc"))
	p, _ = p.Update(key("c"))
	if view := p.View(); !strings.Contains(view, "Kuta") || strings.Contains(view, "Bromo") {
		t.Errorf("category filter failed:\n%s", view)
	}
}

func TestHomeLoadFailure(t *testing.T) {
	srv := apitest.New(t)
	srv.Fail("GET", "/api/destinasi", http.StatusInternalServerError)
	deps := newTestDeps(t, srv, nil)

	var p page = newHomePage(testBase(deps))
	p, _ = runPage(t, p, p.Init())
	if !strings.Contains(p.View(), msgLoadFailed) {
		t.Errorf("missing inline error:\n%s", p.View())
	}
}

func TestCategoriesDrillDown(t *testing.T) {
	srv := apitest.New(t)
	pantai := srv.AddCategory("Pantai")
	kuta := srv.AddDestination(domain.Destination{Name: "Kuta", CategoryID: pantai.ID})
	deps := newTestDeps(t, srv, nil)

	var p page = newCategoriesPage(testBase(deps))
	p, _ = runPage(t, p, p.Init())
	if !strings.Contains(p.View(), "1 destinasi") {
		t.Errorf("missing count:\n%s", p.View())
	}
	p, _ = p.Update(key("enter"))
	_, cmd := p.Update(key("enter"))
	if msg, ok := cmd().(navigateMsg); !ok || msg.path != "/destinasi/"+itoa(kuta.ID) {
		t.Errorf("navigate = %+v", msg)
	}
}

func TestRegisterRedirectsToLogin(t *testing.T) {
	srv := apitest.New(t)
	deps := newTestDeps(t, srv, nil)

	var p page = newRegisterPage(testBase(deps))
	p = typeText(p, "Budi")
	p, _ = p.Update(key("tab"))
	p = typeText(p, "budi@example.com")
	p, _ = p.Update(key("tab"))
	p = typeText(p, "rahasia1")
	p, _ = p.Update(key("tab"))
	p = typeText(p, "rahasia1")
	p, cmd := p.Update(key("ctrl+s"))
	_, escaped := runPage(t, p, cmd)

	if len(escaped) != 1 {
		t.Fatalf("escaped = %v", escaped)
	}
	if nav, ok := escaped[0].(navigateMsg); !ok || nav.path != "/login" {
		t.Errorf("redirect = %+v", escaped[0])
	}
	if deps.Sessions.Current() != nil {
		t.Error("registration must not log in")
	}
}

func TestRegisterPasswordMismatch(t *testing.T) {
	srv := apitest.New(t)
	deps := newTestDeps(t, srv, nil)

	var p page = newRegisterPage(testBase(deps))
	p = typeText(p, "Budi")
	p, _ = p.Update(key("tab"))
	p = typeText(p, "budi@example.com")
	p, _ = p.Update(key("tab"))
	p = typeText(p, "rahasia1")
	p, _ = p.Update(key("tab"))
	p = typeText(p, "rahasia2")
	p, cmd := p.Update(key("ctrl+s"))

	if cmd != nil {
		t.Error("mismatched confirmation should not submit")
	}
	if !strings.Contains(p.View(), "Konfirmasi kata sandi tidak cocok") {
		t.Errorf("missing message:\n%s", p.View())
	}
}

func TestProfileDeleteOwnReview(t *testing.T) {
	srv := apitest.New(t)
	sess := loginAs(srv, "Budi", "budi@example.com", domain.RoleUser)
	kuta := srv.AddDestination(domain.Destination{Name: "Kuta"})
	srv.AddReview(kuta.ID, sess.ID, 5, "indah sekali")
	deps := newTestDeps(t, srv, sess)

	var p page = newProfilePage(testBase(deps), sectionReviews)
	p, _ = runPage(t, p, p.Init())
	if !strings.Contains(p.View(), "Kuta") {
		t.Fatalf("review missing:\n%s", p.View())
	}

	p, _ = p.Update(key("d"))
	p, cmd := p.Update(key("y"))
	p, _ = runPage(t, p, cmd)

	if !strings.Contains(p.View(), "belum ada ulasan") {
		t.Errorf("review should be gone:\n%s", p.View())
	}
}

func TestProfileEditUpdatesSession(t *testing.T) {
	srv := apitest.New(t)
	sess := loginAs(srv, "Budi", "budi@example.com", domain.RoleUser)
	deps := newTestDeps(t, srv, sess)

	var p page = newProfilePage(testBase(deps), sectionFavorites)
	p, _ = runPage(t, p, p.Init())
	p, _ = p.Update(key("e"))
	p = typeText(p, " Santoso")
	p, cmd := p.Update(key("ctrl+s"))
	p, _ = runPage(t, p, cmd)

	if got := deps.Sessions.Current(); got == nil || got.Name != "Budi Santoso" || got.Token != sess.Token {
		t.Fatalf("session = %+v", got)
	}
	if !strings.Contains(p.View(), "Profil diperbarui") {
		t.Errorf("missing confirmation:\n%s", p.View())
	}
}

func TestDashboardLinks(t *testing.T) {
	srv := apitest.New(t)
	admin := loginAs(srv, "Sari", "sari@example.com", domain.RoleAdmin)
	kuta := srv.AddDestination(domain.Destination{Name: "Kuta"})
	srv.AddReview(kuta.ID, admin.ID, 5, "sempurna")
	deps := newTestDeps(t, srv, admin)

	var p page = newDashboardPage(testBase(deps))
	p, _ = runPage(t, p, p.Init())
	view := p.View()
	if !strings.Contains(view, "Kuta") || !strings.Contains(view, "5.0") {
		t.Errorf("stats missing:\n%s", view)
	}
	_, cmd := p.Update(key("k"))
	if msg, ok := cmd().(navigateMsg); !ok || msg.path != "/admin/kategori" {
		t.Errorf("navigate = %+v", msg)
	}
}

func TestAdminListReloadClosesDeletePrompt(t *testing.T) {
	srv := apitest.New(t)
	admin := loginAs(srv, "Sari", "sari@example.com", domain.RoleAdmin)
	cat := srv.AddCategory("Pantai")
	deps := newTestDeps(t, srv, admin)

	var p page = newAdminListPage(testBase(deps), categoriesResource)
	p, _ = runPage(t, p, p.Init())

	p, reload := p.Update(key("r"))
	p, _ = p.Update(key("d"))
	srv.Fail("GET", "/api/kategori", http.StatusInternalServerError)
	p, _ = runPage(t, p, reload)

	if p.Capturing() {
		t.Error("reload should close the delete prompt")
	}
	p, cmd := p.Update(key("y"))
	if cmd != nil {
		t.Error("y after the prompt closed should do nothing")
	}
	if !strings.Contains(p.View(), msgLoadFailed) {
		t.Errorf("missing load error:\n%s", p.View())
	}
	if _, ok := srv.Category(cat.ID); !ok {
		t.Error("category should still exist")
	}
}

func TestAdminListDeletesRowChosenAtPrompt(t *testing.T) {
	srv := apitest.New(t)
	admin := loginAs(srv, "Sari", "sari@example.com", domain.RoleAdmin)
	pantai := srv.AddCategory("Pantai")
	gunung := srv.AddCategory("Gunung")
	deps := newTestDeps(t, srv, admin)

	var p page = newAdminListPage(testBase(deps), categoriesResource)
	p, _ = runPage(t, p, p.Init())
	p, _ = p.Update(key("d"))
	// the list shrinks under the open prompt
	p, _ = p.Update(rowsLoadedMsg{rows: []row{{id: gunung.ID, cells: []string{"Gunung", ""}}}})
	p, _ = p.Update(key("d"))
	p, cmd := p.Update(key("y"))
	runPage(t, p, cmd)

	if _, ok := srv.Category(gunung.ID); ok {
		t.Error("Gunung should be deleted")
	}
	if _, ok := srv.Category(pantai.ID); !ok {
		t.Error("Pantai should still exist")
	}
}

func TestProfileReloadClosesDeletePrompt(t *testing.T) {
	srv := apitest.New(t)
	sess := loginAs(srv, "Budi", "budi@example.com", domain.RoleUser)
	kuta := srv.AddDestination(domain.Destination{Name: "Kuta"})
	srv.AddReview(kuta.ID, sess.ID, 5, "indah sekali")
	deps := newTestDeps(t, srv, sess)

	var p page = newProfilePage(testBase(deps), sectionReviews)
	p, _ = runPage(t, p, p.Init())

	p, reload := p.Update(key("r"))
	p, _ = p.Update(key("d"))
	srv.Fail("GET", "/api/ulasan/pengguna/{id}", http.StatusInternalServerError)
	p, _ = runPage(t, p, reload)

	if p.Capturing() {
		t.Error("reload should close the delete prompt")
	}
	if _, cmd := p.Update(key("y")); cmd != nil {
		t.Error("y after the prompt closed should do nothing")
	}
	if n := srv.Hits("DELETE", "/api/ulasan/{id}"); n != 0 {
		t.Errorf("deletes = %d, want 0", n)
	}
}

func TestProfileEditAuthFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   string
	}{
		{"expired", http.StatusUnauthorized, msgSessionExpired},
		{"forbidden", http.StatusForbidden, msgForbidden},
		{"server", http.StatusInternalServerError, "Gagal memperbarui profil"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := apitest.New(t)
			sess := loginAs(srv, "Budi", "budi@example.com", domain.RoleUser)
			deps := newTestDeps(t, srv, sess)
			srv.Fail("PATCH", "/api/pengguna/{id}", tt.status)

			var p page = newProfilePage(testBase(deps), sectionFavorites)
			p, _ = runPage(t, p, p.Init())
			p, _ = p.Update(key("e"))
			p = typeText(p, " Santoso")
			p, cmd := p.Update(key("ctrl+s"))
			p, _ = runPage(t, p, cmd)

			if !strings.Contains(p.View(), tt.want) {
				t.Errorf("want %q in:\n%s", tt.want, p.View())
			}
			if got := deps.Sessions.Current(); got.Name != "Budi" {
				t.Errorf("session name = %q, want unchanged", got.Name)
			}
		})
	}
}

func TestDashboardShowsMissingSections(t *testing.T) {
	srv := apitest.New(t)
	admin := loginAs(srv, "Sari", "sari@example.com", domain.RoleAdmin)
	srv.AddDestination(domain.Destination{Name: "Kuta"})
	srv.Fail("GET", "/api/gambar", http.StatusInternalServerError)
	deps := newTestDeps(t, srv, admin)

	var p page = newDashboardPage(testBase(deps))
	p, _ = runPage(t, p, p.Init())
	view := p.View()
	if !strings.Contains(view, msgLoadFailed+": gambar") {
		t.Errorf("missing partial-failure note:\n%s", view)
	}
	if !strings.Contains(view, "Destinasi") {
		t.Errorf("counts should still render:\n%s", view)
	}
}
