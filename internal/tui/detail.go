package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/wisata/internal/browser"
	"github.com/naveenspark/wisata/internal/catalog"
	"github.com/naveenspark/wisata/internal/route"
	"github.com/naveenspark/wisata/pkg/client"
	"github.com/naveenspark/wisata/pkg/domain"
)

type detailLoadedMsg struct {
	detail *catalog.Detail
	err    error
}

type favoriteToggledMsg struct {
	state catalog.FavoriteState
	err   error
}

type reviewPostedMsg struct {
	err error
}

// copyToClipboard is swapped out in tests.
var copyToClipboard = clipboard.WriteAll

// openURL is swapped out in tests.
var openURL = browser.Open

// detailPage shows one destination with its gallery and reviews.
type detailPage struct {
	pageBase
	destID   int
	detail   *catalog.Detail
	loading  bool
	notFound bool
	err      string
	status   string
	isErr    bool
	toggling bool

	writing    bool
	posting    bool
	review     form
	stars      int
	imageIndex int
}

func newDetailPage(b pageBase, id int) detailPage {
	return detailPage{
		pageBase: b,
		destID:   id,
		loading:  true,
		stars:    domain.MaxRating,
		review:   newForm(field{key: "komentar", label: "komentar", placeholder: "ceritakan pengalaman Anda", multiline: true}),
	}
}

func (m detailPage) Init() tea.Cmd {
	return m.load()
}

func (m detailPage) load() tea.Cmd {
	svc, id, sess := m.deps.Catalog, m.destID, m.session()
	return m.run(func(ctx context.Context) tea.Msg {
		d, err := svc.Detail(ctx, id, sess)
		return detailLoadedMsg{detail: d, err: err}
	})
}

func (m detailPage) Capturing() bool { return m.writing }

func (m detailPage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case detailLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.notFound = errors.Is(msg.err, catalog.ErrNotFound)
			m.err = loadMessage(msg.err)
			return m, nil
		}
		m.err = ""
		m.detail = msg.detail
		return m, nil

	case favoriteToggledMsg:
		m.toggling = false
		if msg.err != nil {
			m.setStatus(formMessage(msg.err), true)
			return m, nil
		}
		m.detail.Favorite = msg.state
		if msg.state == catalog.Favorite {
			m.setStatus("Ditambahkan ke favorit", false)
		} else {
			m.setStatus("Dihapus dari favorit", false)
		}
		return m, nil

	case reviewPostedMsg:
		m.posting = false
		if msg.err != nil {
			m.setStatus(formMessage(msg.err), true)
			return m, nil
		}
		m.writing = false
		m.review.set("komentar", "")
		m.setStatus("Ulasan terkirim", false)
		return m, m.load()

	case tea.WindowSizeMsg:
		m.resize(msg)

	case tea.KeyMsg:
		if m.writing {
			return m.updateReview(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *detailPage) setStatus(msg string, isErr bool) {
	m.status = msg
	m.isErr = isErr
}

func (m detailPage) updateKeys(msg tea.KeyMsg) (page, tea.Cmd) {
	if m.detail == nil {
		if msg.String() == "r" && !m.notFound {
			m.loading = true
			return m, m.load()
		}
		return m, nil
	}
	switch msg.String() {
	case "f":
		return m.toggleFavorite()
	case "w":
		if m.session() == nil {
			m.setStatus(client.ErrLoginRequired.Error(), true)
			return m, nil
		}
		m.writing = true
		m.status = ""
	case "y":
		if err := copyToClipboard(m.detail.Destination.Location); err != nil {
			m.setStatus("Gagal menyalin lokasi", true)
		} else {
			m.setStatus("Lokasi disalin", false)
		}
	case "o":
		urls := m.imageURLs()
		if len(urls) == 0 {
			m.setStatus("Tidak ada gambar", true)
			return m, nil
		}
		url := urls[m.imageIndex%len(urls)]
		m.imageIndex++
		if err := openURL(url); err != nil {
			m.setStatus("Gagal membuka gambar", true)
		}
	case "r":
		m.loading = true
		return m, m.load()
	case "l":
		if m.detail.Favorite == catalog.FavoriteUnknown {
			return m, navigate(route.PathLogin)
		}
	}
	return m, nil
}

func (m detailPage) toggleFavorite() (page, tea.Cmd) {
	if m.toggling {
		return m, nil
	}
	sess := m.session()
	if sess == nil || m.detail.Favorite == catalog.FavoriteUnknown {
		m.setStatus(client.ErrLoginRequired.Error(), true)
		return m, nil
	}
	m.toggling = true
	svc, destID, current, userID := m.deps.Catalog, m.destID, m.detail.Favorite, sess.ID
	return m, m.run(func(ctx context.Context) tea.Msg {
		state, err := svc.Toggle(ctx, userID, destID, current)
		return favoriteToggledMsg{state: state, err: err}
	})
}

func (m detailPage) updateReview(msg tea.KeyMsg) (page, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.writing = false
		return m, nil
	case "ctrl+s":
		return m.submitReview()
	case "left", "-":
		if m.stars > domain.MinRating {
			m.stars--
		}
		return m, nil
	case "right", "+":
		if m.stars < domain.MaxRating {
			m.stars++
		}
		return m, nil
	}
	if n, err := strconv.Atoi(msg.String()); err == nil && n >= domain.MinRating && n <= domain.MaxRating && m.review.value("komentar") == "" {
		m.stars = n
		return m, nil
	}
	m.review, _ = m.review.update(msg)
	return m, nil
}

func (m detailPage) submitReview() (page, tea.Cmd) {
	if m.posting {
		return m, nil
	}
	comment := m.review.value("komentar")
	if err := domain.ValidateReview(m.stars, comment); err != nil {
		m.review.markInvalid(err)
		m.setStatus(formMessage(err), true)
		return m, nil
	}
	sess := m.session()
	if sess == nil {
		m.setStatus(client.ErrLoginRequired.Error(), true)
		return m, nil
	}
	m.posting = true
	c := m.deps.Client
	req := client.ReviewRequest{DestinationID: m.destID, UserID: sess.ID, Rating: m.stars, Comment: comment}
	log := m.deps.Log
	return m, m.run(func(ctx context.Context) tea.Msg {
		_, err := c.CreateReview(ctx, req)
		if err == nil {
			log.Info().Int("destination", req.DestinationID).Int("rating", req.Rating).Msg("review posted")
		}
		return reviewPostedMsg{err: err}
	})
}

func (m detailPage) imageURLs() []string {
	var urls []string
	if u := m.detail.Destination.ImageURL; u != "" {
		urls = append(urls, u)
	}
	for _, img := range m.detail.Images {
		if img.URL != "" {
			urls = append(urls, img.URL)
		}
	}
	return urls
}

func (m detailPage) Help() string {
	if m.writing {
		return helpBar("1-5/←→", "bintang", "ctrl+s", "kirim", "esc", "batal")
	}
	if m.detail != nil && m.detail.Favorite == catalog.FavoriteUnknown {
		return helpBar("l", "login untuk favorit", "y", "salin lokasi", "o", "buka gambar", "r", "muat ulang")
	}
	return helpBar("f", "favorit", "w", "tulis ulasan", "y", "salin lokasi", "o", "buka gambar", "r", "muat ulang")
}

func (m detailPage) View() string {
	if m.loading && m.detail == nil {
		return " " + dimStyle.Render(msgLoading)
	}
	if m.notFound {
		return notFoundView(route.Destination(m.destID))
	}
	if m.detail == nil {
		return statusLine(m.err, true)
	}

	d := m.detail.Destination
	var b strings.Builder
	b.WriteString(" " + titleStyle.Render(d.Name))
	switch m.detail.Favorite {
	case catalog.Favorite:
		b.WriteString("  " + favoriteStyle.Render("♥ favorit"))
	case catalog.NotFavorite:
		b.WriteString("  " + dimStyle.Render("♡"))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, " %s %s  %s\n",
		starStyle.Render(m.detail.Rating.Stars()),
		starStyle.Render(m.detail.Rating.String()),
		dimStyle.Render(fmt.Sprintf("(%d ulasan)", m.detail.Rating.Count)))
	b.WriteString("\n")

	row := func(label, value string) {
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(&b, " %s %s\n", metaStyle.Render(padRight(label, 10)), normalStyle.Render(value))
	}
	row("lokasi", d.Location)
	row("kategori", d.CategoryName())
	row("jam buka", d.OpeningTime)
	row("tiket", formatPrice(d.TicketPrice))
	row("gambar", fmt.Sprintf("%d", len(m.imageURLs())))

	if d.Description != "" {
		b.WriteString("\n " + normalStyle.Render(truncStr(oneLine(d.Description), max(20, m.width*2))) + "\n")
	}

	if m.writing {
		b.WriteString("\n " + sectionHeaderStyle.Render("TULIS ULASAN") + "  ")
		b.WriteString(starStyle.Render(strings.Repeat("★", m.stars)+strings.Repeat("☆", domain.MaxRating-m.stars)) + "\n")
		b.WriteString(m.review.View())
		if m.posting {
			b.WriteString(" " + dimStyle.Render("mengirim…") + "\n")
		}
	}

	if m.status != "" {
		b.WriteString("\n" + statusLine(m.status, m.isErr) + "\n")
	}

	b.WriteString("\n " + sectionHeaderStyle.Render("ULASAN") + "\n")
	if len(m.detail.Reviews) == 0 {
		b.WriteString(" " + dimStyle.Render("belum ada ulasan") + "\n")
	}
	for _, r := range m.detail.Reviews {
		fmt.Fprintf(&b, " %s %s %s\n   %s\n",
			starStyle.Render(reviewStars(r.Rating)),
			selectedStyle.Render(r.AuthorName()),
			metaStyle.Render(formatTime(r.CreatedAt)),
			normalStyle.Render(oneLine(r.Comment)))
	}
	return b.String()
}
