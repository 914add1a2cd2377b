package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/naveenspark/wisata/internal/config"
	"github.com/naveenspark/wisata/internal/logger"
	"github.com/naveenspark/wisata/internal/session"
	"github.com/naveenspark/wisata/internal/tui"
	"github.com/naveenspark/wisata/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, in io.Reader, out io.Writer) error {
	if len(args) > 0 {
		switch args[0] {
		case "--version", "version", "-v":
			fmt.Fprintln(out, "wisata "+version)
			return nil
		case "help", "--help", "-h":
			printHelp(out)
			return nil
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		return runTUI(cfg, "/")
	}

	log := zerolog.Nop()
	if strings.EqualFold(cfg.LogLevel, "debug") {
		log = logger.Console(cfg.LogLevel)
	}
	store, _ := wire(cfg, log)
	ctx := context.Background()

	switch args[0] {
	case "login":
		return runLogin(ctx, store, in, out)
	case "register":
		return runRegister(ctx, store, in, out)
	case "logout":
		return runLogout(store, out)
	case "whoami":
		return runWhoami(store, out)
	case "open":
		if len(args) < 2 {
			return errors.New("usage: wisata open <path>")
		}
		return runTUI(cfg, args[1])
	}
	return fmt.Errorf("unknown command %q (try \"wisata help\")", args[0])
}

// wire builds the session store and the API client around it.
func wire(cfg config.Config, log zerolog.Logger) (*session.Store, *client.Client) {
	store := session.NewStore(session.NewFileStorage(cfg.SessionPath()), nil, log)
	c := client.New(cfg.APIURL, store, client.WithTimeout(cfg.HTTPTimeout), client.WithLogger(log))
	store.SetAPI(c)
	return store, c
}

func runTUI(cfg config.Config, path string) error {
	f, err := logger.OpenFile(cfg.LogPath())
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	log := logger.New(f, cfg.LogLevel)
	store, c := wire(cfg, log)
	log.Info().Str("api", c.BaseURL()).Str("version", version).Msg("starting")

	app := tui.NewApp(tui.NewDeps(c, store, log), path)
	p := tea.NewProgram(app, tea.WithAltScreen())
	unwatch := tui.WatchSession(store, p.Send)
	defer unwatch()
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// prompter reads answers line by line from the terminal.
type prompter struct {
	sc  *bufio.Scanner
	out io.Writer
}

func (p prompter) ask(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	if !p.sc.Scan() {
		if err := p.sc.Err(); err != nil {
			return "", fmt.Errorf("read %s: %w", label, err)
		}
		return "", fmt.Errorf("read %s: %w", label, io.ErrUnexpectedEOF)
	}
	return strings.TrimSpace(p.sc.Text()), nil
}

func runLogin(ctx context.Context, store *session.Store, in io.Reader, out io.Writer) error {
	p := prompter{sc: bufio.NewScanner(in), out: out}
	email, err := p.ask("Email")
	if err != nil {
		return err
	}
	password, err := p.ask("Kata sandi")
	if err != nil {
		return err
	}
	sess, err := store.Login(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nSelamat datang, %s (%s).\n", sess.Name, sess.Role)
	return nil
}

func runRegister(ctx context.Context, store *session.Store, in io.Reader, out io.Writer) error {
	p := prompter{sc: bufio.NewScanner(in), out: out}
	var answers [4]string
	for i, label := range []string{"Nama", "Email", "Kata sandi", "Konfirmasi kata sandi"} {
		v, err := p.ask(label)
		if err != nil {
			return err
		}
		answers[i] = v
	}
	if err := store.Register(ctx, answers[0], answers[1], answers[2], answers[3]); err != nil {
		return err
	}
	fmt.Fprintln(out, "\nRegistrasi berhasil, silakan login dengan \"wisata login\".")
	return nil
}

func runLogout(store *session.Store, out io.Writer) error {
	if !store.IsAuthenticated() {
		fmt.Fprintln(out, "Belum login.")
		return nil
	}
	if err := store.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(out, "Anda telah keluar.")
	return nil
}

func runWhoami(store *session.Store, out io.Writer) error {
	sess := store.Current()
	if sess == nil {
		fmt.Fprintln(out, "Belum login.")
		return nil
	}
	fmt.Fprintf(out, "%s <%s>\nperan: %s\n", sess.Name, sess.Email, sess.Role)
	if exp, ok := store.TokenExpiry(); ok {
		fmt.Fprintf(out, "token berlaku sampai %s\n", exp.Local().Format("2 Jan 2006 15:04"))
	}
	return nil
}

func printHelp(out io.Writer) {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#2dd4bf")).
		Bold(true).
		Render("W I S A T A")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	commands := []struct{ cmd, desc string }{
		{"wisata", "Buka katalog destinasi (TUI)"},
		{"wisata open <path>", "Buka TUI langsung di halaman, mis. /destinasi/3"},
		{"wisata login", "Masuk dengan email dan kata sandi"},
		{"wisata register", "Buat akun baru"},
		{"wisata logout", "Hapus sesi tersimpan"},
		{"wisata whoami", "Tampilkan pengguna yang sedang login"},
		{"wisata --version", "Tampilkan versi"},
		{"wisata help", "Bantuan ini"},
	}

	fmt.Fprintf(out, "\n  %s\n\n  Perintah:\n", title)
	for _, c := range commands {
		fmt.Fprintf(out, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), descStyle.Render(c.desc))
	}
	fmt.Fprintf(out, "\n  Variabel: WISATA_API_URL, WISATA_HOME, WISATA_HTTP_TIMEOUT, LOG_LEVEL\n\n")
}
