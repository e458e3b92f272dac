// ABOUTME: Interactive terminal chat client for the Sentinel backend
// ABOUTME: Readline-style input with bearer auth, transcript save and export

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/llm-se/sentinel-cli/internal/api"
	"github.com/llm-se/sentinel-cli/internal/chat"
	"github.com/llm-se/sentinel-cli/internal/config"
	"github.com/llm-se/sentinel-cli/internal/export"
	"github.com/llm-se/sentinel-cli/internal/guard"
	"github.com/llm-se/sentinel-cli/internal/history"
	"github.com/llm-se/sentinel-cli/internal/session"
)

var (
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	systemStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Italic(true)
	sourceStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	thinkingStyle  = lipgloss.NewStyle().Faint(true).Italic(true)
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	server := flag.String("server", "", "Backend URL (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *server != "" {
		cfg.Server.BaseURL = *server
	}

	slog.SetDefault(setupLogger(cfg.Logging))

	// Setup context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nGoodbye!")
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

// setupLogger builds the slog logger from config. Interactive output goes to
// stdout; logs go to stderr so they don't interleave with the transcript.
func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

func run(ctx context.Context, cfg *config.Config) error {
	client := api.NewClientWithHTTP(cfg.Server.BaseURL, &http.Client{Timeout: cfg.Server.Timeout})

	tokenPath, err := session.DefaultTokenPath()
	if err != nil {
		return err
	}
	store := session.NewStore(client, session.NewTokenFile(tokenPath))

	fmt.Printf("Sentinel — RBAC-secured RAG system (%s)\n", cfg.Server.BaseURL)

	scanner := bufio.NewScanner(os.Stdin)

	if store.Resume() {
		fmt.Printf("Resumed session for %s\n", store.Current().Token)
	} else if err := loginLoop(ctx, scanner, store); err != nil {
		return err
	}

	sess := store.Current()
	if sess.User != nil {
		fmt.Printf("Welcome %s (%s, role %d)\n", sess.User.Username, sess.User.Department, sess.User.RoleLevel)
		if guard.Decide(sess, guard.AdminRoleLevel).Allow {
			fmt.Println("Admin: use sentinel-admin to manage users and documents")
		}
	}
	fmt.Println("Type a question and press Enter. /help for commands. Ctrl+C to quit.")
	fmt.Println()

	pipeline := chat.NewPipeline(client, func() string { return store.Current().Token })

	hist, err := history.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening history store: %w", err)
	}
	defer hist.Close()

	r := &repl{
		client:   client,
		store:    store,
		pipeline: pipeline,
		history:  hist,
		started:  time.Now(),
	}
	return r.loop(ctx, scanner)
}

// loginLoop prompts for a username until a login succeeds. Login errors are
// surfaced verbatim and leave the store logged out.
func loginLoop(ctx context.Context, scanner *bufio.Scanner, store *session.Store) error {
	for {
		fmt.Print("username: ")
		input, err := readLine(ctx, scanner)
		if err != nil {
			return err
		}

		if _, err := store.Login(ctx, input); err != nil {
			fmt.Println(errorStyle.Render(capitalize(err.Error())))
			continue
		}
		return nil
	}
}

// repl holds the interactive loop state.
type repl struct {
	client   *api.Client
	store    *session.Store
	pipeline *chat.Pipeline
	history  *history.Store
	started  time.Time
	printed  int
	saved    bool
}

func (r *repl) loop(ctx context.Context, scanner *bufio.Scanner) error {
	for {
		fmt.Print("> ")

		input, err := readLine(ctx, scanner)
		if err != nil {
			if err == io.EOF || ctx.Err() != nil {
				r.autosave()
				return nil
			}
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			quit, err := r.command(ctx, input)
			if err != nil {
				fmt.Println(errorStyle.Render(fmt.Sprintf("[error] %v", err)))
			}
			if quit {
				r.autosave()
				return nil
			}
			fmt.Println()
			continue
		}

		fmt.Println(thinkingStyle.Render(chat.PlaceholderText))
		if err := r.pipeline.Send(ctx, input); err != nil {
			switch err {
			case chat.ErrEmptyQuery:
				// blank input is a no-op
			case chat.ErrBusy:
				fmt.Println(systemStyle.Render("[system] Still waiting for the previous answer."))
			default:
				fmt.Println(errorStyle.Render(fmt.Sprintf("[error] %v", err)))
			}
		}
		r.render()
		fmt.Println()
	}
}

// render prints transcript entries appended since the last render. The
// user's own line is already on screen at the prompt, so it is skipped.
func (r *repl) render() {
	transcript := r.pipeline.Transcript()
	for _, m := range transcript[r.printed:] {
		switch m.Role {
		case chat.RoleUser:
			continue
		case chat.RoleAssistant:
			fmt.Println(assistantStyle.Render("sentinel> ") + m.Content)
			if len(m.Sources) > 0 {
				fmt.Println(sourceStyle.Render(fmt.Sprintf("  Source: %s", m.Sources[0].Source)))
			}
		default:
			fmt.Println(systemStyle.Render("[system] " + m.Content))
		}
	}
	r.printed = len(transcript)
	r.saved = false
}

// command dispatches a /slash command. Returns true when the REPL should
// exit.
func (r *repl) command(ctx context.Context, input string) (bool, error) {
	cmd, args, _ := strings.Cut(input, " ")
	args = strings.TrimSpace(args)

	switch cmd {
	case "/quit", "/exit", "/q":
		return true, nil
	case "/help":
		printHelp()
		return false, nil
	case "/whoami":
		return false, r.whoami(ctx)
	case "/logout":
		r.autosave()
		r.store.Logout()
		fmt.Println("Logged out.")
		return true, nil
	case "/clear":
		return false, r.pipeline.Clear()
	case "/save":
		return false, r.save()
	case "/history":
		return false, r.listHistory(ctx)
	case "/export":
		return false, r.export(ctx, args)
	default:
		return false, fmt.Errorf("unknown command %s (try /help)", cmd)
	}
}

func printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  /whoami               Show your profile")
	fmt.Println("  /save                 Save the current transcript")
	fmt.Println("  /history              List saved conversations")
	fmt.Println("  /export <id> <fmt>    Export a saved conversation (markdown, html, yaml)")
	fmt.Println("  /clear                Start a new conversation")
	fmt.Println("  /logout               Log out and exit")
	fmt.Println("  /help                 Show this help")
	fmt.Println("  /quit                 Exit")
}

func (r *repl) whoami(ctx context.Context) error {
	sess := r.store.Current()
	if !sess.LoggedIn() {
		return fmt.Errorf("not logged in")
	}

	profile, err := r.client.Me(ctx, sess.Token)
	if err != nil {
		return err
	}
	fmt.Printf("  Username:   %s\n", profile.Username)
	fmt.Printf("  Department: %s\n", profile.Department)
	fmt.Printf("  Role:       %d\n", profile.RoleLevel)
	fmt.Printf("  Clearance:  %d\n", profile.ClearanceLevel)
	return nil
}

func (r *repl) save() error {
	transcript := r.pipeline.Transcript()
	if len(transcript) == 0 {
		fmt.Println("Nothing to save.")
		return nil
	}

	conv := &history.Conversation{
		ID:        uuid.New().String(),
		Username:  r.store.Current().Token,
		StartedAt: r.started,
		Messages:  transcript,
	}
	if err := r.history.SaveConversation(context.Background(), conv); err != nil {
		return err
	}
	r.saved = true
	fmt.Printf("Saved conversation %s (%d messages)\n", conv.ID, len(conv.Messages))
	return nil
}

// autosave persists the transcript on the way out unless it was already
// saved or is empty.
func (r *repl) autosave() {
	if r.saved || len(r.pipeline.Transcript()) == 0 {
		return
	}
	if err := r.save(); err != nil {
		fmt.Println(errorStyle.Render(fmt.Sprintf("[error] saving transcript: %v", err)))
	}
}

func (r *repl) listHistory(ctx context.Context) error {
	summaries, err := r.history.ListConversations(ctx, r.store.Current().Token)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("No saved conversations.")
		return nil
	}
	for _, s := range summaries {
		fmt.Printf("  %s  %s  %d messages\n", s.ID, s.StartedAt.Format("2006-01-02 15:04"), s.MessageCount)
	}
	return nil
}

func (r *repl) export(ctx context.Context, args string) error {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return fmt.Errorf("usage: /export <id> <markdown|html|yaml> [path]")
	}
	id, format := fields[0], fields[1]

	conv, err := r.history.GetConversation(ctx, id)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if len(fields) > 2 {
		f, err := os.Create(fields[2])
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	return export.Render(w, conv, format)
}

// readLine reads one line with context awareness so Ctrl+C interrupts a
// blocked read.
func readLine(ctx context.Context, scanner *bufio.Scanner) (string, error) {
	inputCh := make(chan string, 1)
	errCh := make(chan error, 1)

	go func() {
		if scanner.Scan() {
			inputCh <- scanner.Text()
		} else {
			if err := scanner.Err(); err != nil {
				errCh <- err
			} else {
				errCh <- io.EOF
			}
		}
	}()

	select {
	case <-ctx.Done():
		return "", io.EOF
	case err := <-errCh:
		return "", err
	case input := <-inputCh:
		return input, nil
	}
}

// capitalize upper-cases the first letter for display; error strings are
// lower-case by convention but become the prompt's error text verbatim.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
