// ABOUTME: Admin CLI for Sentinel user and document management
// ABOUTME: Resolves the stored session and gates every command on role level

package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/llm-se/sentinel-cli/internal/admin"
	"github.com/llm-se/sentinel-cli/internal/api"
	"github.com/llm-se/sentinel-cli/internal/config"
	"github.com/llm-se/sentinel-cli/internal/guard"
	"github.com/llm-se/sentinel-cli/internal/session"
)

// app holds the wired clients shared by all subcommands.
type app struct {
	client *api.Client
	store  *session.Store
	users  *admin.Users
	docs   *admin.Documents
}

var (
	configPath string
	serverURL  string
	theApp     app
)

var rootCmd = &cobra.Command{
	Use:   "sentinel-admin",
	Short: "Manage Sentinel users and documents",
	Long: `Administrative CLI for the Sentinel RBAC-secured RAG system.

Requires a logged-in session (run sentinel-chat to log in) with role
level 3 or higher. Every mutation re-lists the affected resource so the
output always reflects the backend's state.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return theApp.init(cmd.Context())
	},
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Backend URL (overrides config)")

	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(documentsCmd)

	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

// init loads config, rehydrates the stored session, fetches the caller's
// profile, and refuses to proceed unless the access guard allows the admin
// surface.
func (a *app) init(ctx context.Context) error {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if serverURL != "" {
		cfg.Server.BaseURL = serverURL
	}

	a.client = api.NewClientWithHTTP(cfg.Server.BaseURL, &http.Client{Timeout: cfg.Server.Timeout})

	tokenPath, err := session.DefaultTokenPath()
	if err != nil {
		return err
	}
	a.store = session.NewStore(a.client, session.NewTokenFile(tokenPath))

	if !a.store.Resume() {
		return fmt.Errorf("not logged in — run sentinel-chat to log in first")
	}

	// A resumed session carries only the credential. The guard needs the
	// profile, so fetch it explicitly.
	sess := a.store.Current()
	profile, err := a.client.Me(ctx, sess.Token)
	if err != nil {
		return fmt.Errorf("verifying session: %w", err)
	}
	sess.User = profile

	if d := guard.Decide(sess, guard.AdminRoleLevel); !d.Allow {
		if d.Redirect == guard.LoginPath {
			return fmt.Errorf("not logged in — run sentinel-chat to log in first")
		}
		return fmt.Errorf("admin privileges required (role level %d, need %d)", profile.RoleLevel, guard.AdminRoleLevel)
	}

	token := func() string { return a.store.Current().Token }
	self := func() string { return profile.Username }
	a.users = admin.NewUsers(a.client, token, self)
	a.docs = admin.NewDocuments(a.client, token)
	return nil
}

// confirm asks for explicit confirmation before a destructive call.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
