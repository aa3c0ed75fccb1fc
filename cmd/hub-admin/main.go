// ABOUTME: Admin CLI for inspecting and repairing a hub store
// ABOUTME: Direct SQLite access: list users, export/import profiles, clear notifications

package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/anglershub/hub/internal/config"
	"github.com/anglershub/hub/internal/feed"
	"github.com/anglershub/hub/internal/identity"
	"github.com/anglershub/hub/internal/profile"
	"github.com/anglershub/hub/internal/store"
)

const banner = `
 _           _
| |__  _   _| |__        __ _  __| |_ __ ___ (_)_ __
| '_ \| | | | '_ \ _____ / _' |/ _' | '_ ' _ \| | '_ \
| | | | |_| | |_) |_____| (_| | (_| | | | | | | | | | |
|_| |_|\__,_|_.__/       \__,_|\__,_|_| |_| |_|_|_| |_|
`

func main() {
	// .env is optional; absence is not an error.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		printUsage()
		return
	}

	ctx := context.Background()

	app, err := openApp()
	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	switch cmd {
	case "users":
		err = app.cmdUsers(ctx)
	case "show":
		err = app.cmdShow(ctx, args)
	case "export":
		err = app.cmdExport(ctx, args)
	case "import":
		err = app.cmdImport(ctx, args)
	case "clear-notifications":
		err = app.cmdClearNotifications(ctx, args)
	case "keys":
		err = app.cmdKeys(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	cyan.Print(banner)
	fmt.Println()
	fmt.Println("Usage: hub-admin <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  users                        List all users")
	fmt.Println("  show <email>                 Show one user in detail")
	fmt.Println("  export <email> [file]        Export a user profile as JSON")
	fmt.Println("  import <file>                Import a user profile from JSON")
	fmt.Println("  clear-notifications <email>  Delete a user's notifications")
	fmt.Println("  keys                         List raw store keys")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  HUB_CONFIG    Path to hub-server config (default: ~/.config/hub/server.yaml)")
	fmt.Println()
	yellow.Println("Examples:")
	fmt.Println("  hub-admin users")
	fmt.Println("  hub-admin export maria@sample.com maria.json")
	fmt.Println("  hub-admin import maria.json")
	fmt.Println()
}

// app bundles the admin CLI's direct store access.
type app struct {
	kv          store.KV
	collections *store.Collections
	identity    *identity.Service
	profile     *profile.Service
	feed        *feed.Service
}

// openApp loads the server config and opens the store it points at.
func openApp() (*app, error) {
	configPath := os.Getenv("HUB_CONFIG")
	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("locating home directory: %w", err)
		}
		configPath = homeDir + "/.config/hub/server.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	kv, err := store.NewSQLiteKV(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	collections := store.NewCollections(kv)
	sessions := identity.NewSessions(collections, store.NewCollections(store.NewMemoryKV()))

	return &app{
		kv:          kv,
		collections: collections,
		identity:    identity.NewService(collections, sessions),
		profile:     profile.NewService(collections, sessions),
		feed:        feed.NewService(collections),
	}, nil
}

func (a *app) Close() {
	_ = a.kv.Close()
}

func (a *app) cmdUsers(ctx context.Context) error {
	users, err := a.identity.ListUsers(ctx)
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  Users")
	cyan.Println("  -----")

	if len(users) == 0 {
		fmt.Println("  (no users)")
		fmt.Println()
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  NAME\tEMAIL\tFRIENDS\tPENDING\tPOSTS")
	fmt.Fprintln(w, "  ----\t-----\t-------\t-------\t-----")

	for i := range users {
		u := &users[i]
		fmt.Fprintf(w, "  %s\t%s\t%d\t%d\t%d\n",
			truncate(u.Name, 24), u.Email, len(u.Friends), len(u.FriendRequests), len(u.Posts))
	}
	w.Flush()
	fmt.Println()

	return nil
}

func (a *app) cmdShow(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: hub-admin show <email>")
	}

	user, err := a.identity.User(ctx, args[0])
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)

	fmt.Println()
	cyan.Println("  User")
	cyan.Println("  ----")
	fmt.Printf("  Name:     %s\n", user.Name)
	fmt.Printf("  Email:    %s\n", user.Email)
	fmt.Printf("  Friends:  %d\n", len(user.Friends))
	for _, f := range user.Friends {
		fmt.Printf("            - %s\n", f)
	}
	fmt.Printf("  Pending:  %d\n", len(user.FriendRequests))
	for _, r := range user.FriendRequests {
		ts := time.UnixMilli(r.Timestamp).Format("Jan 02 15:04")
		fmt.Printf("            - %s (%s)\n", r.From, ts)
	}
	fmt.Printf("  Posts:    %d\n", len(user.Posts))
	if user.ProfilePic != "" {
		green.Printf("  Picture:  set (%d bytes)\n", len(user.ProfilePic))
	}
	fmt.Println()

	return nil
}

func (a *app) cmdExport(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: hub-admin export <email> [file]")
	}

	data, err := a.profile.Export(ctx, args[0])
	if err != nil {
		return err
	}

	if len(args) >= 2 {
		if err := os.WriteFile(args[1], data, 0600); err != nil {
			return fmt.Errorf("writing export: %w", err)
		}
		color.Green("  ✓ Exported %s to %s\n", args[0], args[1])
		return nil
	}

	fmt.Println(string(data))
	return nil
}

func (a *app) cmdImport(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: hub-admin import <file>")
	}

	payload, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	user, err := a.profile.Import(ctx, payload)
	if err != nil {
		return err
	}

	color.Green("  ✓ Imported profile for %s (%s)\n", user.Name, user.Email)
	return nil
}

func (a *app) cmdClearNotifications(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: hub-admin clear-notifications <email>")
	}

	// Verify the user exists before touching anything.
	if _, err := a.identity.User(ctx, args[0]); err != nil {
		return err
	}

	if err := a.feed.ClearFor(ctx, args[0]); err != nil {
		return err
	}

	color.Green("  ✓ Cleared notifications for %s\n", args[0])
	return nil
}

func (a *app) cmdKeys(ctx context.Context) error {
	keys, err := a.kv.Keys(ctx)
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  Store Keys")
	cyan.Println("  ----------")

	if len(keys) == 0 {
		fmt.Println("  (empty store)")
		fmt.Println()
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  KEY\tREVISION\tSIZE")
	fmt.Fprintln(w, "  ---\t--------\t----")

	for _, key := range keys {
		value, rev, err := a.kv.Get(ctx, key)
		if err != nil {
			fmt.Fprintf(w, "  %s\t?\t(unreadable: %v)\n", key, err)
			continue
		}
		fmt.Fprintf(w, "  %s\t%d\t%d\n", key, rev, len(value))
	}
	w.Flush()
	fmt.Println()

	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
