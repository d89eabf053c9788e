package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/feedbird/feedbird/internal/client/api"
	"github.com/feedbird/feedbird/internal/client/chat"
	"github.com/feedbird/feedbird/internal/client/credentials"
	"github.com/feedbird/feedbird/internal/client/feed"
	"github.com/feedbird/feedbird/internal/client/session"
	"github.com/feedbird/feedbird/internal/config"
	"github.com/feedbird/feedbird/internal/logger"
)

var (
	version   string
	buildDate string
)

// app bundles the stores the shell commands operate on.
type app struct {
	session *session.Store
	feed    *feed.Store
	chatURL string
	log     *zap.Logger
}

// repl runs the interactive shell loop, dispatching commands to the
// session and feed stores.
func repl(a *app) {
	scanner := bufio.NewScanner(os.Stdin)
	ctx := context.Background()

	for {
		fmt.Print("feedbird> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Println("Available commands: help, login, register, logout, whoami, profile <name> [avatarPath], feed, post <text>, like <id>, delete <id>, comment <id> <text>, chat, exit")
		case "login":
			email := prompt(scanner, "Email: ")
			password := prompt(scanner, "Password: ")
			if err := a.session.Login(ctx, email, password); err != nil {
				fmt.Println("Login failed:", err)
				continue
			}
			fmt.Println("Logged in as", a.session.CurrentUser().Name)
		case "register":
			name := prompt(scanner, "Name: ")
			email := prompt(scanner, "Email: ")
			password := prompt(scanner, "Password: ")
			if err := a.session.Register(ctx, name, email, password); err != nil {
				fmt.Println("Registration failed:", err)
				continue
			}
			fmt.Println("Registered as", a.session.CurrentUser().Name)
		case "logout":
			a.session.Logout()
			fmt.Println("Logged out")
		case "whoami":
			user := a.session.CurrentUser()
			if user == nil {
				fmt.Println("Not logged in")
			} else {
				fmt.Printf("#%d %s <%s>\n", user.ID, user.Name, user.Email)
				if user.Avatar != "" {
					fmt.Println("Avatar:", user.Avatar)
				}
			}
		case "profile":
			if len(args) < 2 {
				fmt.Println("Usage: profile <name> [avatarPath]")
				continue
			}
			if err := updateProfile(ctx, a, args[1], args[2:]); err != nil {
				fmt.Println("Profile update failed:", err)
				continue
			}
			fmt.Println("Profile updated")
		case "feed":
			if err := a.feed.FetchPosts(ctx); err != nil {
				fmt.Println("Could not load feed:", err)
				continue
			}
			renderFeed(a)
		case "post":
			if len(args) < 2 {
				fmt.Println("Usage: post <text>")
				continue
			}
			content := strings.TrimSpace(strings.TrimPrefix(line, "post"))
			if err := a.feed.CreatePost(ctx, content); err != nil {
				fmt.Println("Could not create post:", err)
				continue
			}
			fmt.Println("Posted")
		case "like":
			id, ok := parseID(args, "Usage: like <id>")
			if !ok {
				continue
			}
			a.feed.LikePost(ctx, id)
		case "delete":
			id, ok := parseID(args, "Usage: delete <id>")
			if !ok {
				continue
			}
			deletePost(ctx, a, id)
		case "comment":
			if len(args) < 3 {
				fmt.Println("Usage: comment <id> <text>")
				continue
			}
			id, err := strconv.Atoi(args[1])
			if err != nil {
				fmt.Println("Usage: comment <id> <text>")
				continue
			}
			a.feed.AddComment(ctx, id, strings.Join(args[2:], " "))
		case "chat":
			chatLoop(ctx, a, scanner)
		case "exit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

// prompt reads one line of input after printing a label.
func prompt(scanner *bufio.Scanner, label string) string {
	fmt.Print(label)
	scanner.Scan()
	return strings.TrimSpace(scanner.Text())
}

func parseID(args []string, usage string) (int, bool) {
	if len(args) < 2 {
		fmt.Println(usage)
		return 0, false
	}
	id, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Println(usage)
		return 0, false
	}
	return id, true
}

func updateProfile(ctx context.Context, a *app, name string, rest []string) error {
	if len(rest) == 0 {
		return a.session.UpdateProfile(ctx, name, nil, "")
	}
	f, err := os.Open(rest[0])
	if err != nil {
		return err
	}
	defer f.Close()
	return a.session.UpdateProfile(ctx, name, f, filepath.Base(rest[0]))
}

func deletePost(ctx context.Context, a *app, id int) {
	for _, p := range a.feed.Posts() {
		if p.ID == id {
			if !a.feed.CanDelete(p) {
				fmt.Println("You can only delete your own posts")
				return
			}
			break
		}
	}
	a.feed.DeletePost(ctx, id)
}

func renderFeed(a *app) {
	posts := a.feed.Posts()
	if len(posts) == 0 {
		fmt.Println("The feed is empty")
		return
	}
	for _, p := range posts {
		fmt.Printf("#%d %s (%s) — %d like(s)\n", p.ID, p.AuthorName, p.CreatedAt.Format("2006-01-02 15:04"), p.Likes)
		fmt.Println("  " + p.Content)
		for _, c := range p.Comments {
			fmt.Printf("    %s: %s\n", c.AuthorName, c.Text)
		}
	}
}

// chatLoop opens the chat channel for the duration of the chat view.
// Incoming messages print as they arrive; typed lines are sent until
// /quit.
func chatLoop(ctx context.Context, a *app, scanner *bufio.Scanner) {
	ch, err := chat.Dial(ctx, a.chatURL, a.log)
	if err != nil {
		fmt.Println("Could not open chat:", err)
		return
	}
	defer ch.Close()

	seen := 0
	unsubscribe := ch.Subscribe(func() {
		msgs := ch.Messages()
		for ; seen < len(msgs); seen++ {
			fmt.Printf("\n%s: %s\n> ", msgs[seen].User, msgs[seen].Text)
		}
	})
	defer unsubscribe()

	name := "anonymous"
	if user := a.session.CurrentUser(); user != nil {
		name = user.Name
	}

	fmt.Println("Chat open. Type a message, or /quit to leave.")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "/quit" {
			return
		}
		if text == "" {
			continue
		}
		if err := ch.Send(name, text); err != nil {
			fmt.Println("Could not send message:", err)
			return
		}
	}
}

// main wires the configuration, logger, credential store, HTTP facade,
// and stores together, then hands control to the shell.
func main() {
	showVer := flag.Bool("version", false, "show build version and date")
	options := config.Parse()

	if *showVer {
		fmt.Printf("feedbird client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	appLog := logger.New()
	if err := appLog.Init(options.LogLevel); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = appLog.Log.Sync() }()

	creds := credentials.New(options.TokenFile)
	apiClient := api.New(options.APIBaseURL, creds, nil)
	sessionStore := session.New(apiClient, creds, appLog.Log)
	feedStore := feed.New(apiClient, sessionStore, appLog.Log)

	sessionStore.Init(context.Background())
	if user := sessionStore.CurrentUser(); user != nil {
		fmt.Println("Welcome back,", user.Name)
	} else {
		fmt.Println("Welcome to feedbird. Type 'login' or 'register' to get started.")
	}

	repl(&app{
		session: sessionStore,
		feed:    feedStore,
		chatURL: options.ChatURL,
		log:     appLog.Log,
	})
}
