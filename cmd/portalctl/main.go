// Command portalctl is a terminal client for the self-reliance portal. It
// keeps a session alive across invocations by persisting the credential under
// the user's config directory and routes to a role-appropriate dashboard.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/kuss/selfreliance-portal/internal/core/domain"
	"github.com/kuss/selfreliance-portal/pkg/logger"
	"github.com/kuss/selfreliance-portal/pkg/portal"
	"github.com/kuss/selfreliance-portal/pkg/session"
)

func main() {
	_ = godotenv.Load()

	baseURL := flag.String("url", envOr("PORTAL_URL", "http://localhost:8080"), "portal API base URL")
	dataDir := flag.String("data-dir", defaultDataDir(), "directory for persisted session state")
	logLevel := flag.String("log-level", envOr("LOG_LEVEL", "warn"), "log level (trace, debug, info, warn, error)")
	flag.Parse()

	log := logger.Init(logger.Options{Level: *logLevel, Pretty: true, Output: os.Stderr})

	store := session.NewStore(log,
		session.NewFileTier(filepath.Join(*dataDir, "credential.json")),
		session.NewCookieTier(filepath.Join(*dataDir, "cookies.txt")),
	)
	client := portal.NewClient(*baseURL, store, log)
	controller := session.NewController(client, store, log, session.Options{
		UserCache: session.NewFileUserCache(filepath.Join(*dataDir, "user.json")),
	})
	defer controller.Close()

	router := session.NewRouter(loginView{}, loadingView{}, memberView{})
	router.Register(domain.RoleInstructor, instructorView{client: client})
	router.Register(domain.RoleStudent, studentView{client: client})
	for _, role := range domain.ReportRoles() {
		router.Register(role, leadershipView{client: client})
	}

	controller.Start()
	render(router, controller)

	fmt.Println(`Commands: login, signup, logout, status, view, quit`)
	sc := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !sc.Scan() {
			return
		}
		args := strings.Fields(sc.Text())
		if len(args) == 0 {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		switch args[0] {
		case "login":
			if len(args) != 3 {
				fmt.Println("usage: login <email> <password>")
				break
			}
			if err := controller.Login(ctx, args[1], args[2]); err != nil {
				fmt.Println("login failed:", err)
				break
			}
			render(router, controller)

		case "signup":
			if len(args) != 4 {
				fmt.Println("usage: signup <name> <email> <password>")
				break
			}
			err := controller.Signup(ctx, session.SignupData{
				Name:     args[1],
				Email:    args[2],
				Password: args[3],
			})
			if err != nil {
				fmt.Println("signup failed:", err)
				break
			}
			render(router, controller)

		case "logout":
			controller.Logout(ctx)
			fmt.Println("Signed out.")

		case "status":
			printStatus(controller.Snapshot())

		case "view":
			render(router, controller)

		case "quit", "exit":
			cancel()
			return

		default:
			fmt.Println("unknown command:", args[0])
		}
		cancel()
	}
}

func render(router *session.Router, controller *session.Controller) {
	snap := controller.Snapshot()
	view := router.Resolve(snap)
	if err := view.Render(snap, os.Stdout); err != nil {
		fmt.Println("view error:", err)
	}
	if snap.ExpiryWarning {
		fmt.Printf("Warning: session expires in %s.\n", snap.TimeUntilExpiry.Round(time.Minute))
	}
}

func printStatus(snap session.Snapshot) {
	switch {
	case snap.Loading:
		fmt.Println("Session: restoring")
	case !snap.Authenticated:
		fmt.Println("Session: signed out")
	default:
		fmt.Printf("Session: %s <%s> role=%s ward=%s, expires in %s\n",
			snap.User.Name, snap.User.Email, snap.User.Role, snap.User.Ward,
			snap.TimeUntilExpiry.Round(time.Second))
	}
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "portalctl")
	}
	return ".portalctl"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
