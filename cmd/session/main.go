package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"femilyship-web/internal/api"
	"femilyship-web/internal/config"
	"femilyship-web/internal/data"
	"femilyship-web/internal/logger"
	"femilyship-web/internal/service"
	"femilyship-web/internal/session"

	"golang.org/x/term"
)

const usage = `Usage: session <command> [flags]

Commands:
  login  -user <username> [-password <password>]
  signup -user <username> [-password <password>]
  logout
  whoami

Common flags:
  -db <path>   token store file (default from config)
  -api <url>   API base URL (default from config)`

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprintln(stdout, usage)
		return fmt.Errorf("missing command")
	}
	command, args := args[0], args[1:]

	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.SetOutput(stderr)
	username := fs.String("user", "", "Username")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	dbPath := fs.String("db", "", "Path to the token store file")
	baseURL := fs.String("api", "", "API base URL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if *dbPath != "" {
		cfg.Store.Path = *dbPath
	}
	if *baseURL != "" {
		cfg.API.BaseURL = *baseURL
	}
	log := logger.New(cfg.Log, stderr)

	db, err := data.NewDB(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("failed to open token store: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	manager := session.NewManager(data.NewTokenStore(db), log, session.WithDiscardExpired(cfg.Session.DiscardExpired))
	if err := manager.Bootstrap(ctx); err != nil {
		return err
	}
	client := api.New(cfg.API, manager, log)
	authService := service.NewAuthService(client, manager, log)

	switch command {
	case "login", "signup":
		if *username == "" {
			fmt.Fprintln(stdout, usage)
			return fmt.Errorf("missing required flags: user")
		}
		password := *passwordFlag
		if password == "" {
			fmt.Fprint(stdout, "Password: ")
			password, err = readPassword(stdin)
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			fmt.Fprintln(stdout)
		}

		if command == "signup" {
			if err := authService.Signup(ctx, *username, password); err != nil {
				return describe(err)
			}
			fmt.Fprintf(stdout, "Registered %s. Run 'session login -user %s' to log in.\n", *username, *username)
			return nil
		}
		if err := authService.Login(ctx, *username, password); err != nil {
			return describe(err)
		}
		user, _ := manager.CurrentUser()
		fmt.Fprintf(stdout, "Logged in as %s\n", user)
		return nil

	case "logout":
		if err := authService.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "Logged out")
		return nil

	case "whoami":
		user, ok := manager.CurrentUser()
		if !ok {
			fmt.Fprintln(stdout, "Not logged in")
			return nil
		}
		fmt.Fprintf(stdout, "Logged in as %s\n", user)
		if exp, ok := manager.ExpiresAt(); ok {
			fmt.Fprintf(stdout, "Token expires %s\n", exp.Local().Format(time.RFC1123))
		}
		return nil

	default:
		fmt.Fprintln(stdout, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

// describe turns an API error into the message a user should see.
func describe(err error) error {
	switch api.KindOf(err) {
	case api.KindAuth:
		return errors.New("invalid username or password")
	case api.KindNetwork:
		return fmt.Errorf("could not reach the server: %w", err)
	case api.KindValidation:
		return errors.New(api.MessageOf(err))
	default:
		return err
	}
}

func readPassword(stdin io.Reader) (string, error) {
	// Check if stdin is a terminal
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Fallback for non-terminal input such as pipes
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
