package main

import (
	"bufio"
	"context"
	"ctchen222/mlb-compare/internal/client"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readSecret reads a line from the terminal without echo. When stdin is not a
// terminal it falls back to a plain line read.
func readSecret(in *bufio.Reader) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := in.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}
	pw, err := term.ReadPassword(fd)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

type menu struct {
	api    *client.Client
	in     *bufio.Reader
	out    io.Writer
	secret func(*bufio.Reader) (string, error)
}

func (m *menu) run(ctx context.Context) error {
	fmt.Fprintln(m.out, "MLB Player Value Comparison")

	// The token only lives here and is handed to each call that needs it.
	var token string
	for {
		status := "not logged in"
		if token != "" {
			status = "logged in"
		}
		fmt.Fprintf(m.out, "\n[%s] 1) Register  2) Login  3) Compare players  4) History  5) Quit\n", status)

		choice, err := m.prompt("Choose")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		switch choice {
		case "1", "register":
			err = m.register(ctx)
		case "2", "login":
			var t string
			if t, err = m.login(ctx); err == nil {
				token = t
			}
		case "3", "compare":
			err = m.compare(ctx, token)
		case "4", "history":
			err = m.history(ctx, token)
		case "5", "quit", "exit":
			return nil
		default:
			fmt.Fprintf(m.out, "Unknown option %q\n", choice)
			continue
		}

		if errors.Is(err, io.EOF) || ctx.Err() != nil {
			return nil
		}
		if err != nil {
			fmt.Fprintln(m.out, "Error:", err)
		}
	}
}

func (m *menu) prompt(label string) (string, error) {
	fmt.Fprintf(m.out, "%s: ", label)
	line, err := m.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (m *menu) password() (string, error) {
	fmt.Fprint(m.out, "Password: ")
	pw, err := m.secret(m.in)
	fmt.Fprintln(m.out)
	return pw, err
}

func (m *menu) register(ctx context.Context) error {
	name, err := m.prompt("Name")
	if err != nil {
		return err
	}
	email, err := m.prompt("Email")
	if err != nil {
		return err
	}
	pw, err := m.password()
	if err != nil {
		return err
	}

	if _, err := m.api.Register(ctx, name, email, pw); err != nil {
		return err
	}
	fmt.Fprintln(m.out, "Registered successfully! Please login.")
	return nil
}

func (m *menu) login(ctx context.Context) (string, error) {
	email, err := m.prompt("Email")
	if err != nil {
		return "", err
	}
	pw, err := m.password()
	if err != nil {
		return "", err
	}

	tok, err := m.api.Login(ctx, email, pw)
	if err != nil {
		return "", err
	}
	fmt.Fprintln(m.out, "Logged in successfully!")
	return tok.AccessToken, nil
}

func (m *menu) compare(ctx context.Context, token string) error {
	if token == "" {
		fmt.Fprintln(m.out, "Please login first.")
		return nil
	}
	p1, err := m.prompt("First player (e.g. Mike Trout)")
	if err != nil {
		return err
	}
	p2, err := m.prompt("Second player (e.g. Shohei Ohtani)")
	if err != nil {
		return err
	}

	fmt.Fprintln(m.out, "Comparing...")
	resp, err := m.api.Compare(ctx, token, p1, p2)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "\n%s vs %s\n\n%s\n", resp.Player1, resp.Player2, resp.Comparison)
	return nil
}

func (m *menu) history(ctx context.Context, token string) error {
	if token == "" {
		fmt.Fprintln(m.out, "Please login first.")
		return nil
	}
	entries, err := m.api.History(ctx, token)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(m.out, "No comparisons yet.")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(m.out, "\n%s  %s vs %s\n%s\n", e.Timestamp.Local().Format("2006-01-02 15:04"), e.Player1, e.Player2, e.Result)
	}
	return nil
}
