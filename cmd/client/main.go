package main

import (
	"bufio"
	"context"
	"ctchen222/mlb-compare/internal/client"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	defaultURL := os.Getenv("API_BASE_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8000"
	}
	baseURL := flag.String("server", defaultURL, "base URL of the comparison API")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := &menu{
		api:    client.New(*baseURL, nil),
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		secret: readSecret,
	}
	if err := m.run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
