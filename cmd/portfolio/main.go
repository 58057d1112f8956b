// Command portfolio is an interactive terminal client for the portfolio
// backend: upload a resume, review it, then generate or deploy a site.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"portfolio-backend/pkg/client"
)

func main() {
	_ = godotenv.Load()

	apiURL := flag.String("api", envOr("PORTFOLIO_API_URL", "http://localhost:8000"), "backend base URL")
	guest := flag.String("guest", envOr("PORTFOLIO_GUEST_ID", uuid.NewString()), "guest id used for history")
	outDir := flag.String("out", ".", "directory for generated archives")
	timeout := flag.Duration("timeout", 3*time.Minute, "per-request timeout")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api := client.NewClient(*apiURL, client.WithTimeout(*timeout), client.WithGuestID(*guest))
	a := newApp(api, surveyPrompter{}, os.Stdout)
	a.outDir = *outDir
	a.githubToken = os.Getenv("GITHUB_TOKEN")
	a.vercelToken = os.Getenv("VERCEL_TOKEN")

	if err := a.run(ctx); err != nil && !errors.Is(err, errAborted) {
		log.Fatalf("portfolio: %v", err)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
