// Command shop-provision creates a shop account so that its owner can
// authenticate against the API. Shops are provisioned out of band; the
// server itself exposes no registration endpoint.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/phrazzld/faqgen-api/internal/config"
	"github.com/phrazzld/faqgen-api/internal/domain"
	"github.com/phrazzld/faqgen-api/internal/platform/postgres"
	"github.com/phrazzld/faqgen-api/internal/service/auth"
	"github.com/phrazzld/faqgen-api/internal/store"
)

func main() {
	shopDomain := flag.String("domain", "", "shop domain, e.g. my-store.example.com")
	name := flag.String("name", "", "display name of the shop")
	password := flag.String("password", "", "plaintext password to hash and store")
	flag.Parse()

	if *shopDomain == "" || *name == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: shop-provision -domain <domain> -name <name> -password <password>")
		os.Exit(2)
	}

	if err := run(*shopDomain, *name, *password); err != nil {
		fmt.Fprintf(os.Stderr, "shop-provision: %v\n", err)
		os.Exit(1)
	}
}

func run(shopDomain, name, password string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	shop, err := domain.NewShop(shopDomain, name, hash)
	if err != nil {
		return fmt.Errorf("invalid shop data: %w", err)
	}

	shopStore := postgres.NewPostgresShopStore(db, slog.Default())
	if err := shopStore.Create(ctx, shop); err != nil {
		if errors.Is(err, store.ErrShopDomainExists) {
			return fmt.Errorf("a shop with domain %q already exists", shopDomain)
		}
		return fmt.Errorf("failed to create shop: %w", err)
	}

	fmt.Printf("created shop %s (%s)\n", shop.ID, shop.Domain)
	return nil
}
