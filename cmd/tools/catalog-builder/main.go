// cmd/tools/catalog-builder/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"lucy-chat/internal/common/config"
	"lucy-chat/internal/common/database"
	"lucy-chat/internal/common/logger"
	lp "lucy-chat/internal/workers/catalog/lookup-product"
	qr "lucy-chat/internal/workers/recipes/query-recipes"
	"lucy-chat/pkg/catalog"
)

type recipesLogger struct {
	logger.Logger
}

func (l *recipesLogger) With(fields map[string]interface{}) qr.Logger {
	return &recipesLogger{l.Logger.With(fields)}
}

type catalogLogger struct {
	logger.Logger
}

func (l *catalogLogger) With(fields map[string]interface{}) lp.Logger {
	return &catalogLogger{l.Logger.With(fields)}
}

func main() {
	buildCmd := flag.NewFlagSet("build", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)

	// Build command flags
	out := buildCmd.String("out", "public/products.json", "Output path of the product catalog")
	baseURL := buildCmd.String("base-url", config.DefaultRecipesBaseURL, "Recipe API base URL")
	timeout := buildCmd.Duration("timeout", 30*time.Second, "Recipe API request timeout")

	// Validate command flags
	validatePath := validateCmd.String("path", "public/products.json", "Path to the product catalog")

	// Seed command flags
	seedPath := seedCmd.String("path", "public/products.json", "Path to the product catalog")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	log := logger.NewStructured("info", "console")
	defer log.Sync()
	ctx := context.Background()

	switch os.Args[1] {
	case "build":
		buildCmd.Parse(os.Args[2:])
		n, err := build(ctx, *baseURL, *timeout, *out, log)
		if err != nil {
			fmt.Printf("Error building catalog: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %d products to %s\n", n, *out)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		data, err := os.ReadFile(*validatePath)
		if err != nil {
			fmt.Printf("Error reading catalog: %v\n", err)
			os.Exit(1)
		}
		if err := catalog.Validate(data); err != nil {
			fmt.Printf("Catalog is invalid: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Catalog is valid.")

	case "seed":
		seedCmd.Parse(os.Args[2:])
		n, err := seed(ctx, *seedPath, log)
		if err != nil {
			fmt.Printf("Error seeding catalog: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Seeded %d products\n", n)

	default:
		help()
		os.Exit(1)
	}
}

// build derives one product per distinct recipe ingredient and writes them to out.
func build(ctx context.Context, baseURL string, timeout time.Duration, out string, log logger.Logger) (int, error) {
	cfg := qr.LoadConfig()
	cfg.BaseURL = baseURL
	cfg.Timeout = timeout

	recipes, err := qr.NewService(cfg, nil, nil, &recipesLogger{log}).All(ctx)
	if err != nil {
		return 0, err
	}
	products := catalog.BuildFromRecipes(recipes)
	if err := catalog.Save(out, products); err != nil {
		return 0, err
	}
	return len(products), nil
}

// seed loads the catalog file into the PostgreSQL products table configured
// in configs/config.yaml.
func seed(ctx context.Context, path string, log logger.Logger) (int, error) {
	products, err := catalog.Load(path)
	if err != nil {
		return 0, err
	}
	cfg, err := config.Load()
	if err != nil {
		return 0, err
	}
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return 0, err
	}
	defer pg.Close()
	if err := pg.Ping(ctx); err != nil {
		return 0, err
	}

	pc := lp.NewPostgresCatalog(lp.FromAppConfig(cfg.Catalog), pg, &catalogLogger{log})
	if err := pc.Seed(ctx, products); err != nil {
		return 0, err
	}
	return len(products), nil
}

func help() {
	fmt.Println(`Usage: catalog-builder <command> [options]

Commands:
  build      Fetch every recipe and write one product per ingredient
             -out       output file (default public/products.json)
             -base-url  recipe API base URL
             -timeout   request timeout
  validate   Check a catalog file against the product schema
             -path      catalog file
  seed       Upsert a catalog file into the PostgreSQL products table
             -path      catalog file`)
}
