// Command shopctl creates a shop login or resets its password.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"medicart-be/internal/auth"
	"medicart-be/internal/config"
	"medicart-be/internal/db"
	"medicart-be/internal/logger"
	"medicart-be/internal/shop"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database, err := db.NewDatabase(cfg)
	if err != nil {
		logger.L().Fatal("database unavailable", zap.Error(err))
	}
	defer database.Close()

	svc := shop.NewService(shop.NewRepository(database), auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL))
	if err := run(context.Background(), svc, os.Args[1:], os.Stdout); err != nil {
		logger.L().Fatal("shopctl failed", zap.Error(err))
	}
}

func run(ctx context.Context, svc shop.Service, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("shopctl", flag.ContinueOnError)
	fs.SetOutput(out)
	name := fs.String("name", "", "shop name (unique)")
	password := fs.String("password", "", "shop password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	sh, err := svc.Provision(ctx, *name, *password)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "shop %q ready (id %s)\n", sh.Name, sh.ID)
	return err
}
