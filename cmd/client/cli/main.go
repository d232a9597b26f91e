package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/noteflow/internal/buildinfo"
	"github.com/dmitrijs2005/noteflow/internal/client/cli"
	"github.com/dmitrijs2005/noteflow/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

	if err := app.Close(context.Background()); err != nil {
		log.Printf("failed to save notes: %v", err)
	}

}
