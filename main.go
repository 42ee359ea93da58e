package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lledoind/aerotools/config"
	"github.com/lledoind/aerotools/internal/adminapi"
	"github.com/lledoind/aerotools/internal/app"
	"github.com/lledoind/aerotools/internal/webserver"
)

var (
	h       = flag.Bool("h", false, "help usage")
	showVer = flag.Bool("v", false, "show version")
	cfile   = flag.String("c", "aerotools.yml", "config file")
	initdb  = flag.Bool("initdb", false, "drop and rebuild the database schema")
	initcfg = flag.Bool("initcfg", false, "write the default config file and exit")
)

var (
	BuildVersion string
	ReleaseDate  string
)

func printVersion() {
	fmt.Printf("aerotools %s (%s)\n", BuildVersion, ReleaseDate)
}

func main() {
	flag.Parse()
	if *h {
		flag.Usage()
		os.Exit(0)
	}
	if *showVer {
		printVersion()
		os.Exit(0)
	}

	appConfig := config.LoadConfig(*cfile)

	if *initcfg {
		if err := config.WriteDefaultConfig(*cfile); err != nil {
			fmt.Fprintf(os.Stderr, "write config failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	application := app.NewApplication(appConfig)
	application.Init(appConfig)
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.S().Info("database initialized")
		os.Exit(0)
	}

	server := webserver.Init(application)
	adminapi.InitRouter()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Listen()
	})
	g.Go(func() error {
		<-ctx.Done()
		return server.Shutdown()
	})

	if err := g.Wait(); err != nil {
		zap.S().Errorf("server stopped: %v", err)
	}
}
