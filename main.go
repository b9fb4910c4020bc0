package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/farmanet/asisbot/config"
	"github.com/farmanet/asisbot/internal/adminapi"
	"github.com/farmanet/asisbot/internal/app"
	"github.com/farmanet/asisbot/internal/assistant"
	"github.com/farmanet/asisbot/internal/chatapi"
	"github.com/farmanet/asisbot/internal/webserver"
)

var (
	conffile = flag.String("c", "asisbot.yml", "config file")
	initdb   = flag.Bool("initdb", false, "drop and recreate the database schema, then exit")
	showVer  = flag.Bool("v", false, "print version and exit")
)

var version = "dev"

func main() {
	flag.Parse()
	if *showVer {
		fmt.Println("asisbot", version)
		return
	}

	_ = godotenv.Load()
	cfg := config.LoadConfig(*conffile)

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.S().Info("database initialized")
		return
	}

	model := assistant.NewOpenAIClient(cfg.Assistant)
	pipeline := assistant.NewDefaultPipeline(model, application.DB(), application.Bus(), cfg.Assistant)

	// Audit write failures go to the ops channel; the user response is
	// already out the door at that point.
	_ = application.Bus().Subscribe(assistant.TopicAuditWriteFailed, func(detail string) {
		zap.L().Warn("audit row lost", zap.String("detail", detail))
	})

	webserver.Init(application)
	adminapi.InitRouter()
	chatapi.InitRouter(pipeline)

	g, ctx := errgroup.WithContext(context.Background())
	g.Go(webserver.Listen)
	g.Go(func() error {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-ctx.Done():
			return nil
		case sig := <-sigc:
			zap.S().Infof("received signal %s, shutting down", sig)
			sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return webserver.Shutdown(sctx)
		}
	})

	if err := g.Wait(); err != nil {
		zap.S().Errorf("server exited: %s", err.Error())
		os.Exit(1)
	}
}
