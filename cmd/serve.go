package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/resume-insight/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the upload page and the JSON parse endpoint",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", ":8080", "address to listen on")

	viper.BindPFlag("serve.listen", serveCmd.Flags().Lookup("listen"))
}

func serve() {
	logger := newLogger()

	cfg := web.Config{Listen: viper.GetString("serve.listen")}
	if err := validator.New().Struct(cfg); err != nil {
		logger.Fatal("invalid listen address", zap.String("listen", cfg.Listen), zap.Error(err))
	}

	uploads, client := newClient(logger)
	server := web.New(uploads, client, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting the resume-insight web surface", zap.String("version", version), zap.String("listen", cfg.Listen))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Listen(cfg.Listen)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		return server.Shutdown()
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("serving", zap.Error(err))
	}
}
