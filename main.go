package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"starshunters-server/config"
	game "starshunters-server/src"
	api "starshunters-server/src/api"

	"github.com/spf13/cobra"
)

var (
	httpAddr  string
	grpcAddr  string
	staticDir string
	envFile   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "starshunters",
		Short: "Authoritative game server for Stars Hunters",
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP, WebSocket and gRPC status servers",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&httpAddr, "addr", "", "HTTP listen address (overrides HTTP_ADDR)")
	serveCmd.Flags().StringVar(&grpcAddr, "grpc-addr", "", "gRPC status listen address, empty disables (overrides GRPC_ADDR)")
	serveCmd.Flags().StringVar(&staticDir, "static-dir", "", "directory of static client files (overrides STATIC_DIR)")
	serveCmd.Flags().StringVar(&envFile, "env-file", ".env", "optional .env file to load")

	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := config.LoadEnvFile(envFile); err != nil {
		return err
	}
	cfg := config.LoadServerConfig()
	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.HTTPAddr = httpAddr
	}
	if flags.Changed("grpc-addr") {
		cfg.GRPCAddr = grpcAddr
	}
	if flags.Changed("static-dir") {
		cfg.StaticDir = staticDir
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.Default()
	gs := game.NewGameServer(game.Options{
		Logger:       logger,
		MessageRate:  cfg.MessageRate,
		MessageBurst: cfg.MessageBurst,
	})
	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()
	go gs.Run(loopCtx)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      api.NewRouter(cfg, gs),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	errc := make(chan error, 2)
	go func() {
		log.Printf("Server started on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	if cfg.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return err
		}
		grpcSrv := api.NewGRPCServer(gs, logger)
		defer grpcSrv.GracefulStop()
		go func() {
			log.Printf("gRPC status service on %s", cfg.GRPCAddr)
			if err := grpcSrv.Serve(lis); err != nil {
				errc <- err
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Println("Shutting down")
	case runErr = <-errc:
		log.Printf("Server error: %v", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown: %v", err)
	}
	return runErr
}
