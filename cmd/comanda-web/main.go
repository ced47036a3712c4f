package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/PabloGalante/comanda-agent/internal/adapters/http"
	"github.com/PabloGalante/comanda-agent/internal/adapters/llm"
	memstore "github.com/PabloGalante/comanda-agent/internal/adapters/storage/memory"
	"github.com/PabloGalante/comanda-agent/internal/app/conversation"
	"github.com/PabloGalante/comanda-agent/internal/app/orders"
	"github.com/PabloGalante/comanda-agent/internal/app/tools"
	"github.com/PabloGalante/comanda-agent/internal/config"
	"github.com/PabloGalante/comanda-agent/internal/domain"
	"github.com/PabloGalante/comanda-agent/internal/observability"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func main() {
	var (
		addr       string
		configPath string
		useMock    bool
	)

	root := &cobra.Command{
		Use:          "comanda-web",
		Short:        "Serve the restaurant ordering chat widget",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), addr, configPath, useMock)
		},
	}
	root.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides config)")
	root.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	root.Flags().BoolVar(&useMock, "mock", false, "use the scripted mock model instead of the hosted one")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, addr, configPath string, useMock bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Addr = addr
	}
	if useMock {
		cfg.UseMockLLM = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	observability.Setup(cfg.LogLevel)
	log := observability.Logger()

	// Choose between mock and the hosted model (useful for dev)
	var client domain.ConversationClient
	if cfg.UseMockLLM {
		log.Info().Msg("using mock conversation client")
		client = llm.NewMockClient()
	} else {
		log.Info().
			Str("backend", string(cfg.Backend)).
			Str("model", cfg.ModelName).
			Msg("using genai conversation client")
		client, err = llm.NewGenAIClient(ctx, cfg)
		if err != nil {
			return fmt.Errorf("initializing genai client: %w", err)
		}
	}

	orderStore := memstore.NewOrderStore()

	registry := tools.NewRegistry()
	if err := registry.Register(tools.NewPlaceOrderTool(orderStore)); err != nil {
		return err
	}

	// One session for the whole process, opened before the first request.
	if err := client.Initialize(ctx, llm.BuildSystemPrompt(cfg.RestaurantName), registry.Definitions()); err != nil {
		return fmt.Errorf("initializing conversation session: %w", err)
	}

	transcript := memstore.NewTranscriptStore()
	svc := conversation.NewService(client, transcript, registry)

	if err := svc.Greet(ctx, conversation.GreetingText(cfg.RestaurantName)); err != nil {
		return err
	}

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: httpadapter.NewServer(svc, orders.NewService(orderStore)),
	}

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		log.Info().Str("addr", cfg.Addr).Msg("comanda-web listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	eg.Go(func() error {
		<-egCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		log.Info().Msg("shutting down")
		return server.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
