package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/Aki894/mcp-RxNav/appconfig"
	"github.com/Aki894/mcp-RxNav/controller"
	"github.com/Aki894/mcp-RxNav/mcp"
	"github.com/Aki894/mcp-RxNav/model"
	"github.com/Aki894/mcp-RxNav/service"
	"github.com/SaiNageswarS/go-api-boot/dotenv"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-api-boot/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "mcp-rxnav",
		Short:        "RxNorm drug terminology tools with extractive RAG summaries",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", appconfig.DefaultPath, "path to the ini configuration file")

	root.AddCommand(
		newServeCmd(&configPath),
		newStdioCmd(&configPath),
		newSummarizeCmd(&configPath),
	)
	return root
}

func loadConfig(path string) (*appconfig.AppConfig, error) {
	dotenv.LoadEnv()
	return appconfig.Load(path)
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the REST API and the MCP streamable HTTP endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			boot, err := server.New().
				GRPCPort(cfg.GrpcPort).
				HTTPPort(cfg.HttpPort).
				ProvideFunc(func() *appconfig.AppConfig { return cfg }).
				ProvideFunc(service.ProvideCache).
				ProvideFunc(service.ProvideResolver).
				ProvideFunc(service.ProvidePipeline).
				ProvideFunc(service.ProvideDrugService).
				ProvideFunc(mcp.ProvideServer).
				AddRestController(controller.ProvideSummaryController).
				AddRestController(controller.ProvideMetadataController).
				AddRestController(controller.ProvideMCPController).
				AddRestController(controller.ProvideMetricsController).
				AddRestController(controller.ProvideDisclaimerController).
				Build()
			if err != nil {
				logger.Fatal("Dependency Injection Failed", zap.Error(err))
			}

			boot.Serve(getCancellableContext(cmd.Context()))
			return nil
		},
	}
}

func newStdioCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stdio",
		Short: "Serve the MCP tools over stdin/stdout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			svc, err := newDrugService(cfg)
			if err != nil {
				return err
			}
			return mcp.ServeStdio(getCancellableContext(cmd.Context()), mcp.ProvideServer(svc, cfg))
		},
	}
}

func newSummarizeCmd(configPath *string) *cobra.Command {
	var req service.SummaryRequest

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Print a one-off RAG summary for a drug as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			svc, err := newDrugService(cfg)
			if err != nil {
				return err
			}

			res, err := svc.Summarize(getCancellableContext(cmd.Context()), req)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(model.NewSummaryResponse(res))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&req.Drug, "drug", "", "drug name or RxCUI")
	flags.StringVar(&req.Query, "query", "", "question used to rank passages, defaults to the drug")
	flags.StringVar(&req.Condition, "condition", "", "optional condition for context")
	flags.IntVar(&req.TopK, "top-k", service.DefaultTopK, "number of passages to keep")
	flags.IntVar(&req.Limit, "limit", service.DefaultLimit, "results fetched per lookup")
	_ = cmd.MarkFlagRequired("drug")
	return cmd
}

// newDrugService wires the same graph as the serve command without the DI container.
func newDrugService(cfg *appconfig.AppConfig) (*service.DrugService, error) {
	pipeline, err := service.NewPipeline(cfg)
	if err != nil {
		return nil, err
	}
	resolver := service.ProvideResolver(cfg, service.ProvideCache(cfg))
	return service.ProvideDrugService(resolver, pipeline), nil
}

func getCancellableContext(parent context.Context) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sig
		cancel()
	}()

	return ctx
}
