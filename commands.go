package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ai_content_generator/config"
	"ai_content_generator/generator"
	"ai_content_generator/logger"
	"ai_content_generator/server"
)

type rootOptions struct {
	configPath string
	envFile    string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "content-generator",
		Short:         "Generate SEO-oriented social media content from a structured brief",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config.yaml")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	root.AddCommand(
		newServeCmd(opts),
		newGenerateCmd(opts),
		newPromptCmd(),
		newOptionsCmd(),
	)
	return root
}

// bootstrap loads config and builds the logger.
func bootstrap(opts *rootOptions) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(opts.configPath, opts.envFile)
	if err != nil {
		return config.Config{}, nil, err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	log, err := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		Encoding:   cfg.Log.Encoding,
		OutputPath: cfg.Log.OutputPath,
	})
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, log, nil
}

func buildAgent(cfg config.Config, log *zap.Logger) (*generator.Agent, error) {
	llm, err := generator.NewLLM(cfg.LLMSettings(), log)
	if err != nil {
		return nil, err
	}
	return generator.NewAgent(llm,
		generator.WithLogger(log),
		generator.WithTokenCounter(generator.NewTiktokenCounter()),
	)
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap(opts)
			if err != nil {
				return err
			}
			defer log.Sync()

			agent, err := buildAgent(cfg, log)
			if err != nil {
				return err
			}
			srv, err := server.New(agent, cfg, log)
			if err != nil {
				return err
			}
			listen := cfg.ServerAddr
			if addr != "" {
				listen = addr
			}
			return serve(cmd.Context(), listen, srv.Routes(), log)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server_addr)")
	return cmd
}

func serve(ctx context.Context, addr string, h http.Handler, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpSrv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting web server", zap.String("addr", addr))
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
}

// briefFlags binds the brief fields shared by generate and prompt.
type briefFlags struct {
	niche, topic, platform, tone, length, audience, keywords string
	cta, hashtags, images                                    bool
}

func (f *briefFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.niche, "niche", "", "business niche, e.g. \"clínica de psicologia\"")
	fl.StringVar(&f.topic, "topic", "", "content topic (required)")
	fl.StringVar(&f.platform, "platform", string(generator.PlatformInstagramFeed), "publishing platform")
	fl.StringVar(&f.tone, "tone", "Normal", "tone of voice")
	fl.StringVar(&f.length, "length", "Curto", "desired length")
	fl.StringVar(&f.audience, "audience", "Geral", "target audience")
	fl.StringVar(&f.keywords, "keywords", "", "SEO keywords, comma separated")
	fl.BoolVar(&f.cta, "cta", false, "include a call to action")
	fl.BoolVar(&f.hashtags, "hashtags", false, "include hashtags")
	fl.BoolVar(&f.images, "images", false, "include image or scene suggestions")
}

func (f *briefFlags) brief() (generator.Brief, error) {
	b := generator.Brief{
		Niche:                   f.niche,
		Topic:                   f.topic,
		Platform:                generator.Platform(f.platform),
		Tone:                    generator.Tone(f.tone),
		Length:                  generator.Length(f.length),
		Audience:                generator.Audience(f.audience),
		IncludeCTA:              f.cta,
		IncludeHashtags:         f.hashtags,
		IncludeImageSuggestions: f.images,
		Keywords:                f.keywords,
	}
	if err := b.Validate(); err != nil {
		return generator.Brief{}, err
	}
	if err := b.CheckOptions(); err != nil {
		return generator.Brief{}, err
	}
	return b, nil
}

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	var (
		bf          briefFlags
		model       string
		temperature float64
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate content once and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := bf.brief()
			if err != nil {
				return err
			}
			cfg, log, err := bootstrap(opts)
			if err != nil {
				return err
			}
			defer log.Sync()

			params := cfg.DefaultParams()
			if model != "" {
				if !cfg.AllowsModel(model) {
					return fmt.Errorf("model %q is not one of %s", model, strings.Join(cfg.Generation.Models, ", "))
				}
				params.Model = model
			}
			if cmd.Flags().Changed("temperature") {
				params.Temperature = generator.QuantizeTemperature(temperature)
			}

			agent, err := buildAgent(cfg, log)
			if err != nil {
				return err
			}
			sess := generator.NewSession("", agent)
			entry, err := sess.Generate(cmd.Context(), b, params)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), entry.Text)
			return nil
		},
	}
	bf.register(cmd)
	cmd.Flags().StringVar(&model, "model", "", "model id (defaults to generation.default_model)")
	cmd.Flags().Float64Var(&temperature, "temperature", generator.DefaultTemperature, "creativity, 0.0 to 1.0 in steps of 0.05")
	return cmd
}

func newPromptCmd() *cobra.Command {
	var bf briefFlags
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the compiled system and user instructions without calling a model",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := bf.brief()
			if err != nil {
				return err
			}
			writePrompt(cmd.OutOrStdout(), generator.Compile(b))
			return nil
		},
	}
	bf.register(cmd)
	return cmd
}

func writePrompt(w io.Writer, p generator.Prompt) {
	fmt.Fprintln(w, "=== system ===")
	fmt.Fprintln(w, p.System)
	fmt.Fprintln(w, "=== user ===")
	fmt.Fprintln(w, p.User)
}

func newOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List the accepted platforms, tones, lengths and audiences",
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "platforms:")
			for _, p := range generator.Platforms() {
				marker := ""
				if p.IsShortVideo() {
					marker = "  (short video)"
				}
				fmt.Fprintf(w, "  %s%s\n", p, marker)
			}
			printList(w, "tones", generator.Tones())
			printList(w, "lengths", generator.Lengths())
			printList(w, "audiences", generator.Audiences())
			printList(w, "models", generator.Models())
		},
	}
}

func printList[T ~string](w io.Writer, title string, items []T) {
	fmt.Fprintf(w, "%s:\n", title)
	for _, it := range items {
		fmt.Fprintf(w, "  %s\n", it)
	}
}
