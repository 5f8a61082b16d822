package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/figbridge/figbridge/pkg/bridge"
	"github.com/figbridge/figbridge/pkg/emit"
	"github.com/figbridge/figbridge/pkg/engine"
	mcpserver "github.com/figbridge/figbridge/pkg/mcp"
	"github.com/figbridge/figbridge/pkg/mcplog"
	"github.com/figbridge/figbridge/pkg/notify"
	"github.com/figbridge/figbridge/pkg/scene"
	"github.com/figbridge/figbridge/pkg/util"
	"github.com/figbridge/figbridge/pkg/watch"
)

const version = "0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := loadProjectConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read config: %v\n", err)
		os.Exit(1)
	}
	if cfg == nil {
		cfg = &ProjectConfig{}
	}

	logger := util.NewLogger(util.LoggerConfig{
		Level:  util.LogLevel(stringOr("", cfg.Log.Level, string(util.LevelInfo))),
		Format: util.LogFormat(stringOr("", cfg.Log.Format, string(util.FormatJSON))),
		Output: os.Stderr,
	})
	util.SetDefault(logger)

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "serve":
		err = runServe(cfg, args)
	case "bridge":
		err = runBridge(cfg, args)
	case "transform":
		err = runTransform(cfg, args)
	case "tokens":
		err = runTokens(args)
	case "analyze":
		err = runAnalyze(args)
	case "watch":
		err = runWatch(cfg, args)
	case "version":
		fmt.Printf("figbridge %s\n", version)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func runServe(cfg *ProjectConfig, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	toolLog := fs.String("tool-log", "", "JSONL tool-call log path (overrides config)")
	fs.Parse(args)

	logger, err := mcplog.NewLogger(stringOr(*toolLog, cfg.ToolLogPath, ""))
	if err != nil {
		return fmt.Errorf("open tool log: %w", err)
	}
	if logger != nil {
		defer logger.Close()
	}

	eng := engine.New()
	srv := mcpserver.NewServer(eng, logger)
	if err := srv.ServeStdio(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func runBridge(cfg *ProjectConfig, args []string) error {
	fs := flag.NewFlagSet("bridge", flag.ExitOnError)
	addr := fs.String("addr", "", "listen address (default :7474)")
	fs.Parse(args)

	hub := notify.NewHub()
	eng := engine.New(engine.WithNotifier(hub))
	b := bridge.New(eng, hub, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go b.Run(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", b.HandleWS)

	listen := stringOr(*addr, cfg.BridgeAddr, ":7474")
	server := &http.Server{Addr: listen, Handler: mux}
	go func() {
		<-ctx.Done()
		server.Shutdown(context.Background())
	}()

	fmt.Fprintf(os.Stderr, "figbridge bridge listening on %s\n", listen)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("bridge server: %w", err)
	}
	return nil
}

// loadExport reads and parses an export file given as the first positional
// argument.
func loadExport(fs *flag.FlagSet) (*scene.ExportFile, error) {
	if fs.NArg() < 1 {
		return nil, fmt.Errorf("expected an export file argument")
	}
	data, release, err := util.ReadMapped(fs.Arg(0))
	if err != nil {
		return nil, err
	}
	defer release()
	export, err := scene.ParseExport(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", fs.Arg(0), err)
	}
	return export, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runTransform(cfg *ProjectConfig, args []string) error {
	fs := flag.NewFlagSet("transform", flag.ExitOnError)
	framework := fs.String("framework", "", "target framework (react, vue, angular)")
	styling := fs.String("styling", "", "styling strategy (plain-css, scss, css-in-source, utility-classes)")
	naming := fs.String("naming", "", "naming convention (kebab, pascal, camel)")
	typed := fs.Bool("typed", false, "emit typed component signatures")
	props := fs.Bool("props", false, "infer and bind component props")
	types := fs.Bool("types", false, "emit a separate type declaration artifact")
	storybook := fs.Bool("storybook", false, "emit a Storybook story stub")
	testStub := fs.Bool("test-stub", false, "emit a render test stub")
	withTokens := fs.Bool("with-tokens", false, "also extract design tokens from the transformed components")
	fs.Parse(args)

	export, err := loadExport(fs)
	if err != nil {
		return err
	}

	opts := emit.Options{
		Framework:               emit.Framework(stringOr(*framework, cfg.Framework, "")),
		Styling:                 emit.Styling(stringOr(*styling, cfg.Styling, "")),
		Naming:                  emit.Naming(stringOr(*naming, cfg.Naming, "")),
		TypedOutput:             *typed,
		IncludeProps:            *props,
		IncludeTypeDeclarations: *types,
		GenerateStorybookStub:   *storybook,
		GenerateTestStub:        *testStub,
		ExtractTokens:           *withTokens,
	}

	res, err := engine.New().Transform("", export.Components, opts)
	if err != nil {
		return err
	}
	return printJSON(res)
}

func runTokens(args []string) error {
	fs := flag.NewFlagSet("tokens", flag.ExitOnError)
	fs.Parse(args)

	export, err := loadExport(fs)
	if err != nil {
		return err
	}
	toks, err := engine.New().ExtractTokens(export.Components)
	if err != nil {
		return err
	}
	return printJSON(toks)
}

func runAnalyze(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	fs.Parse(args)

	export, err := loadExport(fs)
	if err != nil {
		return err
	}
	analyses, err := engine.New().Analyze(export.Components)
	if err != nil {
		return err
	}
	return printJSON(analyses)
}

func runWatch(cfg *ProjectConfig, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	session := fs.String("session", "", "session to ingest into (a new one is created when omitted)")
	debounce := fs.Int("debounce", 0, "debounce window in milliseconds")
	fs.Parse(args)

	root := "."
	if fs.NArg() > 0 {
		root = fs.Arg(0)
	}

	opts := watch.DefaultOptions()
	if len(cfg.WatchExcludes) > 0 {
		opts.ExcludePatterns = cfg.WatchExcludes
	}
	if *debounce > 0 {
		opts.DebounceMs = *debounce
	}
	opts.SessionID = *session

	eng := engine.New()
	w, err := watch.NewWatcher(eng, opts, nil)
	if err != nil {
		return err
	}
	if err := w.Start(root); err != nil {
		return err
	}
	defer w.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	return nil
}

func printUsage() {
	fmt.Println("Usage: figbridge <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve      Start the MCP server on stdin/stdout")
	fmt.Println("  bridge     Start the plugin WebSocket bridge")
	fmt.Println("  transform  Generate component code from an export file")
	fmt.Println("  tokens     Extract design tokens from an export file")
	fmt.Println("  analyze    Analyze components in an export file")
	fmt.Println("  watch      Auto-ingest exports from a directory")
	fmt.Println("  version    Print version")
	fmt.Println("  help       Show this help message")
}
