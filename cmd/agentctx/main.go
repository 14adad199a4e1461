package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/spf13/cobra"

	"github.com/hupe1980/agentctx/agent"
	"github.com/hupe1980/agentctx/agentctx"
	"github.com/hupe1980/agentctx/config"
	"github.com/hupe1980/agentctx/contextitem"
	"github.com/hupe1980/agentctx/core"
	"github.com/hupe1980/agentctx/logging"
	"github.com/hupe1980/agentctx/model"
	"github.com/hupe1980/agentctx/model/anthropic"
	"github.com/hupe1980/agentctx/model/openai"
	"github.com/hupe1980/agentctx/tool/contexttool"
)

const baseInstruction = `You are a coding assistant working in the workspace {{.workspace}}.
Files, folders and web pages you open stay visible in a "# Context" section at the end of the conversation.
Use open_file, open_folder and open_web_page to add items and close_context_item or clear_context to drop items you no longer need.`

// ModelFactory creates the model for a config (allows mocking in tests).
type ModelFactory func(cfg *config.Config) (model.Model, error)

// DefaultModelFactory builds the provider adapter named by cfg.Provider.
func DefaultModelFactory(cfg *config.Config) (model.Model, error) {
	switch cfg.Provider {
	case "anthropic":
		return anthropic.NewModel(func(o *anthropic.Options) {
			o.Model = sdk.Model(cfg.Model)
			o.APIKey = cfg.APIKey
			o.BaseURL = cfg.BaseURL
		}), nil
	case "openai":
		return openai.NewModel(func(o *openai.Options) {
			o.Model = cfg.Model
			o.APIKey = cfg.APIKey
			o.BaseURL = cfg.BaseURL
		}), nil
	case "mock":
		return model.NewMockModel("mock"), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// AgentOptions for running agent with custom dependencies
type AgentOptions struct {
	ModelFactory ModelFactory
	Stdin        io.Reader
	Stdout       io.Writer
	Stderr       io.Writer
}

var (
	configFlag    string
	workspaceFlag string
	providerFlag  string
	modelFlag     string
	messageFlag   string
	verboseFlag   bool
)

var rootCmd = &cobra.Command{
	Use:          "agentctx",
	Short:        "agentctx - a coding agent that keeps files, folders and pages in context",
	SilenceUsage: true,
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Run the agent in single message or REPL mode",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runChat(cmd.Context(), AgentOptions{})
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := configFlag
		if path == "" {
			path = config.DefaultPath()
		}
		return runInit(path, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Config file (default searches ./config.yaml and "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().StringVarP(&workspaceFlag, "workspace", "w", "", "Workspace root for file and folder items")
	rootCmd.PersistentFlags().StringVar(&providerFlag, "provider", "", "Model provider: anthropic, openai or mock")
	rootCmd.PersistentFlags().StringVar(&modelFlag, "model", "", "Model name")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Debug logging")
	chatCmd.Flags().StringVarP(&messageFlag, "message", "m", "", "Single message to send")
	rootCmd.AddCommand(chatCmd, initCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runInit(path string, out io.Writer) error {
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(out, "Config already exists: %s\n", path)
		return nil
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}

	fmt.Fprintf(out, "Created config: %s\n", path)

	return nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if workspaceFlag != "" {
		cfg.Workspace = workspaceFlag
	}
	if providerFlag != "" {
		cfg.Provider = providerFlag
	}
	if modelFlag != "" {
		cfg.Model = modelFlag
	}
	if verboseFlag {
		cfg.Log.Level = "debug"
	}

	return cfg, cfg.Validate()
}

func newLogger(cfg *config.Config, out io.Writer) logging.Logger {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logging.LevelInfo
	}

	return logging.New(&logging.Config{
		Level:     level,
		Format:    cfg.Log.Format,
		Output:    out,
		Component: "agentctx",
	})
}

// newAgent wires the model, the context tools and the instruction.
func newAgent(cfg *config.Config, llm model.Model, logger logging.Logger) *agent.ModelAgent {
	instruction := agent.NewInstructionFromText(baseInstruction)
	if cfg.Instruction != "" {
		instruction = agent.JoinInstructions(instruction, agent.NewInstructionFromText(cfg.Instruction))
	}

	a := agent.NewModelAgent("agentctx", llm, func(o *agent.ModelAgentOptions) {
		o.Instruction = instruction
		o.EnableStreaming = cfg.Stream
		o.MaxHistoryMessages = cfg.MaxHistory
		o.MaxModelCalls = cfg.MaxModelCalls
		o.Logger = logger
	})

	a.RegisterTools(contexttool.Tools(func(o *contexttool.Options) {
		o.Workspace = cfg.Workspace
		o.Ignore = cfg.Ignore
	})...)

	a.Session().SetState("workspace", cfg.Workspace)

	return a
}

func runChat(ctx context.Context, opts AgentOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	return chat(ctx, cfg, messageFlag, opts)
}

// chat runs a single message when message is set, otherwise the REPL.
func chat(ctx context.Context, cfg *config.Config, message string, opts AgentOptions) error {
	factory := opts.ModelFactory
	if factory == nil {
		factory = DefaultModelFactory
	}

	stdin := opts.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	llm, err := factory(cfg)
	if err != nil {
		return err
	}

	r := &repl{
		agent:  newAgent(cfg, llm, newLogger(cfg, stderr)),
		cfg:    cfg,
		stdout: stdout,
		stderr: stderr,
	}

	if message != "" {
		return r.send(ctx, message)
	}

	fmt.Fprintln(stdout, "agentctx (type /help for commands, /exit to quit)")

	scanner := bufio.NewScanner(stdin)
	for {
		fmt.Fprint(stdout, "\n> ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			quit, err := r.command(ctx, input)
			if err != nil {
				fmt.Fprintf(stderr, "Error: %v\n", err)
			}
			if quit {
				break
			}
			continue
		}

		if err := r.send(ctx, input); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
	}

	return scanner.Err()
}

type repl struct {
	agent  *agent.ModelAgent
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer
}

// send runs one turn, printing streamed text as it arrives.
func (r *repl) send(ctx context.Context, message string) error {
	events, errc := r.agent.Stream(ctx, message)

	streamed := false
	for ev := range events {
		switch {
		case ev.IsError():
			continue
		case ev.IsPartial():
			fmt.Fprint(r.stdout, textOf(ev))
			streamed = true
		case len(ev.GetFunctionCalls()) > 0:
			for _, fc := range ev.GetFunctionCalls() {
				fmt.Fprintf(r.stdout, "[%s %s]\n", fc.Name, fc.Arguments)
			}
		case len(ev.GetFunctionResponses()) > 0:
			for _, fr := range ev.GetFunctionResponses() {
				if fr.Error != "" {
					fmt.Fprintf(r.stdout, "[%s failed: %s]\n", fr.Name, fr.Error)
				}
			}
		default:
			if !streamed {
				fmt.Fprint(r.stdout, textOf(ev))
			}
			fmt.Fprintln(r.stdout)
			streamed = false
		}
	}

	return <-errc
}

func textOf(ev core.Event) string {
	if ev.Content == nil {
		return ""
	}
	return ev.Content.Text()
}

const helpText = `Commands:
  /open <file>      open a workspace file
  /folder <path>    open a workspace folder
  /web <url>        open a web page
  /close <n>        close context item n
  /clear            close all context items
  /context          show the open context
  /reset            forget the conversation
  /exit             quit`

// command handles a slash command and reports whether the REPL should end.
func (r *repl) command(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	name, arg := fields[0], strings.TrimSpace(strings.TrimPrefix(line, fields[0]))

	store, ok := agentctx.FromAgent(r.agent)
	if !ok {
		return false, errors.New("agent has no context")
	}

	switch name {
	case "/open", "/folder", "/web", "/close":
		if arg == "" {
			return false, fmt.Errorf("usage: %s <argument>", name)
		}
	}

	switch name {
	case "/exit", "/quit":
		return true, nil
	case "/help":
		fmt.Fprintln(r.stdout, helpText)
	case "/open":
		item, err := contextitem.NewFileItem(r.cfg.Workspace, arg)
		if err != nil {
			return false, err
		}
		return false, r.add(store, item)
	case "/folder":
		item, err := contextitem.NewFolderItem(r.cfg.Workspace, arg, r.cfg.Ignore...)
		if err != nil {
			return false, err
		}
		return false, r.add(store, item)
	case "/web":
		item, err := contextitem.FetchWebPage(ctx, arg)
		if err != nil {
			return false, err
		}
		return false, r.add(store, item)
	case "/close":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return false, fmt.Errorf("usage: /close <n>")
		}
		if err := store.Close(n); err != nil {
			return false, err
		}
		fmt.Fprintf(r.stdout, "Context item %d closed\n", n)
	case "/clear":
		store.Clear()
		fmt.Fprintln(r.stdout, "Context cleared")
	case "/context":
		if store.IsEmpty() {
			fmt.Fprintln(r.stdout, "(no open context items)")
			return false, nil
		}
		fmt.Fprintln(r.stdout, store.FormatNumbered())
	case "/reset":
		r.agent.Reset()
		fmt.Fprintln(r.stdout, "Conversation reset")
	default:
		return false, fmt.Errorf("unknown command %s (try /help)", name)
	}

	return false, nil
}

func (r *repl) add(store *agentctx.Store, item agentctx.Item) error {
	if store.Contains(item) {
		return fmt.Errorf("%s is already open", item.Source())
	}
	store.Add(item)
	fmt.Fprintf(r.stdout, "Opened %s as item %d\n", item.Source(), store.Len())
	return nil
}
