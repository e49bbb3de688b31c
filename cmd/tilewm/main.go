package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/1broseidon/tilewm/internal/action"
	"github.com/1broseidon/tilewm/internal/dispatch"
	"github.com/1broseidon/tilewm/internal/ipc"
	"github.com/1broseidon/tilewm/internal/palette"
	"github.com/1broseidon/tilewm/internal/tui"
	"golang.org/x/term"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "action":
		os.Exit(runAction(os.Args[2:]))
	case "actions":
		os.Exit(runActions(os.Args[2:]))
	case "float":
		os.Exit(runFloat(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "palette":
		os.Exit(runPalette(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tilewm <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the tilewm daemon (foreground)")
	fmt.Fprintln(w, "  action <name>       Run a window action")
	fmt.Fprintln(w, "  actions             List action names")
	fmt.Fprintln(w, "  float               Toggle floating for the focused window")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  reload              Reload the daemon configuration")
	fmt.Fprintln(w, "  palette             Pick an action from a launcher menu")
	fmt.Fprintln(w, "  tui                 Open the live dashboard")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Show where a config value comes from")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'tilewm <command> --help' for command-specific options.")
}

// parseFlags parses args and reports the exit code to use when parsing
// ends the command.
func parseFlags(fs *flag.FlagSet, args []string) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0, false
		}
		return 2, false
	}
	return 0, true
}

func runAction(args []string) int {
	fs := flag.NewFlagSet("action", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print the result as JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tilewm action [--json] <name>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run a window action in the daemon. See 'tilewm actions' for names.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	if _, err := action.Parse(fs.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	res, err := ipc.NewClient().Action(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return printResult(os.Stdout, res, *asJSON)
}

func runFloat(args []string) int {
	fs := flag.NewFlagSet("float", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print the result as JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tilewm float [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Toggle the focused window between tiled and floating.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "float takes no arguments")
		fs.Usage()
		return 2
	}

	res, err := ipc.NewClient().ToggleFloat()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return printResult(os.Stdout, res, *asJSON)
}

// printResult writes an action result. Failed executions exit 1; skips
// are normal outcomes.
func printResult(w io.Writer, res *dispatch.Result, asJSON bool) int {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	} else {
		switch {
		case res.Error != "":
			fmt.Fprintf(w, "%s: failed: %s\n", res.Action, res.Error)
		case res.Floating != nil:
			fmt.Fprintf(w, "%s: floating=%v\n", res.Action, *res.Floating)
		case res.Skip != "":
			fmt.Fprintf(w, "%s: skipped (%s)\n", res.Action, res.Skip)
		case res.Transition != "":
			fmt.Fprintf(w, "%s: %s\n", res.Action, res.Transition)
		default:
			fmt.Fprintf(w, "%s: ok\n", res.Action)
		}
	}
	if res.Error != "" {
		return 1
	}
	return 0
}

func runActions(args []string) int {
	fs := flag.NewFlagSet("actions", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tilewm actions")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List every action name accepted by 'tilewm action' and the bindings config.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	for _, name := range action.Names() {
		fmt.Println(name)
	}
	return 0
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print status as JSON (default when stdout is not a terminal)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tilewm status [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *asJSON || !term.IsTerminal(int(os.Stdout.Fd())) {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	formatStatus(os.Stdout, status)
	return 0
}

func formatStatus(w io.Writer, status *ipc.StatusData) {
	st := status.Tiling
	fmt.Fprintf(w, "daemon_running: %v\n", status.DaemonRunning)
	fmt.Fprintf(w, "uptime_seconds: %d\n", status.UptimeSeconds)
	fmt.Fprintf(w, "space:          %d/%d\n", st.Space+1, st.SpaceCount)
	fmt.Fprintf(w, "layout:         %s\n", st.Layout)
	if status.ConfigPath != "" {
		fmt.Fprintf(w, "config:         %s\n", status.ConfigPath)
	}

	for _, s := range st.Screens {
		b := s.Bounds
		fmt.Fprintf(w, "\nscreen %d %s (%dx%d+%d+%d)\n", s.Index+1, s.ID, b.Width, b.Height, b.X, b.Y)
		if len(s.Windows) == 0 {
			fmt.Fprintln(w, "  (empty)")
		}
		for i, win := range s.Windows {
			fmt.Fprintf(w, "  %s\n", windowLine(win.ID, win.Class, win.Title, i == 0, win.ID == st.Focused))
		}
	}

	if len(st.Floating) > 0 {
		fmt.Fprintln(w, "\nfloating")
		for _, win := range st.Floating {
			fmt.Fprintf(w, "  %s\n", windowLine(win.ID, win.Class, win.Title, false, win.ID == st.Focused))
		}
	}
}

func windowLine(id uint32, class, title string, main, focused bool) string {
	marker := " "
	if focused {
		marker = "*"
	}
	line := strings.TrimRight(fmt.Sprintf("%s 0x%08x %-16s %s", marker, id, class, title), " ")
	if main {
		line += " [main]"
	}
	return line
}

func runReload(args []string) int {
	fs := flag.NewFlagSet("reload", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tilewm reload")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Ask the daemon to reload its configuration file.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	if err := ipc.NewClient().Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("config reloaded")
	return 0
}

func runPalette(args []string) int {
	fs := flag.NewFlagSet("palette", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	backendName := fs.String("backend", "auto", "Launcher to use: auto, rofi, fuzzel, wofi, dmenu, terminal")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tilewm palette [--backend NAME]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Pick an action from a launcher menu and run it in the daemon.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	backend, err := palette.NewBackend(*backendName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	client := ipc.NewClient()
	var bindings map[string]string
	if status, err := client.GetStatus(); err == nil {
		bindings = status.Bindings
	}

	item, err := backend.Show("tilewm", palette.ActionItems(bindings))
	if err != nil {
		if errors.Is(err, palette.ErrCancelled) {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	res, err := client.Action(item.Action)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return printResult(os.Stdout, res, false)
}

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tilewm tui")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open a live dashboard of the tiling state. Keys run actions in the daemon.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	if err := tui.Run(ipc.NewClient()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
