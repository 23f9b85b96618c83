// Autoscroll - hold a mouse button or key and move the pointer to scroll
// continuously, with speed ramping on distance from the anchor.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"autoscroll/internal/autostart"
	"autoscroll/internal/config"
	"autoscroll/internal/cursor"
	"autoscroll/internal/engine"
	"autoscroll/internal/input"
	"autoscroll/internal/keys"
	"autoscroll/internal/osutils"
	"autoscroll/internal/overlay"
	"autoscroll/internal/stats"
	"autoscroll/internal/tray"
)

var (
	version    = "1.0.0"
	configPath = flag.String("config", "", "Path to config.yaml (default: per-user app directory)")
	logPath    = flag.String("log", "", `Log file (default: autoscroll.log next to the config; "-" for stderr)`)
	showStats  = flag.Bool("stats", false, "Print the scroll statistics and exit")
	showVer    = flag.Bool("version", false, "Show version")
	testInput  = flag.Bool("test-input", false, "Print captured trigger input until Ctrl+C")
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Printf("autoscroll version %s\n", version)
		return
	}

	cfgMgr, err := config.NewManager(*configPath)
	if err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}
	store := stats.NewStore(filepath.Join(cfgMgr.Dir(), "stats.yaml"))

	// Handle --stats flag
	if *showStats {
		st, err := store.Load()
		if err != nil {
			log.Fatalf("Failed to read stats: %v", err)
		}
		fmt.Println(st.Report())
		return
	}

	// Handle --test-input flag
	if *testInput {
		runInputTest()
		return
	}

	closeLog := setupLogging(*logPath, cfgMgr.Dir())
	defer closeLog()

	if _, err := cfgMgr.WriteDefault(); err != nil {
		log.Printf("Warning: failed to write default config: %v", err)
	}
	if err := cfgMgr.Load(); err != nil {
		log.Printf("Warning: failed to load config: %v", err)
	}

	runService(cfgMgr, store)
}

// setupLogging sends the standard logger to a file, since the GUI build has
// no console
func setupLogging(path, dir string) func() {
	if path == "-" {
		return func() {}
	}
	if path == "" {
		path = filepath.Join(dir, "autoscroll.log")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Printf("Warning: cannot open log file %s: %v", path, err)
		return func() {}
	}
	log.SetOutput(f)
	return func() { f.Close() }
}

func runService(cfgMgr *config.Manager, store *stats.Store) {
	log.Printf("Autoscroll %s starting, config %s", version, cfgMgr.Path())

	seed, err := store.Load()
	if err != nil {
		log.Printf("Warning: failed to load stats: %v", err)
	}

	ov := overlay.New()
	if err := ov.Start(); err != nil {
		log.Printf("Warning: indicator overlay unavailable: %v", err)
	}

	eng := engine.New(engine.Deps{
		Config:   cfgMgr,
		Injector: input.NewInjector(),
		Pointer:  input.NewPointer(),
		Cursor:   cursor.NewController(cursor.NewSystemBackend()),
		Overlay:  ov,
		Stats:    store,
		Tally:    stats.NewTally(seed),
	})

	ctx, cancel := context.WithCancel(context.Background())
	engineDone := make(chan struct{})
	go func() {
		defer close(engineDone)
		if err := eng.Run(ctx); err != nil {
			log.Printf("Engine error: %v", err)
		}
	}()

	if !osutils.IsAdmin() {
		log.Println("Note: running unelevated, windows of elevated programs will ignore the trigger")
	}

	// Without hooks the engine never sees a trigger; everything passes through
	hook := input.NewHook(eng.Interceptor())
	hookErr := hook.Start()
	if hookErr != nil {
		log.Printf("Error: input hooks unavailable: %v", hookErr)
		go osutils.ShowWarning("Autoscroll", fmt.Sprintf("Input hooks could not be installed:\n%v\n\nScrolling is disabled.", hookErr))
	}

	tooltip := func(paused bool) string {
		switch {
		case hookErr != nil:
			return "Autoscroll (input hooks unavailable)"
		case paused:
			return "Autoscroll (Paused)"
		default:
			return "Autoscroll"
		}
	}

	t := tray.New("Autoscroll", tooltip(false))
	buildMenu(t, eng, cfgMgr, store, tooltip)

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutting down...")
		t.Stop()
	}()

	log.Println("Autoscroll running.")
	t.Run()

	if hookErr == nil {
		hook.Stop()
	}
	cancel()
	<-engineDone
	ov.Close()
	log.Println("Autoscroll stopped.")
}

func buildMenu(t *tray.Tray, eng *engine.Engine, cfgMgr *config.Manager, store *stats.Store, tooltip func(bool) string) {
	var pauseID int
	pauseID = t.AddCheckItem("Pause", false, func() {
		paused := !eng.Paused()
		eng.SetPaused(paused)
		t.SetItemChecked(pauseID, paused)
		t.SetPaused(paused)
		t.SetTooltip(tooltip(paused))
	})

	t.AddMenuItem("View Stats", func() {
		osutils.ShowMessage("Local Stats", eng.Counters().Report())
	})

	if cfgMgr.Get().FunStats {
		t.AddMenuItem("Upload Stats", func() {
			uploadStats(eng, cfgMgr, store)
		})
	}

	t.AddSeparator()

	t.AddMenuItem("Edit Config", func() {
		if err := osutils.OpenFile(cfgMgr.Path()); err != nil {
			log.Printf("Edit config: %v", err)
		}
	})

	t.AddMenuItem("Reload Config", func() {
		eng.Reload()
	})

	var autoID int
	autoID = t.AddCheckItem("Start with Windows", autostart.IsEnabled(), func() {
		var err error
		if autostart.IsEnabled() {
			err = autostart.Disable()
		} else {
			var args []string
			if *configPath != "" {
				args = []string{"-config", *configPath}
			}
			err = autostart.Enable(args...)
		}
		if err != nil {
			log.Printf("Autostart: %v", err)
			osutils.ShowWarning("Autoscroll", err.Error())
		}
		t.SetItemChecked(autoID, autostart.IsEnabled())
	})

	t.AddSeparator()

	t.AddMenuItem("Exit", func() {
		t.Stop()
	})
}

// uploadStats persists the counters and offers the upload command
func uploadStats(eng *engine.Engine, cfgMgr *config.Manager, store *stats.Store) {
	cfg := cfgMgr.Get()
	if !cfg.FunStats {
		osutils.ShowMessage("Upload Stats", "Usage statistics are turned off (fun_stats: false).")
		return
	}
	eng.FlushStats()

	if !osutils.Confirm("Upload Stats", eng.Counters().UploadPrompt()) {
		return
	}
	cmd := stats.UploadCommand(store.Path(), cfg.StatsUploadURL)
	if err := osutils.CopyText(cmd); err != nil {
		log.Printf("Upload stats: clipboard: %v", err)
		osutils.ShowWarning("Upload Stats", "Could not copy to the clipboard. Run this in PowerShell:\n\n"+cmd)
	}
}

// inputPrinter reports every translated event without consuming any
type inputPrinter struct {
	events chan string
}

func (p *inputPrinter) Mouse(ev input.MouseEvent) bool {
	if ev.Action != input.MouseMove {
		p.offer(fmt.Sprintf("mouse action=%d button=%s at=(%d,%d) injected=%v", ev.Action, ev.Button, ev.X, ev.Y, ev.Injected))
	}
	return false
}

func (p *inputPrinter) Key(ev input.KeyEvent) bool {
	p.offer(fmt.Sprintf("key %s (0x%02X) down=%v injected=%v", keys.Code(ev.Code), ev.Code, ev.Down, ev.Injected))
	return false
}

func (p *inputPrinter) offer(line string) {
	select {
	case p.events <- line:
	default:
	}
}

func runInputTest() {
	p := &inputPrinter{events: make(chan string, 256)}
	hook := input.NewHook(p)
	if err := hook.Start(); err != nil {
		log.Fatalf("Failed to install input hooks: %v", err)
	}
	defer hook.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	fmt.Println("Press buttons and keys to see how they are reported. Ctrl+C to stop.")
	for {
		select {
		case line := <-p.events:
			fmt.Println(line)
		case <-sigCh:
			return
		}
	}
}
