package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/gungnir/audio"
	"github.com/lixenwraith/gungnir/config"
	"github.com/lixenwraith/gungnir/core"
	"github.com/lixenwraith/gungnir/engine"
	"github.com/lixenwraith/gungnir/feed"
	"github.com/lixenwraith/gungnir/network"
	"github.com/lixenwraith/gungnir/render"
)

var (
	configFlag   = flag.String("config", "", "Config file path (default: search standard locations)")
	seedFlag     = flag.Uint64("seed", 0, "Random seed, 0 = time-based")
	nodesFlag    = flag.Int("nodes", 0, "Node count override")
	distanceFlag = flag.Float64("distance", 0, "Connection distance override in pixels")
	fpsFlag      = flag.Int("fps", 0, "Frame rate override")
	audioFlag    = flag.Bool("audio", false, "Play a blip when new links form")
	logFlag      = flag.String("log", "", "Log file (default: discard in terminal mode, stderr in snapshot mode)")
	snapshotFlag = flag.String("snapshot", "", "Render headless to this PNG file and exit")
	framesFlag   = flag.Int("frames", 120, "Frames to simulate in snapshot mode")
	widthFlag    = flag.Int("width", 800, "Snapshot width in pixels")
	heightFlag   = flag.Int("height", 480, "Snapshot height in pixels")
)

// statusRows is the number of terminal rows below the canvas
const statusRows = 1

func main() {
	flag.Parse()

	cfg, path, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	netCfg, err := cfg.NetworkConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logOut, closeLog, err := openLog(*logFlag, *snapshotFlag != "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	log.SetOutput(logOut)
	if path != "" {
		log.Printf("config: loaded %s", path)
	}

	if *snapshotFlag != "" {
		if err := runSnapshot(netCfg, *snapshotFlag, *framesFlag, *widthFlag, *heightFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Snapshot failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := runTerminal(cfg, netCfg); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// applyFlags overrides config values with explicitly set flags only
func applyFlags(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.Network.Seed = *seedFlag
		case "nodes":
			cfg.Network.NodeCount = *nodesFlag
		case "distance":
			cfg.Network.ConnectionDistance = *distanceFlag
		case "fps":
			cfg.Network.FPS = *fpsFlag
		case "audio":
			cfg.Audio.Enabled = *audioFlag
		}
	})
}

func openLog(path string, headless bool) (io.Writer, func(), error) {
	if path == "" {
		if headless {
			return os.Stderr, func() {}, nil
		}
		// tcell owns the terminal, stray log lines would corrupt the canvas
		return io.Discard, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

// runSnapshot simulates frames on an in-memory image and writes the last one as PNG
func runSnapshot(netCfg network.Config, out string, frames, width, height int) error {
	surface := render.NewImageSurface(width, height, netCfg.Background)

	// Frames are driven synchronously, the ticker never fires
	r := engine.New(engine.WithTicker(engine.NewManualTicker().Func()))
	if err := r.Start(surface, netCfg); err != nil {
		return err
	}
	for i := 0; i < frames; i++ {
		if !r.Tick() {
			break
		}
	}
	r.Stop()
	r.Wait()

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := surface.WritePNG(f); err != nil {
		f.Close()
		return err
	}
	log.Printf("snapshot: %d frames, %d nodes written to %s", r.Frames(), netCfg.NodeCount, out)
	return f.Close()
}

// runTerminal mounts one renderer on the terminal until the user quits
func runTerminal(cfg *config.Config, netCfg network.Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	core.SetCrashCleanup(screen.Fini)
	defer screen.Fini()
	screen.HideCursor()

	surface := render.NewScreenSurface(screen, cfg.Render.CellWidth, cfg.Render.CellHeight, statusRows)
	renderer := engine.New()

	var pulser *audio.Pulser
	if cfg.Audio.Enabled {
		pulser = audio.NewPulser(cfg.PulseConfig())
		if err := pulser.Initialize(); err != nil {
			// Non-fatal, visualizer runs silent
			log.Printf("audio: initialization failed: %v", err)
		}
		defer pulser.Close()
	}

	var sample atomic.Pointer[feed.Sample]
	initial := cfg.Feed.Initial
	sample.Store(&initial)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	poller := feed.NewPoller(feed.Static{Sample: cfg.Feed.Initial}, cfg.Feed.PollInterval, func(s feed.Sample) {
		sample.Store(&s)
	})
	core.Go(func() {
		if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("feed: %v", err)
		}
	})

	renderer.Observe(func(s engine.FrameStats) {
		if pulser != nil {
			pulser.Observe(s.Edges, s.At)
		}
		surface.SetStatus(fmt.Sprintf(" GUNGNIR  nodes %d  links %d | %s  [q] quit", s.Nodes, s.Edges, sample.Load()))
	})

	if err := renderer.Start(surface, netCfg); err != nil {
		return fmt.Errorf("failed to start visualizer: %w", err)
	}
	defer renderer.Stop()

	events := make(chan tcell.Event, 100)
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	})

	for ev := range events {
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
				return nil
			}
		case *tcell.EventResize:
			screen.Sync()
			w, h := surface.Sync()
			if err := renderer.Resize(w, h); err != nil {
				// No canvas rows left, the surface keeps its last buffer and the next Sync restores it
				log.Printf("resize: %v", err)
			}
		}
	}
	return nil
}
