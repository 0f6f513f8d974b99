// Command jeebie-core runs a cartridge headless for a fixed number of frames.
// It is meant for test ROMs: serial output is logged as it arrives and the
// final frame and machine state can be written to disk.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/bradleyjkemp/memviz"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/urfave/cli"
	"github.com/valerio/jeebie-core/jeebie"
	"github.com/valerio/jeebie-core/jeebie/memory"
)

func main() {
	app := cli.NewApp()
	app.Name = "jeebie-core"
	app.Description = "Headless DMG core runner"
	app.Usage = "jeebie-core [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run",
			Value: 600,
		},
		cli.StringFlag{
			Name:  "boot-rom",
			Usage: "Run this 256 byte boot ROM instead of starting from the post-boot state",
		},
		cli.StringFlag{
			Name:  "dma",
			Usage: "OAM DMA timing: gradual or instant",
			Value: memory.DMAGradual.String(),
		},
		cli.StringFlag{
			Name:  "snapshot",
			Usage: "Write the last frame as text to this file",
		},
		cli.StringFlag{
			Name:  "dump-state",
			Usage: "Write a Graphviz dot graph of the final machine state to this file",
		},
		cli.StringFlag{
			Name:  "statsview",
			Usage: "Serve runtime statistics on this address while running (e.g. localhost:12600)",
		},
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug logging",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	level := slog.LevelInfo
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() == 0 {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
		romPath = c.Args().Get(0)
	}

	frames := c.Int("frames")
	if frames <= 0 {
		return errors.New("--frames must be positive")
	}

	policy, err := memory.ParseDMAPolicy(c.String("dma"))
	if err != nil {
		return err
	}
	if policy.Approximate() {
		logger.Warn("dma policy is a timing approximation", "policy", policy)
	}

	opts := []jeebie.Option{
		jeebie.WithLogger(logger),
		jeebie.WithDMAPolicy(policy),
	}
	if path := c.String("boot-rom"); path != "" {
		boot, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading boot rom: %w", err)
		}
		opts = append(opts, jeebie.WithBootROM(boot))
	}

	if addr := c.String("statsview"); addr != "" {
		go func() {
			viewer.SetConfiguration(viewer.WithAddr(addr))
			statsview.New().Start()
		}()
		logger.Info("stats server started", "url", "http://"+addr+"/debug/statsview")
	}

	emu, err := jeebie.NewWithFile(romPath, opts...)
	if err != nil {
		return err
	}

	logger.Info("running", "frames", frames, "dma", policy)
	runErr := emu.RunFrames(frames)
	if runErr != nil {
		logger.Error("emulation stopped", "frame", emu.FrameCount(), "error", runErr)
	} else {
		logger.Info("run completed", "frames", emu.FrameCount())
	}

	if out := emu.SerialOutput(); out != "" {
		logger.Info("serial output", "bytes", len(out))
	}

	if path := c.String("snapshot"); path != "" {
		if err := saveFrameSnapshot(emu, path); err != nil {
			return fmt.Errorf("saving snapshot: %w", err)
		}
		logger.Info("saved frame snapshot", "path", path)
	}

	if path := c.String("dump-state"); path != "" {
		if err := dumpState(emu, path); err != nil {
			return fmt.Errorf("dumping state: %w", err)
		}
		logger.Info("saved state graph", "path", path)
	}

	return runErr
}

func dumpState(emu *jeebie.DMG, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	state := emu.State()
	memviz.Map(f, &state)
	return nil
}
