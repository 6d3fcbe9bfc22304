package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/tinsel/audio"
	"github.com/pthm-cable/tinsel/config"
	"github.com/pthm-cable/tinsel/game"
	"github.com/pthm-cable/tinsel/greeting"
	"github.com/pthm-cable/tinsel/scene"
	"github.com/pthm-cable/tinsel/telemetry"
	"github.com/pthm-cable/tinsel/term"
)

var (
	flagConfig    string
	flagSeed      int64
	flagOutputDir string
	flagLogStats  bool
	flagChime     bool
	flagMaxFrames int
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("tinsel failed", "error", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "tinsel",
	Short:         "An animated particle Christmas tree",
	Long:          "Tinsel scatters a few thousand ornaments around the scene and gathers them into a tree on demand.",
	SilenceErrors: true,
	SilenceUsage:  true,
	Args:          cobra.NoArgs,
	RunE:          runWindow,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "path to config.yaml (empty = use defaults)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = time-based)")
	pf.StringVar(&flagOutputDir, "output-dir", "", "output directory for CSV logs and config snapshot")
	pf.BoolVar(&flagLogStats, "log-stats", false, "output stats via slog")
	pf.BoolVar(&flagChime, "chime", false, "play a chime when a greeting arrives")
	pf.IntVar(&flagMaxFrames, "max-frames", 0, "stop after N frames (0 = unlimited)")

	rootCmd.AddCommand(headlessCmd, termCmd, configCmd)
}

// session holds what every frontend needs.
type session struct {
	cfg    *config.Config
	opts   scene.Options
	output *telemetry.OutputManager
	player *audio.Player
}

// setup loads config, opens the output directory and prepares the chime.
// logTo receives structured logs.
func setup(logTo io.Writer) (*session, error) {
	slog.SetDefault(slog.New(slog.NewJSONHandler(logTo, nil)))

	if err := config.Init(flagConfig); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	cfg := config.Cfg()
	if flagChime {
		cfg.Audio.Enabled = true
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	output, err := telemetry.NewOutputManager(flagOutputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, err
	}

	return &session{
		cfg: cfg,
		opts: scene.Options{
			Seed:     seed,
			Output:   output,
			LogStats: flagLogStats,
		},
		output: output,
		player: audio.NewPlayer(cfg.Audio),
	}, nil
}

// attach hooks the chime to new greetings.
func (s *session) attach(sc *scene.Scene) {
	sc.OnGreeting = func(g greeting.Greeting) {
		if err := s.player.Chime(); err != nil {
			slog.Warn("chime disabled", "error", err)
		}
	}
}

func (s *session) close() {
	s.player.Close()
	if err := s.output.Close(); err != nil {
		slog.Warn("failed to close output", "error", err)
	}
}

func runWindow(cmd *cobra.Command, _ []string) error {
	sess, err := setup(os.Stdout)
	if err != nil {
		return err
	}
	defer sess.close()
	cfg := sess.cfg

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGame(cmd.Context(), cfg, sess.opts)
	if err != nil {
		return err
	}
	defer g.Unload()
	sess.attach(g.Scene())

	slog.Info("starting", "seed", sess.opts.Seed, "particles", cfg.Field.Count)

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if flagMaxFrames > 0 && int(g.Scene().FrameCount()) >= flagMaxFrames {
			slog.Info("max frames reached", "frame", g.Scene().FrameCount())
			break
		}
		if cmd.Context().Err() != nil {
			break
		}
	}
	return nil
}

var (
	flagFrames         int
	flagDT             float64
	flagToggleAt       int
	flagGreetAt        int
	flagUntilConverged bool
)

var headlessCmd = &cobra.Command{
	Use:   "headless",
	Short: "Step the scene without graphics and log telemetry",
	Args:  cobra.NoArgs,
	RunE:  runHeadless,
}

func init() {
	f := headlessCmd.Flags()
	f.IntVar(&flagFrames, "frames", 600, "frames to simulate (0 = until converged)")
	f.Float64Var(&flagDT, "dt", 1.0/60, "seconds per frame")
	f.IntVar(&flagToggleAt, "toggle-at", -1, "toggle formation before frame K (-1 = never)")
	f.IntVar(&flagGreetAt, "greet-at", -1, "request a greeting before frame M (-1 = never)")
	f.BoolVar(&flagUntilConverged, "until-converged", false, "stop once every particle is at its target")
}

func runHeadless(cmd *cobra.Command, _ []string) error {
	sess, err := setup(os.Stdout)
	if err != nil {
		return err
	}
	defer sess.close()

	sc, err := scene.New(sess.cfg, sess.opts)
	if err != nil {
		return fmt.Errorf("creating scene: %w", err)
	}
	sess.attach(sc)
	defer sc.Close()

	frames := flagFrames
	if flagMaxFrames > 0 && (frames == 0 || flagMaxFrames < frames) {
		frames = flagMaxFrames
	}

	slog.Info("starting headless run",
		"seed", sess.opts.Seed,
		"frames", frames,
		"dt", flagDT,
		"toggle_at", flagToggleAt,
		"greet_at", flagGreetAt,
	)

	res, err := scene.RunHeadless(cmd.Context(), sc, scene.HeadlessOptions{
		Frames:         frames,
		DT:             flagDT,
		ToggleAt:       flagToggleAt,
		GreetAt:        flagGreetAt,
		UntilConverged: flagUntilConverged,
		Epsilon:        sess.cfg.Telemetry.ConvergedEpsilon,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	slog.Info("headless run finished",
		"frames", res.Frames,
		"sim_time", res.Elapsed,
		"mode", res.Mode,
		"converged", res.Converged,
		"greeting", res.Greeting,
	)
	return nil
}

var flagFPS int

var termCmd = &cobra.Command{
	Use:   "term",
	Short: "Draw the scene in the terminal",
	Args:  cobra.NoArgs,
	RunE:  runTerm,
}

func init() {
	termCmd.Flags().IntVar(&flagFPS, "fps", 30, "frames per second")
}

func runTerm(cmd *cobra.Command, _ []string) error {
	// Logs would tear the screen, so they go to the output directory or nowhere.
	var logTo io.Writer = io.Discard
	if flagOutputDir != "" {
		if err := os.MkdirAll(flagOutputDir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		f, err := os.Create(filepath.Join(flagOutputDir, "tinsel.log"))
		if err != nil {
			return fmt.Errorf("creating log file: %w", err)
		}
		defer f.Close()
		logTo = f
	}

	sess, err := setup(logTo)
	if err != nil {
		return err
	}
	defer sess.close()

	sc, err := scene.New(sess.cfg, sess.opts)
	if err != nil {
		return fmt.Errorf("creating scene: %w", err)
	}
	sess.attach(sc)
	defer sc.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("opening terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initialising terminal: %w", err)
	}
	defer screen.Fini()

	app := term.NewApp(screen, sc)
	err = app.Run(cmd.Context(), term.Options{FPS: flagFPS, MaxFrames: flagMaxFrames})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if flagChime {
			cfg.Audio.Enabled = true
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		return enc.Close()
	},
}
