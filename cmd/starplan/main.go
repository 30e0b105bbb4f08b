// Package main is a command to plan collision-free paths through generated
// obstacle fields described by scene files.
package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/edaniels/golog"
	"github.com/fsnotify/fsnotify"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.viam.com/utils"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/starfield-nav/starplan/motionplan"
	"github.com/starfield-nav/starplan/scene"
)

var logger = golog.NewDevelopmentLogger("starplan")

func main() {
	utils.ContextualMainQuit(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	SceneFile string `flag:"0,required,usage=scene file to plan"`
	Algorithm string `flag:"algorithm,usage=override the scene's planning algorithm"`
	Preset    string `flag:"preset,usage=override the scene's obstacle field with a preset"`
	Seed      string `flag:"seed,usage=override the scene's random seed"`
	Out       string `flag:"out,usage=write the latest plan result to this JSON file"`
	Watch     bool   `flag:"watch,usage=keep running and replan whenever the scene file changes"`
	LogFile   string `flag:"logfile,usage=also log to this size-rotated file"`
	Debug     bool   `flag:"debug"`
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}
	if argsParsed.Debug {
		logger = golog.NewDebugLogger("starplan")
	}
	if argsParsed.LogFile != "" {
		fileLogger, closer := addFileLogger(logger, argsParsed.LogFile, argsParsed.Debug)
		defer closer()
		logger = fileLogger
	}

	s, err := loadScene(argsParsed.SceneFile, argsParsed)
	if err != nil {
		return err
	}
	pm, err := motionplan.NewPlanManager(logger)
	if err != nil {
		return err
	}

	if !argsParsed.Watch {
		return runScene(ctx, pm, s, argsParsed.Out, logger)
	}
	return watchAndReplan(ctx, pm, s, argsParsed, logger)
}

// loadScene reads the scene file and layers any command line overrides on
// top before re-validating the result.
func loadScene(path string, argsParsed Arguments) (*scene.Scene, error) {
	s, err := scene.Load(path)
	if err != nil {
		return nil, err
	}
	if argsParsed.Algorithm != "" {
		s.Algorithm = argsParsed.Algorithm
	}
	if argsParsed.Preset != "" {
		s.Preset = argsParsed.Preset
		s.Custom = nil
	}
	if argsParsed.Seed != "" {
		seed, err := strconv.ParseInt(argsParsed.Seed, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid seed %q", argsParsed.Seed)
		}
		s.Seed = seed
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// runScene configures the manager from the scene, generates the obstacle
// field, plans once, and reports the outcome.
func runScene(ctx context.Context, pm *motionplan.PlanManager, s *scene.Scene, outFile string, logger golog.Logger) error {
	if err := s.Configure(pm); err != nil {
		return err
	}
	_, field, err := s.BuildField(logger)
	if err != nil {
		return err
	}
	bounds, err := s.PlanningBounds()
	if err != nil {
		return err
	}

	start := time.Now()
	nodes, path, err := pm.Plan(ctx, s.StartPose(), s.GoalPose(), field, bounds)
	if err != nil {
		return err
	}
	result := newPlanResult(pm, len(nodes), len(field), path)
	if result.Found {
		logger.Infow("plan found",
			"algorithm", result.Algorithm,
			"waypoints", result.Stats.Waypoints,
			"length", result.Stats.Length,
			"nodes", result.NodesExplored,
			"elapsed", time.Since(start))
	} else {
		logger.Warnw("no path found",
			"algorithm", result.Algorithm,
			"nodes", result.NodesExplored,
			"elapsed", time.Since(start))
	}
	if outFile == "" {
		return nil
	}
	return writeResult(outFile, result)
}

// watchAndReplan plans once, then keeps replanning every time the scene file
// changes until the context is done. A scene that becomes invalid mid-watch
// is reported and skipped, keeping the previous plan in place.
func watchAndReplan(ctx context.Context, pm *motionplan.PlanManager, s *scene.Scene, argsParsed Arguments, logger golog.Logger) (err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, watcher.Close())
	}()
	scenePath := filepath.Clean(argsParsed.SceneFile)
	// watch the directory so editors that replace the file on save still
	// produce events for it
	if err := watcher.Add(filepath.Dir(scenePath)); err != nil {
		return err
	}

	if err := runScene(ctx, pm, s, argsParsed.Out, logger); err != nil {
		return err
	}
	utils.ContextMainReadyFunc(ctx)()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != scenePath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			logger.Infow("scene changed, replanning", "scene", scenePath)
			next, err := loadScene(scenePath, argsParsed)
			if err != nil {
				logger.Errorw("scene reload failed, keeping last plan", "error", err)
				continue
			}
			if err := runScene(ctx, pm, next, argsParsed.Out, logger); err != nil {
				logger.Errorw("replanning failed", "error", err)
			}
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Errorw("scene watcher error", "error", watchErr)
		}
	}
}

type pathStats struct {
	Waypoints   int     `json:"waypoints"`
	Length      float64 `json:"length"`
	MinSegment  float64 `json:"min_segment"`
	MeanSegment float64 `json:"mean_segment"`
	MaxSegment  float64 `json:"max_segment"`
}

type planResult struct {
	Found         bool        `json:"found"`
	Algorithm     string      `json:"algorithm"`
	CollisionMode string      `json:"collision_mode"`
	Obstacles     int         `json:"obstacles"`
	NodesExplored int         `json:"nodes_explored"`
	Path          [][]float64 `json:"path,omitempty"`
	Stats         *pathStats  `json:"stats,omitempty"`
}

func newPlanResult(pm *motionplan.PlanManager, nodes, obstacles int, path motionplan.Path) planResult {
	result := planResult{
		Found:         len(path) > 0,
		Algorithm:     string(pm.Algorithm()),
		CollisionMode: string(pm.CollisionMode()),
		Obstacles:     obstacles,
		NodesExplored: nodes,
	}
	if len(path) == 0 {
		return result
	}
	waypoints := make([][]float64, 0, len(path))
	for _, wp := range path {
		waypoints = append(waypoints, []float64{wp.X, wp.Y, wp.Z})
	}
	result.Path = waypoints
	result.Stats = newPathStats(path)
	return result
}

// newPathStats summarizes segment geometry. A single-waypoint path has no
// segments and reports zeros.
func newPathStats(path motionplan.Path) *pathStats {
	ps := &pathStats{Waypoints: len(path), Length: path.Length()}
	segs := path.SegmentLengths()
	if len(segs) == 0 {
		return ps
	}
	// the stats funcs only error on empty input, which is guarded above
	ps.MinSegment, _ = stats.Min(segs)
	ps.MeanSegment, _ = stats.Mean(segs)
	ps.MaxSegment, _ = stats.Max(segs)
	return ps
}

func writeResult(path string, result planResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o640)
}

// addFileLogger tees log output into a size-rotated file so long watch
// sessions keep a bounded on-disk history.
func addFileLogger(logger golog.Logger, path string, debug bool) (golog.Logger, func()) {
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
	}
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(lj),
		level,
	)
	l := logger.Desugar().WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, fileCore)
	}))
	return l.Sugar(), func() {
		utils.UncheckedError(lj.Close())
	}
}
