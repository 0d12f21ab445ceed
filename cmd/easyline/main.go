package main

import (
	"flag"
	"os"
	"runtime"

	"easyline/internal/config"
	"easyline/internal/logging"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "easyline.yaml", "configuration file; a missing file means defaults")
	scenePath := flag.String("scene", "", "Starlark scene script, overrides the configured scene")
	flag.Parse()

	// console-only until the configuration names the log files
	logs, _ := logging.Setup(config.Log{Level: "info"}, nil)

	if err := run(*configPath, *scenePath, &logs); err != nil {
		logs.App.Error("EasyLine failed", "error", err)
		_ = logs.Close()
		os.Exit(1)
	}
}

func run(configPath, scenePath string, logs **logging.Loggers) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if scenePath != "" {
		cfg.Scene.Script = scenePath
	}
	config.Apply(cfg)

	l, err := logging.Setup(cfg.Log, nil)
	if l == nil {
		return err
	}
	*logs = l
	if err != nil {
		l.App.Warn("logging to console only", "error", err)
	}
	defer l.Close()

	l.App.Info("starting EasyLine", "config", configPath)

	if err := glfw.Init(); err != nil {
		return errors.Wrap(err, "init glfw")
	}
	defer glfw.Terminate()

	window, err := setupWindow(cfg.Window)
	if err != nil {
		return err
	}
	defer window.Destroy()

	app, err := setupApp(window, cfg, l)
	if err != nil {
		return err
	}
	defer app.Renderer.Dispose()

	setupInputHandlers(window, app)

	NewFrameLoop(window, app, l).Run()
	l.App.Info("EasyLine closed")
	return nil
}
