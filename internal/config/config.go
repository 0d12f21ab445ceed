package config

import (
	"bytes"
	"easyline/internal/graphics"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration, read from a YAML file
type Config struct {
	Window    Window    `yaml:"window"`
	Render    Render    `yaml:"render"`
	Camera    Camera    `yaml:"camera"`
	Overlay   Overlay   `yaml:"overlay"`
	Grid      Grid      `yaml:"grid"`
	Crosshair Crosshair `yaml:"crosshair"`
	Log       Log       `yaml:"log"`
	Scene     Scene     `yaml:"scene"`
}

type Window struct {
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Title    string `yaml:"title"`
	VSync    bool   `yaml:"vsync"`
	FPSLimit int    `yaml:"fps_limit"` // 0 disables the limiter
}

type Render struct {
	ClearColor     graphics.Color `yaml:"clear_color"`
	ShaderDirs     []string       `yaml:"shader_dirs"`
	VertexShader   string         `yaml:"vertex_shader"`
	FragmentShader string         `yaml:"fragment_shader"`
}

// Camera holds the navigation parameters
type Camera struct {
	PanSpeed float32 `yaml:"pan_speed"` // world units per pixel at zoom 1
	ZoomStep float32 `yaml:"zoom_step"` // zoom change per scroll notch
	MinZoom  float32 `yaml:"min_zoom"`
}

type Overlay struct {
	Enabled  bool    `yaml:"enabled"`
	FontSize float64 `yaml:"font_size"`
	TopTasks int     `yaml:"top_tasks"`
}

type Grid struct {
	Enabled   bool           `yaml:"enabled"`
	Spacing   float32        `yaml:"spacing"` // world units
	MaxLines  int            `yaml:"max_lines"`
	Thickness float32        `yaml:"thickness"` // pixels
	Color     graphics.Color `yaml:"color"`
	AxisColor graphics.Color `yaml:"axis_color"`
}

type Crosshair struct {
	Enabled   bool           `yaml:"enabled"`
	Size      float32        `yaml:"size"`      // pixels from centre
	Thickness float32        `yaml:"thickness"` // pixels
	Color     graphics.Color `yaml:"color"`
}

type Log struct {
	Level    string `yaml:"level"`
	CoreFile string `yaml:"core_file"`
	AppFile  string `yaml:"app_file"`
}

// Line is one line segment declared in the configuration
type Line struct {
	X0        float32        `yaml:"x0"`
	Y0        float32        `yaml:"y0"`
	X1        float32        `yaml:"x1"`
	Y1        float32        `yaml:"y1"`
	Thickness float32        `yaml:"thickness"`
	Color     graphics.Color `yaml:"color"`
}

// Scene selects what is drawn. Script takes precedence over the line lists.
type Scene struct {
	Script string `yaml:"script"`
	World  []Line `yaml:"world"`
	Screen []Line `yaml:"screen"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Window: Window{
			Width:  1280,
			Height: 720,
			Title:  "EasyLine",
			VSync:  true,
		},
		Render: Render{
			ClearColor:     graphics.RGBA(0.45, 0.55, 0.60, 1.0),
			ShaderDirs:     []string{"Resource/Shader", "assets/shaders"},
			VertexShader:   "line.vert.glsl",
			FragmentShader: "line.frag.glsl",
		},
		Camera: Camera{
			PanSpeed: 0.002,
			ZoomStep: 0.1,
			MinZoom:  0.1,
		},
		Overlay: Overlay{
			Enabled:  true,
			FontSize: 14,
			TopTasks: 3,
		},
		Grid: Grid{
			Enabled:   true,
			Spacing:   0.25,
			MaxLines:  200,
			Thickness: 1,
			Color:     graphics.RGBA(1, 1, 1, 0.12),
			AxisColor: graphics.RGBA(1, 1, 1, 0.35),
		},
		Crosshair: Crosshair{
			Enabled:   false,
			Size:      8,
			Thickness: 2,
			Color:     graphics.RGBA(1, 1, 1, 0.8),
		},
		Log: Log{
			Level:    "info",
			CoreFile: "EasyLine.log",
			AppFile:  "App.log",
		},
	}
}

// Load reads a configuration file on top of the defaults. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrap(err, "read config")
	}
	if err := cfg.decode(data); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes YAML on top of the defaults
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(data); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return errors.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	case c.Window.FPSLimit < 0:
		return errors.Errorf("fps_limit must not be negative, got %d", c.Window.FPSLimit)
	case c.Render.VertexShader == "" || c.Render.FragmentShader == "":
		return errors.New("shader names must not be empty")
	case c.Camera.PanSpeed <= 0:
		return errors.Errorf("pan_speed must be positive, got %v", c.Camera.PanSpeed)
	case c.Camera.ZoomStep <= 0:
		return errors.Errorf("zoom_step must be positive, got %v", c.Camera.ZoomStep)
	case c.Camera.MinZoom <= 0:
		return errors.Errorf("min_zoom must be positive, got %v", c.Camera.MinZoom)
	case c.Grid.Spacing <= 0:
		return errors.Errorf("grid spacing must be positive, got %v", c.Grid.Spacing)
	case c.Overlay.FontSize <= 0:
		return errors.Errorf("overlay font_size must be positive, got %v", c.Overlay.FontSize)
	case !logLevels[strings.ToLower(c.Log.Level)]:
		return errors.Errorf("unknown log level %q", c.Log.Level)
	}
	return nil
}
