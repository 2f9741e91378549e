package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/kr/pretty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"luminacraft/config"
	"luminacraft/perf"
	"luminacraft/world"
)

func init() {
	// GL calls must come from the main thread.
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to the .toml or .yaml config file")
	flag.Parse()

	log := logrus.New()
	log.Formatter = &logrus.TextFormatter{ForceColors: true}

	if err := run(*configPath, log); err != nil {
		log.WithError(err).Fatal("LuminaCraft exited with an error.")
	}
}

func run(configPath string, log *logrus.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if level, err := logrus.ParseLevel(cfg.Debug.LogLevel); err == nil {
		log.Level = level
	} else {
		log.WithError(err).Warn("Unknown log level, keeping info.")
	}
	log.Debugf("Config: %# v", pretty.Formatter(cfg))

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("init glfw: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, glMajor)
	glfw.WindowHint(glfw.ContextVersionMinor, glMinor)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()
	if cfg.Window.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	if err := gl.Init(); err != nil {
		return fmt.Errorf("init gl: %w", err)
	}
	log.WithField("version", gl.GoStr(gl.GetString(gl.VERSION))).Info("OpenGL initialised.")

	// A broken shader leaves the program at 0: the world still streams but
	// nothing is drawn for that pass.
	program, err := newProgram(cfg.Render.ShaderDir, "block")
	if err != nil {
		log.WithError(err).Error("Block shader unavailable.")
	}
	renderer := newGLRenderer(window, program)
	defer renderer.delete()

	if atlas, size, err := loadTextureAtlas(cfg.Render.Atlas); err != nil {
		log.WithError(err).Error("Texture atlas unavailable.")
	} else {
		log.WithField("size", size).Debug("Texture atlas loaded.")
		renderer.setAtlas(atlas, cfg.Render.AtlasGrid)
	}

	skybox, err := newSky(cfg.Render.ShaderDir)
	if err != nil {
		log.WithError(err).Warn("Sky disabled.")
	}
	defer skybox.delete()
	lines, err := newLineRenderer(cfg.Render.ShaderDir)
	if err != nil {
		log.WithError(err).Warn("Debug lines disabled.")
	}
	defer lines.delete()
	overlay, err := newHUD(cfg.Render.ShaderDir, cfg.Render.Font)
	if err != nil {
		log.WithError(err).Warn("HUD disabled.")
	}
	defer overlay.delete()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	gen, err := world.NewGenerator(cfg.World.Noise, cfg.World.Seed, cfg.World.BiomeMaterials)
	if err != nil {
		return fmt.Errorf("terrain generator: %w", err)
	}
	region, err := world.NewRegion(cfg, log, registry, gen)
	if err != nil {
		return fmt.Errorf("create world: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Debug.MetricsAddr != "" {
		srv := serveMetrics(cfg.Debug.MetricsAddr, registry, log)
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
			defer done()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.WithError(err).Warn("Metrics server shutdown failed.")
			}
		}()
	}

	sampler, err := perf.NewSampler()
	if err != nil {
		log.WithError(err).Warn("Process sampling disabled.")
	} else {
		go sampler.Run(ctx, sampleInterval, func(err error) {
			log.WithError(err).Debug("Process sample failed.")
		})
	}

	input := newWindowInput(window, region, log, cfg.Debug.ShowHUD)
	cam := region.Player().Camera()
	width, height := window.GetFramebufferSize()
	gl.Viewport(0, 0, int32(width), int32(height))
	cam.SetAspect(width, height)
	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		gl.Viewport(0, 0, int32(width), int32(height))
		if width > 0 && height > 0 {
			cam.SetAspect(width, height)
		}
	})

	frames := perf.NewFrameCounter(0)
	previousFrame := time.Now()
	for !window.ShouldClose() {
		glfw.PollEvents()
		now := time.Now()
		elapsed := now.Sub(previousFrame)
		previousFrame = now
		frames.Frame(elapsed)
		dt := min(float32(elapsed.Seconds()), maxFrameDelta)

		renderer.BeginFrame()
		skybox.draw(cam.ProjectionMatrix(), cam.ViewMatrix())
		renderer.use()
		region.Update(dt, input, renderer)

		if debugLines := region.DebugLines(); len(debugLines) > 0 {
			vp := cam.ViewProjectionMatrix()
			renderer.Submit(func() { lines.draw(debugLines, vp) })
		}
		if input.showHUD && overlay != nil {
			var usage perf.Usage
			if sampler != nil {
				usage = sampler.Last()
			}
			if err := overlay.refresh(now, hudLines(frames, usage, region.Stats(), region)); err != nil {
				log.WithError(err).Debug("HUD refresh failed.")
			}
			fbWidth, fbHeight := window.GetFramebufferSize()
			renderer.Submit(func() { overlay.draw(fbWidth, fbHeight) })
		}
		renderer.EndFrame()
	}

	stats := region.Stats()
	log.WithFields(logrus.Fields{
		"generated": stats.Generated,
		"evicted":   stats.Evicted,
		"resident":  stats.NumChunks,
	}).Info("Shutting down.")

	closeCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
	defer done()
	return region.Close(closeCtx, renderer)
}

// serveMetrics exposes the registry on addr until the returned server is shut
// down.
func serveMetrics(addr string, registry *prometheus.Registry, log logrus.FieldLogger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.WithField("addr", addr).Info("Serving metrics.")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Metrics server stopped.")
		}
	}()
	return srv
}
