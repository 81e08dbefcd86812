// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command postfxdemo renders an animated scene through the bloom and god ray
// pipeline without opening a window, then writes the last frame and a
// profiler report.
//
// Usage:
//
//	postfxdemo [-backend software|wgpu] [-frames n] [-o frame.png] [-settings postfx.toml]
//
// With -watch the settings file is reloaded while frames are rendered.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gogpu/postfx"
	"github.com/gogpu/postfx/backend"
	"github.com/gogpu/postfx/capture"
	"github.com/gogpu/postfx/godray"
	"github.com/gogpu/postfx/render"

	_ "github.com/gogpu/postfx/backend/software"
	_ "github.com/gogpu/postfx/backend/wgpu"
	_ "github.com/gogpu/wgpu/hal/allbackends"
)

func main() {
	var (
		backendName  = flag.String("backend", backend.NameSoftware, `device backend ("software", "wgpu" or "auto")`)
		width        = flag.Int("width", 320, "image width")
		height       = flag.Int("height", 240, "image height")
		frames       = flag.Int("frames", 30, "frames to render")
		resizeAt     = flag.Int("resize-at", 0, "frame at which the window doubles in size (0 disables)")
		output       = flag.String("o", "postfx.png", "capture file (.png, .jpg, .tiff, .bmp or .exr)")
		settingsPath = flag.String("settings", "", "settings file (.toml, .yaml)")
		watch        = flag.Bool("watch", false, "reload the settings file while rendering")
		debugMode    = flag.Int("debug", -1, "god ray debug view: 0 off, 1 occlusion, 2 radial blur")
		rawScene     = flag.Bool("rays-over-raw-scene", false, "composite god rays over the scene instead of the bloomed image")
		report       = flag.String("report", "-", `profiler report file ("-" for stdout, "" to skip)`)
		verbose      = flag.Bool("v", false, "log debug output")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	postfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	settings := postfx.DefaultSettings()
	if *settingsPath != "" {
		s, err := postfx.LoadSettings(*settingsPath)
		if err != nil {
			log.Fatalf("Failed to load settings: %v", err)
		}
		settings = s
	}
	if *debugMode >= 0 {
		mode, err := godray.ParseDebugMode(*debugMode)
		if err != nil {
			log.Fatalf("Invalid -debug: %v", err)
		}
		settings.GodRay.Debug = mode
	}

	dev, err := openDevice(*backendName, *width, *height)
	if err != nil {
		log.Fatalf("Failed to open device: %v", err)
	}
	defer dev.Close()

	opts := []postfx.Option{postfx.WithSettings(settings)}
	if *rawScene {
		opts = append(opts, postfx.WithRaysOverRawScene())
	}
	pipe, err := postfx.New(dev, *width, *height, opts...)
	if err != nil {
		log.Fatalf("Failed to create pipeline: %v", err)
	}
	defer pipe.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if *watch && *settingsPath != "" {
		go func() {
			apply := func(s postfx.Settings) {
				if err := pipe.SetSettings(s); err != nil {
					postfx.Logger().Warn("settings rejected", "err", err)
				}
			}
			if err := postfx.WatchSettings(ctx, *settingsPath, apply); err != nil {
				postfx.Logger().Warn("settings watcher stopped", "err", err)
			}
		}()
	}

	sc, err := newScene(dev)
	if err != nil {
		log.Fatalf("Failed to build scene: %v", err)
	}
	defer sc.release()

	start := time.Now()
	w, h := *width, *height
	for i := 0; i < *frames; i++ {
		if *resizeAt > 0 && i == *resizeAt {
			w, h = w*2, h*2
			if err := pipe.Resize(w, h); err != nil {
				log.Fatalf("Failed to resize: %v", err)
			}
		}
		t := float32(i) / float32(max(*frames, 1))
		out, err := pipe.Frame(sc.frame(t, w, h))
		if err != nil {
			log.Fatalf("Frame %d failed: %v", i, err)
		}
		postfx.Logger().Debug("frame", "index", i, "outcome", out.Kind, "radial_blur", out.RunRadialBlur)
	}
	log.Printf("Rendered %d frames on %s in %v", *frames, dev.Name(), time.Since(start).Round(time.Millisecond))

	if *output != "" {
		if err := capture.Save(*output, dev, dev.Screen()); err != nil {
			log.Fatalf("Failed to save capture: %v", err)
		}
		log.Printf("Capture saved to %s (%dx%d)", *output, w, h)
	}
	if err := writeReport(pipe, *report); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}
}

func openDevice(name string, width, height int) (render.Device, error) {
	if name == "auto" {
		return backend.Default(width, height)
	}
	return backend.Open(name, width, height)
}

func writeReport(pipe *postfx.Pipeline, path string) error {
	var w io.Writer
	switch path {
	case "":
		return nil
	case "-":
		w = os.Stdout
	default:
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := pipe.Profiler().Report(w); err != nil {
		return fmt.Errorf("profiler report: %w", err)
	}
	return nil
}
