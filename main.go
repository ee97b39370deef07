package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"

	"SketchBoard/internal/config"
	"SketchBoard/internal/engine"
	"SketchBoard/internal/mirror"
	"SketchBoard/internal/raster"
	"SketchBoard/internal/ui"
)

func main() {
	var (
		configPath  = flag.String("config", config.DefaultPath(), "path to the TOML settings file")
		writeConfig = flag.Bool("write-config", false, "write the effective settings to -config and exit")
		find        = flag.Bool("find", false, "list mirrors on the local network and exit")
		mirrorOn    = flag.Bool("mirror", false, "stream the canvas to viewers on the local network")
	)
	flag.Parse()

	if *find {
		if err := findMirrors(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *mirrorOn {
		cfg.Mirror.Enabled = true
	}
	if *writeConfig {
		if err := config.Save(*configPath, cfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println("wrote", *configPath)
		return
	}

	log, err := newLogger(cfg.Log, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	slog.SetDefault(log)
	raster.SetLogger(log)
	engine.SetLogger(log)

	eng := engine.New(cfg.EngineOptions())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	status := ""
	if cfg.Mirror.Enabled {
		url, err := startMirror(ctx, cfg.Mirror, eng, log)
		if err != nil {
			log.Error("mirror disabled", "err", err)
		} else {
			status = "mirror " + url
		}
	}

	ui.RunApp(eng, ui.Options{
		Width:       float32(cfg.Canvas.Width),
		Height:      float32(cfg.Canvas.Height),
		StrokeWidth: cfg.Style.Width,
		Status:      status,
	})
}

// newLogger builds the text logger at the configured level.
func newLogger(cfg config.Log, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// startMirror serves the frame mirror and advertises it over mDNS.
func startMirror(ctx context.Context, cfg config.Mirror, eng *engine.Engine, log *slog.Logger) (string, error) {
	srv := mirror.NewServer(mirror.Options{MaxWidth: cfg.MaxWidth, Logger: log})

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return "", fmt.Errorf("failed to start mirror: %w", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port

	httpSrv := &http.Server{Handler: srv}
	go func() {
		if err := httpSrv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("mirror server stopped", "err", err)
		}
	}()
	go func() {
		if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("mirror encoder stopped", "err", err)
		}
		httpSrv.Close()
	}()
	eng.AddPresenter(srv)

	if cfg.Advertise {
		adv, err := mirror.Advertise(port)
		if err != nil {
			log.Warn("mdns advertise failed", "err", err)
		} else {
			go func() {
				<-ctx.Done()
				adv.Shutdown()
			}()
		}
	}

	url := "http://" + net.JoinHostPort(mirror.OutgoingIP(), strconv.Itoa(port))
	log.Info("mirror listening", "url", url)
	return url, nil
}

func findMirrors() error {
	n := 0
	err := mirror.Browse(func(addr string) {
		n++
		fmt.Println("http://" + addr)
	})
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	if n == 0 {
		fmt.Println("no mirrors found")
	}
	return nil
}
