// Command matrixsim runs the effects and scheduler on a host, drawing the
// panel in the terminal and taking effect switches over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/tinygo-org/piomatrix/effects"
	"github.com/tinygo-org/piomatrix/scheduler"
)

var (
	listenAddr = "localhost:8053"
	effectName = effects.KindWheel.String()
	interval   = scheduler.DefaultInterval * 5
	gain       = uint(4)
	verbose    = false
)

func init() {
	pflag.StringVarP(&listenAddr, "addr", "a", listenAddr, "HTTP control address, empty to disable")
	pflag.StringVarP(&effectName, "effect", "e", effectName, "initial effect name or index")
	pflag.DurationVar(&interval, "interval", interval, "pause between frames")
	pflag.UintVar(&gain, "gain", gain, "brightness multiplier for the terminal preview")
	pflag.BoolVarP(&verbose, "verbose", "v", verbose, "verbose logging")
}

func main() {
	log.SetFlags(0)
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalln("cannot load .env:", err)
	}
	if v, ok := os.LookupEnv("MATRIXSIM_ADDR"); ok {
		listenAddr = v
	}
	if v, ok := os.LookupEnv("MATRIXSIM_EFFECT"); ok {
		effectName = v
	}
	pflag.Parse()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	logHandler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05 PM", // extended time.Kitchen
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})

	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, logger); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	kind, err := effects.ParseKind(effectName)
	if err != nil {
		return err
	}
	initial, err := effects.New(kind, newRand())
	if err != nil {
		return fmt.Errorf("failed to create effect %v: %w", kind, err)
	}

	term := newTermDriver(os.Stdout, uint8(min(gain, 255)), isatty.IsTerminal(os.Stdout.Fd()))
	switches := scheduler.NewSignal[effects.Effect]()
	sched := scheduler.New(term, switches, scheduler.Config{
		Interval: interval,
		Initial:  initial,
	})
	ctrl := newControl(switches, kind, term.Frames, logger)

	errg, ctx := errgroup.WithContext(ctx)
	errg.Go(func() error {
		logger.Info("rendering", "effect", kind, "interval", interval)
		return sched.Run(ctx)
	})

	if listenAddr != "" {
		srv := &http.Server{
			Addr:              listenAddr,
			Handler:           ctrl.routes(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		errg.Go(func() error {
			logger.Info("control listening", "addr", listenAddr)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("control server: %w", err)
			}
			return nil
		})
		errg.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	return errg.Wait()
}
