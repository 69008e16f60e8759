package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gregoryjjb/buzzd/display"
	"gregoryjjb/buzzd/gpio"
)

func init() {
	InitializeLogger()
}

// Populated by ldflags (ugh)
var (
	version            string
	buildUnixTimestamp string
	commitHash         string
)

func main() {
	ts, _ := strconv.ParseInt(buildUnixTimestamp, 10, 64)
	buildTime := time.Unix(ts, 0)

	versionFlag := flag.Bool("version", false, "Print version")
	systemdFlag := flag.Bool("systemd", false, "Print systemd service file")
	configFlag := flag.String("config", "", "Path to config file")
	flag.Parse()

	if *versionFlag {
		fmt.Println("buzzd version:", version)
		fmt.Println("Built on:", buildTime)
		fmt.Println("Commit hash:", commitHash)
		return
	}

	if *systemdFlag {
		SystemdServiceFile()
		return
	}

	log.Info().
		Str("version", version).
		Str("build_timestamp", buildTime.Format(time.RFC3339)).
		Str("commit_hash", commitHash).
		Msg("Initializing buzzd")

	config, err := NewConfig(newBuzzdOSFS(), Flags{ConfigPath: *configFlag}, os.Getenv)
	if err != nil {
		log.Fatal().Err(err).Msg("Config initialization failed")
	}
	zerolog.SetGlobalLevel(config.LogLevel())

	if err := run(config); err != nil {
		log.Fatal().Err(err).Msg("buzzd exited with error")
	}
}

func run(config *Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pin, err := gpio.Open(config.RelayConfig())
	if err != nil {
		return fmt.Errorf("gpio initialization failed: %w", err)
	}
	defer pin.Close()

	relay := NewRelay(pin)

	address, err := WaitForNetwork(ctx, config.NetworkWait())
	if err != nil {
		return err
	}

	activity := NewRecorder(config.LogLines())

	var announcer Announcer
	if broker := config.MQTTBroker(); broker != "" {
		a, err := NewMQTTAnnouncer(broker)
		if err != nil {
			// The doorbell still works without the bus
			log.Err(err).Msg("MQTT announcer disabled")
		} else {
			announcer = a
			defer announcer.Close()
			announcer.Startup(address)
		}
	}

	var chime ChimePlayer
	if path := config.ChimePath(); path != "" {
		c, err := NewChime(newBuzzdOSFS(), path)
		if err != nil {
			log.Err(err).Msg("Chime disabled")
		} else {
			chime = c
			defer chime.Close()
		}
	}

	server := NewServer(config, activity, relay, announcer, chime)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	surface, err := openSurface(config)
	if err != nil {
		return err
	}

	// The render loop owns the main goroutine until shutdown
	if err := RunDisplayLoop(ctx, surface, address, activity, config.RefreshInterval()); err != nil {
		return fmt.Errorf("display failure: %w", err)
	}

	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Err(err).Msg("Server shutdown uncleanly")
	}

	if announcer != nil {
		announcer.Shutdown()
	}

	return nil
}

func openSurface(config *Config) (display.Surface, error) {
	switch config.DisplayDriver() {
	case "term":
		out := NewThreadSafeWriter(colorable.NewColorable(os.Stdout))
		return display.NewTerminal(out, config.DisplayWidth(), config.DisplayHeight()), nil
	case "none":
		return display.Discard, nil
	default:
		return nil, fmt.Errorf("unknown display driver %q", config.DisplayDriver())
	}
}
