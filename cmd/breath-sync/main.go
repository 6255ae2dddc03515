// Command breath-sync runs guided breathing sessions. Sessions are driven
// from a push button, the web page, the HTTP API or the terminal UI, and
// session events are published to MQTT.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/breath-sync/internal/config"
	"github.com/sweeney/breath-sync/internal/gpio"
	"github.com/sweeney/breath-sync/internal/logic"
	"github.com/sweeney/breath-sync/internal/mqtt"
	"github.com/sweeney/breath-sync/internal/session"
	"github.com/sweeney/breath-sync/internal/status"
	"github.com/sweeney/breath-sync/internal/tui"
	"github.com/sweeney/breath-sync/internal/web"
)

const commandTimeout = 2 * time.Second

// options are command-line switches that are not part of the config file.
type options struct {
	configPath string
	printState bool
	tui        bool
}

func main() {
	cfg, opts, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	if err := run(cfg, opts); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// parseFlags builds the effective config: defaults, then the -config file,
// then any flag given explicitly on the command line.
func parseFlags(fs *flag.FlagSet, args []string) (*config.Config, options, error) {
	def := config.Default()
	var opts options

	fs.StringVar(&opts.configPath, "config", "", "YAML config file")
	fs.BoolVar(&opts.printState, "print-state", false, "Print button state and exit")
	fs.BoolVar(&opts.tui, "tui", false, "Run the terminal UI")

	httpAddr := fs.String("http", def.HTTP.Addr, "HTTP address (empty to disable)")
	broker := fs.String("broker", def.MQTT.Broker, "MQTT broker address (empty to disable)")
	heartbeat := fs.Duration("heartbeat", def.MQTT.Heartbeat, "Heartbeat interval (0 to disable)")
	useGPIO := fs.Bool("gpio", def.GPIO.Enabled, "Use the GPIO button and LED")
	pinButton := fs.Int("pin-button", def.GPIO.ButtonPin, "BCM pin number for the button")
	pinLED := fs.Int("pin-led", def.GPIO.LEDPin, "BCM pin number for the phase LED")
	poll := fs.Duration("poll", def.GPIO.Poll, "Button polling interval")
	debounce := fs.Duration("debounce", def.GPIO.Debounce, "Button debounce duration")
	duration := fs.Int("duration", def.Session.DurationSeconds, "Initial session length in seconds")
	theme := fs.String("theme", def.Session.Theme, "Initial theme (day or night)")

	if err := fs.Parse(args); err != nil {
		return nil, opts, err
	}

	cfg := def
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, opts, err
		}
		cfg = loaded
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "http":
			cfg.HTTP.Addr = *httpAddr
		case "broker":
			cfg.MQTT.Broker = *broker
		case "heartbeat":
			cfg.MQTT.Heartbeat = *heartbeat
		case "gpio":
			cfg.GPIO.Enabled = *useGPIO
		case "pin-button":
			cfg.GPIO.ButtonPin = *pinButton
		case "pin-led":
			cfg.GPIO.LEDPin = *pinLED
		case "poll":
			cfg.GPIO.Poll = *poll
		case "debounce":
			cfg.GPIO.Debounce = *debounce
		case "duration":
			cfg.Session.DurationSeconds = *duration
		case "theme":
			cfg.Session.Theme = *theme
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, opts, err
	}
	return cfg, opts, nil
}

func run(cfg *config.Config, opts options) error {
	// Initialize GPIO
	var button gpio.Reader
	var led *gpio.LED
	if cfg.GPIO.Enabled || opts.printState {
		reader, err := gpio.NewRealReader(cfg.GPIO.ButtonPin)
		if err != nil {
			return fmt.Errorf("init gpio: %w", err)
		}
		defer reader.Close()
		button = reader

		if opts.printState {
			pressed, err := reader.Read()
			if err != nil {
				return fmt.Errorf("read gpio: %w", err)
			}
			fmt.Printf("button: %s\n", pressedString(pressed))
			return nil
		}

		ind, err := gpio.NewRealIndicator(cfg.GPIO.LEDPin)
		if err != nil {
			return fmt.Errorf("init led: %w", err)
		}
		defer ind.Close()
		led = gpio.NewLED(ind)
	}

	// Initialize the engine with the configured defaults
	startTime := time.Now()
	tuning := cfg.Tuning()
	engine := logic.NewEngine(tuning, rand.New(rand.NewSource(startTime.UnixNano())))
	if _, err := engine.Configure(cfg.Selection(), cfg.Theme(), startTime); err != nil {
		return fmt.Errorf("configure session: %w", err)
	}

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(startTime, engine.State(), status.Config{
		TickMs:            tuning.InterpolateInterval.Milliseconds(),
		PollMs:            cfg.GPIO.Poll.Milliseconds(),
		DebounceMs:        cfg.GPIO.Debounce.Milliseconds(),
		HeartbeatMs:       cfg.MQTT.Heartbeat.Milliseconds(),
		RelocateMs:        tuning.RelocateInterval.Milliseconds(),
		InterpolateMs:     tuning.InterpolateInterval.Milliseconds(),
		InterpolateFactor: tuning.InterpolateFactor,
		Broker:            cfg.MQTT.Broker,
		HTTPAddr:          cfg.HTTP.Addr,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	observers := []session.Observer{trackerObserver(tracker)}

	// Initialize MQTT
	var publisher mqtt.Publisher
	var mqttStatus mqtt.ConnectionStatus
	var forwarder *mqtt.Forwarder
	if cfg.MQTT.Broker != "" {
		client := mqtt.NewRealPublisher(mqtt.Options{
			Broker:             cfg.MQTT.Broker,
			ClientID:           cfg.MQTT.ClientID,
			BufferSize:         cfg.MQTT.BufferSize,
			OnConnectionChange: tracker.SetMQTTConnected,
		})
		defer client.Close()
		publisher, mqttStatus = client, client

		var skip []logic.EventType
		if !cfg.MQTT.PublishTicks {
			skip = append(skip, logic.EventTick)
		}
		forwarder = mqtt.NewForwarder(client, cfg.MQTT.QueueSize, skip...)
		observers = append(observers, forwarder)
	} else {
		log.Printf("mqtt disabled")
	}

	var broadcaster *web.Broadcaster
	if cfg.HTTP.Addr != "" {
		broadcaster = web.NewBroadcaster(engine.State(), cfg.HTTP.BroadcastThrottle)
		observers = append(observers, broadcaster)
	}
	if led != nil {
		observers = append(observers, led)
	}

	// Start the session controller
	ctrl := session.New(engine, time.Now, observers...)
	ctx, cancel := context.WithCancel(context.Background())
	engineTicker := time.NewTicker(tuning.InterpolateInterval)
	ctrlDone := make(chan struct{})
	go func() {
		defer close(ctrlDone)
		ctrl.Run(ctx, engineTicker.C)
	}()
	// Stop the controller before the observers it feeds are torn down.
	defer func() {
		cancel()
		<-ctrlDone
		engineTicker.Stop()
		if forwarder != nil {
			forwarder.Close()
		}
	}()

	// Publish startup event with full status snapshot
	if publisher != nil {
		snap := tracker.Snapshot()
		startupEvent := mqtt.SystemEvent{
			Timestamp:  snap.Now,
			Event:      mqtt.EventStartup,
			Retained:   true,
			RawPayload: status.FormatStatusEvent(snap, mqtt.EventStartup, ""),
		}
		if err := publisher.PublishSystem(startupEvent); err != nil {
			log.Printf("failed to publish startup event: %v", err)
		} else {
			log.Printf("published startup event")
		}
	}

	// Start HTTP server
	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker, ctrl, broadcaster)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http server listening on %s", cfg.HTTP.Addr)
	}

	// The terminal UI owns stdout, so it only runs on request.
	quit := make(chan struct{})
	if opts.tui {
		go func() {
			defer close(quit)
			if err := tui.Run(ctx, ctrl); err != nil {
				log.Printf("tui error: %v", err)
			}
		}()
	}

	log.Printf("started: duration=%ds theme=%s gpio=%v broker=%s heartbeat=%v",
		cfg.Selection().DurationSeconds(), cfg.Theme(), cfg.GPIO.Enabled, cfg.MQTT.Broker, cfg.MQTT.Heartbeat)

	ticker := time.NewTicker(cfg.GPIO.Poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(loopConfig{
		button:     button,
		ctrl:       ctrl,
		publisher:  publisher,
		mqttStatus: mqttStatus,
		tracker:    tracker,
		debounce:   cfg.GPIO.Debounce,
		heartbeat:  cfg.MQTT.Heartbeat,
		now:        time.Now,
	}, ticker.C, sigCh, quit)
}

func trackerObserver(tracker *status.Tracker) session.Observer {
	return session.ObserverFunc(func(u session.Update) {
		for _, e := range u.Events {
			log.Printf("event: %s (status=%s phase=%s remaining=%d)", e.Type, e.Status, e.Phase, e.Remaining)
		}
		tracker.Update(u.State, u.Counts, u.Events)
	})
}

// toggler starts an idle session or stops a running one.
type toggler interface {
	Toggle(ctx context.Context) error
}

// loopConfig holds the collaborators of runLoop. Nil button or publisher
// disables that input or output.
type loopConfig struct {
	button     gpio.Reader
	ctrl       toggler
	publisher  mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus
	tracker    *status.Tracker
	debounce   time.Duration
	heartbeat  time.Duration
	now        func() time.Time
}

// runLoop polls the button, sends heartbeats and waits for a shutdown
// signal or the terminal UI to exit.
func runLoop(lc loopConfig, tick <-chan time.Time, sig <-chan os.Signal, quit <-chan struct{}) error {
	startTime := lc.now()
	btn := logic.NewButton(lc.debounce)
	hb := logic.NewHeartbeat(startTime)

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			publishShutdown(lc, signalName)
			return nil

		case <-quit:
			log.Printf("terminal ui closed, shutting down")
			publishShutdown(lc, "USER")
			return nil

		case <-tick:
			t := lc.now()

			if lc.button != nil {
				pressed, err := lc.button.Read()
				if err != nil {
					log.Printf("gpio read error: %v", err)
				} else if btn.Process(pressed, t) {
					log.Printf("button pressed")
					toggle(lc.ctrl)
				}
			}

			// Check for heartbeat
			if hbData := hb.Check(t, lc.heartbeat, lc.tracker.Snapshot().Counts); hbData != nil {
				log.Printf("heartbeat: uptime=%v started=%d completed=%d cancelled=%d cycles=%d",
					hbData.Uptime, hbData.Counts.SessionsStarted, hbData.Counts.SessionsCompleted,
					hbData.Counts.SessionsCancelled, hbData.Counts.BreathCycles)

				if lc.publisher == nil {
					continue
				}
				refreshMQTT(lc)
				// Refresh network info for heartbeat
				if net := readNetworkInfo(); net != nil {
					lc.tracker.SetNetwork(net)
				}
				snap := lc.tracker.Snapshot()
				hbEvent := mqtt.SystemEvent{
					Timestamp:  hbData.Timestamp,
					Event:      mqtt.EventHeartbeat,
					RawPayload: status.FormatStatusEvent(snap, mqtt.EventHeartbeat, ""),
				}
				if err := lc.publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}
		}
	}
}

func toggle(ctrl toggler) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	if err := ctrl.Toggle(ctx); err != nil && !errors.Is(err, session.ErrNotRunning) {
		log.Printf("toggle error: %v", err)
	}
}

func refreshMQTT(lc loopConfig) {
	if lc.mqttStatus != nil {
		lc.tracker.SetMQTTConnected(lc.mqttStatus.IsConnected())
	}
}

func publishShutdown(lc loopConfig, reason string) {
	if lc.publisher == nil {
		return
	}
	refreshMQTT(lc)
	snap := lc.tracker.Snapshot()
	event := mqtt.SystemEvent{
		Timestamp:  lc.now(),
		Event:      mqtt.EventShutdown,
		Reason:     reason,
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, mqtt.EventShutdown, reason),
	}
	if err := lc.publisher.PublishSystem(event); err != nil {
		log.Printf("failed to publish shutdown event: %v", err)
	} else {
		log.Printf("published shutdown event")
	}
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}

func pressedString(pressed bool) string {
	if pressed {
		return "PRESSED"
	}
	return "RELEASED"
}
