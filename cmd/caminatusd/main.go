// Command caminatusd runs the kiln controller: it loads configuration,
// starts the control loop, the event hub, and the HTTP/SSE surface.
// Command dispatch (run/mkconf/conf/version/help) mirrors
// cmd/multiserver/main.go's switch-driven main().
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/theckman/yacspin"
	"gopkg.in/yaml.v2"

	"github.com/neumaics/caminatus/config"
	"github.com/neumaics/caminatus/hub"
	"github.com/neumaics/caminatus/httpapi"
	"github.com/neumaics/caminatus/kiln"
	"github.com/neumaics/caminatus/relay"
	"github.com/neumaics/caminatus/schedule"
	"github.com/neumaics/caminatus/telemetry"
)

// Version is injected via ldflags at build time.
var Version = "dev"

// ConfigFileName is the default config path, matching
// cmd/multiserver/main.go's ConfigFileName convention.
var ConfigFileName = "caminatus.yaml"

func root() {
	fmt.Println(`caminatusd drives a networked electric kiln: schedule storage, a
PID control loop, and an event hub publishing live telemetry over SSE.

Usage:
	caminatusd <command>

Commands:
	run
	help
	mkconf
	conf
	version`)
}

func help() {
	fmt.Println(`caminatusd is configured via a YAML file (default caminatus.yaml).
When no file is present, built-in defaults are used. The mkconf command
writes the current defaults to disk as a starting point.`)
}

func mkconf() {
	spinner, err := yacspin.New(yacspin.Config{
		Frequency:       100 * time.Millisecond,
		CharSet:         yacspin.CharSets[9],
		Suffix:          " writing " + ConfigFileName,
		SuffixAutoColon: true,
	})
	if err == nil {
		_ = spinner.Start()
	}

	c := config.Default()
	f, err := os.Create(ConfigFileName)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	if err := yaml.NewEncoder(f).Encode(c); err != nil {
		log.Fatal(err)
	}

	if spinner != nil {
		_ = spinner.Stop()
	}
}

func printconf(c config.Config) {
	if err := yaml.NewEncoder(os.Stdout).Encode(c); err != nil {
		log.Fatal(err)
	}
}

func pversion() {
	fmt.Printf("caminatusd version %v\n", Version)
}

// unconnectedReader is the default RegisterReader until a real I2C bus
// driver is wired in; it always fails, which the control loop handles by
// holding the last known-good temperature (spec.md section 9(a)).
type unconnectedReader struct{}

func (unconnectedReader) ReadRegister(ctx context.Context, register byte) ([2]byte, error) {
	return [2]byte{}, fmt.Errorf("no thermocouple transport configured")
}

// multiPublisher fans a kiln.Publisher out to the hub and, if present,
// an MQTT relay - both the SSE clients and any external broker see the
// same telemetry stream.
type multiPublisher struct {
	sinks []kiln.Publisher
}

func (m *multiPublisher) Publish(channel string, payload []byte) {
	for _, s := range m.sinks {
		s.Publish(channel, payload)
	}
}

func run(c config.Config) {
	store, err := schedule.NewStore(c.SchedulesFolder)
	if err != nil {
		log.Fatalf("unable to open schedule store: %v", err)
	}
	defer store.Close()

	// I2C transport itself is out of scope for this module (spec.md
	// section 6); a real build wires in a RegisterReader backed by an
	// actual bus driver in place of unconnectedReader.
	thermocouple := kiln.NewMCP9600(unconnectedReader{})
	heater := kiln.NewSimulatedHeater(c.GPIO.Heater)

	loop := kiln.NewKilnLoop(thermocouple, heater, nil, "kiln", time.Duration(c.PollInterval)*time.Millisecond)
	loop.Telemetry = telemetry.NewGauges()

	h := hub.NewEventHub(loop)
	h.Register("kiln")

	sinks := []kiln.Publisher{h}
	if c.MQTTBroker != "" {
		r, err := relay.NewMQTTRelay(c.MQTTBroker, "caminatusd", "caminatus/telemetry")
		if err != nil {
			log.Printf("mqtt relay disabled, unable to connect to %s: %v", c.MQTTBroker, err)
		} else {
			defer r.Close()
			sinks = append(sinks, r)
		}
	}
	loop.Publisher = &multiPublisher{sinks: sinks}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go loop.Run(ctx, c.Kiln.Proportional, c.Kiln.Integral, c.Kiln.Derivative, float64(c.Kiln.FuzzyStepSize))

	monitor := hub.NewMonitor(h, time.Duration(c.Web.KeepAliveInterval)*time.Millisecond)
	go monitor.Run(ctx)

	api := httpapi.NewAPI(store, h)
	router := httpapi.NewRouter(api)

	addr := fmt.Sprintf("%s:%d", c.Web.HostIP, c.Web.Port)
	log.Printf("caminatusd listening at %s", addr)
	log.Fatal(http.ListenAndServe(addr, router))
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("unable to load .env: %v", err)
	}

	args := os.Args
	if len(args) == 1 {
		root()
		return
	}

	c, err := config.Load(ConfigFileName)
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	switch strings.ToLower(args[1]) {
	case "help":
		help()
	case "mkconf":
		mkconf()
	case "conf":
		printconf(c)
	case "run":
		run(c)
	case "version":
		pversion()
	default:
		log.Fatal("unknown command")
	}
}
