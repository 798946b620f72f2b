package main

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/perchess/quadruped"
	"github.com/perchess/quadruped/components/controller"
	"github.com/perchess/quadruped/components/legs"
	"github.com/perchess/quadruped/components/pad"
	"github.com/perchess/quadruped/components/remote"
	"github.com/perchess/quadruped/components/voltage"
	"github.com/perchess/quadruped/fake/servo"
	fakevoltage "github.com/perchess/quadruped/fake/voltage"
	"github.com/perchess/quadruped/kinematics"
	"github.com/perchess/quadruped/servos"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "main",
})

var (
	portName = flag.String("port", "/dev/ttyUSB0", "the serial port path")
	baudRate = flag.Int("baud", servos.DefaultBaudRate, "the serial port baud rate")
	fps      = flag.Int("fps", 60, "ticks per second")
	maxStep  = flag.Float64("step", 0.5, "the furthest (in cm) a foot may move per tick")
	speed    = flag.Int("speed", servos.DefaultSettings.MovingSpeed, "motor moving speed (1-1023)")
	listen   = flag.String("listen", "", "address to serve the remote on, e.g. :8080")
	padPath  = flag.String("pad", "", "gamepad input device, e.g. /dev/input/event0")
	minVolts = flag.Float64("min-voltage", voltage.DefaultConfig().Minimum, "shut down below this battery voltage")
	fake     = flag.Bool("fake", false, "don't talk to real motors")
	debug    = flag.Bool("debug", false, "show serial traffic")
)

func main() {
	flag.Parse()

	if *debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if *fps <= 0 {
		log.Fatalf("fps must be positive, got %d", *fps)
	}

	var driver servos.Driver
	var meter voltage.Voltmeter
	if *fake {
		log.Infof("using fake motors")
		driver = servo.New()
		meter = fakevoltage.New(11.1)
	} else {
		log.Infof("opening serial port %s...", *portName)
		d, err := servos.Open(*portName, *baudRate)
		if err != nil {
			log.Fatalf("error opening motors: %s", err)
		}
		defer d.Close()
		driver = d
		meter = d
	}

	table := kinematics.DefaultTable()

	cfg := legs.DefaultConfig()
	cfg.MaxStep = *maxStep
	cfg.Servos.MovingSpeed = *speed

	l, err := legs.New(driver, table, kinematics.NewSolver(), cfg)
	if err != nil {
		log.Fatalf("error creating legs: %s", err)
	}

	r := remote.New(l)
	q := quadruped.New()

	vcfg := voltage.DefaultConfig()
	vcfg.Minimum = *minVolts

	// Order matters: the remote publishes the intent, the controller turns it
	// into a target, and the legs move towards it. Anything which can request
	// a shutdown must come before the legs.
	log.Infof("creating components...")
	q.Add(r)

	// The pad overrides whatever intent the remote published.
	if *padPath != "" {
		log.Infof("opening gamepad %s...", *padPath)
		f, err := os.Open(*padPath)
		if err != nil {
			log.Fatalf("error opening gamepad: %s", err)
		}
		defer f.Close()
		q.Add(pad.New(f, pad.DefaultConfig()))
	}

	q.Add(voltage.New(meter, table[kinematics.FrontLeft].Coxa, vcfg))
	q.Add(controller.New(l, kinematics.RelaxedStance(), controller.DefaultConfig()))
	q.Add(l)

	log.Infof("booting components...")
	if err := q.Boot(); err != nil {
		log.Errorf("error while booting: %s", err)

		// Don't leave any motors which did boot powered up.
		if err := servos.DisableMotors(driver, table.MotorIDs()...); err != nil {
			log.Errorf("error while disabling motors: %s", err)
		}

		os.Exit(1)
	}

	if *listen != "" {
		go func() {
			log.Infof("serving remote on %s", *listen)
			err := http.ListenAndServe(*listen, r.Handler())
			if err != nil {
				log.Errorf("remote stopped: %s", err)
			}
		}()
	}

	// Catch both SIGINT (ctrl+c) and SIGTERM (kill/systemd), to allow the robot
	// to power down its motors before exiting.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		for range c {
			log.Infof("caught signal, shutting down...")
			q.RequestShutdown()
		}
	}()

	log.Infof("starting loop...")
	t := time.NewTicker(time.Second / time.Duration(*fps))
	defer t.Stop()

	// The tick which sees the shutdown is the one which powers down the
	// motors, so stop right after it.
	for now := range t.C {
		q.Tick(now)

		if q.ShuttingDown() {
			log.Infof("shut down")
			break
		}
	}
}
