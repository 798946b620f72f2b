package main

import (
	"flag"
	"time"

	"github.com/perchess/quadruped/kinematics"
	"github.com/perchess/quadruped/servos"
	"github.com/sirupsen/logrus"
)

var (
	portName = flag.String("port", "/dev/ttyUSB0", "the serial port path")
	baudRate = flag.Int("baud", servos.DefaultBaudRate, "the serial port baud rate")
	interval = flag.Int("interval", 50, "the time between steps (ms)")
	debug    = flag.Bool("debug", false, "show serial traffic")
)

func main() {
	flag.Parse()

	if *debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	d, err := servos.Open(*portName, *baudRate)
	if err != nil {
		logrus.Fatalf("error opening motors: %s", err)
	}
	defer d.Close()

	led := true

	for {
		for _, id := range kinematics.DefaultTable().MotorIDs() {
			err := d.SetLED(id, led)
			if err != nil {
				logrus.Fatalf("error switching led on motor #%d: %s", id, err)
			}
		}

		time.Sleep(time.Duration(*interval) * time.Millisecond)
		led = !led
	}
}
