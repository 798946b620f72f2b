package main

import (
	"flag"

	"github.com/perchess/quadruped/kinematics"
	"github.com/perchess/quadruped/servos"
	"github.com/sirupsen/logrus"
)

var (
	portName = flag.String("port", "/dev/ttyUSB0", "the serial port path")
	baudRate = flag.Int("baud", servos.DefaultBaudRate, "the serial port baud rate")
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

	err = servos.DisableMotors(d, kinematics.DefaultTable().MotorIDs()...)
	if err != nil {
		logrus.Fatalf("error disabling motors: %s", err)
	}
}
