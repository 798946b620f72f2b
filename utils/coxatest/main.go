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
	swing    = flag.Float64("swing", 40, "how far (in degrees) to swing each coxa")
	debug    = flag.Bool("debug", false, "show serial traffic")
)

// Swings each coxa back and forth in turn, to check that the motor IDs in the
// leg table match the wiring.
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

	table := kinematics.DefaultTable()
	coxas := table.Coxas()

	err = servos.Setup(d, servos.DefaultSettings, coxas...)
	if err != nil {
		logrus.Fatalf("error setting up motors: %s", err)
	}

	for _, cfg := range table {
		logrus.Infof("%s (motor #%d)", cfg.ID, cfg.Coxa)

		for _, a := range []float64{150 - *swing, 150 + *swing, 150} {
			err := d.SetGoalPositionInDegrees(cfg.Coxa, a)
			if err != nil {
				logrus.Errorf("error moving motor #%d: %s", cfg.Coxa, err)
			}

			time.Sleep(500 * time.Millisecond)
		}
	}

	err = servos.DisableMotors(d, coxas...)
	if err != nil {
		logrus.Fatalf("error disabling motors: %s", err)
	}
}
