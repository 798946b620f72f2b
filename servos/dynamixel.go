package servos

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/adammck/dynamixel/network"
	proto1 "github.com/adammck/dynamixel/protocol/v1"
	"github.com/adammck/dynamixel/servo"
	"github.com/adammck/dynamixel/servo/ax"
	"go.bug.st/serial"
)

const (
	DefaultBaudRate = 1000000

	// BroadcastID addresses every motor on the bus. Motors never reply to it.
	BroadcastID = int(network.BroadcastIdent)

	// The largest addressable motor ID.
	maxID = 0xFD

	// AX-series goal positions span 0-1023 over 0-300°.
	maxUnits   = 1023
	maxDegrees = 300.0

	maxMovingSpeed = 1023

	// How long a serial read blocks, and how long to wait for a whole status
	// packet.
	portTimeout   = 10 * time.Millisecond
	statusTimeout = 100 * time.Millisecond

	// Motors only reply to PING and READ.
	returnLevel = 1
)

var (
	// ErrOutOfRange is returned when a value can't be written to a register.
	ErrOutOfRange = errors.New("value out of range")

	// ErrInvalidID is returned for motor IDs which can't be on the bus.
	ErrInvalidID = errors.New("invalid motor ID")
)

// Dynamixel drives AX-series motors over a half-duplex serial link. It's safe
// for concurrent use. Each command runs under a lock, so a torque-off from
// another goroutine can interleave with a tick without corrupting it.
type Dynamixel struct {
	mu       sync.Mutex
	network  *network.Network
	proto    *proto1.Proto1
	motors   map[int]*servo.Servo
	buffered bool
}

// debugLogger sends network traffic to the debug log.
type debugLogger struct{}

func (debugLogger) Printf(format string, v ...interface{}) {
	log.Debugf(format, v...)
}

// New returns a driver which talks over the given port. It doesn't touch the
// motors; see Open for the usual setup.
func New(port io.ReadWriteCloser) *Dynamixel {
	n := network.New(port)
	n.Timeout = statusTimeout
	n.Logger = debugLogger{}

	return &Dynamixel{
		network: n,
		proto:   proto1.New(n),
		motors:  map[int]*servo.Servo{},
	}
}

// Open opens the named serial port and configures every motor on the bus to
// only reply to pings and reads, with no delay.
func Open(portName string, baudRate int) (*Dynamixel, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("%s (while opening serial port %s)", err, portName)
	}

	if err := port.SetReadTimeout(portTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("%s (while setting read timeout)", err)
	}

	d := New(port)
	d.network.Flush()

	if err := d.configureBus(); err != nil {
		port.Close()
		return nil, err
	}

	return d, nil
}

// configureBus broadcasts the status return level and delay. We must do this
// first, to ensure that the motors are in the expected state before sending
// other commands.
func (d *Dynamixel) configureBus() error {
	all, _ := ax.New(d.network, BroadcastID)

	if err := all.SetReturnLevel(returnLevel); err != nil {
		return fmt.Errorf("%s (while setting return level)", err)
	}

	if err := all.SetReturnDelayTime(0); err != nil {
		return fmt.Errorf("%s (while setting return delay)", err)
	}

	return nil
}

// Close closes the underlying port.
func (d *Dynamixel) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.network.Serial.Close()
}

// DegreesToUnits converts actuator degrees into goal position units.
func DegreesToUnits(degrees float64) (int, error) {
	if math.IsNaN(degrees) || degrees < 0 || degrees > maxDegrees {
		return 0, fmt.Errorf("%w: %.2f° is outside of [0, %.0f]", ErrOutOfRange, degrees, maxDegrees)
	}

	return int(math.Round(degrees * maxUnits / maxDegrees)), nil
}

// UnitsToDegrees converts goal position units into actuator degrees.
func UnitsToDegrees(units int) float64 {
	return float64(units) * maxDegrees / maxUnits
}

// motor returns the given motor, with buffering set as requested. The caller
// must hold the lock.
func (d *Dynamixel) motor(id int, buffered bool) (*servo.Servo, error) {
	if id < 0 || id > maxID {
		return nil, fmt.Errorf("%w: %d", ErrInvalidID, id)
	}

	s, ok := d.motors[id]
	if !ok {
		s = servo.NewWithReturnLevel(d.proto, ax.Registers, id, returnLevel)
		d.motors[id] = s
	}

	s.SetBuffered(buffered)
	return s, nil
}

// do runs f with the given motor under the lock. Bufferable commands are sent
// with REG_WRITE inside of Sync.
func (d *Dynamixel) do(id int, bufferable bool, f func(*servo.Servo) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, err := d.motor(id, bufferable && d.buffered)
	if err != nil {
		return err
	}

	return f(s)
}

// Ping checks that the given motor is on the bus.
func (d *Dynamixel) Ping(id int) error {
	return d.do(id, false, func(s *servo.Servo) error {
		if err := s.Ping(); err != nil {
			return fmt.Errorf("%s (while pinging motor #%d)", err, id)
		}
		return nil
	})
}

// SetGoalPositionInDegrees moves the given motor to an angle, in actuator
// degrees. Inside of Sync, the move waits for the end of the batch.
func (d *Dynamixel) SetGoalPositionInDegrees(id int, degrees float64) error {
	units, err := DegreesToUnits(degrees)
	if err != nil {
		return fmt.Errorf("%s (motor #%d)", err, id)
	}

	return d.do(id, true, func(s *servo.Servo) error {
		log.Debugf("motor #%d: goal %d (%.2f°)", id, units, UnitsToDegrees(units))
		return s.SetGoalPosition(units)
	})
}

// SetTorque turns the motor on or off. This is never buffered, so that
// motors can always be turned off immediately.
func (d *Dynamixel) SetTorque(id int, enabled bool) error {
	return d.do(id, false, func(s *servo.Servo) error {
		return s.SetTorqueEnable(enabled)
	})
}

// SetComplianceSlope sets both the clockwise and counter-clockwise slope.
func (d *Dynamixel) SetComplianceSlope(id int, slope ComplianceSlope) error {
	if slope < 1 || slope > 254 {
		return fmt.Errorf("%w: compliance slope %d (motor #%d)", ErrOutOfRange, slope, id)
	}

	return d.do(id, false, func(s *servo.Servo) error {
		if err := s.SetCWComplianceSlope(int(slope)); err != nil {
			return err
		}
		return s.SetCCWComplianceSlope(int(slope))
	})
}

// SetMovingSpeed sets the speed at which the motor moves to its goal. Zero is
// the fastest possible speed; 1-1023 are increasing speeds.
func (d *Dynamixel) SetMovingSpeed(id int, speed int) error {
	if speed < 0 || speed > maxMovingSpeed {
		return fmt.Errorf("%w: moving speed %d (motor #%d)", ErrOutOfRange, speed, id)
	}

	return d.do(id, false, func(s *servo.Servo) error {
		return s.SetMovingSpeed(speed)
	})
}

// SetLED turns the LED of the given motor on or off.
func (d *Dynamixel) SetLED(id int, on bool) error {
	return d.do(id, false, func(s *servo.Servo) error {
		return s.SetLED(on)
	})
}

// Voltage returns the input voltage of the given motor, which is as close as
// we can get to the voltage of the battery.
func (d *Dynamixel) Voltage(id int) (float64, error) {
	var v float64

	err := d.do(id, false, func(s *servo.Servo) error {
		var err error
		v, err = s.Voltage()
		if err != nil {
			return fmt.Errorf("%s (while reading voltage of motor #%d)", err, id)
		}
		return nil
	})

	return v, err
}

// Sync runs f with goal positions buffered, then starts every buffered move
// at once by broadcasting ACTION.
func (d *Dynamixel) Sync(f func() error) error {
	d.mu.Lock()
	d.buffered = true
	d.mu.Unlock()

	err := f()

	d.mu.Lock()
	defer d.mu.Unlock()
	d.buffered = false

	if actErr := d.proto.Action(); actErr != nil && err == nil {
		err = fmt.Errorf("%s (while sending action)", actErr)
	}

	return err
}
