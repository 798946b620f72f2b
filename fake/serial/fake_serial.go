// Package serial provides an in-memory stand-in for a serial port.
package serial

import (
	"bytes"
	"sync"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "fake/serial",
})

// FakeSerial records everything written to it, and serves reads from a
// buffer which tests can fill with canned replies. Reads from an empty buffer
// return zero bytes, like a real port after its read timeout.
type FakeSerial struct {
	mu      sync.Mutex
	written bytes.Buffer
	replies bytes.Buffer
	closed  bool
}

func New() *FakeSerial {
	return &FakeSerial{}
}

// Reply queues bytes to be returned by subsequent reads.
func (s *FakeSerial) Reply(b ...byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies.Write(b)
}

// Written returns a copy of everything written so far.
func (s *FakeSerial) Written() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.written.Bytes()...)
}

// Reset forgets everything written so far.
func (s *FakeSerial) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.written.Reset()
}

func (s *FakeSerial) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *FakeSerial) Read(p []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.replies.Len() == 0 {
		log.Debugf("read %d bytes: nothing to read", len(p))
		return 0, nil
	}

	n, err = s.replies.Read(p)
	log.Debugf("read: % X", p[:n])
	return n, err
}

func (s *FakeSerial) Write(p []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.Debugf("write: % X", p)
	return s.written.Write(p)
}

func (s *FakeSerial) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.Debugf("close")
	s.closed = true
	return nil
}
