package services

import (
	"io"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// scriptRNG replays fixed sequences, repeating the last value once the
// script runs out.
type scriptRNG struct {
	ints   []int
	floats []float64
	ii, fi int
}

func (s *scriptRNG) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[s.ii]
	if s.ii < len(s.ints)-1 {
		s.ii++
	}
	return v % n
}

func (s *scriptRNG) Float64() float64 {
	if len(s.floats) == 0 {
		return 0
	}
	v := s.floats[s.fi]
	if s.fi < len(s.floats)-1 {
		s.fi++
	}
	return v
}
