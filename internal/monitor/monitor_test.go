package monitor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type scriptedChecker struct {
	errs []error
	call int
}

func (s *scriptedChecker) CheckHealth(context.Context) error {
	err := s.errs[s.call%len(s.errs)]
	s.call++
	return err
}

func TestMonitorStartsChecking(t *testing.T) {
	m := New(&scriptedChecker{errs: []error{nil}})
	assert.Equal(t, StatusChecking, m.Last())
}

func TestProbeOutcomes(t *testing.T) {
	down := errors.New("Cannot connect to backend server. Please make sure the server is running on http://localhost:8000")
	m := New(&scriptedChecker{errs: []error{down, nil}})

	out := m.Probe(context.Background())
	assert.Equal(t, StatusError, out.Status)
	assert.Equal(t, down.Error(), out.Detail)
	assert.Equal(t, StatusError, m.Last())

	out = m.Probe(context.Background())
	assert.Equal(t, StatusConnected, out.Status)
	assert.Empty(t, out.Detail)
	assert.Equal(t, StatusConnected, m.Last())
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "checking", StatusChecking.String())
	assert.Equal(t, "connected", StatusConnected.String())
	assert.Equal(t, "error", StatusError.String())
}
