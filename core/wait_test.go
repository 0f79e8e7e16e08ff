package core

import (
	"testing"
	"time"
)

func TestWaitConfigNormalizeDefaults(t *testing.T) {
	cfg := &WaitConfig{}
	cfg.normalize()

	if cfg.Timeout != 10*time.Minute {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.Interval != 500*time.Millisecond {
		t.Errorf("Interval = %v", cfg.Interval)
	}
	if cfg.MaxInterval != 30*time.Second {
		t.Errorf("MaxInterval = %v", cfg.MaxInterval)
	}
	if cfg.BackoffFactor != 0.25 {
		t.Errorf("BackoffFactor = %v", cfg.BackoffFactor)
	}
}

func TestWaitConfigNormalizeKeepsExplicit(t *testing.T) {
	cfg := &WaitConfig{
		Timeout:       time.Minute,
		Interval:      time.Second,
		MaxInterval:   5 * time.Second,
		BackoffFactor: 0.5,
	}
	cfg.normalize()

	if cfg.Timeout != time.Minute || cfg.Interval != time.Second ||
		cfg.MaxInterval != 5*time.Second || cfg.BackoffFactor != 0.5 {
		t.Errorf("explicit values were overwritten: %+v", cfg)
	}
}

func TestWaitConfigNextInterval(t *testing.T) {
	cfg := &WaitConfig{
		Interval:      500 * time.Millisecond,
		MaxInterval:   30 * time.Second,
		BackoffFactor: 0.25,
	}

	if got := cfg.NextInterval(); got != 500*time.Millisecond {
		t.Errorf("first interval = %v", got)
	}
	if got := cfg.NextInterval(); got != 625*time.Millisecond {
		t.Errorf("second interval = %v", got)
	}
}

func TestWaitConfigNextIntervalCapped(t *testing.T) {
	cfg := &WaitConfig{
		Interval:      25 * time.Second,
		MaxInterval:   30 * time.Second,
		BackoffFactor: 1.0,
	}

	cfg.NextInterval()
	if got := cfg.NextInterval(); got != 30*time.Second {
		t.Errorf("interval should cap at MaxInterval, got %v", got)
	}
	if got := cfg.NextInterval(); got != 30*time.Second {
		t.Errorf("interval should stay at cap, got %v", got)
	}
}
