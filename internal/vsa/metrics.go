package vsa

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Metrics collects counters and phase timings for one operation. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	FloodCalls  int
	FitCalls    int
	QueuePushes int
	QueuePops   int
	Rings       int
	Anchors     int
	Splits      int

	FloodTime  time.Duration
	FitTime    time.Duration
	RemeshTime time.Duration
}

func (m *Metrics) observeFlood(start time.Time) {
	if m != nil {
		m.FloodCalls++
		m.FloodTime += time.Since(start)
	}
}

func (m *Metrics) observeFit(start time.Time) {
	if m != nil {
		m.FitCalls++
		m.FitTime += time.Since(start)
	}
}

// TrackRemesh adds the time elapsed since start to RemeshTime.
// Use it as defer m.TrackRemesh(time.Now()).
func (m *Metrics) TrackRemesh(start time.Time) {
	if m != nil {
		m.RemeshTime += time.Since(start)
	}
}

// AddRings records traced border rings.
func (m *Metrics) AddRings(n int) {
	if m != nil {
		m.Rings += n
	}
}

// AddAnchor records one anchor vertex, found or promoted.
func (m *Metrics) AddAnchor() {
	if m != nil {
		m.Anchors++
	}
}

// AddSplit records one boundary split.
func (m *Metrics) AddSplit() {
	if m != nil {
		m.Splits++
	}
}

// MarshalLogObject lets metrics be logged with zap.Object.
func (m *Metrics) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	if m == nil {
		return nil
	}
	enc.AddInt("flood_calls", m.FloodCalls)
	enc.AddInt("fit_calls", m.FitCalls)
	enc.AddInt("queue_pushes", m.QueuePushes)
	enc.AddInt("queue_pops", m.QueuePops)
	enc.AddInt("rings", m.Rings)
	enc.AddInt("anchors", m.Anchors)
	enc.AddInt("splits", m.Splits)
	enc.AddDuration("flood_time", m.FloodTime)
	enc.AddDuration("fit_time", m.FitTime)
	enc.AddDuration("remesh_time", m.RemeshTime)
	return nil
}

// Field returns the metrics as a single zap field.
func (m *Metrics) Field() zap.Field {
	return zap.Object("metrics", m)
}
