package vsa

import (
	"encoding/binary"

	"go.uber.org/zap"

	"github.com/Faultbox/isimp/internal/logger"
)

// SeedEntry is one decoded slot of the persisted seed array.
type SeedEntry struct {
	Seed  int
	Valid bool
}

// EncodeSeeds serializes the proxy set as one little-endian int32 per label
// slot: the seed face of a live proxy, -1 for a deleted one.
func EncodeSeeds(ps *ProxySet) []byte {
	buf := make([]byte, 4*ps.Len())
	for label := 0; label < ps.Len(); label++ {
		v := int32(-1)
		if p, ok := ps.Get(label); ok && p.Valid {
			v = int32(p.Seed)
		}
		binary.LittleEndian.PutUint32(buf[4*label:], uint32(v))
	}
	return buf
}

// DecodeSeeds parses a seed array written by EncodeSeeds.
func DecodeSeeds(blob []byte) ([]SeedEntry, error) {
	const op = "decode seeds"

	if len(blob) == 0 {
		return nil, Wrap(InputError, op, ErrNoPersistedState)
	}
	if len(blob)%4 != 0 {
		return nil, Errorf(HostIOError, op, "%w: %d bytes is not a whole number of seeds", ErrCorruptState, len(blob))
	}

	entries := make([]SeedEntry, len(blob)/4)
	for i := range entries {
		v := int32(binary.LittleEndian.Uint32(blob[4*i:]))
		switch {
		case v == -1:
			entries[i] = SeedEntry{Seed: -1}
		case v < 0:
			return nil, Errorf(HostIOError, op, "%w: seed %d of proxy %d", ErrCorruptState, v, i)
		default:
			entries[i] = SeedEntry{Seed: int(v), Valid: true}
		}
	}
	return entries, nil
}

// Restore rebuilds the proxy set and face labels saved by an earlier
// operation, then refits once so proxy planes match the saved regions. The
// refit clears all face labels, exactly as FitProxy does. A nil labels slice
// restores the seeds alone.
func Restore(g *FaceGraph, blob []byte, labels []int, m *Metrics) (*ProxySet, error) {
	const op = "restore"

	entries, err := DecodeSeeds(blob)
	if err != nil {
		return nil, err
	}

	ps := NewProxySet()
	for label, e := range entries {
		if !e.Valid {
			ps.AddInvalid()
			continue
		}
		if e.Seed >= g.Len() {
			return nil, Errorf(InputError, op, "%w: proxy %d seeded at face %d of %d", ErrInvalidFace, label, e.Seed, g.Len())
		}
		f := &g.Faces[e.Seed]
		ps.Add(e.Seed, f.Normal, f.Centroid)
	}
	if ps.NumValid() == 0 {
		return nil, Errorf(InputError, op, "%w: every proxy is deleted", ErrNoPersistedState)
	}

	g.ClearLabels()
	if labels == nil {
		logger.Named("vsa").Debug("no saved labels, restoring seeds only")
	} else {
		for f, l := range labels {
			if l < Unlabeled || l >= ps.Len() {
				return nil, Errorf(HostIOError, op, "%w: face %d has label %d", ErrCorruptState, f, l)
			}
		}
		if err := g.SetLabels(labels); err != nil {
			return nil, err
		}
	}

	FitProxy(g, ps, m)
	logger.Named("vsa").Debug("restored proxies",
		zap.Int("slots", ps.Len()),
		zap.Int("valid", ps.NumValid()))
	return ps, nil
}
