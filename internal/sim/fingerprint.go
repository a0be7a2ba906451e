package sim

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint digests labels, case flags, trajectories and event dates.
// Two runs with the same seed and parameters produce the same value.
func Fingerprint(people []*Individual) (string, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	var buf [8]byte
	putFloat := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		h.Write(buf[:])
	}
	putDate := func(t time.Time) {
		if t.IsZero() {
			h.Write([]byte("-"))
			return
		}
		h.Write([]byte(t.Format("20060102")))
	}

	for _, p := range people {
		h.Write([]byte(p.id))
		h.Write([]byte{0})
		if p.IsCase() {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
		putFloat(p.exposure)
		putFloat(p.riskWeight)
		for _, loc := range p.locations {
			putFloat(loc[0])
			putFloat(loc[1])
		}
		for _, d := range p.dates {
			putDate(d)
		}
		putDate(p.initialExposure)
		putDate(p.contraction)
		putDate(p.diagnosis)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
