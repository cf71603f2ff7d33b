package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordAndGet(t *testing.T) {
	l := NewChecksumLedger(4)
	l.Record(1, 100)
	l.Record(2, 200)

	got, ok := l.Get(1)
	assert.True(t, ok)
	assert.Equal(t, uint64(100), got)
}

func TestEvictsOldestAtCapacity(t *testing.T) {
	l := NewChecksumLedger(2)
	l.Record(1, 100)
	l.Record(2, 200)
	l.Record(3, 300)

	_, ok := l.Get(1)
	assert.False(t, ok)
	assert.Equal(t, 2, l.Len())
}

func TestCompareFindsDivergence(t *testing.T) {
	a := NewChecksumLedger(10)
	b := NewChecksumLedger(10)

	for tick := uint64(1); tick <= 5; tick++ {
		a.Record(tick, tick*10)
		b.Record(tick, tick*10)
	}
	b.Record(3, 9999) // overwrite tick 3 with a diverging checksum

	// Simulate a replacement entry at the same tick by re-recording.
	diffs := Compare(a, b)
	assert.Len(t, diffs, 1)
	assert.Equal(t, uint64(3), diffs[0].Tick)
}

func TestCompareAgreesWhenIdentical(t *testing.T) {
	a := NewChecksumLedger(10)
	b := NewChecksumLedger(10)
	for tick := uint64(1); tick <= 5; tick++ {
		a.Record(tick, tick)
		b.Record(tick, tick)
	}
	assert.Empty(t, Compare(a, b))
}
