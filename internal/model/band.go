package model

// Band is a per-skill difficulty tier. Bands adapt over a session: one step
// up on a correct answer, one step down on an incorrect one, clamped at the
// ends.
type Band string

const (
	BandGood    Band = "good"
	BandBetter  Band = "better"
	BandPerfect Band = "perfect"
)

// BandOrder lists bands from easiest to hardest.
var BandOrder = []Band{BandGood, BandBetter, BandPerfect}

// Valid reports whether b is one of the three known bands.
func (b Band) Valid() bool {
	return b == BandGood || b == BandBetter || b == BandPerfect
}

func (b Band) index() int {
	for i, o := range BandOrder {
		if o == b {
			return i
		}
	}
	return 0
}

// Advance returns the band one step harder, clamped at perfect.
func (b Band) Advance() Band {
	if i := b.index(); i < len(BandOrder)-1 {
		return BandOrder[i+1]
	}
	return b
}

// Regress returns the band one step easier, clamped at good.
func (b Band) Regress() Band {
	if i := b.index(); i > 0 {
		return BandOrder[i-1]
	}
	return b
}
