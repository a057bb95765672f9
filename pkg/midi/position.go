package midi

const beatsPerBar = 4

// quarterPosition returns which quarter of a 4/4 bar absTicks falls into.
func quarterPosition(absTicks uint64, ticksPerQuarterNote uint16) int {
	if ticksPerQuarterNote == 0 {
		return 0
	}
	return int(absTicks / uint64(ticksPerQuarterNote) % beatsPerBar)
}
