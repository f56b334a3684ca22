package rng

// Fixed always returns the same roll. IntN maps the roll onto [0,n).
type Fixed float64

// Float64 returns the fixed roll.
func (f Fixed) Float64() float64 {
	return float64(f)
}

// IntN returns int(roll*n), clamped to [0,n).
func (f Fixed) IntN(n int) int {
	return pick(float64(f), n)
}

// Sequence replays scripted rolls in order and wraps around.
type Sequence struct {
	rolls []float64
	pos   int
}

// NewSequence creates a scripted source. An empty script always rolls 0.
func NewSequence(rolls ...float64) *Sequence {
	return &Sequence{rolls: rolls}
}

// Float64 returns the next scripted roll.
func (s *Sequence) Float64() float64 {
	if len(s.rolls) == 0 {
		return 0
	}
	v := s.rolls[s.pos%len(s.rolls)]
	s.pos++
	return v
}

// IntN consumes one roll and maps it onto [0,n).
func (s *Sequence) IntN(n int) int {
	return pick(s.Float64(), n)
}

// Drawn returns how many rolls were consumed.
func (s *Sequence) Drawn() int {
	return s.pos
}

func pick(roll float64, n int) int {
	if n <= 0 {
		return 0
	}
	i := int(roll * float64(n))
	return min(max(i, 0), n-1)
}
