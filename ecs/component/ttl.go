package component

// TTL destroys its entity after Frames update ticks. Impact animations carry
// one sized to their frame sequence.
type TTL struct {
	Frames int
}

var TTLComponent = NewComponent[TTL]()
