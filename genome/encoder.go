package genome

// An Encoder converts reference bases to the numeric
// channels a model consumes.
type Encoder interface {
	// Width returns the number of channels per base.
	Width() int

	// Encode writes the channels for every base of window
	// to dst, which has len(window)*Width() components.
	// Bases arrive upper-cased.
	Encode(dst []float64, window []byte)
}

// OneHot encodes A, C, G and T as four unit channels.
// Every other base encodes to all zeros.
type OneHot struct{}

// Width returns 4.
func (o OneHot) Width() int {
	return 4
}

// Encode one-hot encodes the window.
func (o OneHot) Encode(dst []float64, window []byte) {
	for i := range dst {
		dst[i] = 0
	}
	for i, b := range window {
		switch b {
		case 'A':
			dst[i*4] = 1
		case 'C':
			dst[i*4+1] = 1
		case 'G':
			dst[i*4+2] = 1
		case 'T':
			dst[i*4+3] = 1
		}
	}
}
