package lzari

const (
	ringSize  = 4096 // N, size of the ring buffer
	maxMatch  = 60   // F, upper limit for a match length
	threshold = 2    // matches longer than this are encoded as position and length
	nilNode   = ringSize

	charCount = 256 - threshold + maxMatch // literals plus one symbol per match length

	precision = 15
	q1        = 1 << precision
	q2        = 2 * q1
	q3        = 3 * q1
	q4        = 4 * q1
	maxCum    = q1 - 1
)

// model holds the adaptive symbol frequencies and the static position distribution.
// Encoder and decoder update it identically after every symbol.
type model struct {
	charToSym   [charCount]int
	symToChar   [charCount + 1]int
	symFreq     [charCount + 1]uint32
	symCum      [charCount + 1]uint32
	positionCum [ringSize + 1]uint32
}

func newModel() *model {
	m := &model{}
	m.symCum[charCount] = 0
	for sym := charCount; sym >= 1; sym-- {
		ch := sym - 1
		m.charToSym[ch] = sym
		m.symToChar[sym] = ch
		m.symFreq[sym] = 1
		m.symCum[sym-1] = m.symCum[sym] + m.symFreq[sym]
	}
	m.symFreq[0] = 0 // sentinel, differs from symFreq[1]

	m.positionCum[ringSize] = 0
	for i := ringSize; i >= 1; i-- {
		m.positionCum[i-1] = m.positionCum[i] + uint32(10000/(i+200))
	}
	return m
}

// update increments the frequency of sym, halving all frequencies when the
// total reaches maxCum, and keeps the symbols sorted by frequency.
func (m *model) update(sym int) {
	if m.symCum[0] >= maxCum {
		var c uint32
		for i := charCount; i > 0; i-- {
			m.symCum[i] = c
			m.symFreq[i] = (m.symFreq[i] + 1) >> 1
			c += m.symFreq[i]
		}
		m.symCum[0] = c
	}

	i := sym
	for m.symFreq[i] == m.symFreq[i-1] {
		i--
	}
	if i < sym {
		chI := m.symToChar[i]
		chSym := m.symToChar[sym]
		m.symToChar[i] = chSym
		m.symToChar[sym] = chI
		m.charToSym[chI] = sym
		m.charToSym[chSym] = i
	}
	m.symFreq[i]++
	for i--; i >= 0; i-- {
		m.symCum[i]++
	}
}

// searchSymbol returns the symbol sym with symCum[sym-1] > x >= symCum[sym].
func (m *model) searchSymbol(x uint32) int {
	i, j := 1, charCount
	for i < j {
		k := (i + j) / 2
		if m.symCum[k] > x {
			i = k + 1
		} else {
			j = k
		}
	}
	return i
}

// searchPosition returns the position p with positionCum[p] > x >= positionCum[p+1].
func (m *model) searchPosition(x uint32) int {
	i, j := 1, ringSize
	for i < j {
		k := (i + j) / 2
		if m.positionCum[k] > x {
			i = k + 1
		} else {
			j = k
		}
	}
	return i - 1
}
