package term

import (
	"time"
	"unicode/utf8"
)

type byteReaderWithTimeout interface {
	// ReadByteWithTimeout reads a single byte with a timeout. A negative
	// timeout means no timeout.
	ReadByteWithTimeout(timeout time.Duration) (byte, error)
}

const badRune = utf8.RuneError

// Reads one rune, assembling it from UTF-8 bytes. The timeout applies to each
// byte.
func readRune(rd byteReaderWithTimeout, timeout time.Duration) (rune, error) {
	leader, err := rd.ReadByteWithTimeout(timeout)
	if err != nil {
		return badRune, err
	}
	var r rune
	pending := 0
	switch {
	case leader>>7 == 0:
		r = rune(leader)
	case leader>>5 == 0x6:
		r = rune(leader & 0x1f)
		pending = 1
	case leader>>4 == 0xe:
		r = rune(leader & 0xf)
		pending = 2
	case leader>>3 == 0x1e:
		r = rune(leader & 0x7)
		pending = 3
	default:
		return badRune, seqError{"bad UTF-8 leader byte", string([]byte{leader})}
	}
	for i := 0; i < pending; i++ {
		b, err := rd.ReadByteWithTimeout(timeout)
		if err != nil {
			return badRune, err
		}
		if b>>6 != 0x2 {
			return badRune, seqError{"bad UTF-8 continuation byte", string([]byte{leader, b})}
		}
		r = r<<6 + rune(b&0x3f)
	}
	return r, nil
}
