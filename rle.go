package abr

// decodeRLERow decodes one PackBits-encoded row from the cursor into buf
// starting at startIndex, producing columns bytes of output. A control
// byte n < 128 means n+1 literal bytes follow; n > 128 means the next
// byte repeats 257-n times; n == 128 is a no-op.
//
// Writes that would run past the end of buf are dropped while the encoded
// input keeps being consumed, so a malformed row cannot corrupt memory or
// desynchronize the stream.
func decodeRLERow(f *File, buf []byte, startIndex, columns int) error {
	written := 0
	for written < columns {
		control, err := f.ReadByte()
		if err != nil {
			return err
		}

		n := int(control)
		switch {
		case n < 128:
			// n+1 literal bytes
			for i := 0; i <= n; i++ {
				b, err := f.ReadByte()
				if err != nil {
					return err
				}
				if idx := startIndex + written; idx < len(buf) {
					buf[idx] = b
				}
				written++
			}
		case n > 128:
			// one byte repeated 257-n times
			b, err := f.ReadByte()
			if err != nil {
				return err
			}
			for i := 0; i < 257-n; i++ {
				if idx := startIndex + written; idx < len(buf) {
					buf[idx] = b
				}
				written++
			}
		default:
			// 128 is a no-op per the PackBits convention
		}
	}
	return nil
}
