package decode

// stream is a small read cursor over the input bytes, grounded on the
// reference decoder's ByteStream: peek without consuming, consume a fixed
// count or fail.
type stream struct {
	data  []byte
	index int
}

func newStream(data []byte) *stream {
	return &stream{data: data}
}

func (s *stream) isEmpty() bool { return s.index >= len(s.data) }

func (s *stream) peek() (uint8, bool) {
	if s.isEmpty() {
		return 0, false
	}
	return s.data[s.index], true
}

// consume returns the next n bytes and advances the cursor, or fails with
// IncompleteByteStream if fewer than n bytes remain.
func (s *stream) consume(n int) ([]byte, error) {
	if s.index+n > len(s.data) {
		return nil, errIncomplete()
	}
	b := s.data[s.index : s.index+n]
	s.index += n
	return b, nil
}

func (s *stream) consume1() (uint8, error) {
	b, err := s.consume(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// consumedSince returns every byte read since index mark, for building
// Instruction.Bytes.
func (s *stream) consumedSince(mark int) []byte {
	return s.data[mark:s.index]
}
