package script

import (
	"encoding/binary"
	"fmt"

	"github.com/ff7tools/terraform/terrerr"
)

const messagesFileSize = 0x1000

// ReadMessages decodes a messages container: a 16-bit count followed by
// that many byte-offset words, each pointing at an encoded message. decode
// turns the raw encoded bytes at and after that offset into a string; it is
// expected to stop at the encoded message's own terminator.
func ReadMessages(data []byte, decode func(encoded []byte) (string, int, error)) ([]string, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("script: messages file too short for header: %w", terrerr.MalformedContainer)
	}
	count := int(binary.LittleEndian.Uint16(data))
	if 2+count*2 > len(data) {
		return nil, fmt.Errorf("script: messages file too short for %d offsets: %w", count, terrerr.MalformedContainer)
	}

	messages := make([]string, count)
	for i := 0; i < count; i++ {
		off := binary.LittleEndian.Uint16(data[2+i*2:])
		if int(off) >= len(data) {
			return nil, fmt.Errorf("script: message %d offset 0x%x out of range: %w", i, off, terrerr.MalformedContainer)
		}
		text, _, err := decode(data[off:])
		if err != nil {
			return nil, fmt.Errorf("script: decoding message %d: %w", i, err)
		}
		messages[i] = text
	}
	return messages, nil
}

// WriteMessages lays out a messages container: the count, the offset
// table, and the encoded message bytes, padded to messagesFileSize.
func WriteMessages(messages []string, encode func(string) ([]byte, error)) ([]byte, error) {
	encoded := make([][]byte, len(messages))
	for i, m := range messages {
		b, err := encode(m)
		if err != nil {
			return nil, fmt.Errorf("script: encoding message %d: %w", i, err)
		}
		encoded[i] = b
	}

	headerWords := 1 + len(messages)
	size := headerWords * 2
	for _, b := range encoded {
		size += len(b)
	}
	if size < messagesFileSize {
		size = messagesFileSize
	}

	data := make([]byte, size)
	binary.LittleEndian.PutUint16(data, uint16(len(messages)))

	offset := headerWords * 2
	for i, b := range encoded {
		binary.LittleEndian.PutUint16(data[2+i*2:], uint16(offset))
		copy(data[offset:], b)
		offset += len(b)
	}

	return data, nil
}
