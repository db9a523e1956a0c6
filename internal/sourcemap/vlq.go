package sourcemap

import "fmt"

const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

const (
	vlqShift        = 5
	vlqMask         = (1 << vlqShift) - 1
	vlqContinuation = 1 << vlqShift
)

var base64Values [128]int8

func init() {
	for i := range base64Values {
		base64Values[i] = -1
	}
	for i, c := range base64Chars {
		base64Values[c] = int8(i)
	}
}

// appendVLQ appends the base64 VLQ encoding of n to dst.
func appendVLQ(dst []byte, n int) []byte {
	value := n << 1
	if n < 0 {
		value = (-n << 1) | 1
	}
	for {
		digit := value & vlqMask
		value >>= vlqShift
		if value > 0 {
			digit |= vlqContinuation
		}
		dst = append(dst, base64Chars[digit])
		if value == 0 {
			return dst
		}
	}
}

// decodeVLQ reads one VLQ value from s starting at pos.
// It returns the value and the position of the next unread byte.
func decodeVLQ(s string, pos int) (value, next int, err error) {
	result := 0
	shift := 0
	for {
		if pos >= len(s) {
			return 0, 0, fmt.Errorf("truncated VLQ sequence")
		}
		c := s[pos]
		if c >= 128 || base64Values[c] < 0 {
			return 0, 0, fmt.Errorf("invalid VLQ character %q", c)
		}
		digit := int(base64Values[c])
		pos++
		result |= (digit & vlqMask) << shift
		if digit&vlqContinuation == 0 {
			break
		}
		shift += vlqShift
	}
	if result&1 != 0 {
		return -(result >> 1), pos, nil
	}
	return result >> 1, pos, nil
}
