package native

import "fmt"

// EncoderVersion returns the library's encoder version in "major.minor.rev"
// form, decoded from the packed (major<<16 | minor<<8 | rev) value.
func EncoderVersion() (string, error) {
	if err := Available(); err != nil {
		return "", err
	}
	return decodeVersion(webpGetEncoderVersion()), nil
}

// DecoderVersion returns the library's decoder version.
func DecoderVersion() (string, error) {
	if err := Available(); err != nil {
		return "", err
	}
	return decodeVersion(webpGetDecoderVersion()), nil
}

func decodeVersion(v int32) string {
	return fmt.Sprintf("%d.%d.%d", (v>>16)&0xff, (v>>8)&0xff, v&0xff)
}
