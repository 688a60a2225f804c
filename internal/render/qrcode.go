package render

import (
	"bytes"
	"errors"
	"image"

	"github.com/skip2/go-qrcode"
)

const defaultQRCodeSizePx = 256

var ErrEmptyPayload = errors.New("empty share payload")

// ShareImage returns the QR code of an encoded scene. Low error correction
// keeps dense scenes scannable.
func ShareImage(payload []byte, sizePx int) (image.Image, error) {
	if len(payload) == 0 {
		return nil, ErrEmptyPayload
	}
	if sizePx <= 0 {
		sizePx = defaultQRCodeSizePx
	}
	code, err := qrcode.New(string(payload), qrcode.Low)
	if err != nil {
		return nil, err
	}
	return code.Image(sizePx), nil
}

// ShareCode is ShareImage encoded in format.
func ShareCode(payload []byte, sizePx int, format Format) ([]byte, error) {
	img, err := ShareImage(payload, sizePx)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := EncodeImage(&buf, img, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
