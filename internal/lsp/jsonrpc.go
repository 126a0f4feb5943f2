package lsp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"strconv"
)

// maxMessageSize bounds a single JSON-RPC payload.
const maxMessageSize = 64 << 20

var errMissingContentLength = errors.New("missing Content-Length header")

// readMessage reads one base-protocol frame: MIME-style headers, a blank
// line, then Content-Length bytes of JSON.
func readMessage(r *bufio.Reader) ([]byte, error) {
	header, err := textproto.NewReader(r).ReadMIMEHeader()
	if err != nil {
		if errors.Is(err, io.EOF) && len(header) == 0 {
			return nil, io.EOF
		}
		return nil, err
	}
	raw := header.Get("Content-Length")
	if raw == "" {
		return nil, errMissingContentLength
	}
	length, err := strconv.Atoi(raw)
	if err != nil || length < 0 {
		return nil, fmt.Errorf("invalid Content-Length %q", raw)
	}
	if length > maxMessageSize {
		return nil, fmt.Errorf("message of %d bytes exceeds limit", length)
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func writeMessage(w io.Writer, payload []byte) error {
	var buf []byte
	buf = append(buf, "Content-Length: "...)
	buf = strconv.AppendInt(buf, int64(len(payload)), 10)
	buf = append(buf, "\r\n\r\n"...)
	buf = append(buf, payload...)
	_, err := w.Write(buf)
	return err
}
