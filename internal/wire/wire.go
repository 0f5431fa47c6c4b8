// Package wire frames clipt IPC messages over a net.Conn: one
// newline-terminated JSON line per message, with optional NaCl secretbox
// encryption for TCP transports.
//
// Wire format (plain):      <json>\n
// Wire format (encrypted):  <base64(nonce+ciphertext)>\n
//
// The encrypted form stays a single base64 token per line so the framing
// logic is identical either way.
package wire

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"net"
	"time"

	"go.klb.dev/clipt/internal/crypto"
	"go.klb.dev/clipt/internal/message"
)

const (
	// MaxMessageSize bounds a single framed message. Clipboard images and
	// PDFs get large, and base64 adds a third.
	MaxMessageSize = 64 * 1024 * 1024

	ioDeadline = 10 * time.Second
)

// Conn wraps a net.Conn with line framing and optional encryption.
type Conn struct {
	conn net.Conn
	br   *bufio.Reader
	key  *[32]byte // nil = plain JSON
}

// New wraps conn. With a non-nil key every line is sealed with NaCl secretbox
// before writing and opened after reading; a failed open means the peer holds
// a different token.
func New(conn net.Conn, key *[32]byte) *Conn {
	return &Conn{
		conn: conn,
		br:   bufio.NewReaderSize(conn, 64*1024),
		key:  key,
	}
}

// Close closes the underlying connection.
func (c *Conn) Close() error { return c.conn.Close() }

// RemoteAddr returns the remote network address.
func (c *Conn) RemoteAddr() net.Addr { return c.conn.RemoteAddr() }

// WriteRequest frames and sends a request.
func (c *Conn) WriteRequest(r *message.Request) error {
	raw, err := message.EncodeRequest(r)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return c.writeLine(raw)
}

// ReadRequest reads and decodes one request line.
func (c *Conn) ReadRequest() (*message.Request, error) {
	raw, err := c.readLine()
	if err != nil {
		return nil, err
	}
	return message.DecodeRequest(raw)
}

// WriteResponse frames and sends a response.
func (c *Conn) WriteResponse(r *message.Response) error {
	raw, err := message.EncodeResponse(r)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	return c.writeLine(raw)
}

// ReadResponse reads and decodes one response line.
func (c *Conn) ReadResponse() (*message.Response, error) {
	raw, err := c.readLine()
	if err != nil {
		return nil, err
	}
	return message.DecodeResponse(raw)
}

func (c *Conn) writeLine(raw []byte) error {
	var line []byte
	if c.key != nil {
		ct, err := crypto.Seal(raw, c.key)
		if err != nil {
			return fmt.Errorf("encrypt: %w", err)
		}
		b64 := base64.StdEncoding.EncodeToString(ct)
		line = append([]byte(b64), '\n')
	} else {
		line = append(raw, '\n')
	}

	_ = c.conn.SetWriteDeadline(time.Now().Add(ioDeadline))
	_, err := c.conn.Write(line)
	_ = c.conn.SetWriteDeadline(time.Time{})
	return err
}

func (c *Conn) readLine() ([]byte, error) {
	line, err := c.br.ReadBytes('\n')
	if err != nil {
		return nil, err
	}
	if len(line) > MaxMessageSize {
		return nil, fmt.Errorf("message too large (%d bytes)", len(line))
	}
	line = line[:len(line)-1] // strip newline

	if c.key == nil {
		return line, nil
	}
	ct, err := base64.StdEncoding.DecodeString(string(line))
	if err != nil {
		return nil, fmt.Errorf("base64 decode: %w", err)
	}
	raw, err := crypto.Open(ct, c.key)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}
	return raw, nil
}
