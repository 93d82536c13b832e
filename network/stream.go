package network

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/klauspost/compress/gzip"
)

// streamClient frames messages over any net.Conn, a 5 byte header of
// version and big endian payload size followed by the gzipped payload.
// Receives carry no deadline, a turn may legitimately take minutes.
type streamClient struct {
	conn net.Conn
}

func newStreamClient(conn net.Conn) Client {
	return &streamClient{conn: conn}
}

func (c *streamClient) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

func (c *streamClient) Receive() (*TransportMessage, error) {
	var m TransportMessage
	header := make([]byte, TransportMessageHeaderSize)
	_, err := io.ReadFull(c.conn, header)
	if err != nil {
		return nil, err
	}
	m.Version = header[0]
	if m.Version != TransportMessageVersion {
		return nil, fmt.Errorf("stream receive invalid message version %d", m.Version)
	}
	m.Size = binary.BigEndian.Uint32(header[1:])
	if m.Size > TransportMessageMaxSize {
		return nil, fmt.Errorf("stream receive invalid message size %d", m.Size)
	}
	data := make([]byte, m.Size)
	_, err = io.ReadFull(c.conn, data)
	if err != nil {
		return nil, err
	}

	gzReader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer gzReader.Close()

	m.Data, err = io.ReadAll(gzReader)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *streamClient) Send(data []byte) error {
	if l := len(data); l < 1 || l > TransportMessageMaxSize {
		return fmt.Errorf("stream send invalid message size %d", l)
	}

	var buf bytes.Buffer
	gzWriter, err := gzip.NewWriterLevel(&buf, 3)
	if err != nil {
		return err
	}
	_, err = gzWriter.Write(data)
	if err != nil {
		return err
	}
	err = gzWriter.Close()
	if err != nil {
		return err
	}
	data = buf.Bytes()

	err = c.conn.SetWriteDeadline(time.Now().Add(WriteDeadline))
	if err != nil {
		return err
	}
	header := []byte{TransportMessageVersion, 0, 0, 0, 0}
	binary.BigEndian.PutUint32(header[1:], uint32(len(data)))
	_, err = c.conn.Write(header)
	if err != nil {
		return err
	}
	_, err = c.conn.Write(data)
	return err
}

func (c *streamClient) Close() error {
	return c.conn.Close()
}
