package network

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"encoding/binary"
	"encoding/pem"
	"fmt"
	"io"
	"math/big"
	"net"
	"time"

	"github.com/lucas-clemente/quic-go"
)

const (
	MaxIncomingStreams = 8
	quicALPN           = "versus-play"
)

type QuicClient struct {
	session quic.Session
	stream  quic.Stream
}

type QuicTransport struct {
	addr     string
	listener quic.Listener
}

func NewQuicTransport(addr string) (*QuicTransport, error) {
	return &QuicTransport{addr: addr}, nil
}

func quicConfig() *quic.Config {
	return &quic.Config{
		MaxIncomingStreams:   MaxIncomingStreams,
		HandshakeIdleTimeout: HandshakeTimeout,
		KeepAlive:            true,
	}
}

func (t *QuicTransport) Listen() error {
	tlsConf, err := generateTLSConfig()
	if err != nil {
		return err
	}
	l, err := quic.ListenAddr(t.addr, tlsConf, quicConfig())
	if err != nil {
		return err
	}
	t.listener = l
	return nil
}

func (t *QuicTransport) Accept(ctx context.Context) (Client, error) {
	sess, err := t.listener.Accept(ctx)
	if err != nil {
		return nil, err
	}
	stm, err := sess.AcceptStream(ctx)
	if err != nil {
		return nil, err
	}
	return &QuicClient{
		session: sess,
		stream:  stm,
	}, nil
}

func (t *QuicTransport) Dial(ctx context.Context) (Client, error) {
	tlsConf := &tls.Config{
		InsecureSkipVerify: true,
		NextProtos:         []string{quicALPN},
	}
	sess, err := quic.DialAddrContext(ctx, t.addr, tlsConf, quicConfig())
	if err != nil {
		return nil, err
	}
	stm, err := sess.OpenStreamSync(ctx)
	if err != nil {
		return nil, err
	}
	return &QuicClient{
		session: sess,
		stream:  stm,
	}, nil
}

func (t *QuicTransport) Addr() net.Addr {
	if t.listener == nil {
		return nil
	}
	return t.listener.Addr()
}

func (t *QuicTransport) Close() error {
	if t.listener == nil {
		return nil
	}
	return t.listener.Close()
}

func (c *QuicClient) RemoteAddr() net.Addr {
	return c.session.RemoteAddr()
}

func (c *QuicClient) Receive() (*TransportMessage, error) {
	var m TransportMessage
	header := make([]byte, TransportMessageHeaderSize)
	_, err := io.ReadFull(c.stream, header)
	if err != nil {
		return nil, err
	}
	m.Version = header[0]
	if m.Version != TransportMessageVersion {
		return nil, fmt.Errorf("quic receive invalid message version %d", m.Version)
	}
	m.Size = binary.BigEndian.Uint32(header[1:])
	if m.Size > TransportMessageMaxSize {
		return nil, fmt.Errorf("quic receive invalid message size %d", m.Size)
	}
	m.Data = make([]byte, m.Size)
	_, err = io.ReadFull(c.stream, m.Data)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *QuicClient) Send(data []byte) error {
	if l := len(data); l < 1 || l > TransportMessageMaxSize {
		return fmt.Errorf("quic send invalid message size %d", l)
	}
	err := c.stream.SetWriteDeadline(time.Now().Add(WriteDeadline))
	if err != nil {
		return err
	}
	header := []byte{TransportMessageVersion, 0, 0, 0, 0}
	binary.BigEndian.PutUint32(header[1:], uint32(len(data)))
	_, err = c.stream.Write(header)
	if err != nil {
		return err
	}
	_, err = c.stream.Write(data)
	return err
}

func (c *QuicClient) Close() error {
	c.stream.Close()
	return c.session.CloseWithError(0, "closed")
}

func generateTLSConfig() (*tls.Config, error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, err
	}
	keyDER, err := x509.MarshalECPrivateKey(priv)
	if err != nil {
		return nil, err
	}

	template := x509.Certificate{SerialNumber: big.NewInt(1)}
	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, &priv.PublicKey, priv)
	if err != nil {
		return nil, err
	}

	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER})
	tlsCert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, err
	}

	return &tls.Config{
		Certificates: []tls.Certificate{tlsCert},
		NextProtos:   []string{quicALPN},
	}, nil
}
