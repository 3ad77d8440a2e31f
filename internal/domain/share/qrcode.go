package share

import (
	"fmt"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/okian/leaderview/pkg/metrics"
	qrcode "github.com/skip2/go-qrcode"
)

// Default encoder configuration constants.
const (
	defaultPNGSize   = 256
	defaultCacheSize = 512
)

// Encoder renders share targets as QR codes and memoizes the output.
type Encoder struct {
	size      int
	level     qrcode.RecoveryLevel
	cacheSize int
	cache     *lru.Cache[string, []byte]
}

// EncoderOption applies a configuration option to the Encoder.
type EncoderOption func(*Encoder)

// WithPNGSize sets the PNG edge length in pixels.
func WithPNGSize(size int) EncoderOption {
	return func(e *Encoder) {
		if size > 0 {
			e.size = size
		}
	}
}

// WithCacheSize bounds the number of cached renders.
func WithCacheSize(size int) EncoderOption {
	return func(e *Encoder) {
		if size > 0 {
			e.cacheSize = size
		}
	}
}

// NewEncoder creates an Encoder.
func NewEncoder(opts ...EncoderOption) (*Encoder, error) {
	e := &Encoder{
		size:      defaultPNGSize,
		level:     qrcode.Medium,
		cacheSize: defaultCacheSize,
	}
	for _, opt := range opts {
		opt(e)
	}

	cache, err := lru.New[string, []byte](e.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	e.cache = cache
	return e, nil
}

// PNG returns the QR code for target as a PNG image.
func (e *Encoder) PNG(target string) ([]byte, error) {
	if target == "" {
		return nil, ErrNoTarget
	}
	key := "png:" + strconv.Itoa(e.size) + ":" + target
	if b, ok := e.cache.Get(key); ok {
		metrics.RecordQRCacheHit()
		return b, nil
	}

	b, err := qrcode.Encode(target, e.level, e.size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	metrics.RecordQRRender("png")
	e.cache.Add(key, b)
	return b, nil
}

// Text returns the QR code for target as half-block characters for terminals.
func (e *Encoder) Text(target string) (string, error) {
	if target == "" {
		return "", ErrNoTarget
	}
	key := "text:" + target
	if b, ok := e.cache.Get(key); ok {
		metrics.RecordQRCacheHit()
		return string(b), nil
	}

	q, err := qrcode.New(target, e.level)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncode, err)
	}
	s := q.ToSmallString(false)
	metrics.RecordQRRender("text")
	e.cache.Add(key, []byte(s))
	return s, nil
}
