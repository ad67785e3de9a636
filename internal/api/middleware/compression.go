package middleware

import (
	"bytes"
	"compress/gzip"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// compressibleTypes are the content types worth gzipping
var compressibleTypes = []string{
	"text/",
	"application/json",
	"application/javascript",
	"image/svg+xml",
}

// CompressionConfig holds configuration for the compression middleware
type CompressionConfig struct {
	// MinLength is the smallest body that gets compressed
	MinLength int
	// Level is the gzip level (1-9)
	Level int
}

// DefaultCompressionConfig returns the default compression configuration
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		MinLength: 1024,
		Level:     gzip.DefaultCompression,
	}
}

func isCompressible(contentType string) bool {
	for _, prefix := range compressibleTypes {
		if strings.HasPrefix(contentType, prefix) {
			return true
		}
	}
	return false
}

// Compression gzips text responses for clients that accept it.
// The body is buffered so small responses can be sent as-is.
func Compression(cfg CompressionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.Contains(c.GetHeader("Accept-Encoding"), "gzip") {
			c.Next()
			return
		}

		bw := &bufferedWriter{ResponseWriter: c.Writer}
		c.Writer = bw
		c.Header("Vary", "Accept-Encoding")

		// On panic the buffered body is dropped and the outer recovery
		// writes straight to the real writer.
		completed := false
		defer func() {
			if !completed {
				c.Writer = bw.ResponseWriter
				c.Writer.Header().Del("Content-Type")
			}
		}()

		c.Next()
		completed = true

		c.Writer = bw.ResponseWriter
		if err := bw.flushTo(cfg); err != nil {
			_ = c.Error(err)
		}
	}
}

// bufferedWriter holds the body until the handler chain is done
type bufferedWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bufferedWriter) Write(data []byte) (int, error) {
	return w.buf.Write(data)
}

func (w *bufferedWriter) WriteString(s string) (int, error) {
	return w.buf.WriteString(s)
}

// Flush is a no-op until the body is complete
func (w *bufferedWriter) Flush() {}

func (w *bufferedWriter) flushTo(cfg CompressionConfig) error {
	header := w.Header()
	body := w.buf.Bytes()

	if len(body) < cfg.MinLength ||
		header.Get("Content-Encoding") != "" ||
		!isCompressible(header.Get("Content-Type")) {
		if len(body) == 0 {
			w.ResponseWriter.WriteHeaderNow()
			return nil
		}
		_, err := w.ResponseWriter.Write(body)
		return err
	}

	header.Set("Content-Encoding", "gzip")
	header.Del("Content-Length")

	gz, err := gzip.NewWriterLevel(w.ResponseWriter, cfg.Level)
	if err != nil {
		return err
	}
	if _, err := gz.Write(body); err != nil {
		gz.Close()
		return err
	}
	return gz.Close()
}

var _ http.Flusher = (*bufferedWriter)(nil)
