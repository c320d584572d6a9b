// Package api serves the message workflow over HTTP. Requests carry raw PNG
// bytes as the body; each request parses its own copy of the image.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/pngme/internal/logger"
	"github.com/samcharles93/pngme/internal/stego"
	"github.com/samcharles93/pngme/internal/version"
	"github.com/samcharles93/pngme/pkg/png"
)

const (
	HeaderRequestID = "X-Request-Id"
	MIMEImagePNG    = "image/png"

	DefaultMaxUploadBytes int64 = 32 << 20
)

type Config struct {
	// MaxUploadBytes caps the request body. Zero means DefaultMaxUploadBytes.
	MaxUploadBytes int64
	// Strict rejects chunk types with the reserved bit set, both when
	// parsing uploads and when encoding.
	Strict bool
}

type Server struct {
	cfg Config
	log logger.Logger
}

func NewServer(cfg Config, log logger.Logger) *Server {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if log == nil {
		log = logger.Default()
	}
	return &Server{cfg: cfg, log: log}
}

func (s *Server) Register(e *echo.Echo) {
	e.Use(requestID)

	e.GET("/healthz", s.handleHealth)
	e.GET("/v1/version", s.handleVersion)

	e.POST("/v1/inspect", s.handleInspect)
	e.POST("/v1/decode", s.handleDecode)
	e.POST("/v1/encode", s.handleEncode)
	e.POST("/v1/remove", s.handleRemove)
}

func requestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c *echo.Context) error {
		id := c.Request().Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Response().Header().Set(HeaderRequestID, id)
		return next(c)
	}
}

func (s *Server) requestLog(c *echo.Context) logger.Logger {
	return s.log.With(
		"request_id", c.Response().Header().Get(HeaderRequestID),
		"path", c.Request().URL.Path,
	)
}

func (s *Server) requestCtx(c *echo.Context) context.Context {
	return logger.WithContext(c.Request().Context(), s.requestLog(c))
}

func (s *Server) handleHealth(c *echo.Context) error {
	return writeJSON(c, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(c *echo.Context) error {
	return writeJSON(c, http.StatusOK, version.Resolve())
}

func (s *Server) handleInspect(c *echo.Context) error {
	p, err := s.readPNG(c)
	if err != nil {
		return s.writeError(c, err)
	}
	return writeJSON(c, http.StatusOK, stego.Inspect(p))
}

func (s *Server) handleDecode(c *echo.Context) error {
	chunkType := strings.TrimSpace(c.QueryParam("chunk_type"))
	if chunkType == "" {
		return s.writeBadRequest(c, "chunk_type is required")
	}
	p, err := s.readPNG(c)
	if err != nil {
		return s.writeError(c, err)
	}
	msg, err := stego.Decode(s.requestCtx(c), p, chunkType)
	if err != nil {
		return s.writeError(c, err)
	}
	return writeJSON(c, http.StatusOK, msg)
}

func (s *Server) handleEncode(c *echo.Context) error {
	chunkType := strings.TrimSpace(c.QueryParam("chunk_type"))
	if chunkType == "" {
		return s.writeBadRequest(c, "chunk_type is required")
	}
	message := c.QueryParam("message")
	if message == "" {
		return s.writeBadRequest(c, "message is required")
	}
	opts := stego.EncodeOptions{Strict: s.cfg.Strict}
	if v := c.QueryParam("allow_critical"); v != "" {
		allow, err := strconv.ParseBool(v)
		if err != nil {
			return s.writeBadRequest(c, fmt.Sprintf("allow_critical: %v", err))
		}
		opts.AllowCritical = allow
	}

	p, err := s.readPNG(c)
	if err != nil {
		return s.writeError(c, err)
	}
	if _, err := stego.Encode(s.requestCtx(c), p, chunkType, []byte(message), opts); err != nil {
		return s.writeError(c, err)
	}
	return writePNG(c, p)
}

func (s *Server) handleRemove(c *echo.Context) error {
	chunkType := strings.TrimSpace(c.QueryParam("chunk_type"))
	if chunkType == "" {
		return s.writeBadRequest(c, "chunk_type is required")
	}
	p, err := s.readPNG(c)
	if err != nil {
		return s.writeError(c, err)
	}
	if _, err := stego.Remove(s.requestCtx(c), p, chunkType); err != nil {
		return s.writeError(c, err)
	}
	return writePNG(c, p)
}

func (s *Server) readPNG(c *echo.Context) (*png.PNG, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > s.cfg.MaxUploadBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, s.cfg.MaxUploadBytes)
	}
	var opts []png.Option
	if s.cfg.Strict {
		opts = append(opts, png.WithStrict())
	}
	return png.Parse(body, opts...)
}

func writeJSON(c *echo.Context, status int, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	res.WriteHeader(status)
	_, err = res.Write(b)
	return err
}

func writePNG(c *echo.Context, p *png.PNG) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, MIMEImagePNG)
	res.Header().Set("Content-Length", strconv.Itoa(p.Size()))
	res.WriteHeader(http.StatusOK)
	_, err := p.WriteTo(res)
	return err
}
