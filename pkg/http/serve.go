package xhttp

import (
	"net"
	"os"
	"reflect"
	"runtime"
	"slices"
	"time"

	"github.com/allinone-seolbi/site/pkg/logger"
	"github.com/valyala/fasthttp"
)

// Config holds the knobs the services expose through the environment.
type Config struct {
	ListenAddr         string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	RequestTimeout     time.Duration
	IdleTimeout        time.Duration
	MaxRequestBodySize int
}

var DefaultServerOption = ServerOption{
	Handler: func(ctx *RequestCtx) {
		ctx.Error(StatusText(StatusNotFound), StatusNotFound)
	},
	IdleTimeout:        time.Second * 30,
	TCPKeepalivePeriod: time.Minute * 120, // linux default
	// contact bodies are tiny
	MaxRequestBodySize: 1 * 1024 * 1024,
	RequestTimeout:     time.Second * 10,
	ReadBufferSize:     1024 * 8,
	WriteBufferSize:    1024 * 8,
	ReadTimeout:        time.Second * 5,
	WriteTimeout:       time.Second * 10,
	Concurrency:        10_000,
	MaxConnsPerIP:      256,
	ErrorHandler: func(ctx *RequestCtx, err error) {
		logger.Warn("[xhttp] request error", "error", err)
	},
	TCPKeepalive:                 true,
	DisablePreParseMultipartForm: true,
	NoDefaultServerHeader:        true,
	NoDefaultContentType:         true,
	CloseOnShutdown:              true,
	Logger:                       logger.GetLogger(),
}

type RequestHeader = fasthttp.RequestHeader
type ResponseHeader = fasthttp.ResponseHeader
type Server = fasthttp.Server

type ServerOption struct {
	Handler RequestHandler

	// idle keep-alive connections are closed after this long
	IdleTimeout time.Duration

	TCPKeepalivePeriod time.Duration

	MaxRequestBodySize int

	// applied by TimeoutMiddleware, not by fasthttp itself
	RequestTimeout time.Duration

	// ReadBufferSize also caps the request header size.
	ReadBufferSize  int
	WriteBufferSize int

	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	Concurrency   int
	MaxConnsPerIP int

	ErrorHandler                 func(ctx *RequestCtx, err error)
	Name                         string
	TCPKeepalive                 bool
	DisablePreParseMultipartForm bool
	NoDefaultServerHeader        bool
	NoDefaultContentType         bool
	CloseOnShutdown              bool
	Logger                       logger.Logger
}

// Apply copies the configured values over the option defaults.
func (o ServerOption) Apply(cfg Config) ServerOption {
	if cfg.ReadTimeout > 0 {
		o.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		o.WriteTimeout = cfg.WriteTimeout
	}
	if cfg.RequestTimeout > 0 {
		o.RequestTimeout = cfg.RequestTimeout
	}
	if cfg.IdleTimeout > 0 {
		o.IdleTimeout = cfg.IdleTimeout
	}
	if cfg.MaxRequestBodySize > 0 {
		o.MaxRequestBodySize = cfg.MaxRequestBodySize
	}
	return o
}

type Engine struct {
	*Router
	*Server
	option ServerOption
	middle []MiddlewareFunc
}

func newServer(options ServerOption) *fasthttp.Server {
	return &fasthttp.Server{
		Handler:                      options.Handler,
		ErrorHandler:                 options.ErrorHandler,
		Name:                         options.Name,
		Concurrency:                  options.Concurrency,
		ReadBufferSize:               options.ReadBufferSize,
		WriteBufferSize:              options.WriteBufferSize,
		ReadTimeout:                  options.ReadTimeout,
		WriteTimeout:                 options.WriteTimeout,
		IdleTimeout:                  options.IdleTimeout,
		MaxConnsPerIP:                options.MaxConnsPerIP,
		TCPKeepalivePeriod:           options.TCPKeepalivePeriod,
		MaxRequestBodySize:           options.MaxRequestBodySize,
		TCPKeepalive:                 options.TCPKeepalive,
		DisablePreParseMultipartForm: options.DisablePreParseMultipartForm,
		NoDefaultServerHeader:        options.NoDefaultServerHeader,
		NoDefaultContentType:         options.NoDefaultContentType,
		CloseOnShutdown:              options.CloseOnShutdown,
		Logger:                       options.Logger,
	}
}

func NewServer(options ServerOption) *Engine {
	return &Engine{
		Server: newServer(options),
		Router: CreateDefaultRouter(),
		option: options,
	}
}

func CreateServer() *Engine {
	s := NewServer(DefaultServerOption)
	s.Server.Logger = logger.GetLogger()
	return s
}

func (e *Engine) RequestTimeout() time.Duration {
	return e.option.RequestTimeout
}

func (e *Engine) ListenAndServe(addr string) error {
	if err := e.DoRouting(); err != nil {
		return err
	}
	logger.Info("[xhttp] server is listening", "addr", addr)
	return e.Server.ListenAndServe(addr)
}

// Serve is ListenAndServe on an existing listener.
func (e *Engine) Serve(ln net.Listener) error {
	if err := e.DoRouting(); err != nil {
		return err
	}
	return e.Server.Serve(ln)
}

// DoRouting installs the router as the server handler and wraps it with the
// registered middleware, first registered outermost.
func (e *Engine) DoRouting() error {
	for method, route := range e.Router.List() {
		for _, r := range route {
			logger.Debug("[xhttp] route", "method", method, "path", r)
		}
	}
	e.Server.Handler = e.Handler()
	for i, m := range e.middle {
		logger.Debug("[xhttp] middleware registered", "order", i+1, "name", runtime.FuncForPC(reflect.ValueOf(m).Pointer()).Name())
	}
	return nil
}

// Handler returns the router wrapped with the middleware chain without
// touching the server.
func (e *Engine) Handler() RequestHandler {
	h := e.Router.Handler
	middle := slices.Clone(e.middle)
	slices.Reverse(middle)
	for _, m := range middle {
		h = m(h)
	}
	return h
}

// Use adds middleware to the end of the chain run for every request.
func (e *Engine) Use(middleware MiddlewareFunc) {
	e.middle = append(e.middle, middleware)
}

// Shutdown gracefully shuts down the server without interrupting any active connections.
func (e *Engine) Shutdown() {
	logger.Info("[xhttp] server is shutting down", "pid", os.Getpid())
	if err := e.Server.Shutdown(); err != nil {
		logger.Error("[xhttp] error while shutting down", "error", err)
	}
}
