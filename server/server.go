// Package server exposes tax simulations over HTTP.
//
//	POST /simulate   runs a JSON statement, answers JSON or markdown (Accept: text/markdown)
//	GET  /health     liveness
package server

import (
	"bytes"
	"errors"
	"strings"

	"github.com/etnz/fiscal"
	"github.com/etnz/fiscal/equity"
	"github.com/etnz/fiscal/fx"
	"github.com/etnz/fiscal/renderer"
	"github.com/etnz/fiscal/tax"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// Response is the JSON answer of a simulation.
type Response struct {
	Year       int                   `json:"year"`
	IncomeYear int                   `json:"income_year"`
	Boxes      tax.State             `json:"boxes"`
	Flags      map[string]string     `json:"flags"`
	Form2074   []equity.Form2074Line `json:"form_2074,omitempty"`
}

// NewResponse builds the JSON answer of a report.
func NewResponse(r *fiscal.Report) Response {
	flags := make(map[string]string, len(r.Result.Flags))
	for f, msg := range r.Result.Flags {
		flags[f.String()] = msg
	}
	return Response{
		Year:       r.Statement.Year,
		IncomeYear: r.Statement.IncomeYear(),
		Boxes:      r.Result.State,
		Flags:      flags,
		Form2074:   r.Capital.Lines,
	}
}

// ErrorResponse is the JSON answer of a failed request.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Server runs statements posted over HTTP.
type Server struct {
	conv fx.Converter
	log  zerolog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger of the server and of the simulations.
func WithLogger(log zerolog.Logger) Option { return func(s *Server) { s.log = log } }

// New returns a Server converting currencies with conv.
func New(conv fx.Converter, opts ...Option) *Server {
	s := &Server{conv: conv, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListenAndServe serves HTTP requests on addr.
func (s *Server) ListenAndServe(addr string) error {
	srv := &fasthttp.Server{
		Handler:            s.Handler,
		Name:               "fisc",
		MaxRequestBodySize: 1 << 20,
	}
	s.log.Info().Str("addr", addr).Msg("listening")
	return srv.ListenAndServe(addr)
}

// Handler routes a request.
func (s *Server) Handler(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	switch {
	case path == "/health" && ctx.IsGet():
		ctx.SetContentType("text/plain; charset=utf-8")
		ctx.SetBodyString("ok")
	case path == "/simulate" && ctx.IsPost():
		s.simulate(ctx)
	case path == "/simulate":
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
	default:
		writeError(ctx, fasthttp.StatusNotFound, "Not found: "+path)
	}
}

func (s *Server) simulate(ctx *fasthttp.RequestCtx) {
	stmt, err := fiscal.DecodeStatement(bytes.NewReader(ctx.PostBody()))
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	report, err := fiscal.Run(stmt, s.conv, fiscal.WithLogger(s.log))
	if err != nil {
		status := fasthttp.StatusUnprocessableEntity
		if errors.Is(err, fx.ErrNoRate) {
			status = fasthttp.StatusBadGateway
		}
		s.log.Warn().Err(err).Int("year", stmt.Year).Msg("simulation failed")
		writeError(ctx, status, err.Error())
		return
	}
	s.log.Info().Int("year", stmt.Year).Stringer("net_taxes", report.Result.State.Get(tax.NetTaxes)).Msg("simulated")

	if strings.Contains(string(ctx.Request.Header.Peek(fasthttp.HeaderAccept)), "text/markdown") {
		ctx.SetContentType("text/markdown; charset=utf-8")
		ctx.SetBodyString(renderer.RenderReport(report))
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, NewResponse(report))
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	if err := json.NewEncoder(ctx).Encode(v); err != nil {
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
	}
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	writeJSON(ctx, status, ErrorResponse{Status: status, Message: message})
}
