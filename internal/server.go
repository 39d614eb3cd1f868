package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"payfast/config"
	"payfast/entity"
	"payfast/services"

	"github.com/julienschmidt/httprouter"
)

const (
	pingSubscription   = "/subscription/:token/ping"
	cancelSubscription = "/subscription/:token/cancel"
	callHistory        = "/subscription/:token/calls"
	paymentForm        = "/payment"
	paymentNotify      = "/notify"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	gateway    services.Gateway
	logger     services.LogHandler
}

func NewServer(conf *config.Config) *Server {

	server := Server{
		conf: conf,
	}

	// register itself as a router for httpServer handler
	router := httprouter.New()
	server.Register(router)
	server.httpServer = &http.Server{
		Handler: router,
	}

	return &server
}

func (s *Server) Register(router *httprouter.Router) {
	router.GET(pingSubscription, s.pingSubscription)
	router.PUT(cancelSubscription, s.cancelSubscription)
	router.GET(callHistory, s.callHistory)
	router.POST(paymentForm, s.paymentForm)
	router.POST(paymentNotify, s.notify)
}

func (s *Server) SetGatewayService(gateway services.Gateway) {
	s.gateway = gateway
}

func (s *Server) SetLogger(logger services.LogHandler) {
	s.logger = logger
}

func (s *Server) Start() error {
	if s.conf == nil {
		return fmt.Errorf("configuration not loaded")
	}

	serverAddress := fmt.Sprintf("%s:%s", s.conf.Listen.BindIP, s.conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	if s.conf.Listen.TLS {
		s.logger.Info(fmt.Sprintf("starting https TLS on %s", serverAddress))
		err = s.httpServer.ServeTLS(listener, s.conf.Listen.CertFile, s.conf.Listen.KeyFile)
	} else {
		s.logger.Info(fmt.Sprintf("starting http on %s", serverAddress))
		err = s.httpServer.Serve(listener)
	}

	return err
}

// testing reports whether a call should carry the sandbox flag; the query
// parameter overrides the configured default.
func (s *Server) testing(r *http.Request) bool {
	if r.URL.Query().Get("testing") == "true" {
		return true
	}
	return s.conf.Merchant.Testing
}

func (s *Server) pingSubscription(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	// Add request ID for tracing
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)

	token := ps.ByName("token")
	if token == "" {
		s.logger.Warn(fmt.Sprintf("[%s] empty subscription token", reqID))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	alive, err := s.gateway.Ping(ctx, token, s.testing(r))
	if err != nil {
		s.gatewayError(w, reqID, fmt.Sprintf("ping %s", secret(token)), err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if alive {
		_, _ = w.Write([]byte("true"))
	} else {
		_, _ = w.Write([]byte("false"))
	}
}

func (s *Server) cancelSubscription(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	// Add request ID for tracing
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)

	token := ps.ByName("token")
	if token == "" {
		s.logger.Warn(fmt.Sprintf("[%s] empty subscription token", reqID))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.logger.Info(fmt.Sprintf("[%s] processing request: cancel %s", reqID, secret(token)))
	result, err := s.gateway.Cancel(ctx, token, s.testing(r))
	if err != nil {
		s.gatewayError(w, reqID, fmt.Sprintf("cancel %s", secret(token)), err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(result); err != nil {
		s.logger.Error(fmt.Sprintf("[%s] encode cancel result", reqID), err)
	}
}

func (s *Server) callHistory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	// Add request ID for tracing
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)

	token := ps.ByName("token")
	if token == "" {
		s.logger.Warn(fmt.Sprintf("[%s] empty subscription token", reqID))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	calls, err := s.gateway.History(ctx, token)
	if err != nil {
		s.logger.Error(fmt.Sprintf("[%s] call history %s", reqID, secret(token)), err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(calls); err != nil {
		s.logger.Error(fmt.Sprintf("[%s] encode call history", reqID), err)
	}
}

func (s *Server) paymentForm(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	// Add request ID for tracing
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.logger.Error(fmt.Sprintf("[%s] payment form: read request body", reqID), err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var form entity.PaymentForm
	if err = json.Unmarshal(body, &form); err != nil {
		s.logger.Error(fmt.Sprintf("[%s] payment form: decode request body", reqID), err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	pairs, err := s.gateway.BuildPaymentForm(&form)
	if err != nil {
		s.logger.Error(fmt.Sprintf("[%s] payment form", reqID), err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(pairs); err != nil {
		s.logger.Error(fmt.Sprintf("[%s] encode payment form", reqID), err)
	}
}

func (s *Server) notify(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	// Add request ID for tracing
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.logger.Error(fmt.Sprintf("[%s] notify: get body", reqID), err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	err = s.gateway.Notify(ctx, body)
	if err != nil {
		s.logger.Error(fmt.Sprintf("[%s] notify: process body", reqID), err)
	}
	w.WriteHeader(http.StatusOK)
}

// gatewayError maps a gateway failure onto the API response: a non-200 from
// the gateway is relayed as 502 with the raw gateway status and body, any
// other failure is a plain 500.
func (s *Server) gatewayError(w http.ResponseWriter, reqID, operation string, err error) {
	s.logger.Error(fmt.Sprintf("[%s] %s", reqID, operation), err)

	var apiErr *entity.ApiError
	if errors.As(err, &apiErr) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"gateway_status": apiErr.StatusCode,
			"gateway_body":   string(apiErr.Body),
		})
		return
	}
	w.WriteHeader(http.StatusInternalServerError)
}
