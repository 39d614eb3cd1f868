package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"payfast/config"
	"payfast/entity"
	"payfast/metrics/counters"
	"payfast/services"
	"strconv"
	"strings"
	"time"
)

const apiVersion = "v1"

// Gateway is the signed HTTP client for the PayFast subscription API.
// It is stateless per call: every operation is an independent request/response
// round trip, safe to issue concurrently, with no retry of its own.
type Gateway struct {
	conf       *config.Config
	database   services.Database
	logger     services.LogHandler
	signer     *Signer
	baseUrl    string
	httpClient *http.Client
}

// NewGateway creates the gateway client. Missing merchant configuration is
// rejected here, before any network call can be attempted.
func NewGateway(conf *config.Config) (*Gateway, error) {
	if conf == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	if conf.Merchant.Id == "" || conf.Merchant.Key == "" {
		return nil, fmt.Errorf("merchant not configured")
	}
	return &Gateway{
		conf:    conf,
		signer:  NewSigner(conf.Merchant.Passphrase),
		baseUrl: strings.TrimSuffix(conf.Merchant.BaseUrl, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				DisableKeepAlives:   false,
			},
		},
	}, nil
}

func (g *Gateway) SetDatabase(database services.Database) {
	g.database = database
}

func (g *Gateway) SetLogger(logger services.LogHandler) {
	g.logger = logger
}

// Ping checks whether a subscription token is alive. True is returned only
// for a 200 response whose body is the literal string "true"; any other 200
// body is false. A non-200 status is surfaced as *entity.ApiError.
func (g *Gateway) Ping(ctx context.Context, token string, testing bool) (bool, error) {
	body, err := g.call(ctx, http.MethodGet, token, "ping", testing)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(string(body)) == "true", nil
}

// Cancel terminates a subscription. A 200 response is decoded into the
// gateway's acknowledgement envelope; a non-200 status is surfaced as
// *entity.ApiError.
func (g *Gateway) Cancel(ctx context.Context, token string, testing bool) (*entity.CancelResult, error) {
	body, err := g.call(ctx, http.MethodPut, token, "cancel", testing)
	if err != nil {
		return nil, err
	}
	var result entity.CancelResult
	if err = json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse cancel response: %v", err)
	}
	return &result, nil
}

// call performs one signed round trip and returns the response body of a
// 200 response. Headers are built fresh per call: the timestamp comes from
// the current UTC clock, so signatures are not reusable across calls.
func (g *Gateway) call(ctx context.Context, method, token, operation string, testing bool) ([]byte, error) {
	requestId := GetRequestID(ctx)

	headers := entity.NewParameterSet()
	if err := headers.Add("merchant-id", g.conf.Merchant.Id); err != nil {
		return nil, err
	}
	if err := headers.Add("version", apiVersion); err != nil {
		return nil, err
	}
	if err := headers.Add("timestamp", entity.Timestamp(time.Now())); err != nil {
		return nil, err
	}
	signature := g.signer.CreateSignature(headers)

	requestUrl := fmt.Sprintf("%s/%s/%s", g.baseUrl, url.PathEscape(token), operation)
	if testing {
		requestUrl += "?testing=true"
	}

	req, err := http.NewRequestWithContext(ctx, method, requestUrl, nil)
	if err != nil {
		return nil, fmt.Errorf("create http request: %v", err)
	}
	for _, p := range headers.Pairs() {
		req.Header.Set(p.Name, p.Value)
	}
	req.Header.Set(entity.SignatureParameter, signature)

	started := time.Now()
	response, err := g.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request timeout or cancelled: %v", ctx.Err())
		}
		return nil, fmt.Errorf("%s request: %v", operation, err)
	}
	defer func(Body io.ReadCloser) {
		if e := Body.Close(); e != nil && g.logger != nil {
			g.logger.Error("close response body", e)
		}
	}(response.Body)

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %v", err)
	}

	g.journal(ctx, &entity.GatewayCall{
		RequestId: requestId,
		Operation: operation,
		Token:     token,
		Testing:   testing,
		Signature: signature,
		Status:    response.StatusCode,
		Result:    resultSummary(response.StatusCode, body),
		Time:      started,
		Duration:  time.Since(started).Milliseconds(),
	})

	if response.StatusCode != http.StatusOK {
		return nil, entity.NewApiError(response, body)
	}
	return body, nil
}

// Notify processes a payment notification post from the gateway. The posted
// fields are re-signed in the order they were received and compared with the
// posted signature; the notification is journaled either way, and an invalid
// signature is an error.
func (g *Gateway) Notify(ctx context.Context, data []byte) error {
	requestId := GetRequestID(ctx)

	fields, signature, err := parseNotification(string(data))
	if err != nil {
		if g.logger != nil {
			g.logger.Warn(string(data))
		}
		return fmt.Errorf("parse notification: %v", err)
	}

	set := entity.NewParameterSet()
	for _, p := range fields {
		// received fields keep their order; a duplicate makes the post unverifiable
		if err = set.Add(p.Name, p.Value); err != nil {
			return fmt.Errorf("notification: %v", err)
		}
	}

	valid := signature != "" && g.signer.Verify(set, signature)
	counters.CountNotification(valid)

	notification := &entity.Notification{
		RequestId: requestId,
		Fields:    fields,
		Signature: signature,
		Valid:     valid,
		Time:      time.Now(),
	}
	if g.database != nil {
		if err = g.database.SaveNotification(ctx, notification); err != nil && g.logger != nil {
			g.logger.Error("save notification", err)
		}
	}

	if !valid {
		return fmt.Errorf("invalid notification signature")
	}
	if g.logger != nil {
		g.logger.Info(fmt.Sprintf("notification verified: status %s", notification.PaymentStatus()))
	}
	return nil
}

// BuildPaymentForm renders a checkout request: merchant identity, callback
// urls and the form fields, with the computed signature appended as the
// final pair. The callback urls come from configuration verbatim.
func (g *Gateway) BuildPaymentForm(form *entity.PaymentForm) ([]entity.Pair, error) {
	merchant := g.conf.Merchant
	pairs := []entity.Pair{
		{Name: "merchant_id", Value: merchant.Id},
		{Name: "merchant_key", Value: merchant.Key},
		{Name: "return_url", Value: merchant.ReturnUrl},
		{Name: "cancel_url", Value: merchant.CancelUrl},
		{Name: "notify_url", Value: merchant.NotifyUrl},
	}
	pairs = append(pairs, form.Fields()...)

	set := entity.NewParameterSet()
	for _, p := range pairs {
		if err := set.Add(p.Name, p.Value); err != nil {
			return nil, fmt.Errorf("payment form: %v", err)
		}
	}

	if g.logger != nil {
		g.logger.Debug(fmt.Sprintf("payment form: %s", DebugJSON(set)))
	}

	signature := g.signer.CreateSignature(set)
	return append(pairs, entity.Pair{Name: entity.SignatureParameter, Value: signature}), nil
}

// History returns the journaled calls for a token, newest first.
func (g *Gateway) History(ctx context.Context, token string) ([]entity.GatewayCall, error) {
	if g.database == nil {
		return nil, fmt.Errorf("database not set")
	}
	return g.database.GetGatewayCalls(ctx, token)
}

func (g *Gateway) journal(ctx context.Context, call *entity.GatewayCall) {
	counters.CountGatewayRequest(call.Operation, strconv.Itoa(call.Status))
	if g.logger != nil {
		g.logger.Info(fmt.Sprintf("[%s] %s %s: status %d in %dms",
			call.RequestId, call.Operation, secret(call.Token), call.Status, call.Duration))
	}
	if g.database == nil {
		return
	}
	if err := g.database.SaveGatewayCall(ctx, call); err != nil && g.logger != nil {
		g.logger.Error("save gateway call", err)
	}
}

func resultSummary(status int, body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) > 128 {
		text = text[:128] + "..."
	}
	if status == http.StatusOK {
		return text
	}
	return fmt.Sprintf("error %d: %s", status, text)
}

// parseNotification splits a form-encoded notification body while preserving
// field order; url.ParseQuery would lose it, and the signature covers the
// fields in received order.
func parseNotification(body string) ([]entity.Pair, string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, "", fmt.Errorf("empty body")
	}
	var fields []entity.Pair
	var signature string
	for _, part := range strings.Split(body, "&") {
		if part == "" {
			continue
		}
		name, rawValue, _ := strings.Cut(part, "=")
		name, err := url.QueryUnescape(name)
		if err != nil {
			return nil, "", fmt.Errorf("field name: %v", err)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, "", fmt.Errorf("field %s: %v", name, err)
		}
		if name == entity.SignatureParameter {
			signature = value
			continue
		}
		fields = append(fields, entity.Pair{Name: name, Value: value})
	}
	return fields, signature, nil
}

func secret(some string) string {
	if len(some) > 5 {
		return fmt.Sprintf("%s***", some[0:5])
	}
	if some == "" {
		return "?"
	}
	return "***"
}
