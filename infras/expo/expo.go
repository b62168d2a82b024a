// Package expo delivers push messages through the Expo push service.
package expo

//go:generate go run go.uber.org/mock/mockgen -source=./expo.go -destination=./mocks/expo_mock.go -package=mocks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"donorlink/config"
	"donorlink/infras/otel"
	"donorlink/shared/constant"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	requestTimeout  = 10 * time.Second
	defaultRetryMax = 3

	TicketStatusOK    = "ok"
	TicketStatusError = "error"

	// ErrorDeviceNotRegistered means the token is gone and retrying will not help.
	ErrorDeviceNotRegistered = "DeviceNotRegistered"
)

type Message struct {
	To       string         `json:"to"`
	Title    string         `json:"title"`
	Body     string         `json:"body"`
	Data     map[string]any `json:"data,omitempty"`
	Sound    string         `json:"sound,omitempty"`
	Priority string         `json:"priority,omitempty"`
}

type Ticket struct {
	Status  string `json:"status"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
	Details struct {
		Error string `json:"error,omitempty"`
	} `json:"details,omitempty"`
}

// Permanent reports whether the ticket failed for a reason a retry cannot fix.
func (t Ticket) Permanent() bool {
	return t.Status == TicketStatusError && t.Details.Error == ErrorDeviceNotRegistered
}

type response struct {
	Data   []Ticket `json:"data"`
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

type Client interface {
	// Send posts messages in one request and returns one ticket per message, in order.
	Send(ctx context.Context, messages []Message) ([]Ticket, error)
}

type clientImpl struct {
	http *retryablehttp.Client
	url  string
	otel otel.Otel
}

func New(cfg *config.Config, otel otel.Otel) Client {
	client := retryablehttp.NewClient()
	client.HTTPClient.Timeout = requestTimeout
	client.Logger = leveledLogger{logger: log.Logger.With().Str("component", "expo").Logger()}

	client.RetryMax = cfg.Notification.HTTPRetryMax
	if client.RetryMax <= 0 {
		client.RetryMax = defaultRetryMax
	}

	return &clientImpl{
		http: client,
		url:  cfg.Notification.PushURL,
		otel: otel,
	}
}

func (c *clientImpl) Send(ctx context.Context, messages []Message) (tickets []Ticket, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".expo.Send")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute("messages", len(messages))

	if len(messages) == 0 {
		return nil, nil
	}

	payload, err := json.Marshal(messages)
	if err != nil {
		return nil, fmt.Errorf("failed to encode push messages: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build push request: %w", err)
	}

	req.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	req.Header.Set(constant.RequestHeaderAccept, constant.ContentTypeJSON)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send push request: %w", err)
	}
	defer resp.Body.Close()

	var body response
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode push response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode >= http.StatusBadRequest || len(body.Errors) > 0 {
		msg := resp.Status
		if len(body.Errors) > 0 {
			msg = body.Errors[0].Code + ": " + body.Errors[0].Message
		}

		return nil, fmt.Errorf("push service rejected the request: %s", msg)
	}

	if len(body.Data) != len(messages) {
		return nil, errors.New("push service returned a ticket count that does not match the request")
	}

	return body.Data, nil
}

// leveledLogger routes retryablehttp logs into zerolog.
type leveledLogger struct {
	logger zerolog.Logger
}

func (l leveledLogger) Error(msg string, keysAndValues ...any) {
	l.logger.Error().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Info().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...any) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...any) {
	l.logger.Warn().Fields(keysAndValues).Msg(msg)
}
