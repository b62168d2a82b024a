package expo_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donorlink/config"
	"donorlink/infras/expo"
	"donorlink/infras/otel/mocks"
)

func newClient(t *testing.T, handler http.HandlerFunc) expo.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.Notification.PushURL = server.URL
	cfg.Notification.HTTPRetryMax = 1

	return expo.New(cfg, mocks.NewOtel())
}

func TestClient_Send(t *testing.T) {
	messages := []expo.Message{
		{To: "ExponentPushToken[a]", Title: "Booking confirmed", Body: "See you on Monday"},
		{To: "ExponentPushToken[b]", Title: "Urgent need", Body: "2- needed"},
	}

	t.Run("tickets in request order", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			var got []expo.Message
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			assert.Len(t, got, 2)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			_, _ = w.Write([]byte(`{"data":[{"status":"ok","id":"t-1"},{"status":"error","message":"gone","details":{"error":"DeviceNotRegistered"}}]}`))
		})

		tickets, err := client.Send(context.Background(), messages)
		require.NoError(t, err)
		require.Len(t, tickets, 2)
		assert.Equal(t, expo.TicketStatusOK, tickets[0].Status)
		assert.False(t, tickets[0].Permanent())
		assert.True(t, tickets[1].Permanent())
	})

	t.Run("request level error", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"errors":[{"code":"VALIDATION_ERROR","message":"bad token"}]}`))
		})

		_, err := client.Send(context.Background(), messages)
		assert.ErrorContains(t, err, "VALIDATION_ERROR")
	})

	t.Run("ticket count mismatch", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"data":[{"status":"ok","id":"t-1"}]}`))
		})

		_, err := client.Send(context.Background(), messages)
		assert.Error(t, err)
	})

	t.Run("nothing to send", func(t *testing.T) {
		client := newClient(t, func(_ http.ResponseWriter, _ *http.Request) {
			t.Fatal("no request expected")
		})

		tickets, err := client.Send(context.Background(), nil)
		assert.NoError(t, err)
		assert.Empty(t, tickets)
	})
}
