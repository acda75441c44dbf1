package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"gridcert.org/internal/exchange"
)

func (a *API) handleTrades(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	if p.OrganizationID == "" {
		writeJSON(w, http.StatusOK, []exchange.Trade{})
		return
	}
	trades, err := a.exchange.Trades(r.Context(), p.OrganizationID)
	if err != nil {
		writeError(w, r, http.StatusBadGateway, "trade lookup failed")
		return
	}
	if trades == nil {
		trades = []exchange.Trade{}
	}
	writeJSON(w, http.StatusOK, trades)
}

// handleTradeStream serves the live trade feed over Server-Sent Events.
func (a *API) handleTradeStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	if a.trades == nil {
		writeError(w, r, http.StatusServiceUnavailable, "streaming disabled")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, r, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	if a.watcher != nil {
		a.watcher.Track(p.OrganizationID)
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	ch := a.trades.Subscribe(ctx)

	// Send an initial comment to establish the stream
	_, _ = w.Write([]byte(": stream started\n\n"))
	flusher.Flush()

	for event := range ch {
		// Each subscriber only sees its own organization's trades.
		if event.OrganizationID != p.OrganizationID {
			continue
		}
		payload, err := json.Marshal(event)
		if err != nil {
			continue
		}
		_, _ = w.Write([]byte("data: "))
		_, _ = w.Write(payload)
		_, _ = w.Write([]byte("\n\n"))
		flusher.Flush()
	}
}
