package httpapi

import nethttp "net/http"

// NewRouter registers HTTP routes on a ServeMux.
func NewRouter(handler *Handler) nethttp.Handler {
	mux := nethttp.NewServeMux()
	mux.HandleFunc("/health", handler.Health)
	mux.HandleFunc("/ready", handler.Ready)
	mux.HandleFunc("/games", handler.Games)
	mux.HandleFunc("/games/", handler.GameBoxScore)
	mux.HandleFunc("/ws", handler.Subscribe)
	return mux
}
