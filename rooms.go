/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/Seednode/wordchain/games/wordchain"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

const qrSize = 320

func writeJSON(cfg *Config, w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	securityHeaders(cfg, w)
	w.WriteHeader(status)

	return json.NewEncoder(w).Encode(v)
}

func serveRoom(cfg *Config, game *wordchain.Game, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		startTime := time.Now()
		code := p.ByName("code")

		snap, err := game.Snapshot(code)
		switch {
		case errors.Is(err, wordchain.ErrRoomNotFound):
			err = writeJSON(cfg, w, http.StatusNotFound, wordchain.NewErrorMessage(err))
		case err != nil:
			err = writeJSON(cfg, w, http.StatusInternalServerError, wordchain.NewErrorMessage(err))
		default:
			err = writeJSON(cfg, w, http.StatusOK, snap)
		}
		if err != nil {
			errs <- err

			return
		}

		logger.Debug().
			Str("room", code).
			Str("remote", realIP(r)).
			Dur("took", time.Since(startTime).Round(time.Microsecond)).
			Msg("served room snapshot")
	}
}

// roomLink is the address a scanned QR code opens.
func roomLink(cfg *Config, r *http.Request, code string) string {
	scheme := cfg.scheme()
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	u := url.URL{
		Scheme:   scheme,
		Host:     r.Host,
		Path:     cfg.prefix + "/",
		RawQuery: url.Values{"room": {code}}.Encode(),
	}

	return u.String()
}

func serveRoomQR(cfg *Config, game *wordchain.Game, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		code := p.ByName("code")

		if _, err := game.Snapshot(code); err != nil {
			if err := writeJSON(cfg, w, http.StatusNotFound, wordchain.NewErrorMessage(err)); err != nil {
				errs <- err
			}
			return
		}

		png, err := qrcode.Encode(roomLink(cfg, r, code), qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		securityHeaders(cfg, w)

		if _, err := w.Write(png); err != nil {
			errs <- err
		}
	}
}
