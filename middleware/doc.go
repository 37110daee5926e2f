// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (duration_ms).

# Ingest Authentication

Snapshot uploads must carry a source name and its HMAC key:

	mux.HandleFunc("POST /snapshots", middleware.RequireIngestKey(cfg.IngestKeySalt, h.Create))

Requests without X-Ingest-Source, or with an X-Ingest-Key that does not match,
get 401. Rejections are logged with the client IP.

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, OPTIONS with headers Content-Type,
X-Ingest-Source, X-Ingest-Key.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Raw bodies (snapshot documents are stored verbatim) are read with ReadBody,
which caps them at MaxBodyBytes.

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Handles X-Forwarded-For and X-Real-IP before falling back to RemoteAddr.
*/
package middleware
