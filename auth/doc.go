// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides ingest authentication and payload hashing.

# Ingest Keys

Each snapshot source (a scraper, a cron job) gets a key derived with
HMAC-SHA256 from its name and the server's salt:

	key := auth.GenerateIngestKey("scraper-1", salt)
	err := auth.ValidateIngestKey("scraper-1", key, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same source and salt always produce the same key. This allows validation
without storing keys in the database.

# Content Hashes

	hash := auth.ContentHash(payload)

Hex SHA-256 of the raw document. The store uses it to reject re-uploads of
the same capture.
*/
package auth
