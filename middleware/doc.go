// Copyright (c) 2025 Mara Hutchins.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Middleware

  - WithLogging: wraps a handler with slog request/completion logging
  - CORS: allows cross-origin requests and handles preflight

# Helpers

  - JSONResponse: writes a JSON body with status code
  - ErrorResponse: writes a models.ErrorResponse
  - ParseJSONBody: decodes a request body into a struct
  - GetClientIP: resolves the client IP through proxy headers
*/
package middleware
