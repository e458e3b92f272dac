// Package api is the HTTP client for the Sentinel backend.
//
// # Overview
//
// The backend authenticates every call with a bearer credential (the
// username itself — Sentinel does not issue cryptographic tokens). The
// client never stores a credential; callers pass the one held by the
// session store on every call.
//
// # Endpoints
//
//   - POST /query — retrieval query, answer/no_info tagged response
//   - GET /auth/me — profile of the authenticated user
//   - GET/POST/PATCH/DELETE /admin/users[/:username] — user management
//   - GET/DELETE /admin/documents — document listing and removal
//   - POST /admin/upload/pdf — multipart PDF upload
//   - POST /admin/ingest/pdf — chunk and embed an uploaded PDF
//
// # Errors
//
// Non-2xx responses become *APIError. The backend reports failures as
// {"detail": "..."}; Detail carries that message when present so callers
// can surface it verbatim.
package api
