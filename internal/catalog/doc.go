// Package catalog provides an HTTP client for the library catalog backend.
//
// # Overview
//
// The backend owns every book record and all authentication rules. This
// package only issues requests and decodes the backend's response envelope:
//
//	{"status": "Success", "message": "...", "data": ...}
//
// # Endpoints
//
//   - GET    /api/v1/get-all-books[?category=]  list, optionally filtered
//   - GET    /api/v1/get-recent-books           recently added
//   - GET    /api/v1/get-book-by-id/<id>        one record
//   - POST   /api/v1/add-book                   create (bearer)
//   - PUT    /api/v1/update-book/<id>           partial update (bearer)
//   - DELETE /api/v1/delete-book/<id>           delete (bearer)
//   - POST   /api/v1/sign-in                    returns token, id, role
//   - POST   /api/v1/sign-up                    registers an account
//
// Reads carry a `_t=<unix millis>` query parameter so intermediaries never
// serve a cached copy.
//
// # Errors
//
// Non-2xx answers, and 2xx answers whose envelope does not report success,
// become *APIError. Use Message to surface the server's own text to the user
// with a fallback for transport failures.
//
// The client never retries. Each call is attempted exactly once.
package catalog
