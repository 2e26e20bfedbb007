// Package http provides the HTTP handlers, middleware and routers for the
// auth and reservation services.
//
// The auth router exposes:
//   - POST /auth/register: creates an account. Body: {"username","password"}.
//     Response: {"id","username","role"} with role always USER.
//   - POST /auth/login: exchanges credentials for a signed bearer token.
//     Response: {"access_token","token_type"}.
//   - GET /auth/validate: validates the token in the Authorization header.
//     Response: {"valid":true,"payload":{"sub","role","exp"}} on success,
//     401 with {"valid":false} otherwise. This is the endpoint the
//     reservation service calls for every authenticated request.
//
// The reservation router exposes venue catalog endpoints (/venues, reads
// public, mutations admin-only) and booking endpoints (/reservations, all
// behind token validation). GET /availability probes an interval without
// booking and is public; /reservations/availability is kept as an alias.
// Cancellation is POST /reservations/{reservation_id}/cancel, with DELETE on
// the reservation accepted as an alias. Reservations exchange the wire format
// defined in reservation_handler.go: a calendar day plus wall-clock start and
// end, interpreted as the half-open interval [start, end) in UTC.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
