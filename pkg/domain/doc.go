/*
Package domain contains the core domain models for the airdesk conversation engine.

It defines the dialogue stages, the per-session State and the Booking record.
This package is kept pure and free of external dependencies like I/O or
persistence, following Hexagonal Architecture principles.

# Key Entities

  - Stage: The current position of a conversation in the booking/cancel/status flow.
  - State: Captures the runtime snapshot of a session (Stage and Pending fields).
  - Pending: Partially collected booking data not yet committed to the ledger.
  - Booking: An entry of the booking ledger, keyed by its short ID.
*/
package domain
