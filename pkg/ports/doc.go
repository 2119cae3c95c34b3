/*
Package ports defines the driven ports (interfaces) for the airdesk engine.

These interfaces decouple the dialogue logic from external implementations,
allowing the engine to keep sessions and bookings in memory, Redis or SQL
without changing the state machine.

# Key Interfaces

  - SessionStore: Responsible for persisting and loading session State.
  - Ledger: The authoritative record of active bookings, keyed by booking ID.
  - DistributedLocker: Provides distributed locking for handling concurrent session access.
  - Conversation: What transport adapters (HTTP, MCP, CLI) drive.
*/
package ports
