/*
Package airdesk is a conversational front-end for airline customer-service
tasks: booking a flight, cancelling a booking, checking booking status and
answering policy questions.

Each message is one turn of a per-session dialogue. The Engine loads the
session, runs the dialogue state machine, records bookings in the ledger and
saves the session again. Turns of the same session are serialized.

# Architecture

The engine is hexagonal: session state and bookings live behind the
ports.SessionStore and ports.Ledger interfaces, with adapters for memory,
Redis and MySQL. The city list and policy knowledge base are a
catalog.Catalog passed in explicitly. Transports (HTTP, MCP, the terminal
REPL) only call Engine.Chat.

# Usage

	eng, err := airdesk.New()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	reply, err := eng.Chat(ctx, "session-123", "I want to book a flight")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(reply) // Sure! Please tell me your departure city.
*/
package airdesk
