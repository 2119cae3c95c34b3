// Command airdesk runs the airline customer-service assistant as an HTTP
// server, an interactive chat, or an MCP server, and inspects its stores.
package main

func main() {
	Execute()
}
