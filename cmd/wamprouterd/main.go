// Command wamprouterd runs a WAMP v2 router over WebSocket.
package main

import "github.com/ohyo-io/wampire/pkg/cli"

func main() {
	cli.Execute()
}
