// main.go
//
// Entry point for the Wordle arena binary.
//   arena serve   → arbiter: orchestrator, websocket observers, archive
//   arena player  → reference agent service backed by a local model
//   arena config  → print effective configuration

package main

import "github.com/robalobadob/wordle-arena/internal/cli"

func main() {
	cli.Execute()
}
