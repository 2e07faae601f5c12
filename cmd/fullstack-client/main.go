// Command fullstack-client is the browser half of the application. Build it
// with GOOS=js GOARCH=wasm; native builds exit immediately.
package main

import (
	"os"
	"runtime"

	"github.com/fullstack-project/fullstack-go/internal/app"
	"github.com/fullstack-project/fullstack-go/internal/entry"
)

// serverFnPrefix must match FULLSTACK_SERVER_FN_PREFIX on the server.
var serverFnPrefix = "/api"

func main() {
	if err := entry.Main(entry.TargetFromGOOS(runtime.GOOS), app.NewHelloApp(serverFnPrefix)); err != nil {
		os.Exit(1)
	}
}
