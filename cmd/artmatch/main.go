// Command artmatch serves the artmatch web shell.
//
// Configure it through environment variables or a .env file; cf. package ranger.
package main

import (
	"fmt"
	"os"

	"github.com/xy-planning-network/artmatch/ranger"
)

func main() {
	rng, err := ranger.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := rng.Guide(); err != nil {
		rng.EmitLogger().Fatal(err.Error(), nil)
		os.Exit(1)
	}
}
