// Command switchsim estimates the switching activity of the signals of a
// gate-level circuit by random simulation and reads and writes the .switch
// files that carry those estimates.
//
// Usage:
//
//	switchsim estimate ex1.bench -o ex1
//	switchsim template ex1.bench
//	switchsim load ex1.bench ex1.switch
//	switchsim batch ex1.bench ex2.bench ex3.bench
//	switchsim watch ex1.bench ex1.switch
package main

import (
	"fmt"
	"os"
)

func main() {
	a, root := newApp()
	err := root.Execute()
	if cerr := a.close(); cerr != nil {
		fmt.Fprintln(os.Stderr, "telemetry shutdown:", cerr)
	}
	if err != nil {
		os.Exit(1)
	}
}
