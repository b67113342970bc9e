// Command piglogistics serves the daily pig collection map and builds
// metrics reports from a simulation dataset.
package main

func main() {
	Execute()
}
