// arenasim runs the combat simulator offline for balance work: seeded
// batches of fights between two comps, stored to SQLite and aggregated
// into report tables.
package main

func main() {
	Execute()
}
