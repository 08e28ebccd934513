// Command nft is the novelforge tracker: a single-user progress
// dashboard for a novel-writing project, tracking chapters, editing
// passes, and to-dos over an embedded record store with daily
// snapshots.
package main

func main() {
	Execute()
}
