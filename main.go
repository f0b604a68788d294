// Command makesnake scaffolds a Snakemake pipeline project from annotated
// analysis scripts.
package main

import "github.com/papapumpkin/makesnake/cmd"

func main() {
	cmd.Execute()
}
