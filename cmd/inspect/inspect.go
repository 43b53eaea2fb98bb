// inspect prints the content of a batch file in human readable
// format.  By default it prints summary statistics only (token, item
// and occurrence counts, and the transaction typenames when present);
// -items also dumps every item's fields and, when present, its
// transaction structure.
/*
  $GOPATH/bin/inspect -batch=./batches/2f9c.batch -items
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/godist/goartm/core/utils"
)

var (
	batchFile = flag.String("batch", "", "The batch file to inspect")
	items     = flag.Bool("items", false, "Dump every item")
)

func main() {
	flag.Parse()

	b := utils.LoadBatchOrDie(*batchFile)

	occurrences := 0
	for i := range b.Items {
		for _, f := range b.Items[i].Fields {
			for _, c := range f.TokenCount {
				occurrences += c
			}
		}
	}

	fmt.Printf("batch %s\n", *batchFile)
	fmt.Printf("  tokens:      %d\n", len(b.Token))
	fmt.Printf("  items:       %d\n", len(b.Items))
	fmt.Printf("  occurrences: %d\n", occurrences)
	if b.HasTransactions() {
		fmt.Printf("  typenames:   %s\n", strings.Join(b.TransactionTypename, " "))
	}

	if !*items {
		os.Exit(0)
	}

	for i := range b.Items {
		item := &b.Items[i]
		fmt.Printf("item %d\n", item.ID)
		for _, f := range item.Fields {
			var sb strings.Builder
			for j, tid := range f.TokenID {
				fmt.Fprintf(&sb, " %s (%d)", b.Token[tid], f.TokenCount[j])
			}
			fmt.Printf("  field %s:%s\n", f.Name, sb.String())
		}
		for t := 0; t+1 < len(item.TransactionStartIndex); t++ {
			var sb strings.Builder
			for j := item.TransactionStartIndex[t]; j < item.TransactionStartIndex[t+1]; j++ {
				fmt.Fprintf(&sb, " %s", b.Token[item.TokenID[j]])
			}
			fmt.Printf("  transaction %s:%s\n",
				b.TransactionTypename[item.TransactionTypenameID[t]], sb.String())
		}
	}
}
