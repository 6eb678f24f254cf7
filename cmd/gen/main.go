// Command gen emits a random transaction CSV for tests and load runs.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
)

var (
	totalRows    int
	totalClients int
	seed         int64
	outPath      string
)

func init() {
	flag.IntVar(&totalRows, "rows", 10000, "Number of transaction rows to generate")
	flag.IntVar(&totalClients, "clients", 100, "Number of distinct clients")
	flag.Int64Var(&seed, "seed", 1, "PRNG seed for reproducible logs")
	flag.StringVar(&outPath, "out", "-", "Output path, - for stdout")
}

func main() {
	flag.Parse()

	out := os.Stdout
	if outPath != "-" {
		f, err := os.Create(outPath)
		if err != nil {
			log.Fatalf("Unable to create output file: %v", err)
		}
		defer f.Close()
		out = f
	}

	rng := rand.New(rand.NewSource(seed))
	writer := csv.NewWriter(out)

	if err := writer.Write([]string{"type", "client", "tx", "amount"}); err != nil {
		log.Fatalf("Write failed: %v", err)
	}

	// Remember deposit tx ids per client so the dispute family can
	// reference real deposits most of the time.
	depositTxs := make(map[int][]int, totalClients)

	for tx := 1; tx <= totalRows; tx++ {
		client := rng.Intn(totalClients) + 1
		row := generateRow(rng, client, tx, depositTxs)
		if err := writer.Write(row); err != nil {
			log.Fatalf("Write failed: %v", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Fatalf("Flush failed: %v", err)
	}
	log.Printf("Generated %d rows for %d clients.", totalRows, totalClients)
}

func generateRow(rng *rand.Rand, client, tx int, depositTxs map[int][]int) []string {
	clientStr := strconv.Itoa(client)
	txStr := strconv.Itoa(tx)

	switch p := rng.Float64(); {
	case p < 0.55:
		amount := fmt.Sprintf("%.4f", rng.Float64()*500)
		depositTxs[client] = append(depositTxs[client], tx)
		return []string{"deposit", clientStr, txStr, amount}
	case p < 0.85:
		amount := fmt.Sprintf("%.4f", rng.Float64()*200)
		return []string{"withdrawal", clientStr, txStr, amount}
	default:
		kind := [...]string{"dispute", "resolve", "chargeback"}[rng.Intn(3)]
		ref := tx
		if deposits := depositTxs[client]; len(deposits) > 0 {
			ref = deposits[rng.Intn(len(deposits))]
		}
		return []string{kind, clientStr, strconv.Itoa(ref), ""}
	}
}
