package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Config holds the benchmark settings
var (
	targetURL   string
	concurrency int
	duration    time.Duration
	workload    string
)

// Metrics
var (
	totalRequests uint64
	success202    uint64 // Applied
	fail422       uint64 // Rejected by the domain (insufficient funds, overflow)
	failOther     uint64
)

func init() {
	flag.StringVar(&targetURL, "url", "http://localhost:8080", "API Base URL")
	flag.IntVar(&concurrency, "workers", 10, "Number of concurrent workers")
	flag.DurationVar(&duration, "duration", 30*time.Second, "Test duration")
	flag.StringVar(&workload, "workload", "uniform", "Workload type: uniform | hotspot")
}

func main() {
	flag.Parse()
	log.Printf("Starting Benchmark: %s | Workers: %d | Duration: %s", workload, concurrency, duration)

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(concurrency)

	for i := 0; i < concurrency; i++ {
		go worker(&wg, i, start)
	}

	wg.Wait()
	printResults(time.Since(start))
}

func worker(wg *sync.WaitGroup, id int, start time.Time) {
	defer wg.Done()
	client := &http.Client{Timeout: 5 * time.Second}

	// Each worker owns a tx id range so ids never collide across workers.
	tx := uint32(id) * 10_000_000

	for time.Since(start) < duration {
		tx++
		payload := generateTransaction(tx)
		body, _ := json.Marshal(payload)

		req, _ := http.NewRequest("POST", targetURL+"/api/v1/transactions", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			atomic.AddUint64(&failOther, 1)
			continue
		}

		atomic.AddUint64(&totalRequests, 1)
		switch resp.StatusCode {
		case 202:
			atomic.AddUint64(&success202, 1)
		case 422:
			atomic.AddUint64(&fail422, 1)
		default:
			atomic.AddUint64(&failOther, 1)
		}
		resp.Body.Close()
	}
}

func generateTransaction(tx uint32) map[string]interface{} {
	client := generateClient()

	if rand.Float32() < 0.7 {
		return map[string]interface{}{
			"type":   "deposit",
			"client": client,
			"tx":     tx,
			"amount": rand.Float64() * 500,
		}
	}
	return map[string]interface{}{
		"type":   "withdrawal",
		"client": client,
		"tx":     tx,
		"amount": rand.Float64() * 500,
	}
}

func generateClient() int {
	totalClients := 1000

	if workload == "hotspot" {
		// Hotspot: 90% of traffic goes to clients 1 & 2
		if rand.Float32() < 0.90 {
			return rand.Intn(2) + 1
		}
	}

	return rand.Intn(totalClients) + 1
}

func printResults(d time.Duration) {
	total := atomic.LoadUint64(&totalRequests)
	s202 := atomic.LoadUint64(&success202)
	f422 := atomic.LoadUint64(&fail422)
	fErr := atomic.LoadUint64(&failOther)

	tps := float64(total) / d.Seconds()
	rejectRate := float64(f422) / float64(total) * 100

	results := map[string]interface{}{
		"workload":        workload,
		"duration_sec":    d.Seconds(),
		"total_requests":  total,
		"throughput_tps":  tps,
		"success_applied": s202,
		"domain_rejected": f422,
		"reject_rate_pct": rejectRate,
		"errors":          fErr,
	}

	// Print JSON for the python plotter to consume
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(results)

	// Also save to file
	filename := fmt.Sprintf("results_%s.json", workload)
	file, _ := os.Create(filename)
	defer file.Close()
	json.NewEncoder(file).Encode(results)
}
