// Package benchmark fires concurrent requests at a running portal and
// summarises latency and status codes.
package benchmark

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// APIBenchmark holds the target and load shape
type APIBenchmark struct {
	BaseURL     string
	Concurrency int
	Requests    int
	AuthToken   string
	Client      *http.Client
}

// BenchmarkResult summarises one run
type BenchmarkResult struct {
	URL            string        `json:"url"`
	Method         string        `json:"method"`
	Concurrency    int           `json:"concurrency"`
	TotalRequests  int           `json:"total_requests"`
	SuccessCount   int           `json:"success_count"`
	FailureCount   int           `json:"failure_count"`
	TotalTime      time.Duration `json:"total_time"`
	AverageTime    time.Duration `json:"average_time"`
	MinTime        time.Duration `json:"min_time"`
	MaxTime        time.Duration `json:"max_time"`
	RequestsPerSec float64       `json:"requests_per_sec"`
	StatusCodes    map[int]int   `json:"status_codes"`
	Errors         []string      `json:"errors"`
}

// RequestResult is the outcome of a single request
type RequestResult struct {
	Duration   time.Duration
	StatusCode int
	Error      error
}

// NewAPIBenchmark creates a benchmark against baseURL, e.g. http://host:8080/api
func NewAPIBenchmark(baseURL string, concurrency, requests int, authToken string) *APIBenchmark {
	if concurrency < 1 {
		concurrency = 1
	}
	return &APIBenchmark{
		BaseURL:     baseURL,
		Concurrency: concurrency,
		Requests:    requests,
		AuthToken:   authToken,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Login signs in once and keeps the session token for later runs
func (b *APIBenchmark) Login(ctx context.Context, username, password string) error {
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.BaseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login returned %d", resp.StatusCode)
	}

	var reply struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return fmt.Errorf("decode login reply: %w", err)
	}
	if reply.Data.Token == "" {
		return fmt.Errorf("login reply carried no token")
	}
	b.AuthToken = reply.Data.Token
	return nil
}

// RunGET benchmarks a GET request
func (b *APIBenchmark) RunGET(ctx context.Context, path string) *BenchmarkResult {
	return b.run(ctx, http.MethodGet, b.BaseURL+path, nil)
}

// RunPOST benchmarks a POST request with a JSON body
func (b *APIBenchmark) RunPOST(ctx context.Context, path string, payload interface{}) *BenchmarkResult {
	return b.runJSON(ctx, http.MethodPost, path, payload)
}

// RunPUT benchmarks a PUT request with a JSON body
func (b *APIBenchmark) RunPUT(ctx context.Context, path string, payload interface{}) *BenchmarkResult {
	return b.runJSON(ctx, http.MethodPut, path, payload)
}

// RunDELETE benchmarks a DELETE request
func (b *APIBenchmark) RunDELETE(ctx context.Context, path string) *BenchmarkResult {
	return b.run(ctx, http.MethodDelete, b.BaseURL+path, nil)
}

func (b *APIBenchmark) runJSON(ctx context.Context, method, path string, payload interface{}) *BenchmarkResult {
	url := b.BaseURL + path
	body, err := json.Marshal(payload)
	if err != nil {
		return &BenchmarkResult{
			URL:    url,
			Method: method,
			Errors: []string{fmt.Sprintf("encode payload: %v", err)},
		}
	}
	return b.run(ctx, method, url, body)
}

func (b *APIBenchmark) run(ctx context.Context, method, url string, payload []byte) *BenchmarkResult {
	var (
		mu      sync.Mutex
		results = make([]RequestResult, 0, b.Requests)
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.Concurrency)

	startTime := time.Now()
	for i := 0; i < b.Requests; i++ {
		g.Go(func() error {
			result := b.do(ctx, method, url, payload)
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			// failed requests are counted, not fatal
			return nil
		})
	}
	_ = g.Wait()

	return summarise(method, url, b.Concurrency, b.Requests, time.Since(startTime), results)
}

func (b *APIBenchmark) do(ctx context.Context, method, url string, payload []byte) RequestResult {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return RequestResult{Error: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if b.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+b.AuthToken)
	}

	resp, err := b.Client.Do(req)
	if err != nil {
		return RequestResult{Error: err}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	return RequestResult{
		Duration:   time.Since(start),
		StatusCode: resp.StatusCode,
	}
}

func summarise(method, url string, concurrency, requests int, elapsed time.Duration, results []RequestResult) *BenchmarkResult {
	r := &BenchmarkResult{
		URL:           url,
		Method:        method,
		Concurrency:   concurrency,
		TotalRequests: requests,
		TotalTime:     elapsed,
		StatusCodes:   make(map[int]int),
	}

	var total time.Duration
	measured := 0
	for _, result := range results {
		if result.Error != nil {
			r.FailureCount++
			r.Errors = append(r.Errors, result.Error.Error())
			continue
		}

		measured++
		total += result.Duration
		if r.MinTime == 0 || result.Duration < r.MinTime {
			r.MinTime = result.Duration
		}
		if result.Duration > r.MaxTime {
			r.MaxTime = result.Duration
		}

		r.StatusCodes[result.StatusCode]++
		if result.StatusCode >= 200 && result.StatusCode < 300 {
			r.SuccessCount++
		} else {
			r.FailureCount++
		}
	}

	if measured > 0 {
		r.AverageTime = total / time.Duration(measured)
	}
	if elapsed > 0 {
		r.RequestsPerSec = float64(requests) / elapsed.Seconds()
	}
	return r
}

// SuccessRate returns the share of 2xx replies in percent
func (r *BenchmarkResult) SuccessRate() float64 {
	if r.TotalRequests == 0 {
		return 0
	}
	return float64(r.SuccessCount) / float64(r.TotalRequests) * 100
}

// Fprint writes a readable report of the run to w
func (r *BenchmarkResult) Fprint(w io.Writer) {
	fmt.Fprintf(w, "%s %s\n", r.Method, r.URL)
	fmt.Fprintf(w, "  concurrency:   %d\n", r.Concurrency)
	fmt.Fprintf(w, "  requests:      %d (ok %d, failed %d)\n", r.TotalRequests, r.SuccessCount, r.FailureCount)
	fmt.Fprintf(w, "  total time:    %s\n", r.TotalTime)
	fmt.Fprintf(w, "  latency:       avg %s, min %s, max %s\n", r.AverageTime, r.MinTime, r.MaxTime)
	fmt.Fprintf(w, "  throughput:    %.2f req/s\n", r.RequestsPerSec)

	codes := make([]int, 0, len(r.StatusCodes))
	for code := range r.StatusCodes {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	for _, code := range codes {
		fmt.Fprintf(w, "  status %d:    %d\n", code, r.StatusCodes[code])
	}

	for i, err := range r.Errors {
		if i >= 5 {
			fmt.Fprintf(w, "  ... %d more errors\n", len(r.Errors)-5)
			break
		}
		fmt.Fprintf(w, "  error: %s\n", err)
	}
}
