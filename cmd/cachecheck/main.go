// Command cachecheck requests the cached storefront endpoints of a running
// server twice and confirms the matching keys landed in Redis.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"tourdesk/internal/shared/config"
	"tourdesk/internal/shared/constants"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

type CheckResult struct {
	Name       string        `json:"name"`
	Endpoint   string        `json:"endpoint"`
	CacheKey   string        `json:"cache_key"`
	ColdTime   time.Duration `json:"cold_time"`
	WarmTime   time.Duration `json:"warm_time"`
	KeyPresent bool          `json:"key_present"`
	TTLSeconds float64       `json:"ttl_seconds"`
	DataSize   int           `json:"data_size"`
	Success    bool          `json:"success"`
	Error      string        `json:"error,omitempty"`
}

type checkCase struct {
	name     string
	endpoint string
	key      string
}

func main() {
	baseURL := flag.String("base-url", "", "API base URL (defaults to localhost and the configured API path)")
	tourSlug := flag.String("tour", "old-town-walking-tour", "tour slug to request")
	categorySlug := flag.String("category", "walking-tours", "category slug to request")
	output := flag.String("out", "", "write the JSON report to this file")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	if *baseURL == "" {
		*baseURL = fmt.Sprintf("http://localhost:%s%s", cfg.Port, cfg.GetAPIBasePath())
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("❌ Redis connection failed: %v", err)
	}
	fmt.Println("✅ Redis connection: OK")

	// Keys must match what the services write for default queries
	cases := []checkCase{
		{"Active categories", "/categories", constants.CACHE_KEY_CATEGORIES_ACTIVE},
		{"Category by slug", "/categories/slug/" + *categorySlug, constants.BuildCategoryBySlugKey(*categorySlug)},
		{"Tour list page 1", "/tours?page=1&limit=12", constants.BuildTourListKey(1, 12, "", "")},
		{"Tour list by category", "/tours?page=1&limit=12&category=" + *categorySlug, constants.BuildTourListKey(1, 12, *categorySlug, "")},
		{"Tour detail", "/tours/" + *tourSlug, constants.BuildTourBySlugKey(*tourSlug)},
	}

	httpClient := &http.Client{Timeout: 10 * time.Second}
	var results []CheckResult
	for _, tc := range cases {
		fmt.Printf("\n🔍 Checking: %s\n", tc.name)
		result := runCheck(ctx, httpClient, client, *baseURL, tc)
		results = append(results, result)
		printResult(result)
	}

	failed := report(results, *output)
	if failed > 0 {
		os.Exit(1)
	}
}

func runCheck(ctx context.Context, httpClient *http.Client, rdb *redis.Client, baseURL string, tc checkCase) CheckResult {
	result := CheckResult{Name: tc.name, Endpoint: tc.endpoint, CacheKey: tc.key}

	// Start cold so the first request has to populate the key
	if err := rdb.Del(ctx, tc.key).Err(); err != nil {
		result.Error = fmt.Sprintf("failed to clear key: %v", err)
		return result
	}

	cold, size, err := timedGet(ctx, httpClient, baseURL+tc.endpoint)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.ColdTime = cold
	result.DataSize = size

	warm, _, err := timedGet(ctx, httpClient, baseURL+tc.endpoint)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.WarmTime = warm

	ttl, err := rdb.TTL(ctx, tc.key).Result()
	if err != nil {
		result.Error = fmt.Sprintf("failed to read TTL: %v", err)
		return result
	}
	result.KeyPresent = ttl > 0
	result.TTLSeconds = ttl.Seconds()
	result.Success = result.KeyPresent
	if !result.KeyPresent {
		result.Error = "cache key not written"
	}
	return result
}

func timedGet(ctx context.Context, httpClient *http.Client, url string) (time.Duration, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, 0, err
	}

	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	if err != nil {
		return elapsed, 0, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return elapsed, len(body), fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return elapsed, len(body), nil
}

func printResult(r CheckResult) {
	statusIcon := "✅"
	if !r.Success {
		statusIcon = "❌"
	}
	fmt.Printf("   %s %s cold=%v warm=%v ttl=%.0fs (%d bytes)\n",
		statusIcon, r.CacheKey, r.ColdTime, r.WarmTime, r.TTLSeconds, r.DataSize)
	if r.Error != "" {
		fmt.Printf("   ⚠️  %s\n", r.Error)
	}
}

func report(results []CheckResult, output string) int {
	fmt.Println("\n📊 CACHE CHECK REPORT")
	fmt.Println("=====================")

	passed := 0
	for _, r := range results {
		if r.Success {
			passed++
		}
	}
	fmt.Printf("Checks: %d, passed: %d, failed: %d\n", len(results), passed, len(results)-passed)

	if output != "" {
		data, err := json.MarshalIndent(map[string]interface{}{
			"passed":  passed,
			"failed":  len(results) - passed,
			"results": results,
		}, "", "  ")
		if err == nil {
			err = os.WriteFile(output, data, 0o644)
		}
		if err != nil {
			log.Printf("Failed to write report: %v", err)
		} else {
			fmt.Printf("💾 Detailed results saved to %s\n", output)
		}
	}

	return len(results) - passed
}
