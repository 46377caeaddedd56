// Command smoke probes a running Hubinity API instance and verifies each
// configured endpoint answers with its expected status. Used after deploys
// and during the migration off the legacy Node backend.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type target struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Expect   int    `json:"expect"`
	Auth     bool   `json:"auth"`
	Critical bool   `json:"critical"`
}

type config struct {
	Targets []target `json:"targets"`
}

type result struct {
	Target   target
	Status   int
	Pass     bool
	Err      error
	Duration time.Duration
}

func main() {
	var (
		base        string
		token       string
		targetsPath string
		timeout     time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&token, "token", os.Getenv("SMOKE_TOKEN"), "Bearer token for authenticated targets")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "smoke", "targets.json"), "Path to JSON targets file")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	targets, err := loadTargets(targetsPath)
	if err != nil {
		log.Fatalf("failed to load targets: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	var results []result
	breaking := 0

	for _, t := range targets {
		res := probe(client, base, token, t)
		if !res.Pass && t.Critical {
			breaking++
		}
		results = append(results, res)
	}

	printReport(results)
	fmt.Printf("Critical failures: %d\n", breaking)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return cfg.Targets, nil
}

func probe(client *http.Client, base, token string, tgt target) result {
	res := result{Target: tgt}

	method := strings.ToUpper(strings.TrimSpace(tgt.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := tgt.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	url := strings.TrimRight(base, "/") + path

	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		res.Err = err
		return res
	}
	if tgt.Auth && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := client.Do(req)
	res.Duration = time.Since(start)
	if err != nil {
		res.Err = err
		return res
	}
	defer resp.Body.Close()

	res.Status = resp.StatusCode
	expect := tgt.Expect
	if expect == 0 {
		expect = http.StatusOK
	}
	res.Pass = res.Status == expect
	return res
}

func printReport(results []result) {
	for _, r := range results {
		mark := "PASS"
		if !r.Pass {
			mark = "FAIL"
		}
		detail := fmt.Sprintf("status=%d", r.Status)
		if r.Err != nil {
			detail = "error=" + r.Err.Error()
		}
		fmt.Printf("[%s] %-6s %-45s %s (%s)\n", mark, r.Target.Method, r.Target.Path, detail, r.Duration.Round(time.Millisecond))
	}
}
