// Command seed bulk-loads article records into a running API instance.
// It logs in with the shared credential, then submits every record from a
// JSON file, reporting created, duplicate and failed counts.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type record struct {
	DOI                 string   `json:"doi"`
	Link                string   `json:"link"`
	Title               string   `json:"title"`
	Year                int      `json:"year"`
	Category            []string `json:"category"`
	ProblemDescription  string   `json:"problem_description"`
	SolutionDescription string   `json:"solution_description"`
	Result              string   `json:"result"`
	Problems            string   `json:"problems"`
	AdditionalNotes     string   `json:"additional_notes,omitempty"`
}

type seedFile struct {
	Records []record `json:"records"`
}

type outcome struct {
	Record record
	Status int
	Error  error
}

func main() {
	var (
		base      string
		firstName string
		lastName  string
		password  string
		file      string
		timeout   time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&firstName, "first-name", "Seed", "submitter first name")
	flag.StringVar(&lastName, "last-name", "Script", "submitter last name")
	flag.StringVar(&password, "password", "", "shared credential (required)")
	flag.StringVar(&file, "file", filepath.Join("scripts", "seed", "records.json"), "path to JSON records file")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "HTTP client timeout")
	flag.Parse()

	if password == "" {
		log.Fatal("the -password flag is required")
	}

	records, err := loadRecords(file)
	if err != nil {
		log.Fatalf("failed to load records: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	token, err := login(client, base, firstName, lastName, password)
	if err != nil {
		log.Fatalf("login failed: %v", err)
	}

	var (
		outcomes   []outcome
		created    int
		duplicates int
		failed     int
	)

	for _, rec := range records {
		out := submit(client, base, token, rec)
		switch {
		case out.Error != nil, out.Status >= http.StatusInternalServerError:
			failed++
		case out.Status == http.StatusConflict:
			duplicates++
		case out.Status == http.StatusCreated:
			created++
		default:
			failed++
		}
		outcomes = append(outcomes, out)
	}

	printReport(outcomes)

	fmt.Printf("Created: %d, Duplicates: %d, Failed: %d\n", created, duplicates, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func loadRecords(path string) ([]record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f seedFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if len(f.Records) == 0 {
		return nil, fmt.Errorf("no records defined in %s", path)
	}
	return f.Records, nil
}

func login(client *http.Client, base, firstName, lastName, password string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"first_name": firstName,
		"last_name":  lastName,
		"password":   password,
	})
	if err != nil {
		return "", err
	}

	resp, err := client.Post(endpoint(base, "/api/v1/auth/login"), "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var envelope struct {
		Data struct {
			SessionToken string `json:"session_token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", err
	}
	if envelope.Data.SessionToken == "" {
		return "", fmt.Errorf("login response carried no session token")
	}
	return envelope.Data.SessionToken, nil
}

func submit(client *http.Client, base, token string, rec record) outcome {
	out := outcome{Record: rec}

	payload, err := json.Marshal(rec)
	if err != nil {
		out.Error = err
		return out
	}

	req, err := http.NewRequest(http.MethodPost, endpoint(base, "/api/v1/articles"), bytes.NewReader(payload))
	if err != nil {
		out.Error = err
		return out
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		out.Error = err
		return out
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	out.Status = resp.StatusCode
	return out
}

func endpoint(base, path string) string {
	return strings.TrimRight(base, "/") + path
}

func printReport(results []outcome) {
	fmt.Println("Seed Report")
	fmt.Println("============")
	for _, res := range results {
		status := "OK"
		switch {
		case res.Error != nil:
			status = "ERROR"
		case res.Status == http.StatusConflict:
			status = "DUP"
		case res.Status != http.StatusCreated:
			status = "FAIL"
		}
		fmt.Printf("[%s] %s\n", status, res.Record.DOI)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
		} else if res.Status != http.StatusCreated {
			fmt.Printf("  Status: %d\n", res.Status)
		}
	}
}
