// Command remind triggers one reminder dispatch cycle on the API. An
// external scheduler runs it every five minutes; any failure exits non-zero
// and the cycle is retried at the next tick. There is deliberately no retry
// here.
package main

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mettly-app/mettly-api/internal/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	cfg := config.Load()

	client := &http.Client{Timeout: 30 * time.Second}

	if err := trigger(client, cfg.AppBaseURL, cfg.BotAPISecret); err != nil {
		log.Printf("reminder trigger failed: %v", err)
		os.Exit(1)
	}

	log.Println("reminder cycle triggered")
}

func trigger(client *http.Client, baseURL, secret string) error {
	url := strings.TrimRight(baseURL, "/") + "/api/reminders/send"

	req, err := http.NewRequest(http.MethodPost, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+secret)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	log.Printf("dispatch result: %s", string(body))
	return nil
}
