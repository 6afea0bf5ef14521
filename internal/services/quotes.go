package services

import (
	"context"
	"encoding/json"
	"log"
	"math/rand/v2"
	"net/http"
)

// fallbackQuotes are served whenever the quote service is unreachable or
// returns garbage. Quote failures never surface to the user.
var fallbackQuotes = []string{
	"The best way to get started is to quit talking and begin doing.",
	"Success is not final, failure is not fatal: it is the courage to continue that counts.",
	"Quality means doing it right when no one is looking.",
	"It always seems impossible until it is done.",
	"Small daily improvements are the key to staggering long-term results.",
}

// QuoteService fetches a motivational quote for the dashboard.
type QuoteService struct {
	BaseURL string
	Client  *http.Client
}

func NewQuoteService(baseURL string) *QuoteService {
	return &QuoteService{
		BaseURL: baseURL,
		Client:  &http.Client{},
	}
}

// Random returns a quote. Any failure silently substitutes a local fallback.
func (s *QuoteService) Random(ctx context.Context) string {
	url := s.BaseURL + "/random?tags=motivational|inspirational"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fallback()
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		log.Printf("Quote fetch failed, using fallback: %v", err)
		return fallback()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("Quote service returned status %d, using fallback", resp.StatusCode)
		return fallback()
	}

	var payload struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Content == "" {
		return fallback()
	}
	return payload.Content
}

func fallback() string {
	return fallbackQuotes[rand.IntN(len(fallbackQuotes))]
}
