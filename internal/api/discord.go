package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
)

// Discord embed colors per notification type.
const (
	ColorPositive = 0x10b981
	ColorWarning  = 0xef4444
	ColorDefault  = 0x6366f1
)

// DiscordClient delivers notifications to user-configured webhooks. It is a
// fire-and-forget sink: callers bound it with a context deadline and log
// failures instead of surfacing them.
type DiscordClient struct {
	client *fasthttp.Client
}

func NewDiscordClient() *DiscordClient {
	return &DiscordClient{
		client: &fasthttp.Client{
			MaxConnsPerHost:     10,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

type discordEmbed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       int    `json:"color"`
	Timestamp   string `json:"timestamp"`
}

type discordWebhookPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

func (c *DiscordClient) SendWebhook(ctx context.Context, webhookURL, message string, color int) error {
	payload := discordWebhookPayload{
		Embeds: []discordEmbed{{
			Title:       "🎮 Karma Notification",
			Description: message,
			Color:       color,
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(webhookURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	deadline, ok := ctx.Deadline()
	if ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.Do(req, resp)
	}
	if err != nil {
		return err
	}

	if resp.StatusCode() >= 300 {
		return fmt.Errorf("webhook error: %d", resp.StatusCode())
	}
	return nil
}
