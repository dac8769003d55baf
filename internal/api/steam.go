package api

import (
	"commsafe/internal/config"
	"commsafe/internal/domain"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/valyala/fasthttp"
)

// SteamClient talks to the Steam Web API, the external profile-data provider
// behind the lookup view.
type SteamClient struct {
	apiKey string
	client *fasthttp.Client
}

func NewSteamClient(cfg *config.Config) *SteamClient {
	return &SteamClient{
		apiKey: cfg.SteamAPIKey,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

type PlayerSummary struct {
	SteamID     string `json:"steamid"`
	PersonaName string `json:"personaname"`
	ProfileURL  string `json:"profileurl"`
	AvatarFull  string `json:"avatarfull"`
}

type playerSummariesResponse struct {
	Response struct {
		Players []PlayerSummary `json:"players"`
	} `json:"response"`
}

type resolveVanityResponse struct {
	Response struct {
		Success int    `json:"success"`
		SteamID string `json:"steamid"`
	} `json:"response"`
}

// ResolveVanityURL maps a vanity profile name to a numeric Steam ID.
// Returns domain.ErrNotFound when Steam does not know the name.
func (c *SteamClient) ResolveVanityURL(ctx context.Context, vanity string) (string, error) {
	reqURL := fmt.Sprintf(
		"https://api.steampowered.com/ISteamUser/ResolveVanityURL/v0001/?key=%s&vanityurl=%s",
		c.apiKey, url.QueryEscape(vanity),
	)
	resp, err := doRequest[resolveVanityResponse](ctx, c.client, reqURL)
	if err != nil {
		return "", err
	}
	if resp.Response.Success != 1 {
		return "", domain.ErrNotFound
	}
	return resp.Response.SteamID, nil
}

// GetPlayerSummary fetches display name and avatar for a Steam ID.
// Returns domain.ErrNotFound when the profile does not exist.
func (c *SteamClient) GetPlayerSummary(ctx context.Context, steamID string) (*PlayerSummary, error) {
	reqURL := fmt.Sprintf(
		"https://api.steampowered.com/ISteamUser/GetPlayerSummaries/v0002/?key=%s&steamids=%s",
		c.apiKey, url.QueryEscape(steamID),
	)
	resp, err := doRequest[playerSummariesResponse](ctx, c.client, reqURL)
	if err != nil {
		return nil, err
	}
	if len(resp.Response.Players) == 0 {
		return nil, domain.ErrNotFound
	}
	return &resp.Response.Players[0], nil
}

func doRequest[T any](ctx context.Context, client *fasthttp.Client, url string) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := client.Do(req, resp); err != nil {
			return nil, err
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("API error: %d", resp.StatusCode())
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
