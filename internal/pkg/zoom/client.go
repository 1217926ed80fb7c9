package zoom

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"mentorhub/internal/config"
)

const (
	tokenURL   = "https://zoom.us/oauth/token"
	meetingURL = "https://api.zoom.us/v2/users/me/meetings"
)

var ErrNotConfigured = errors.New("zoom credentials are not configured")

// Client schedules meetings through the Zoom server-to-server OAuth API.
// Every call is bounded by the configured timeout; a meeting that cannot be
// created in time is the caller's problem to degrade around, not ours to
// retry.
type Client struct {
	cfg      config.ZoomConfig
	timezone string
	http     *http.Client
	log      *zap.Logger
}

func NewClient(cfg config.ZoomConfig, timezone string, log *zap.Logger) *Client {
	return &Client{
		cfg:      cfg,
		timezone: timezone,
		http:     &http.Client{Timeout: cfg.Timeout},
		log:      log,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type meetingRequest struct {
	Topic     string          `json:"topic"`
	Type      int             `json:"type"`
	StartTime string          `json:"start_time"`
	Duration  int             `json:"duration"`
	Timezone  string          `json:"timezone"`
	Agenda    string          `json:"agenda"`
	Settings  meetingSettings `json:"settings"`
}

type meetingSettings struct {
	HostVideo        bool `json:"host_video"`
	ParticipantVideo bool `json:"participant_video"`
	JoinBeforeHost   bool `json:"join_before_host"`
	MuteUponEntry    bool `json:"mute_upon_entry"`
	EnforceLogin     bool `json:"enforce_login"`
}

type meetingResponse struct {
	JoinURL string `json:"join_url"`
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	auth := base64.StdEncoding.EncodeToString([]byte(c.cfg.ClientID + ":" + c.cfg.ClientSecret))
	url := fmt.Sprintf("%s?grant_type=account_credentials&account_id=%s", tokenURL, c.cfg.AccountID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Basic "+auth)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("zoom token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("zoom token request: status %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("zoom token decode: %w", err)
	}
	if tr.AccessToken == "" {
		return "", errors.New("zoom token response has no access_token")
	}
	return tr.AccessToken, nil
}

// CreateMeeting schedules a meeting at startTime and returns its join URL.
func (c *Client) CreateMeeting(ctx context.Context, startTime time.Time, durationMinutes int) (string, error) {
	if !c.cfg.Configured() {
		return "", ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	token, err := c.accessToken(ctx)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(meetingRequest{
		Topic:     "Mentoring Session",
		Type:      2, // scheduled meeting
		StartTime: startTime.UTC().Format("2006-01-02T15:04:05Z"),
		Duration:  durationMinutes,
		Timezone:  c.timezone,
		Agenda:    "Scheduled mentoring session.",
		Settings: meetingSettings{
			HostVideo:        true,
			ParticipantVideo: true,
			JoinBeforeHost:   true,
			MuteUponEntry:    true,
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, meetingURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("zoom meeting request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("zoom meeting request: status %d", resp.StatusCode)
	}

	var mr meetingResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return "", fmt.Errorf("zoom meeting decode: %w", err)
	}

	c.log.Info("zoom meeting scheduled",
		zap.Time("start_time", startTime),
		zap.Int("duration_minutes", durationMinutes))

	return mr.JoinURL, nil
}
