// Package sender uploads pprof profiles to a Pyroscope-compatible ingest
// endpoint.
package sender

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/pprof/profile"
	"go.uber.org/zap"
)

// Config holds the ingest endpoint settings.
type Config struct {
	IngestURL string            // base URL of the ingest server
	AuthToken string            // optional bearer token
	AppName   string            // application name reported with each profile
	Tags      map[string]string // static tags attached to the app name
	Timeout   time.Duration     // HTTP client timeout (default 5m)
}

// Sender posts profiles to the ingest server.
type Sender struct {
	config Config
	client *http.Client
	logger *zap.Logger
}

// New returns a sender for the given endpoint.
func New(config Config, logger *zap.Logger) *Sender {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Sender{
		config: config,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// appName renders the application name with its tags in ingest notation:
// name{key=value,key2=value2}. Tags are sorted for a stable name.
func (s *Sender) appName() string {
	if len(s.config.Tags) == 0 {
		return s.config.AppName
	}
	keys := make([]string, 0, len(s.config.Tags))
	for k := range s.config.Tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+s.config.Tags[k])
	}
	return s.config.AppName + "{" + strings.Join(pairs, ",") + "}"
}

// SendProfile validates and uploads one profile along with its
// sample-type configuration as a multipart form.
func (s *Sender) SendProfile(prof *profile.Profile, sampleTypes map[string]map[string]interface{}) error {
	if err := prof.CheckValid(); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}

	var buf bytes.Buffer
	if err := prof.Write(&buf); err != nil {
		return fmt.Errorf("writing profile: %w", err)
	}

	sampleTypesJSON, err := json.Marshal(sampleTypes)
	if err != nil {
		return fmt.Errorf("marshalling sample types: %w", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	profilePart, err := writer.CreateFormFile("profile", "profile.pprof")
	if err != nil {
		return fmt.Errorf("creating profile part: %w", err)
	}
	if _, err := profilePart.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing profile data: %w", err)
	}

	configPart, err := writer.CreateFormFile("sample_type_config", "config.json")
	if err != nil {
		return fmt.Errorf("creating sample_type_config part: %w", err)
	}
	if _, err := configPart.Write(sampleTypesJSON); err != nil {
		return fmt.Errorf("writing sample_type_config data: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing multipart writer: %w", err)
	}

	params := url.Values{}
	params.Set("name", s.appName())

	endpoint := fmt.Sprintf("%s/ingest?%s", s.config.IngestURL, params.Encode())
	req, err := http.NewRequest(http.MethodPost, endpoint, &body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if s.config.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.config.AuthToken)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status code: %d, response: %s", resp.StatusCode, string(respBody))
	}

	s.logger.Debug("profile sent",
		zap.String("name", s.appName()),
		zap.Int("bytes", buf.Len()),
		zap.Int("samples", len(prof.Sample)))

	return nil
}
