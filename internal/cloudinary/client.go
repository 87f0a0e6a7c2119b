package cloudinary

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/hirewise/hirewise/internal/config"
)

// Client talks to the Cloudinary raw-asset API. Résumés are stored as raw
// assets; downloads retry once through a signed URL on an authorization
// failure.
type Client struct {
	cloudName string
	apiKey    string
	apiSecret string
	folder    string
	base      string
	cdn       string
	http      *http.Client
}

func NewClient(cfg config.CloudinaryConfig) *Client {
	return &Client{
		cloudName: cfg.CloudName,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		folder:    cfg.Folder,
		base:      "https://api.cloudinary.com/v1_1",
		cdn:       "https://res.cloudinary.com",
		http:      &http.Client{Timeout: cfg.Timeout},
	}
}

type UploadResult struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Version   int64  `json:"version"`
	Bytes     int64  `json:"bytes"`
}

// sign produces the request signature: sha1 hex of the sorted param string
// followed by the API secret.
func (c *Client) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + c.apiSecret))
	return fmt.Sprintf("%x", sum)
}

// Upload stores data as a raw asset under the configured folder and returns
// the secure URL plus public id.
func (c *Client) Upload(ctx context.Context, data []byte, filename string) (*UploadResult, error) {
	ts := fmt.Sprintf("%d", time.Now().Unix())
	params := map[string]string{
		"folder":    c.folder,
		"timestamp": ts,
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(data); err != nil {
		return nil, err
	}
	_ = w.WriteField("api_key", c.apiKey)
	_ = w.WriteField("timestamp", ts)
	_ = w.WriteField("folder", c.folder)
	_ = w.WriteField("signature", c.sign(params))
	if err := w.Close(); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s/raw/upload", c.base, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, "POST", url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("cloudinary upload: status %d: %s", resp.StatusCode, string(body))
	}

	var res UploadResult
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	return &res, nil
}

// Delete removes a raw asset by public id. Best effort: callers log failures
// rather than surfacing them.
func (c *Client) Delete(ctx context.Context, publicID string) error {
	ts := fmt.Sprintf("%d", time.Now().Unix())
	params := map[string]string{
		"public_id": publicID,
		"timestamp": ts,
	}

	form := fmt.Sprintf("public_id=%s&timestamp=%s&api_key=%s&signature=%s",
		publicID, ts, c.apiKey, c.sign(params))

	url := fmt.Sprintf("%s/%s/raw/destroy", c.base, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, "POST", url, strings.NewReader(form))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("cloudinary destroy: status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// SignedURL derives a signed delivery URL for a raw asset, used when the
// plain delivery URL answers 401.
func (c *Client) SignedURL(publicID, version string) string {
	path := publicID
	if version != "" {
		path = "v" + version + "/" + publicID
	}
	sum := sha1.Sum([]byte(path + c.apiSecret))
	sig := base64.RawURLEncoding.EncodeToString(sum[:])[:8]
	return fmt.Sprintf("%s/%s/raw/upload/s--%s--/%s", c.cdn, c.cloudName, sig, path)
}

var versionRe = regexp.MustCompile(`/v(\d+)/`)

// DownloadResume fetches the résumé bytes from its stored URL. On a 401 it
// re-derives a signed URL from the stored public id and retries exactly once.
func (c *Client) DownloadResume(ctx context.Context, fileURL, publicID string) ([]byte, error) {
	data, status, err := c.get(ctx, fileURL)
	if err != nil {
		return nil, err
	}
	if status == http.StatusOK {
		return data, nil
	}
	if status != http.StatusUnauthorized {
		return nil, fmt.Errorf("download resume: status %d", status)
	}

	version := ""
	if m := versionRe.FindStringSubmatch(fileURL); m != nil {
		version = m[1]
	}
	signed := c.SignedURL(publicID, version)

	data, status, err = c.get(ctx, signed)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("download resume via signed url: status %d", status)
	}
	return data, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return data, resp.StatusCode, nil
}
