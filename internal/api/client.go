// Package api implements the JSON-over-HTTP client for the image service.
// All endpoints live under /api/v1 on a single origin; authenticated calls
// carry a bearer token header.
package api

import (
	"bytes"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"pixlab/internal/imagefile"
)

// ErrUnreachable marks a transport failure: no response arrived at all.
// Callers show a fixed message instead of raw transport detail.
var ErrUnreachable = errors.New("cannot reach the server")

// ErrUnauthorized marks a 401 rejection. Callers clear the session.
var ErrUnauthorized = errors.New("not authorized")

// Error is an application-level rejection carried in a non-2xx response.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

type Client struct {
	baseURL *url.URL
	hc      *http.Client
	log     *slog.Logger

	mu    sync.RWMutex
	token string
}

type ClientOptions struct {
	Addr     string
	Insecure bool
	Timeout  time.Duration
	Logger   *slog.Logger
}

func NewClient(opt ClientOptions) (*Client, error) {
	if opt.Addr == "" {
		return nil, errors.New("addr is required")
	}
	u, err := url.Parse(opt.Addr)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" {
		u.Scheme = "http"
	}
	if u.Host == "" {
		return nil, errors.New("invalid addr")
	}

	t := &http.Transport{}
	if strings.EqualFold(u.Scheme, "https") {
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: opt.Insecure} //nolint:gosec
	}

	timeout := opt.Timeout
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	lg := opt.Logger
	if lg == nil {
		lg = slog.Default()
	}

	hc := &http.Client{Transport: t, Timeout: timeout}
	return &Client{baseURL: u, hc: hc, log: lg}, nil
}

// SetToken installs the bearer token used on subsequent requests.
// An empty string reverts the client to anonymous calls.
func (c *Client) SetToken(tok string) {
	c.mu.Lock()
	c.token = tok
	c.mu.Unlock()
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Identity is the login response: who the user is plus the issued token.
type Identity struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	Credits  int    `json:"credits"`
	Token    string `json:"access_token"`
}

func (c *Client) Login(username, password string) (Identity, error) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	req.Username = username
	req.Password = password

	var id Identity
	if err := c.doJSON("POST", "/api/v1/login", req, &id); err != nil {
		return Identity{}, err
	}
	return id, nil
}

// Registration is the register response: the created account, no token.
type Registration struct {
	Username string `json:"username"`
	Credits  int    `json:"credits"`
}

func (c *Client) Register(username, password string) (Registration, error) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	req.Username = username
	req.Password = password

	var reg Registration
	if err := c.doJSON("POST", "/api/v1/register", req, &reg); err != nil {
		return Registration{}, err
	}
	return reg, nil
}

func (c *Client) Logout() error {
	return c.doJSON("POST", "/api/v1/logout", map[string]string{}, nil)
}

// VerifyToken asks whether the held bearer token is still accepted.
func (c *Client) VerifyToken() (bool, error) {
	var resp struct {
		Valid bool `json:"valid"`
	}
	if err := c.doJSON("GET", "/api/v1/verify-token", nil, &resp); err != nil {
		return false, err
	}
	return resp.Valid, nil
}

type User struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	Credits  int    `json:"credits"`
}

func (c *Client) ListUsers() ([]User, error) {
	var users []User
	if err := c.doJSON("GET", "/api/v1/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) CreateUser(username, password string, credits int) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Credits  int    `json:"credits"`
	}
	req.Username = username
	req.Password = password
	req.Credits = credits
	return c.doJSON("POST", "/api/v1/users", req, nil)
}

// UpdateUser rewrites a user record. A blank password means "keep the
// current one" and is omitted from the payload entirely.
func (c *Client) UpdateUser(username string, credits int, password string) error {
	req := struct {
		Username string `json:"username"`
		Credits  int    `json:"credits"`
		Password string `json:"password,omitempty"`
	}{Username: username, Credits: credits, Password: password}
	return c.doJSON("PUT", "/api/v1/users/"+url.PathEscape(username), req, nil)
}

func (c *Client) DeleteUser(username string) error {
	return c.doJSON("DELETE", "/api/v1/users/"+url.PathEscape(username), nil, nil)
}

type Image struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Prompt    string `json:"prompt"`
	CreatedAt string `json:"created_at"`
}

// ListImages returns the image records owned by the named user.
func (c *Client) ListImages(username string) ([]Image, error) {
	var resp struct {
		Images []Image `json:"images"`
	}
	if err := c.doJSON("GET", "/api/v1/images/user/"+url.PathEscape(username), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Images, nil
}

func (c *Client) DeleteImage(id int64) error {
	return c.doJSON("DELETE", "/api/v1/images/"+itoa(id), nil, nil)
}

// ImageData fetches the raw PNG payload for one image.
func (c *Client) ImageData(id int64) ([]byte, error) {
	return c.doRaw("GET", "/api/v1/images/"+itoa(id)+"/data")
}

// GenerateSettings mirrors the generator form. Field names are the wire
// names the service expects.
type GenerateSettings struct {
	SamplingSteps int    `json:"samplingSteps"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	BatchCount    int    `json:"batchCount"`
	BatchSize     int    `json:"batchSize"`
	CFGScale      int    `json:"cfgScale"`
	Seed          string `json:"seed"`
}

type GenerateRequest struct {
	Prompt         string           `json:"prompt"`
	NegativePrompt string           `json:"negativePrompt"`
	Settings       GenerateSettings `json:"settings"`
}

// Generate submits a text-to-image job and returns the decoded PNGs.
func (c *Client) Generate(req GenerateRequest) ([][]byte, error) {
	var resp struct {
		Images []string `json:"images"`
	}
	if err := c.doJSON("POST", "/api/v1/t2i", req, &resp); err != nil {
		return nil, err
	}
	out := make([][]byte, 0, len(resp.Images))
	for i, s := range resp.Images {
		b, err := imagefile.DecodeBase64(s)
		if err != nil {
			return nil, fmt.Errorf("decode image %d: %w", i, err)
		}
		out = append(out, b)
	}
	return out, nil
}

// Upscale submits one image for upscaling and returns the decoded result.
func (c *Client) Upscale(image []byte, ratio int) ([]byte, error) {
	var req struct {
		Image string `json:"image"`
		Ratio int    `json:"ratio"`
	}
	req.Image = base64.StdEncoding.EncodeToString(image)
	req.Ratio = ratio

	var resp struct {
		Image string `json:"image"`
	}
	if err := c.doJSON("POST", "/api/v1/upscale", req, &resp); err != nil {
		return nil, err
	}
	b, err := imagefile.DecodeBase64(resp.Image)
	if err != nil {
		return nil, fmt.Errorf("decode upscaled image: %w", err)
	}
	return b, nil
}

func (c *Client) doJSON(method, path string, body any, out any) error {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		buf = bytes.NewReader(b)
	}
	resp, err := c.do(method, path, buf, body != nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) doRaw(method, path string) ([]byte, error) {
	resp, err := c.do(method, path, nil, false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) do(method, path string, body io.Reader, hasBody bool) (*http.Response, error) {
	u := c.baseURL.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequest(method, u.String(), body)
	if err != nil {
		return nil, err
	}
	if hasBody {
		req.Header.Set("content-type", "application/json")
	}
	req.Header.Set("accept", "application/json")
	if tok := c.bearer(); tok != "" {
		req.Header.Set("authorization", "Bearer "+tok)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		// Raw transport detail goes to the log, never to the caller.
		c.log.Warn("request failed", "method", method, "path", path, "err", err)
		return nil, fmt.Errorf("%s %s: %w", method, path, ErrUnreachable)
	}
	return resp, nil
}

// checkStatus converts a non-2xx response into an *Error, preferring the
// body's "error" field, then "message", then the HTTP status line.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	msg := body.Error
	if msg == "" {
		msg = body.Message
	}
	if msg == "" {
		msg = resp.Status
	}
	return &Error{Status: resp.StatusCode, Message: msg}
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
