// Package remote is the typed client for the DeepHydro computation
// service, which performs the spreadsheet parsing, statistical analysis,
// forecasting, report generation, and assistant chat that back the
// dashboard. Every method is one request/response exchange: no streaming,
// no retries, no client-side state. The per-request deadline comes from the
// underlying http.Client timeout configured at construction, plus whatever
// deadline rides in on ctx.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/deephydro/hydrodash/internal/domain/series"
	"go.uber.org/zap"
)

// APIError is a non-2xx response from the DeepHydro service. Message is the
// server's own error text, passed through verbatim so the user sees what
// the service said, not a paraphrase.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("deephydro: %s (status %d)", e.Message, e.Status)
}

// ChatMessage is one turn of the assistant conversation as sent on the
// wire: role "user" or "model" plus the message text.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Statistics is the descriptive-statistics block of an analysis.
type Statistics struct {
	Mean       float64 `json:"mean_level"`
	Median     float64 `json:"median_level"`
	Min        float64 `json:"min_level"`
	Max        float64 `json:"max_level"`
	StdDev     float64 `json:"std_dev"`
	DataPoints int     `json:"data_points"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
}

// Analysis is the full result of an analyze call.
type Analysis struct {
	Stats       Statistics `json:"stats"`
	Trend       string     `json:"trend"`
	Seasonality string     `json:"seasonality"`
	Insights    string     `json:"insights"`
}

// ForecastResult carries the predicted points and the model accuracy
// figures reported alongside them.
type ForecastResult struct {
	Forecast []series.ForecastPoint
	Metrics  Metrics
}

// Metrics are the forecast accuracy figures from the service.
type Metrics struct {
	MAE  float64 `json:"mae"`
	RMSE float64 `json:"rmse"`
	MAPE float64 `json:"mape"`
}

// Client talks to one DeepHydro service instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a client for the service at baseURL. The timeout bounds each
// whole exchange including body read; report generation is the slow call,
// so size it for that.
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Upload sends a workbook to the service for parsing and returns the
// historical points it extracted, sorted by date on the service side.
func (c *Client) Upload(ctx context.Context, filename string, file io.Reader) ([]series.HistoricalPoint, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("read upload file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finish upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &body)
	if err != nil {
		return nil, fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out struct {
		Data []wirePoint `json:"data"`
	}
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return decodeHistorical(out.Data)
}

// Ping reports whether the service answers HTTP at all. Any response,
// including an error status, counts as reachable; only transport failures
// are reported.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("create ping request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("deephydro unreachable: %w", err)
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<10))
	resp.Body.Close()
	return nil
}

// Analyze requests descriptive statistics and narrative findings for the
// given historical points. The caller guarantees the set is non-empty.
func (c *Client) Analyze(ctx context.Context, hist []series.HistoricalPoint) (Analysis, error) {
	payload := struct {
		Data []wirePoint `json:"data"`
	}{Data: encodeHistorical(hist)}

	var out Analysis
	if err := c.postJSON(ctx, "/analyze", payload, &out); err != nil {
		return Analysis{}, err
	}
	return out, nil
}

// Forecast requests a months-long prediction from the given historical
// points. The caller validates months before any request is issued; the
// client does not re-check. Each returned point's confidence interval is
// verified to bracket its level.
func (c *Client) Forecast(ctx context.Context, hist []series.HistoricalPoint, months int) (ForecastResult, error) {
	payload := struct {
		Data   []wirePoint `json:"data"`
		Months int         `json:"months"`
	}{Data: encodeHistorical(hist), Months: months}

	var out struct {
		Forecast []wireForecastPoint `json:"forecast"`
		Metrics  Metrics             `json:"metrics"`
	}
	if err := c.postJSON(ctx, "/forecast", payload, &out); err != nil {
		return ForecastResult{}, err
	}

	points, err := decodeForecast(out.Forecast)
	if err != nil {
		return ForecastResult{}, err
	}
	return ForecastResult{Forecast: points, Metrics: out.Metrics}, nil
}

// GenerateReport requests a narrative PDF report in the given language
// ("en" or "fr") and returns the raw document bytes.
func (c *Client) GenerateReport(ctx context.Context, hist []series.HistoricalPoint, fc []series.ForecastPoint, language string) ([]byte, error) {
	payload := struct {
		Historical []wirePoint         `json:"historical_data"`
		Forecast   []wireForecastPoint `json:"forecast_data"`
		Language   string              `json:"language"`
	}{Historical: encodeHistorical(hist), Forecast: encodeForecast(fc), Language: language}

	req, err := c.jsonRequest(ctx, "/generate_report", payload)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("deephydro request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, c.responseError(resp)
	}

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read report body: %w", err)
	}
	return pdf, nil
}

// Chat sends the running conversation plus the current point sets as
// context and returns the assistant's reply.
func (c *Client) Chat(ctx context.Context, history []ChatMessage, hist []series.HistoricalPoint, fc []series.ForecastPoint) (string, error) {
	payload := struct {
		History    []ChatMessage       `json:"chat_history"`
		Historical []wirePoint         `json:"historical_data"`
		Forecast   []wireForecastPoint `json:"forecast_data"`
	}{History: history, Historical: encodeHistorical(hist), Forecast: encodeForecast(fc)}

	var out struct {
		Response string `json:"response"`
	}
	if err := c.postJSON(ctx, "/chat", payload, &out); err != nil {
		return "", err
	}
	return out.Response, nil
}

func (c *Client) jsonRequest(ctx context.Context, path string, payload any) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	req, err := c.jsonRequest(ctx, path, payload)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("deephydro request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return c.responseError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode deephydro response: %w", err)
	}
	return nil
}

// responseError turns a non-2xx response into an *APIError, preferring the
// service's own {"error": ...} message and falling back to the raw body.
func (c *Client) responseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	msg := ""
	var wire struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &wire); err == nil && wire.Error != "" {
		msg = wire.Error
	} else {
		msg = strings.TrimSpace(string(body))
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	if c.logger != nil {
		c.logger.Debug("deephydro error response",
			zap.String("url", resp.Request.URL.Path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg))
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}
