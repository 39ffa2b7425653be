package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// APIError is a non-2xx backend response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend error (status %d): %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Client talks to the remote mirumoji backend. Every request carries the
// current profile id when one is set; no profile is a valid state, not
// an error.
type Client struct {
	baseURL    string
	httpClient *http.Client
	profileID  func() string
}

// NewClient builds a client for baseURL. profileID is consulted per
// request so profile switches take effect immediately; nil means no
// profile ever.
func NewClient(baseURL string, profileID func() string) *Client {
	if profileID == nil {
		profileID = func() string { return "" }
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
		profileID: profileID,
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		rdr = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out interface{}) error {
	if id := c.profileID(); id != "" {
		req.Header.Set("X-Profile-ID", id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(data))
		if msg == "" {
			msg = resp.Status
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode backend response: %w", err)
		}
	}
	return nil
}

// uploadFile posts a single file as a multipart form.
func (c *Client) uploadFile(ctx context.Context, path, field, filename string, file io.Reader, out interface{}) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return err
	}
	w.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.send(req, out)
}

// Breakdown requests the default explanation for a focus word.
func (c *Client) Breakdown(ctx context.Context, sentence, focus string) (*Breakdown, error) {
	body := map[string]string{"sentence": sentence, "focus": focus}
	var out Breakdown
	if err := c.doJSON(ctx, http.MethodPost, "/gpt/breakdown", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CustomBreakdown requests an explanation using a profile-supplied
// system message and prompt template.
func (c *Client) CustomBreakdown(ctx context.Context, sentence, focus, sysMsg, prompt string) (*Breakdown, error) {
	body := map[string]string{
		"sentence": sentence,
		"focus":    focus,
		"sysMsg":   sysMsg,
		"prompt":   prompt,
	}
	var out Breakdown
	if err := c.doJSON(ctx, http.MethodPost, "/gpt/custom_breakdown", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GptTemplate fetches the profile's custom template. A 404 means no
// template is set: returned as (nil, nil), not an error.
func (c *Client) GptTemplate(ctx context.Context) (*GptTemplate, error) {
	var out GptTemplate
	if err := c.doJSON(ctx, http.MethodGet, "/profiles/gpt_template", nil, &out); err != nil {
		if IsStatus(err, http.StatusNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

// SaveGptTemplate creates or updates the profile's custom template.
// Carrying the existing ID updates in place; omitting it creates.
func (c *Client) SaveGptTemplate(ctx context.Context, tpl GptTemplate) (*GptTemplate, error) {
	var out GptTemplate
	if err := c.doJSON(ctx, http.MethodPost, "/profiles/gpt_template", tpl, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteGptTemplate removes the profile's custom template, reverting
// explanations to the default endpoint.
func (c *Client) DeleteGptTemplate(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodDelete, "/profiles/gpt_template", nil, nil)
}

// ListFiles returns the profile's uploaded media files.
func (c *Client) ListFiles(ctx context.Context) ([]ProfileFile, error) {
	var out []ProfileFile
	if err := c.doJSON(ctx, http.MethodGet, "/profiles/files", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteFile removes an uploaded media file.
func (c *Client) DeleteFile(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/profiles/files/"+id, nil, nil)
}

// ListTranscripts returns the profile's stored transcriptions.
func (c *Client) ListTranscripts(ctx context.Context) ([]ProfileTranscript, error) {
	var out []ProfileTranscript
	if err := c.doJSON(ctx, http.MethodGet, "/profiles/transcripts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteTranscript removes a stored transcription.
func (c *Client) DeleteTranscript(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/profiles/transcripts/"+id, nil, nil)
}

// SaveClipRequest packages a captured clip for persistence.
type SaveClipRequest struct {
	Start     float64
	End       float64
	Breakdown json.RawMessage
	FileName  string
	Data      []byte
}

// SaveClip submits a recorded clip plus its explanation payload as a
// multipart form.
func (c *Client) SaveClip(ctx context.Context, req SaveClipRequest) (*SaveClipResponse, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	w.WriteField("clip_start_time", strconv.FormatFloat(req.Start, 'f', -1, 64))
	w.WriteField("clip_end_time", strconv.FormatFloat(req.End, 'f', -1, 64))
	w.WriteField("gpt_breakdown_response", string(req.Breakdown))
	part, err := w.CreateFormFile("video_clip", req.FileName)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(req.Data); err != nil {
		return nil, err
	}
	w.Close()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/profiles/clips/save", &buf)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())

	var out SaveClipResponse
	if err := c.send(httpReq, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListClips returns the profile's saved clips.
func (c *Client) ListClips(ctx context.Context) ([]Clip, error) {
	var out []Clip
	if err := c.doJSON(ctx, http.MethodGet, "/profiles/clips", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteClip removes a saved clip.
func (c *Client) DeleteClip(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/profiles/clips/"+id, nil, nil)
}

// AnkiExport asks the backend to build an Anki deck from the profile's
// saved clips.
func (c *Client) AnkiExport(ctx context.Context) (*AnkiExportResponse, error) {
	var out AnkiExportResponse
	if err := c.doJSON(ctx, http.MethodPost, "/profiles/anki_export", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TranscribeFromAudio uploads an audio file for transcription to SRT.
func (c *Client) TranscribeFromAudio(ctx context.Context, filename string, audio io.Reader) (*TranscriptionResponse, error) {
	var out TranscriptionResponse
	if err := c.uploadFile(ctx, "/audio/transcribe_from_audio", "file", filename, audio, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateSRT uploads a video file and returns transcribed SRT content.
func (c *Client) GenerateSRT(ctx context.Context, filename string, video io.Reader) (*TranscriptionResponse, error) {
	var out TranscriptionResponse
	if err := c.uploadFile(ctx, "/video/generate_srt", "file", filename, video, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConvertToMP4 uploads a video for transcoding to browser-playable MP4.
func (c *Client) ConvertToMP4(ctx context.Context, filename string, video io.Reader) (*ConvertResponse, error) {
	var out ConvertResponse
	if err := c.uploadFile(ctx, "/video/convert_to_mp4", "file", filename, video, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
