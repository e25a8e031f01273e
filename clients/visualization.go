package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// --- Visualization (/generate-timeline) ---
type TimelineReq struct {
	DocID      int64     `json:"doc_id"`
	Listener   string    `json:"listener"`
	Timestamps []float64 `json:"timestamps"`
	Labels     []int     `json:"labels"`
	OutputDir  string    `json:"output_dir,omitempty"`
}

type TimelineResp struct {
	Status string `json:"status"`
	Path   string `json:"path"`
}

func (h *HTTP) GenerateTimeline(ctx context.Context, url string, req TimelineReq) (*TimelineResp, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("viz timeline encode: %w", err)
	}
	r, err := http.NewRequestWithContext(ctx, http.MethodPost, url+"/generate-timeline", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	r.Header.Set("Content-Type", "application/json")
	resp, err := h.c.Do(r)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("viz timeline %s: %s", resp.Status, string(body))
	}

	var out TimelineResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("viz timeline decode: %w", err)
	}
	return &out, nil
}
