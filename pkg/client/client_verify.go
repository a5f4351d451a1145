package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"iter"
	"net/http"
	"strings"

	"github.com/zhuxiaohai/philips-medical/pkg/verifier"
)

type VerifyRequest struct {
	File string `json:"file"`

	StartPage int `json:"startPage,omitempty"`

	MinPages int `json:"minPages,omitempty"`
	MaxPages int `json:"maxPages,omitempty"`
}

// Verify streams one result per verified page, in page order. The stream ends
// with an error when the server cancels the run.
func (c *Client) Verify(ctx context.Context, input VerifyRequest) iter.Seq2[*verifier.PageResult, error] {
	return func(yield func(*verifier.PageResult, error) bool) {
		body, _ := json.Marshal(input)

		req, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/verify", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(c.newRequest(req))

		if err != nil {
			yield(nil, err)
			return
		}

		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			data, _ := io.ReadAll(resp.Body)

			yield(nil, errors.New(string(data)))
			return
		}

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			line := scanner.Text()

			if !strings.HasPrefix(line, "data: ") {
				continue
			}

			data := strings.TrimPrefix(line, "data: ")

			if err := parseCancel(data); err != nil {
				yield(nil, err)
				return
			}

			var result verifier.PageResult

			if err := json.Unmarshal([]byte(data), &result); err != nil {
				yield(nil, err)
				return
			}

			if !yield(&result, nil) {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			yield(nil, err)
		}
	}
}

func parseCancel(data string) error {
	var event map[string]string

	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return nil
	}

	if msg, ok := event["task cancelled"]; ok {
		return errors.New(msg)
	}

	return nil
}
