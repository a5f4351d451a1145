package client

import (
	"net/http"
	"strings"
)

// Client is a Go client for the document verification API.
type Client struct {
	client *http.Client

	url   string
	token string
}

type Option func(*Client)

func WithClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

func New(url string, options ...Option) *Client {
	c := &Client{
		client: http.DefaultClient,

		url: strings.TrimRight(url, "/"),
	}

	for _, option := range options {
		option(c)
	}

	return c
}

func (c *Client) newRequest(r *http.Request) *http.Request {
	if c.token != "" {
		r.Header.Set("Authorization", "Bearer "+c.token)
	}

	return r
}
