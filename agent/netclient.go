package agent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"catan/encoder"
	"catan/game"
)

// NetClient is a PolicyValueNet backed by an external inference server
// (the trained network runs in a separate process). It posts the encoded
// position and per-action features and expects priors plus a scalar value
// back. On any transport failure it degrades to uniform priors so search
// keeps running.
type NetClient struct {
	url     string
	client  *http.Client
	encoder *encoder.Encoder
}

func NewNetClient(url string, board *game.MapInstance) *NetClient {
	return &NetClient{
		url:     url,
		client:  &http.Client{Timeout: 2 * time.Second},
		encoder: encoder.New(board),
	}
}

type evaluateRequest struct {
	Planes  encoder.Planes `json:"planes"`
	Actions [][]float32    `json:"actions"`
}

type evaluateResponse struct {
	Priors []float64 `json:"priors"`
	Value  float64   `json:"value"`
}

func (n *NetClient) Evaluate(state *game.State, actions []game.Action) ([]float64, float64) {
	req := evaluateRequest{
		Planes:  n.encoder.Encode(state),
		Actions: make([][]float32, len(actions)),
	}
	for i, feats := range n.encoder.ActionFeatures(actions) {
		req.Actions[i] = feats[:]
	}

	priors, value, err := n.post(req)
	if err != nil || len(priors) != len(actions) {
		return UniformNet{}.Evaluate(state, actions)
	}
	return priors, value
}

func (n *NetClient) post(req evaluateRequest) ([]float64, float64, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, 0, err
	}
	resp, err := n.client.Post(n.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("inference server returned %s", resp.Status)
	}
	var out evaluateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, 0, err
	}
	return out.Priors, out.Value, nil
}
