package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Deployer submits contract deployments to the deploy service on the
// wallet's behalf. The request body is signed with the wallet key so the
// service can verify the deployer address.
type Deployer struct {
	BaseURL string
	HTTP    *http.Client
	wallet  *Wallet
}

func NewDeployer(baseURL string, w *Wallet) *Deployer {
	return &Deployer{
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
		wallet: w,
	}
}

// Enabled reports whether a deploy service URL is configured.
func (d *Deployer) Enabled() bool { return d.BaseURL != "" }

type deployRequest struct {
	BaseURI   string `json:"base_uri"`
	Deployer  string `json:"deployer"`
	NetworkID string `json:"network_id"`
	Signature string `json:"signature,omitempty"`
}

type deployResponse struct {
	ContractAddress string `json:"contract_address"`
	Error           string `json:"error,omitempty"`
}

// DeployMultiToken deploys a multi-token contract with the given metadata
// URI template and returns the contract address. The {id} placeholder is
// enforced upstream by the tool schema.
func (d *Deployer) DeployMultiToken(ctx context.Context, baseURI string) (string, error) {
	if !d.Enabled() {
		return "", fmt.Errorf("no deploy service configured; set DEPLOY_SERVICE_URL")
	}

	req := deployRequest{
		BaseURI:   baseURI,
		Deployer:  d.wallet.Address(),
		NetworkID: d.wallet.NetworkID(),
	}
	unsigned, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode deploy request: %w", err)
	}
	req.Signature, err = d.wallet.sign(unsigned)
	if err != nil {
		return "", err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode deploy request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		d.BaseURL+"/v1/contracts/multi-token", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := d.HTTP.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	raw, _ := io.ReadAll(res.Body)
	var out deployResponse
	_ = json.Unmarshal(raw, &out)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		if out.Error != "" {
			return "", fmt.Errorf("deploy service: %s", out.Error)
		}
		return "", fmt.Errorf("deploy service http %d: %s", res.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out.ContractAddress == "" {
		return "", fmt.Errorf("deploy service returned no contract address")
	}
	return out.ContractAddress, nil
}
