package wallet

import (
	"crypto/ecdsa"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/crypto"
)

// Config controls where wallet state persists and which network the agent
// considers itself on.
type Config struct {
	DataFile  string // JSON state file, created on first run
	NetworkID string // "base", "base-mainnet" or a testnet id like "base-sepolia"
}

type state struct {
	PrivateKey string `json:"private_key"`
	Address    string `json:"address"`
	NetworkID  string `json:"network_id"`
}

// Wallet is the agent's persisted on-chain identity.
type Wallet struct {
	mu   sync.Mutex
	cfg  Config
	key  *ecdsa.PrivateKey
	addr string
}

// Load reads the wallet state file, or generates and persists a fresh key
// when the file does not exist yet. An explicit Config.NetworkID wins over
// the network recorded in the file.
func Load(cfg Config) (*Wallet, error) {
	if strings.TrimSpace(cfg.DataFile) == "" {
		cfg.DataFile = "wallet_data.txt"
	}

	b, err := os.ReadFile(cfg.DataFile)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("wallet: read %s: %w", cfg.DataFile, err)
		}
		if strings.TrimSpace(cfg.NetworkID) == "" {
			cfg.NetworkID = "base-sepolia"
		}
		return create(cfg)
	}

	var st state
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, fmt.Errorf("wallet: corrupt state file %s: %w", cfg.DataFile, err)
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(st.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("wallet: invalid private key in %s: %w", cfg.DataFile, err)
	}
	if strings.TrimSpace(cfg.NetworkID) == "" {
		cfg.NetworkID = st.NetworkID
	}
	if strings.TrimSpace(cfg.NetworkID) == "" {
		cfg.NetworkID = "base-sepolia"
	}

	return &Wallet{
		cfg:  cfg,
		key:  key,
		addr: crypto.PubkeyToAddress(key.PublicKey).Hex(),
	}, nil
}

func create(cfg Config) (*Wallet, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("wallet: generate key: %w", err)
	}
	w := &Wallet{
		cfg:  cfg,
		key:  key,
		addr: crypto.PubkeyToAddress(key.PublicKey).Hex(),
	}
	if err := w.save(); err != nil {
		return nil, err
	}
	return w, nil
}

// save writes the state file atomically with owner-only permissions.
func (w *Wallet) save() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	st := state{
		PrivateKey: hex.EncodeToString(crypto.FromECDSA(w.key)),
		Address:    w.addr,
		NetworkID:  w.cfg.NetworkID,
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("wallet: encode state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(w.cfg.DataFile), ".wallet-*")
	if err != nil {
		return fmt.Errorf("wallet: temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("wallet: write state: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("wallet: chmod state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("wallet: close state: %w", err)
	}
	if err := os.Rename(tmp.Name(), w.cfg.DataFile); err != nil {
		return fmt.Errorf("wallet: rename state: %w", err)
	}
	return nil
}

func (w *Wallet) Address() string   { return w.addr }
func (w *Wallet) NetworkID() string { return w.cfg.NetworkID }

// IsMainnet reports whether the wallet operates on the primary network.
func (w *Wallet) IsMainnet() bool {
	return w.cfg.NetworkID == "base" || w.cfg.NetworkID == "base-mainnet"
}

// Details renders the wallet summary used by the get_wallet_details tool.
func (w *Wallet) Details() string {
	return fmt.Sprintf("Wallet Address: %s\nNetwork ID: %s\n", w.addr, w.cfg.NetworkID)
}

// sign produces a 65-byte Ethereum signed-message signature over payload,
// hex-encoded with recovery id offset +27.
func (w *Wallet) sign(payload []byte) (string, error) {
	msg := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(payload), payload)
	digest := crypto.Keccak256([]byte(msg))
	sig, err := crypto.Sign(digest, w.key)
	if err != nil {
		return "", fmt.Errorf("wallet: sign payload: %w", err)
	}
	sig[64] += 27
	return "0x" + hex.EncodeToString(sig), nil
}
