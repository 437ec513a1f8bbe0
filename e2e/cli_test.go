package e2e_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/playerauction-go/internal/api"
	"github.com/mcoot/playerauction-go/internal/factory"
)

const adminAccount = "0xadmin"

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "auctionctl-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/auctionctl")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
	}
}

func (r *cliRunner) run(account string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--account", account,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	server   *http.Server
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// Create application
	app, err := factory.New(factory.Config{
		AdminAccount: adminAccount,
		Logger:       logger,
	})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger: logger,
		Engine: app.Engine,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		server: server,
		addr:   serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type playerResponse struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	Position  string `json:"position"`
	BasePrice string `json:"base_price"`
	Auctioned bool   `json:"auctioned"`
}

type playerListResponse struct {
	Players []playerResponse `json:"players"`
}

type auctionResponse struct {
	ID            uint64  `json:"id"`
	PlayerID      uint64  `json:"player_id"`
	HighestBid    string  `json:"highest_bid"`
	HighestBidder *string `json:"highest_bidder"`
	Ended         bool    `json:"ended"`
	Winner        *string `json:"winner"`
}

type adminResponse struct {
	Admin string `json:"admin"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("", "health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_AdminEndpoint(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("", "admin")
	require.NoError(t, err, "output: %s", output)

	var resp adminResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, adminAccount, resp.Admin)
}

func TestCLI_PlayerCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Register a player as admin
	output, err := cli.run(adminAccount, "player", "register",
		"--name", "Sachin", "--position", "Batsman", "--base-price", "1.5")
	require.NoError(t, err, "output: %s", output)

	var player playerResponse
	require.NoError(t, json.Unmarshal([]byte(output), &player))
	assert.Equal(t, uint64(1), player.ID)
	assert.Equal(t, "Sachin", player.Name)
	assert.False(t, player.Auctioned)

	// Get the player back
	output, err = cli.run("", "player", "get", "1")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &player))
	assert.Equal(t, "Sachin", player.Name)
	assert.Equal(t, "1.5", player.BasePrice)

	// List players
	output, err = cli.run("", "player", "list")
	require.NoError(t, err, "output: %s", output)

	var list playerListResponse
	require.NoError(t, json.Unmarshal([]byte(output), &list))
	require.Len(t, list.Players, 1)
	assert.Equal(t, "Sachin", list.Players[0].Name)
}

func TestCLI_FullAuctionFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Register a player and open an auction
	output, err := cli.run(adminAccount, "player", "register",
		"--name", "Dhoni", "--position", "Wicketkeeper", "--base-price", "2.0")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run(adminAccount, "auction", "create", "--player", "1", "--duration", "600")
	require.NoError(t, err, "output: %s", output)

	var auction auctionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &auction))
	assert.Equal(t, uint64(1), auction.ID)
	assert.False(t, auction.Ended)
	t.Logf("Created auction %d", auction.ID)

	// Alice bids, then Bob outbids her
	output, err = cli.run("0xalice", "auction", "bid", "1", "--amount", "2.0")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &auction))
	require.NotNil(t, auction.HighestBidder)
	assert.Equal(t, "0xalice", *auction.HighestBidder)

	output, err = cli.run("0xbob", "auction", "bid", "1", "--amount", "3.0")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &auction))
	require.NotNil(t, auction.HighestBidder)
	assert.Equal(t, "0xbob", *auction.HighestBidder)
	assert.Equal(t, "3.0", auction.HighestBid)
	t.Logf("Bob leads at %s", auction.HighestBid)

	// Admin settles early
	output, err = cli.run(adminAccount, "auction", "end", "1")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &auction))
	assert.True(t, auction.Ended)
	require.NotNil(t, auction.Winner)
	assert.Equal(t, "0xbob", *auction.Winner)

	// The player is free again
	output, err = cli.run("", "player", "get", "1")
	require.NoError(t, err, "output: %s", output)
	var player playerResponse
	require.NoError(t, json.Unmarshal([]byte(output), &player))
	assert.False(t, player.Auctioned)
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Mutating command without an account
	output, err := cli.run("", "player", "register",
		"--name", "Sachin", "--position", "Batsman")
	assert.Error(t, err)
	assert.Contains(t, output, "NOT_AUTHORIZED")

	// Non-admin registration
	output, err = cli.run("0xmallory", "player", "register",
		"--name", "Sachin", "--position", "Batsman")
	assert.Error(t, err)
	assert.Contains(t, output, "NOT_AUTHORIZED")

	// Non-existent player
	output, err = cli.run("", "player", "get", "42")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "not found")

	// Bid below the highest on a fresh auction
	_, err = cli.run(adminAccount, "player", "register",
		"--name", "Kohli", "--position", "Batsman", "--base-price", "5.0")
	require.NoError(t, err)
	_, err = cli.run(adminAccount, "auction", "create", "--player", "1", "--duration", "600")
	require.NoError(t, err)

	output, err = cli.run("0xalice", "auction", "bid", "1", "--amount", "1.0")
	assert.Error(t, err)
	assert.Contains(t, output, "BID_TOO_LOW")

	// Non-admin cannot settle before the deadline
	output, err = cli.run("0xalice", "auction", "end", "1")
	assert.Error(t, err)
	assert.Contains(t, output, "AUCTION_NOT_EXPIRED")
}
