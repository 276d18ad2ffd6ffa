package testutils

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nimeshabuddhika/mock-error-api/app"
	"github.com/nimeshabuddhika/mock-error-api/pkg"
)

// StartServer boots the mock error API in-process using app.NewApp on a free
// port. It returns the base URL and a cleanup function that should be deferred
// in tests.
func StartServer(t *testing.T) (baseURL string, cleanup func()) {
	t.Helper()

	port, err := getFreePort()
	if err != nil {
		t.Fatalf("failed to get free port: %v", err)
	}

	// Configure environment variables
	_ = os.Setenv("APP_PORT", fmt.Sprintf("%d", port))
	gin.SetMode(gin.TestMode)

	// Build app and run server
	pkg.InitLogger()
	logger := pkg.Logger
	srv, err := app.NewApp(logger)
	if err != nil {
		t.Fatalf("failed to build app: %v", err)
	}

	baseURL = fmt.Sprintf("http://127.0.0.1:%d", port)

	go func() {
		_ = srv.ListenAndServe()
	}()

	// Wait for readiness with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := waitForReady(ctx, baseURL+"/health"); err != nil {
		_ = srv.Close()
		t.Fatalf("server failed to become ready: %v", err)
	}

	cleanup = func() {
		// Graceful shutdown
		sctx, c := context.WithTimeout(context.Background(), 3*time.Second)
		defer c()
		_ = srv.Shutdown(sctx)
	}
	return baseURL, cleanup
}

func getFreePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

func waitForReady(ctx context.Context, url string) error {
	client := &http.Client{Timeout: 500 * time.Millisecond}
	for {
		if ctx.Err() != nil {
			return fmt.Errorf("timeout waiting for %s", url)
		}
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode >= 200 && resp.StatusCode < 500 { // health might be 200
				return nil
			}
		}
		time.Sleep(150 * time.Millisecond)
	}
}
